package ideas

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Idea is a stored verified idea submission. StoreID and CreatedAt are
// assigned on insert; every other field holds the submitted JSON value
// unchanged, so its type is whatever the client sent.
type Idea struct {
	StoreID             primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	ID                  any                `json:"id" bson:"id"`
	Address             any                `json:"address" bson:"address"`
	Timestamp           any                `json:"timestamp" bson:"timestamp"`
	IdeaOwner           any                `json:"ideaOwner" bson:"ideaOwner"`
	ContactEmail        any                `json:"contactEmail" bson:"contactEmail"`
	IdeaName            any                `json:"ideaName" bson:"ideaName"`
	IdeaDescription     any                `json:"ideaDescription" bson:"ideaDescription"`
	Category            any                `json:"category" bson:"category"`
	ProofOfConcept      any                `json:"proofOfConcept" bson:"proofOfConcept"`
	SupportingDocuments []any              `json:"supportingDocuments" bson:"supportingDocuments"`
	ExpectedOutcome     any                `json:"expectedOutcome" bson:"expectedOutcome"`
	CurrentStage        any                `json:"currentStage" bson:"currentStage"`
	Contributors        any                `json:"contributors" bson:"contributors"`
	CreatedAt           time.Time          `json:"createdAt" bson:"createdAt"`
}

// Summary is the list view of an idea.
type Summary struct {
	StoreID         primitive.ObjectID `json:"_id" bson:"_id"`
	IdeaOwner       any                `json:"ideaOwner" bson:"ideaOwner"`
	IdeaName        any                `json:"ideaName" bson:"ideaName"`
	IdeaDescription any                `json:"ideaDescription" bson:"ideaDescription"`
	Timestamp       any                `json:"timestamp" bson:"timestamp"`
	Category        any                `json:"category" bson:"category"`
	CurrentStage    any                `json:"currentStage" bson:"currentStage"`
}

// InsertResult describes a completed insert.
type InsertResult struct {
	Acknowledged bool               `json:"acknowledged"`
	InsertedID   primitive.ObjectID `json:"insertedId"`
}

// summaryFields is the projection applied by List, in response order.
var summaryFields = []string{"ideaOwner", "ideaName", "ideaDescription", "timestamp", "category", "currentStage"}

func (i Idea) summary() Summary {
	return Summary{
		StoreID:         i.StoreID,
		IdeaOwner:       i.IdeaOwner,
		IdeaName:        i.IdeaName,
		IdeaDescription: i.IdeaDescription,
		Timestamp:       i.Timestamp,
		Category:        i.Category,
		CurrentStage:    i.CurrentStage,
	}
}

// normalized returns a deep copy safe to hand out. The documents slice is
// never nil and no nested value shares storage with the receiver.
func (i Idea) normalized() Idea {
	docs := make([]any, len(i.SupportingDocuments))
	for n, doc := range i.SupportingDocuments {
		docs[n] = cloneValue(doc)
	}
	i.SupportingDocuments = docs
	i.Contributors = cloneValue(i.Contributors)
	return i
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = cloneValue(item)
		}
		return out
	case []any:
		out := make([]any, len(val))
		for n, item := range val {
			out[n] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}
