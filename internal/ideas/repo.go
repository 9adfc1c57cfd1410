package ideas

import (
	"context"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Repo defines persistence operations for ideas. Insert assigns the store
// id; stored ideas are never modified afterwards.
type Repo interface {
	Insert(ctx context.Context, idea Idea) (InsertResult, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (Idea, error)
	List(ctx context.Context) ([]Summary, error)
	Ping(ctx context.Context) error
}
