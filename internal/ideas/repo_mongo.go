package ideas

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// CollectionFunc resolves the collection backing a MongoRepo. It is called
// per operation so the connection is only established on first use.
type CollectionFunc func(ctx context.Context) (*mongo.Collection, error)

// MongoRepo stores ideas as documents in a MongoDB collection.
type MongoRepo struct {
	Collection CollectionFunc
}

// StaticCollection wraps an already resolved collection.
func StaticCollection(coll *mongo.Collection) CollectionFunc {
	return func(context.Context) (*mongo.Collection, error) {
		return coll, nil
	}
}

func (r *MongoRepo) Insert(ctx context.Context, idea Idea) (InsertResult, error) {
	coll, err := r.Collection(ctx)
	if err != nil {
		return InsertResult{}, err
	}
	idea = idea.normalized()
	idea.StoreID = primitive.NilObjectID

	res, err := coll.InsertOne(ctx, idea)
	if err != nil {
		return InsertResult{}, fmt.Errorf("insert idea: %w", err)
	}
	id, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return InsertResult{}, fmt.Errorf("insert idea: unexpected _id type %T", res.InsertedID)
	}
	return InsertResult{Acknowledged: true, InsertedID: id}, nil
}

func (r *MongoRepo) FindByID(ctx context.Context, id primitive.ObjectID) (Idea, error) {
	coll, err := r.Collection(ctx)
	if err != nil {
		return Idea{}, err
	}
	var idea Idea
	if err := coll.FindOne(ctx, bson.D{{Key: "_id", Value: id}}).Decode(&idea); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return Idea{}, ErrNotFound
		}
		return Idea{}, fmt.Errorf("find idea: %w", err)
	}
	return idea.normalized(), nil
}

func (r *MongoRepo) List(ctx context.Context) ([]Summary, error) {
	coll, err := r.Collection(ctx)
	if err != nil {
		return nil, err
	}

	projection := bson.D{}
	for _, field := range summaryFields {
		projection = append(projection, bson.E{Key: field, Value: 1})
	}
	cur, err := coll.Find(ctx, bson.D{}, options.Find().SetProjection(projection))
	if err != nil {
		return nil, fmt.Errorf("find ideas: %w", err)
	}
	defer cur.Close(ctx)

	out := []Summary{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, fmt.Errorf("read ideas: %w", err)
	}
	if out == nil {
		out = []Summary{}
	}
	return out, nil
}

func (r *MongoRepo) Ping(ctx context.Context) error {
	coll, err := r.Collection(ctx)
	if err != nil {
		return err
	}
	return coll.Database().Client().Ping(ctx, readpref.Primary())
}
