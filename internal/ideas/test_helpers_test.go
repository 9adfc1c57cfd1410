package ideas

import (
	"context"
	"errors"
	"sync/atomic"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var errStoreDown = errors.New("store unreachable")

// countingRepo wraps a Repo and counts calls, optionally failing them.
type countingRepo struct {
	Repo
	calls atomic.Int32
	fail  error
}

func (r *countingRepo) Insert(ctx context.Context, idea Idea) (InsertResult, error) {
	r.calls.Add(1)
	if r.fail != nil {
		return InsertResult{}, r.fail
	}
	return r.Repo.Insert(ctx, idea)
}

func (r *countingRepo) FindByID(ctx context.Context, id primitive.ObjectID) (Idea, error) {
	r.calls.Add(1)
	if r.fail != nil {
		return Idea{}, r.fail
	}
	return r.Repo.FindByID(ctx, id)
}

func (r *countingRepo) List(ctx context.Context) ([]Summary, error) {
	r.calls.Add(1)
	if r.fail != nil {
		return nil, r.fail
	}
	return r.Repo.List(ctx)
}
