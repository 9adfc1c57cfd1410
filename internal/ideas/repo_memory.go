package ideas

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryRepo is an in-memory implementation of Repo.
type MemoryRepo struct {
	mu    sync.RWMutex
	order []primitive.ObjectID
	data  map[primitive.ObjectID]Idea
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		data: make(map[primitive.ObjectID]Idea),
	}
}

// Insert stores idea under a freshly generated ObjectID.
func (r *MemoryRepo) Insert(ctx context.Context, idea Idea) (InsertResult, error) {
	if err := ctx.Err(); err != nil {
		return InsertResult{}, err
	}
	idea = idea.normalized()
	idea.StoreID = primitive.NewObjectID()

	r.mu.Lock()
	defer r.mu.Unlock()
	r.data[idea.StoreID] = idea
	r.order = append(r.order, idea.StoreID)
	return InsertResult{Acknowledged: true, InsertedID: idea.StoreID}, nil
}

// FindByID returns the idea stored under id.
func (r *MemoryRepo) FindByID(ctx context.Context, id primitive.ObjectID) (Idea, error) {
	if err := ctx.Err(); err != nil {
		return Idea{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	idea, ok := r.data[id]
	if !ok {
		return Idea{}, ErrNotFound
	}
	return idea.normalized(), nil
}

// List returns every idea in insertion order.
func (r *MemoryRepo) List(ctx context.Context) ([]Summary, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Summary, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.data[id].summary())
	}
	return out, nil
}

func (r *MemoryRepo) Ping(ctx context.Context) error {
	return ctx.Err()
}
