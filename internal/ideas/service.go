package ideas

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"verified-ideas/internal/shared/metrics"
)

// Service contains business logic for idea submissions.
type Service struct {
	Repo Repo
	// Now returns the insert time. Defaults to time.Now.
	Now func() time.Time
}

// NewService constructs a Service backed by repo.
func NewService(repo Repo) *Service {
	return &Service{Repo: repo, Now: time.Now}
}

// Create validates a raw JSON submission and stores it with a server
// assigned createdAt. Nothing is stored when validation fails.
func (s *Service) Create(ctx context.Context, body []byte) (InsertResult, error) {
	payload, err := DecodePayload(body)
	if err != nil {
		if errors.Is(err, ErrMissingFields) {
			metrics.IncIdeasRejected()
		}
		return InsertResult{}, err
	}
	if err := Validate(payload); err != nil {
		metrics.IncIdeasRejected()
		return InsertResult{}, err
	}
	return s.Insert(ctx, fromPayload(payload))
}

// Insert stores an already validated idea. Any client supplied store id or
// createdAt is replaced.
func (s *Service) Insert(ctx context.Context, idea Idea) (InsertResult, error) {
	if s == nil || s.Repo == nil {
		return InsertResult{}, errors.New("ideas service not configured")
	}
	idea.StoreID = primitive.NilObjectID
	idea.CreatedAt = s.now().UTC().Truncate(time.Millisecond)

	start := time.Now()
	res, err := s.Repo.Insert(ctx, idea)
	metrics.ObserveStoreSince(start)
	if err != nil {
		metrics.IncStoreErrors()
		return InsertResult{}, err
	}
	metrics.IncIdeasCreated()
	return res, nil
}

// Get returns the idea whose store id is the hex string rawID.
func (s *Service) Get(ctx context.Context, rawID string) (Idea, error) {
	if s == nil || s.Repo == nil {
		return Idea{}, errors.New("ideas service not configured")
	}
	rawID = strings.TrimSpace(rawID)
	if rawID == "" {
		return Idea{}, ErrMissingID
	}
	id, err := primitive.ObjectIDFromHex(rawID)
	if err != nil {
		return Idea{}, fmt.Errorf("%w: %v", ErrInvalidID, err)
	}

	start := time.Now()
	idea, err := s.Repo.FindByID(ctx, id)
	metrics.ObserveStoreSince(start)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			metrics.IncIdeasNotFound()
		} else {
			metrics.IncStoreErrors()
		}
		return Idea{}, err
	}
	return idea, nil
}

// List returns the summary of every stored idea.
func (s *Service) List(ctx context.Context) ([]Summary, error) {
	if s == nil || s.Repo == nil {
		return nil, errors.New("ideas service not configured")
	}
	start := time.Now()
	out, err := s.Repo.List(ctx)
	metrics.ObserveStoreSince(start)
	if err != nil {
		metrics.IncStoreErrors()
		return nil, err
	}
	if out == nil {
		out = []Summary{}
	}
	return out, nil
}

func (s *Service) now() time.Time {
	if s.Now == nil {
		return time.Now()
	}
	return s.Now()
}
