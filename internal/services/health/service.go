package health

import (
	"context"
	"time"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Service encapsulates health-related checks.
type Service struct {
	Store   string
	Repo    Pinger
	Timeout time.Duration
}

// Status is the health payload.
type Status struct {
	OK    bool   `json:"ok"`
	Store string `json:"store"`
}

// NewService constructs a new health service for the named store backend.
func NewService(store string, repo Pinger) *Service {
	return &Service{Store: store, Repo: repo, Timeout: 2 * time.Second}
}

// Status pings the store and reports the result. The error is the ping
// failure, if any.
func (s *Service) Status(ctx context.Context) (Status, error) {
	status := Status{OK: true, Store: s.Store}
	if s.Repo == nil {
		return status, nil
	}
	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}
	if err := s.Repo.Ping(ctx); err != nil {
		status.OK = false
		return status, err
	}
	return status, nil
}
