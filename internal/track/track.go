// Package track records a responding team's successive position reports
// tied to a signal. Rows are append-only; retrieval returns the most
// recent samples first.
package track

import (
	"context"
	"fmt"
	"time"

	"github.com/linnemanlabs/go-core/log"
	"github.com/oklog/ulid/v2"

	"github.com/linnemanlabs/beacon/internal/team"
)

// DefaultHistoryLimit caps how much position history a read returns.
const DefaultHistoryLimit = 10

// Location is one position sample for a team responding to a signal.
// Immutable once created.
type Location struct {
	ID        string    `json:"id"`
	SignalID  string    `json:"signal_id"`
	TeamID    string    `json:"team_id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	Timestamp time.Time `json:"timestamp"`
}

// Store is the persistence interface for location samples.
type Store interface {
	Insert(ctx context.Context, l *Location) error

	// ListBySignal returns up to limit samples for the signal, most
	// recent first.
	ListBySignal(ctx context.Context, signalID string, limit int) ([]*Location, error)
}

// Service is the business boundary for location tracking.
type Service struct {
	store  Store
	logger log.Logger
}

// NewService creates a new location tracking service.
func NewService(store Store, logger log.Logger) *Service {
	if logger == nil {
		logger = log.Nop()
	}
	return &Service{store: store, logger: logger}
}

// Record appends a position sample stamped with now and the caller's
// team id. The signal id is not checked against the signal store;
// callers that need referential integrity must look the signal up first.
func (s *Service) Record(ctx context.Context, signalID string, lat, lon float64, caller *team.Team) (*Location, error) {
	if caller == nil {
		return nil, team.ErrUnauthenticated
	}

	l := &Location{
		ID:        ulid.Make().String(),
		SignalID:  signalID,
		TeamID:    caller.ID,
		Latitude:  lat,
		Longitude: lon,
		Timestamp: time.Now().UTC(),
	}

	if err := s.store.Insert(ctx, l); err != nil {
		return nil, fmt.Errorf("insert location: %w", err)
	}

	s.logger.Info(ctx, "location recorded",
		"signal_id", signalID,
		"team_id", caller.ID,
	)
	return l, nil
}

// List returns the signal's recent position history, newest first,
// capped at DefaultHistoryLimit. Reads are public.
func (s *Service) List(ctx context.Context, signalID string) ([]*Location, error) {
	return s.store.ListBySignal(ctx, signalID, DefaultHistoryLimit)
}
