package signal

import (
	"context"
	"time"
)

// StatusUpdate carries one conditional status/claim write.
//
// The write must be atomic and conditional: it only applies if the
// signal's current status equals From and its assignment is either empty
// or already TeamID. Applied=false with a nil error means the condition
// failed, i.e. a concurrent writer got there first.
type StatusUpdate struct {
	From   Status
	To     Status
	TeamID string
	Notes  string // empty = leave existing notes untouched
	Now    time.Time
}

// Store is the persistence interface for SOS signals.
type Store interface {
	Insert(ctx context.Context, s *Signal) error
	Get(ctx context.Context, id string) (*Signal, bool, error)

	// List returns signals matching the filter, newest first, at most
	// limit rows.
	List(ctx context.Context, f Filter, limit int) ([]*Signal, error)

	// UpdateStatus applies a conditional status/claim write. It must
	// never touch danger_level or ai_assessment.
	UpdateStatus(ctx context.Context, id string, u StatusUpdate) (applied bool, err error)

	Count(ctx context.Context, f Filter) (int64, error)
}
