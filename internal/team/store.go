package team

import "context"

// Store is the persistence interface for rescue teams.
type Store interface {
	// Insert persists a new team. Returns ErrUsernameTaken if the
	// username is already registered.
	Insert(ctx context.Context, t *Team) error
	GetByID(ctx context.Context, id string) (*Team, bool, error)
	GetByUsername(ctx context.Context, username string) (*Team, bool, error)
}
