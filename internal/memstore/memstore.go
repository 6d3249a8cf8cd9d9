// Package memstore provides in-memory implementations of the team,
// signal, and track store interfaces. Suitable for dev/testing.
package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/linnemanlabs/beacon/internal/signal"
	"github.com/linnemanlabs/beacon/internal/team"
	"github.com/linnemanlabs/beacon/internal/track"
)

// Store holds all entities in memory behind one lock. The lock is the
// serialization point that makes the conditional status write atomic,
// mirroring what the SQL store gets from a conditional UPDATE.
type Store struct {
	mu        sync.RWMutex
	teams     map[string]*team.Team
	usernames map[string]string // username -> team ID
	signals   map[string]*signal.Signal
	locations []*track.Location
}

// New initializes a new in-memory Store.
func New() *Store {
	return &Store{
		teams:     make(map[string]*team.Team),
		usernames: make(map[string]string),
		signals:   make(map[string]*signal.Signal),
	}
}

// Insert persists a new team, enforcing username uniqueness.
func (s *Store) Insert(_ context.Context, t *team.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.usernames[t.Username]; ok {
		return team.ErrUsernameTaken
	}
	cp := *t
	s.teams[t.ID] = &cp
	s.usernames[t.Username] = t.ID
	return nil
}

// GetByID retrieves a team by its ID. Returns a copy.
func (s *Store) GetByID(_ context.Context, id string) (*team.Team, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.teams[id]
	if !ok {
		return nil, false, nil
	}
	cp := *t
	return &cp, true, nil
}

// GetByUsername retrieves a team by username. Returns a copy.
func (s *Store) GetByUsername(_ context.Context, username string) (*team.Team, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	id, ok := s.usernames[username]
	if !ok {
		return nil, false, nil
	}
	cp := *s.teams[id]
	return &cp, true, nil
}

// Signals returns a view implementing signal.Store.
func (s *Store) Signals() signal.Store { return (*signalStore)(s) }

// Teams returns a view implementing team.Store.
func (s *Store) Teams() team.Store { return s }

// Locations returns a view implementing track.Store.
func (s *Store) Locations() track.Store { return (*locationStore)(s) }

// signalStore adapts Store to signal.Store; the method set would
// otherwise collide with the team methods on Insert/Get names.
type signalStore Store

func (s *signalStore) Insert(_ context.Context, sig *signal.Signal) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := cloneSignal(sig)
	s.signals[sig.ID] = cp
	return nil
}

func (s *signalStore) Get(_ context.Context, id string) (*signal.Signal, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sig, ok := s.signals[id]
	if !ok {
		return nil, false, nil
	}
	return cloneSignal(sig), true, nil
}

func (s *signalStore) List(_ context.Context, f signal.Filter, limit int) ([]*signal.Signal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*signal.Signal, 0, len(s.signals))
	for _, sig := range s.signals {
		if !matches(sig, f) {
			continue
		}
		out = append(out, cloneSignal(sig))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// UpdateStatus applies the conditional status/claim write under the
// store lock. Classification fields are never written.
func (s *signalStore) UpdateStatus(_ context.Context, id string, u signal.StatusUpdate) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sig, ok := s.signals[id]
	if !ok {
		return false, nil
	}
	if sig.Status != u.From {
		return false, nil
	}
	if sig.AssignedTeamID != "" && sig.AssignedTeamID != u.TeamID {
		return false, nil
	}
	sig.Status = u.To
	sig.AssignedTeamID = u.TeamID
	if u.Notes != "" {
		sig.RescueNotes = u.Notes
	}
	sig.UpdatedAt = u.Now
	return true, nil
}

func (s *signalStore) Count(_ context.Context, f signal.Filter) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var n int64
	for _, sig := range s.signals {
		if matches(sig, f) {
			n++
		}
	}
	return n, nil
}

// locationStore adapts Store to track.Store.
type locationStore Store

func (s *locationStore) Insert(_ context.Context, l *track.Location) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *l
	s.locations = append(s.locations, &cp)
	return nil
}

func (s *locationStore) ListBySignal(_ context.Context, signalID string, limit int) ([]*track.Location, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*track.Location
	for _, l := range s.locations {
		if l.SignalID != signalID {
			continue
		}
		cp := *l
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func matches(sig *signal.Signal, f signal.Filter) bool {
	if f.Status != "" && sig.Status != f.Status {
		return false
	}
	if f.Danger != "" && sig.DangerLevel != f.Danger {
		return false
	}
	return true
}

func cloneSignal(sig *signal.Signal) *signal.Signal {
	cp := *sig
	if sig.Images != nil {
		cp.Images = append(cp.Images[:0:0], sig.Images...)
	}
	return &cp
}
