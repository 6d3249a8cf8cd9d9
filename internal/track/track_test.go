package track

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/linnemanlabs/go-core/log"

	"github.com/linnemanlabs/beacon/internal/team"
)

// mockStore implements Store for testing.
type mockStore struct {
	mu   sync.Mutex
	rows []*Location
	err  error
}

func (m *mockStore) Insert(_ context.Context, l *Location) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	cp := *l
	m.rows = append(m.rows, &cp)
	return nil
}

func (m *mockStore) ListBySignal(_ context.Context, signalID string, limit int) ([]*Location, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	var out []*Location
	for _, l := range m.rows {
		if l.SignalID == signalID {
			cp := *l
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.After(out[j].Timestamp) })
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func TestRecord(t *testing.T) {
	t.Parallel()

	svc := NewService(&mockStore{}, log.Nop())
	caller := &team.Team{ID: "team-1"}

	l, err := svc.Record(context.Background(), "sig-1", 10.5, 106.6, caller)
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if l.ID == "" {
		t.Error("expected generated ID")
	}
	if l.SignalID != "sig-1" {
		t.Errorf("SignalID = %q, want %q", l.SignalID, "sig-1")
	}
	if l.TeamID != "team-1" {
		t.Errorf("TeamID = %q, want caller's team", l.TeamID)
	}
	if l.Timestamp.IsZero() {
		t.Error("Timestamp not set")
	}
}

func TestRecord_Unauthenticated(t *testing.T) {
	t.Parallel()

	svc := NewService(&mockStore{}, log.Nop())

	_, err := svc.Record(context.Background(), "sig-1", 0, 0, nil)
	if !errors.Is(err, team.ErrUnauthenticated) {
		t.Errorf("err = %v, want team.ErrUnauthenticated", err)
	}
}

// Orphaned rows are accepted: the signal id is not validated here.
func TestRecord_UnknownSignalAccepted(t *testing.T) {
	t.Parallel()

	svc := NewService(&mockStore{}, log.Nop())

	_, err := svc.Record(context.Background(), "no-such-signal", 1, 2, &team.Team{ID: "t"})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
}

func TestList_LimitAndOrder(t *testing.T) {
	t.Parallel()

	store := &mockStore{}
	svc := NewService(store, log.Nop())
	ctx := context.Background()
	caller := &team.Team{ID: "team-1"}

	base := time.Now().UTC()
	for i := 0; i < 15; i++ {
		l := &Location{
			ID:        string(rune('a' + i)),
			SignalID:  "sig-1",
			TeamID:    caller.ID,
			Timestamp: base.Add(time.Duration(i) * time.Second),
		}
		if err := store.Insert(ctx, l); err != nil {
			t.Fatalf("Insert: %v", err)
		}
	}
	// one sample for another signal, must not leak in
	if err := store.Insert(ctx, &Location{ID: "other", SignalID: "sig-2", Timestamp: base}); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	got, err := svc.List(ctx, "sig-1")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != DefaultHistoryLimit {
		t.Fatalf("len = %d, want %d", len(got), DefaultHistoryLimit)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Timestamp.After(got[i-1].Timestamp) {
			t.Fatal("expected strictly descending timestamps")
		}
	}
	// newest sample comes first
	if got[0].Timestamp != base.Add(14*time.Second) {
		t.Errorf("first sample = %v, want the newest", got[0].Timestamp)
	}
	for _, l := range got {
		if l.SignalID != "sig-1" {
			t.Errorf("leaked sample for signal %q", l.SignalID)
		}
	}
}

func TestList_Empty(t *testing.T) {
	t.Parallel()

	svc := NewService(&mockStore{}, log.Nop())

	got, err := svc.List(context.Background(), "sig-none")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}
