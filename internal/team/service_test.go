package team

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/linnemanlabs/go-core/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/linnemanlabs/beacon/internal/auth"
)

// mockStore implements Store for testing.
type mockStore struct {
	mu     sync.Mutex
	byID   map[string]*Team
	byName map[string]*Team
	err    error
}

func newMockStore() *mockStore {
	return &mockStore{
		byID:   make(map[string]*Team),
		byName: make(map[string]*Team),
	}
}

func (m *mockStore) Insert(_ context.Context, t *Team) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.byName[t.Username]; ok {
		return ErrUsernameTaken
	}
	cp := *t
	m.byID[t.ID] = &cp
	m.byName[t.Username] = &cp
	return nil
}

func (m *mockStore) GetByID(_ context.Context, id string) (*Team, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, false, m.err
	}
	t, ok := m.byID[id]
	if !ok {
		return nil, false, nil
	}
	cp := *t
	return &cp, true, nil
}

func (m *mockStore) GetByUsername(_ context.Context, username string) (*Team, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, false, m.err
	}
	t, ok := m.byName[username]
	if !ok {
		return nil, false, nil
	}
	cp := *t
	return &cp, true, nil
}

func newTestService(store Store) *Service {
	svc := NewService(store, auth.New("test-secret", time.Hour), log.Nop())
	svc.cost = bcrypt.MinCost
	return svc
}

func TestRegister(t *testing.T) {
	t.Parallel()

	svc := newTestService(newMockStore())

	tm, err := svc.Register(context.Background(), "alice", "pw1", "Alpha Rescue")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if tm.ID == "" {
		t.Error("expected a generated team ID")
	}
	if tm.Username != "alice" {
		t.Errorf("Username = %q, want %q", tm.Username, "alice")
	}
	if tm.TeamName != "Alpha Rescue" {
		t.Errorf("TeamName = %q, want %q", tm.TeamName, "Alpha Rescue")
	}
	if tm.PasswordHash == "" || tm.PasswordHash == "pw1" {
		t.Error("password must be stored as a hash")
	}
	if tm.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
}

func TestRegister_DuplicateUsername(t *testing.T) {
	t.Parallel()

	svc := newTestService(newMockStore())
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "pw1", "Alpha"); err != nil {
		t.Fatalf("first Register: %v", err)
	}

	_, err := svc.Register(ctx, "alice", "pw2", "Bravo")
	if !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("err = %v, want ErrUsernameTaken", err)
	}
}

func TestLogin(t *testing.T) {
	t.Parallel()

	svc := newTestService(newMockStore())
	ctx := context.Background()

	reg, err := svc.Register(ctx, "alice", "pw1", "Alpha")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	tm, token, err := svc.Login(ctx, "alice", "pw1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if tm.ID != reg.ID {
		t.Errorf("ID = %q, want %q", tm.ID, reg.ID)
	}
	if token == "" {
		t.Error("expected a token")
	}
}

func TestLogin_BadCredentials(t *testing.T) {
	t.Parallel()

	svc := newTestService(newMockStore())
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "pw1", "Alpha"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "alice", "nope"},
		{"unknown user", "bob", "pw1"},
		{"empty password", "alice", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, _, err := svc.Login(ctx, tt.username, tt.password)
			if !errors.Is(err, ErrInvalidCredentials) {
				t.Errorf("err = %v, want ErrInvalidCredentials", err)
			}
		})
	}
}

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	svc := newTestService(newMockStore())
	ctx := context.Background()

	reg, err := svc.Register(ctx, "alice", "pw1", "Alpha")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, token, err := svc.Login(ctx, "alice", "pw1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	tm, err := svc.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("Authenticate: %v", err)
	}
	if tm.ID != reg.ID {
		t.Errorf("ID = %q, want %q", tm.ID, reg.ID)
	}
}

func TestAuthenticate_BadToken(t *testing.T) {
	t.Parallel()

	svc := newTestService(newMockStore())

	_, err := svc.Authenticate(context.Background(), "not-a-token")
	if !errors.Is(err, auth.ErrTokenInvalid) {
		t.Errorf("err = %v, want auth.ErrTokenInvalid", err)
	}
}

func TestAuthenticate_TeamGone(t *testing.T) {
	t.Parallel()

	store := newMockStore()
	svc := newTestService(store)
	ctx := context.Background()

	if _, err := svc.Register(ctx, "alice", "pw1", "Alpha"); err != nil {
		t.Fatalf("Register: %v", err)
	}
	_, token, err := svc.Login(ctx, "alice", "pw1")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	// Token verifies, but the team no longer resolves in the store.
	store.mu.Lock()
	store.byID = make(map[string]*Team)
	store.mu.Unlock()

	_, err = svc.Authenticate(ctx, token)
	if !errors.Is(err, ErrUnauthenticated) {
		t.Errorf("err = %v, want ErrUnauthenticated", err)
	}
}

func TestRegister_StoreError(t *testing.T) {
	t.Parallel()

	store := newMockStore()
	store.err = errors.New("db down")
	svc := newTestService(store)

	_, err := svc.Register(context.Background(), "alice", "pw1", "Alpha")
	if err == nil {
		t.Fatal("expected error when store is down")
	}
	if errors.Is(err, ErrUsernameTaken) {
		t.Error("store failure must not be reported as a username conflict")
	}
}
