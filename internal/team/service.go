package team

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/linnemanlabs/go-core/log"
	"github.com/oklog/ulid/v2"
	"golang.org/x/crypto/bcrypt"

	"github.com/linnemanlabs/beacon/internal/auth"
)

var (
	// ErrUsernameTaken means registration collided with an existing username.
	ErrUsernameTaken = errors.New("username already taken")

	// ErrInvalidCredentials means login failed; the caller is not told
	// whether the username or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid credentials")

	// ErrUnauthenticated means a token verified but its team no longer
	// resolves, or no usable identity was presented.
	ErrUnauthenticated = errors.New("unauthenticated")
)

// Service is the business boundary for team identity operations.
type Service struct {
	store  Store
	tokens *auth.Tokens
	logger log.Logger

	// bcrypt cost, lowered in tests.
	cost int
}

// NewService creates a new team service.
func NewService(store Store, tokens *auth.Tokens, logger log.Logger) *Service {
	if logger == nil {
		logger = log.Nop()
	}
	return &Service{
		store:  store,
		tokens: tokens,
		logger: logger,
		cost:   bcrypt.DefaultCost,
	}
}

// Register creates a new team. The password is stored only as a bcrypt hash.
func (s *Service) Register(ctx context.Context, username, password, teamName string) (*Team, error) {
	if _, ok, err := s.store.GetByUsername(ctx, username); err != nil {
		return nil, fmt.Errorf("lookup username: %w", err)
	} else if ok {
		return nil, ErrUsernameTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	t := &Team{
		ID:           ulid.Make().String(),
		Username:     username,
		TeamName:     teamName,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}

	// The store enforces username uniqueness as well; the lookup above
	// only gives a friendlier path for the common race-free case.
	if err := s.store.Insert(ctx, t); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "team registered", "team_id", t.ID, "username", t.Username)
	return t, nil
}

// Login verifies credentials and issues an access token.
func (s *Service) Login(ctx context.Context, username, password string) (*Team, string, error) {
	t, ok, err := s.store.GetByUsername(ctx, username)
	if err != nil {
		return nil, "", fmt.Errorf("lookup username: %w", err)
	}
	if !ok {
		return nil, "", ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(t.PasswordHash), []byte(password)); err != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(t.ID, t.Username)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	s.logger.Info(ctx, "team logged in", "team_id", t.ID, "username", t.Username)
	return t, token, nil
}

// Authenticate resolves a bearer token to a registered team.
func (s *Service) Authenticate(ctx context.Context, token string) (*Team, error) {
	claims, err := s.tokens.Verify(token)
	if err != nil {
		return nil, err
	}

	t, ok, err := s.store.GetByID(ctx, claims.TeamID)
	if err != nil {
		return nil, fmt.Errorf("lookup team: %w", err)
	}
	if !ok {
		return nil, ErrUnauthenticated
	}
	return t, nil
}
