// Package pgstore provides PostgreSQL implementations of the team,
// signal, and track store interfaces on a shared pgx pool.
package pgstore

import (
	"context"
	_ "embed"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/linnemanlabs/beacon/internal/signal"
	"github.com/linnemanlabs/beacon/internal/team"
	"github.com/linnemanlabs/beacon/internal/track"
)

var tracer = otel.Tracer("github.com/linnemanlabs/beacon/internal/pgstore")

//go:embed schema.sql
var schema string

// uniqueViolation is the Postgres error code for a unique constraint hit.
const uniqueViolation = "23505"

// Store persists all Beacon entities in PostgreSQL.
type Store struct {
	pool *pgxpool.Pool
}

// New applies the schema and returns a ready Store. The pool stays owned
// by the caller.
func New(ctx context.Context, pool *pgxpool.Pool) (*Store, error) {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{pool: pool}, nil
}

// Teams returns a view implementing team.Store.
func (s *Store) Teams() team.Store { return (*teamStore)(s) }

// Signals returns a view implementing signal.Store.
func (s *Store) Signals() signal.Store { return (*signalStore)(s) }

// Locations returns a view implementing track.Store.
func (s *Store) Locations() track.Store { return (*locationStore)(s) }

func startSpan(ctx context.Context, name, op string) (context.Context, trace.Span) {
	return tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("db.system", "postgresql"),
		attribute.String("db.operation.name", op),
	))
}

func spanErr(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// teamStore implements team.Store.
type teamStore Store

func (s *teamStore) Insert(ctx context.Context, t *team.Team) error {
	ctx, span := startSpan(ctx, "pgstore.Teams.Insert", "INSERT")
	defer span.End()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO rescue_teams (id, username, team_name, password_hash, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		t.ID, t.Username, t.TeamName, t.PasswordHash, t.CreatedAt,
	)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return team.ErrUsernameTaken
		}
		spanErr(span, err)
		return fmt.Errorf("insert team: %w", err)
	}
	return nil
}

const teamColumns = `id, username, team_name, password_hash, created_at`

func (s *teamStore) GetByID(ctx context.Context, id string) (*team.Team, bool, error) {
	ctx, span := startSpan(ctx, "pgstore.Teams.GetByID", "SELECT")
	defer span.End()

	query := `SELECT ` + teamColumns + ` FROM rescue_teams WHERE id = $1`
	return s.scanTeam(span, s.pool.QueryRow(ctx, query, id))
}

func (s *teamStore) GetByUsername(ctx context.Context, username string) (*team.Team, bool, error) {
	ctx, span := startSpan(ctx, "pgstore.Teams.GetByUsername", "SELECT")
	defer span.End()

	query := `SELECT ` + teamColumns + ` FROM rescue_teams WHERE username = $1`
	return s.scanTeam(span, s.pool.QueryRow(ctx, query, username))
}

func (s *teamStore) scanTeam(span trace.Span, row pgx.Row) (*team.Team, bool, error) {
	var t team.Team
	err := row.Scan(&t.ID, &t.Username, &t.TeamName, &t.PasswordHash, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		spanErr(span, err)
		return nil, false, fmt.Errorf("scan team: %w", err)
	}
	return &t, true, nil
}
