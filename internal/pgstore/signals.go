package pgstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/linnemanlabs/beacon/internal/classify"
	"github.com/linnemanlabs/beacon/internal/signal"
)

// signalStore implements signal.Store.
type signalStore Store

const signalColumns = `id, latitude, longitude, description, images, danger_level,
	ai_assessment, status, assigned_team_id, rescue_notes, created_at, updated_at`

func (s *signalStore) Insert(ctx context.Context, sig *signal.Signal) error {
	ctx, span := startSpan(ctx, "pgstore.Signals.Insert", "INSERT")
	defer span.End()

	images, err := json.Marshal(imagesOrEmpty(sig.Images))
	if err != nil {
		return fmt.Errorf("marshal images: %w", err)
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO sos_signals (`+signalColumns+`)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`,
		sig.ID, sig.Latitude, sig.Longitude, sig.Description, images,
		string(sig.DangerLevel), sig.AIAssessment, string(sig.Status),
		nullable(sig.AssignedTeamID), sig.RescueNotes, sig.CreatedAt, sig.UpdatedAt,
	)
	if err != nil {
		spanErr(span, err)
		return fmt.Errorf("insert signal: %w", err)
	}
	return nil
}

func (s *signalStore) Get(ctx context.Context, id string) (*signal.Signal, bool, error) {
	ctx, span := startSpan(ctx, "pgstore.Signals.Get", "SELECT")
	defer span.End()

	query := `SELECT ` + signalColumns + ` FROM sos_signals WHERE id = $1`
	sig, err := scanSignal(s.pool.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		spanErr(span, err)
		return nil, false, err
	}
	return sig, true, nil
}

func (s *signalStore) List(ctx context.Context, f signal.Filter, limit int) ([]*signal.Signal, error) {
	ctx, span := startSpan(ctx, "pgstore.Signals.List", "SELECT")
	defer span.End()

	where, args := filterClause(f)
	query := `SELECT ` + signalColumns + ` FROM sos_signals` + where +
		` ORDER BY created_at DESC LIMIT $` + strconv.Itoa(len(args)+1)
	args = append(args, limit)

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		spanErr(span, err)
		return nil, fmt.Errorf("list signals: %w", err)
	}
	defer rows.Close()

	var out []*signal.Signal
	for rows.Next() {
		sig, err := scanSignal(rows)
		if err != nil {
			spanErr(span, err)
			return nil, err
		}
		out = append(out, sig)
	}
	if err := rows.Err(); err != nil {
		spanErr(span, err)
		return nil, fmt.Errorf("list signals: %w", err)
	}
	return out, nil
}

// UpdateStatus performs the conditional claim write: a single UPDATE
// whose WHERE clause carries the expected status and assignment, so
// concurrent claimers cannot both win.
func (s *signalStore) UpdateStatus(ctx context.Context, id string, u signal.StatusUpdate) (bool, error) {
	ctx, span := startSpan(ctx, "pgstore.Signals.UpdateStatus", "UPDATE")
	defer span.End()

	tag, err := s.pool.Exec(ctx,
		`UPDATE sos_signals
		 SET status = $2,
		     assigned_team_id = $3,
		     rescue_notes = CASE WHEN $4 <> '' THEN $4 ELSE rescue_notes END,
		     updated_at = $5
		 WHERE id = $1
		   AND status = $6
		   AND (assigned_team_id IS NULL OR assigned_team_id = $3)`,
		id, string(u.To), u.TeamID, u.Notes, u.Now, string(u.From),
	)
	if err != nil {
		spanErr(span, err)
		return false, fmt.Errorf("update signal status: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

func (s *signalStore) Count(ctx context.Context, f signal.Filter) (int64, error) {
	ctx, span := startSpan(ctx, "pgstore.Signals.Count", "SELECT")
	defer span.End()

	where, args := filterClause(f)
	var n int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM sos_signals`+where, args...).Scan(&n); err != nil {
		spanErr(span, err)
		return 0, fmt.Errorf("count signals: %w", err)
	}
	return n, nil
}

// filterClause renders a Filter to a WHERE clause with positional args.
func filterClause(f signal.Filter) (string, []any) {
	var conds []string
	var args []any
	if f.Status != "" {
		args = append(args, string(f.Status))
		conds = append(conds, "status = $"+strconv.Itoa(len(args)))
	}
	if f.Danger != "" {
		args = append(args, string(f.Danger))
		conds = append(conds, "danger_level = $"+strconv.Itoa(len(args)))
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func scanSignal(row pgx.Row) (*signal.Signal, error) {
	var (
		sig      signal.Signal
		images   []byte
		assigned sql.NullString
	)
	err := row.Scan(
		&sig.ID, &sig.Latitude, &sig.Longitude, &sig.Description, &images,
		&sig.DangerLevel, &sig.AIAssessment, &sig.Status,
		&assigned, &sig.RescueNotes, &sig.CreatedAt, &sig.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan signal: %w", err)
	}
	if len(images) > 0 {
		if err := json.Unmarshal(images, &sig.Images); err != nil {
			return nil, fmt.Errorf("unmarshal images: %w", err)
		}
	}
	if len(sig.Images) == 0 {
		sig.Images = nil
	}
	sig.AssignedTeamID = assigned.String
	return &sig, nil
}

func imagesOrEmpty(images []classify.Image) []classify.Image {
	if images == nil {
		return []classify.Image{}
	}
	return images
}

// nullable maps the unassigned sentinel to SQL NULL.
func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
