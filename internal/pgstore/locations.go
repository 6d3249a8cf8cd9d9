package pgstore

import (
	"context"
	"fmt"

	"github.com/linnemanlabs/beacon/internal/track"
)

// locationStore implements track.Store.
type locationStore Store

func (s *locationStore) Insert(ctx context.Context, l *track.Location) error {
	ctx, span := startSpan(ctx, "pgstore.Locations.Insert", "INSERT")
	defer span.End()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO rescue_locations (id, signal_id, team_id, latitude, longitude, ts)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		l.ID, l.SignalID, l.TeamID, l.Latitude, l.Longitude, l.Timestamp,
	)
	if err != nil {
		spanErr(span, err)
		return fmt.Errorf("insert location: %w", err)
	}
	return nil
}

func (s *locationStore) ListBySignal(ctx context.Context, signalID string, limit int) ([]*track.Location, error) {
	ctx, span := startSpan(ctx, "pgstore.Locations.ListBySignal", "SELECT")
	defer span.End()

	rows, err := s.pool.Query(ctx,
		`SELECT id, signal_id, team_id, latitude, longitude, ts
		 FROM rescue_locations
		 WHERE signal_id = $1
		 ORDER BY ts DESC
		 LIMIT $2`,
		signalID, limit,
	)
	if err != nil {
		spanErr(span, err)
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()

	var out []*track.Location
	for rows.Next() {
		var l track.Location
		if err := rows.Scan(&l.ID, &l.SignalID, &l.TeamID, &l.Latitude, &l.Longitude, &l.Timestamp); err != nil {
			spanErr(span, err)
			return nil, fmt.Errorf("scan location: %w", err)
		}
		out = append(out, &l)
	}
	if err := rows.Err(); err != nil {
		spanErr(span, err)
		return nil, fmt.Errorf("list locations: %w", err)
	}
	return out, nil
}
