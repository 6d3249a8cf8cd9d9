package signal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/linnemanlabs/go-core/log"
	"github.com/oklog/ulid/v2"

	"github.com/linnemanlabs/beacon/internal/classify"
	"github.com/linnemanlabs/beacon/internal/team"
)

// MaxListResults bounds unfiltered listing to keep scans finite.
const MaxListResults = 1000

var (
	// ErrNotFound means the signal id does not exist.
	ErrNotFound = errors.New("signal not found")

	// ErrBadTransition means the requested status is not a legal forward
	// step from the signal's current status.
	ErrBadTransition = errors.New("illegal status transition")

	// ErrAlreadyClaimed means another team owns the signal.
	ErrAlreadyClaimed = errors.New("signal claimed by another team")

	// ErrConcurrentUpdate means the conditional write lost a race and the
	// caller should re-read and retry.
	ErrConcurrentUpdate = errors.New("signal changed concurrently")
)

// CreateRequest is a raw report as submitted by a distressed caller.
type CreateRequest struct {
	Latitude    float64
	Longitude   float64
	Description string
	Images      []classify.Image
}

// Service is the business boundary for the signal lifecycle.
type Service struct {
	store      Store
	classifier *classify.Classifier
	logger     log.Logger
	metrics    *Metrics
}

// NewService creates a new signal service. metrics may be nil.
func NewService(store Store, classifier *classify.Classifier, logger log.Logger, metrics *Metrics) *Service {
	if logger == nil {
		logger = log.Nop()
	}
	return &Service{
		store:      store,
		classifier: classifier,
		logger:     logger,
		metrics:    metrics,
	}
}

// Create classifies a raw report and persists it as a pending, unassigned
// signal. Classification never fails; only a storage error propagates.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*Signal, error) {
	a := s.classifier.Classify(ctx, req.Description, req.Images)

	now := time.Now().UTC()
	sig := &Signal{
		ID:           ulid.Make().String(),
		Latitude:     req.Latitude,
		Longitude:    req.Longitude,
		Description:  req.Description,
		Images:       req.Images,
		DangerLevel:  a.Severity,
		AIAssessment: a.Rationale,
		Status:       StatusPending,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.store.Insert(ctx, sig); err != nil {
		return nil, fmt.Errorf("insert signal: %w", err)
	}

	if s.metrics != nil {
		s.metrics.SignalsTotal.WithLabelValues(string(sig.DangerLevel)).Inc()
	}

	s.logger.Info(ctx, "signal created",
		"signal_id", sig.ID,
		"danger_level", sig.DangerLevel,
	)
	return sig, nil
}

// List returns signals matching the filter, newest first, capped at
// MaxListResults.
func (s *Service) List(ctx context.Context, f Filter) ([]*Signal, error) {
	return s.store.List(ctx, f, MaxListResults)
}

// Get returns a signal or ErrNotFound.
func (s *Service) Get(ctx context.Context, id string) (*Signal, error) {
	sig, ok, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}
	return sig, nil
}

// UpdateStatus moves a signal forward through its lifecycle on behalf of
// an authenticated team, claiming it for that team on the first change.
//
// The claim is conditional: a foreign assignment rejects the update, and
// the underlying write only applies if status and assignment are still
// what this call observed. Classification fields are never touched.
func (s *Service) UpdateStatus(ctx context.Context, id string, next Status, notes string, caller *team.Team) (*Signal, error) {
	if caller == nil {
		return nil, team.ErrUnauthenticated
	}

	cur, ok, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrNotFound
	}

	if cur.AssignedTeamID != "" && cur.AssignedTeamID != caller.ID {
		return nil, ErrAlreadyClaimed
	}
	if !cur.Status.CanTransitionTo(next) {
		return nil, ErrBadTransition
	}

	applied, err := s.store.UpdateStatus(ctx, id, StatusUpdate{
		From:   cur.Status,
		To:     next,
		TeamID: caller.ID,
		Notes:  notes,
		Now:    time.Now().UTC(),
	})
	if err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	if !applied {
		if s.metrics != nil {
			s.metrics.ClaimConflictsTotal.Inc()
		}
		return nil, ErrConcurrentUpdate
	}

	if s.metrics != nil {
		s.metrics.TransitionsTotal.WithLabelValues(string(cur.Status), string(next)).Inc()
	}

	s.logger.Info(ctx, "signal status updated",
		"signal_id", id,
		"from", cur.Status,
		"to", next,
		"team_id", caller.ID,
	)

	return s.Get(ctx, id)
}

// Stats computes the dashboard snapshot by re-counting the full signal
// population; no counters are maintained incrementally.
func (s *Service) Stats(ctx context.Context) (*Stats, error) {
	var (
		st  Stats
		err error
	)
	if st.TotalSignals, err = s.store.Count(ctx, Filter{}); err != nil {
		return nil, err
	}
	if st.RedSignals, err = s.store.Count(ctx, Filter{Danger: classify.SeverityRed}); err != nil {
		return nil, err
	}
	if st.YellowSignals, err = s.store.Count(ctx, Filter{Danger: classify.SeverityYellow}); err != nil {
		return nil, err
	}
	if st.GreenSignals, err = s.store.Count(ctx, Filter{Danger: classify.SeverityGreen}); err != nil {
		return nil, err
	}
	if st.PendingSignals, err = s.store.Count(ctx, Filter{Status: StatusPending}); err != nil {
		return nil, err
	}
	return &st, nil
}
