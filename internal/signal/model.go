package signal

import (
	"time"

	"github.com/linnemanlabs/beacon/internal/classify"
)

// Status tracks where a signal is in its response lifecycle.
type Status string

const (
	// StatusPending means reported, no team responding yet
	StatusPending Status = "pending"

	// StatusInProgress means a team has claimed the signal and is responding
	StatusInProgress Status = "in_progress"

	// StatusCompleted means the response is finished
	StatusCompleted Status = "completed"
)

// ParseStatus validates a status string from an API request or filter.
func ParseStatus(s string) (Status, bool) {
	switch Status(s) {
	case StatusPending, StatusInProgress, StatusCompleted:
		return Status(s), true
	}
	return "", false
}

// CanTransitionTo reports whether next is a legal forward step. The
// lifecycle only moves pending -> in_progress -> completed; it never
// skips in_progress and never reverts.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusInProgress
	case StatusInProgress:
		return next == StatusCompleted
	}
	return false
}

// Signal is one emergency report and its resolution state.
//
// DangerLevel and AIAssessment are set exactly once at creation and are
// immutable history afterward, even if later judged wrong. AssignedTeamID
// is empty until the first claim, then fixed to that team.
type Signal struct {
	ID             string            `json:"id"`
	Latitude       float64           `json:"latitude"`
	Longitude      float64           `json:"longitude"`
	Description    string            `json:"description"`
	Images         []classify.Image  `json:"images,omitempty"`
	DangerLevel    classify.Severity `json:"danger_level"`
	AIAssessment   string            `json:"ai_assessment"`
	Status         Status            `json:"status"`
	AssignedTeamID string            `json:"assigned_team_id,omitempty"`
	RescueNotes    string            `json:"rescue_notes,omitempty"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
}

// Filter narrows List and Count queries. Zero values mean "any".
type Filter struct {
	Status Status
	Danger classify.Severity
}

// Stats is a point-in-time snapshot of the signal population.
type Stats struct {
	TotalSignals   int64 `json:"total_signals"`
	RedSignals     int64 `json:"red_signals"`
	YellowSignals  int64 `json:"yellow_signals"`
	GreenSignals   int64 `json:"green_signals"`
	PendingSignals int64 `json:"pending_signals"`
}
