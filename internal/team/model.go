package team

import "time"

// Team is a registered responder unit. Immutable after registration.
type Team struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	TeamName     string    `json:"team_name"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
