package models

import (
	"time"

	"github.com/google/uuid"
)

// RoundStatus defines the status of an auction round. Transitions are strictly
// forward: SELECTION -> RESOLUTION -> COMPLETED. The only backward motion is an
// administrative reset, which deletes the round outright.
type RoundStatus string

const (
	RoundStatusSelection  RoundStatus = "SELECTION"
	RoundStatusResolution RoundStatus = "RESOLUTION"
	RoundStatusCompleted  RoundStatus = "COMPLETED"
)

// Active reports whether the round still gates new work. At most one round per
// league may be active at any time.
func (s RoundStatus) Active() bool {
	return s == RoundStatusSelection || s == RoundStatusResolution
}

// AuctionRound is one batch of simultaneous picks for a single position
// category. Number is scoped per position, not globally: UIs and audit logs
// reference "round N of position P" as a compound key.
type AuctionRound struct {
	ID        uuid.UUID   `json:"id"`
	LeagueID  uuid.UUID   `json:"league_id"`
	Position  Position    `json:"position"`
	Number    int         `json:"number"`
	Status    RoundStatus `json:"status"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
}
