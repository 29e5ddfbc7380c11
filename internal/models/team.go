package models

import (
	"time"

	"github.com/google/uuid"
)

// Team is one participant's squad within a league. Exactly one team per user
// per league; RemainingCredits is only ever decremented by the resolver.
type Team struct {
	ID               uuid.UUID `json:"id"`
	LeagueID         uuid.UUID `json:"league_id"`
	UserID           uuid.UUID `json:"user_id"`
	Name             string    `json:"name"`
	RemainingCredits int       `json:"remaining_credits"`
	IsBot            bool      `json:"is_bot"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
