package models

import (
	"time"

	"github.com/google/uuid"
)

// Position is the roster category a player is drafted under.
type Position string

const (
	PositionGoalkeeper Position = "GOALKEEPER"
	PositionDefender   Position = "DEFENDER"
	PositionMidfielder Position = "MIDFIELDER"
	PositionForward    Position = "FORWARD"
)

// Positions lists every category in display order.
var Positions = []Position{
	PositionGoalkeeper,
	PositionDefender,
	PositionMidfielder,
	PositionForward,
}

// Valid reports whether p is one of the four draftable categories.
func (p Position) Valid() bool {
	switch p {
	case PositionGoalkeeper, PositionDefender, PositionMidfielder, PositionForward:
		return true
	}
	return false
}

// Player is a draftable entity. IsAssigned flips to true exactly once, inside
// the resolver, and is the single source of truth for draft eligibility.
type Player struct {
	ID         uuid.UUID `json:"id"`
	LeagueID   uuid.UUID `json:"league_id"`
	Name       string    `json:"name"`
	Position   Position  `json:"position"`
	Price      int       `json:"price"`
	IsAssigned bool      `json:"is_assigned"`
	CreatedAt  time.Time `json:"created_at"`
}
