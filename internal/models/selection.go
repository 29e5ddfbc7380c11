package models

import (
	"time"

	"github.com/google/uuid"
)

// SelectionOrigin records who produced a selection.
type SelectionOrigin string

const (
	SelectionOriginHuman SelectionOrigin = "HUMAN"
	SelectionOriginBot   SelectionOrigin = "BOT"
	SelectionOriginAdmin SelectionOrigin = "ADMIN"
)

// PlayerSelection is one participant's pick within one round. At most one
// selection per (round, user) pair. RandomNumber and IsWinner are stamped by
// the resolver and stay nil until then; RandomNumber only ever appears on
// contested picks.
type PlayerSelection struct {
	ID            uuid.UUID       `json:"id"`
	RoundID       uuid.UUID       `json:"round_id"`
	UserID        uuid.UUID       `json:"user_id"`
	PlayerID      uuid.UUID       `json:"player_id"`
	Origin        SelectionOrigin `json:"origin"`
	Justification *string         `json:"justification,omitempty"`
	Confidence    *float64        `json:"confidence,omitempty"`
	RandomNumber  *int64          `json:"random_number,omitempty"`
	IsWinner      *bool           `json:"is_winner,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}
