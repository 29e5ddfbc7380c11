package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// AdminActionKind identifies an administrative override.
type AdminActionKind string

const (
	AdminActionCancelSelection AdminActionKind = "CANCEL_SELECTION"
	AdminActionForceResolve    AdminActionKind = "FORCE_RESOLVE"
	AdminActionResetRound      AdminActionKind = "RESET_ROUND"
)

// AdminAction is the immutable audit record of an administrative override.
// Append-only; never mutated or deleted. RoundID stays resolvable even after a
// reset because the record is written before the round is deleted.
type AdminAction struct {
	ID          uuid.UUID       `json:"id"`
	LeagueID    uuid.UUID       `json:"league_id"`
	ActorUserID uuid.UUID       `json:"actor_user_id"`
	Kind        AdminActionKind `json:"kind"`
	RoundID     *uuid.UUID      `json:"round_id,omitempty"`
	TeamID      *uuid.UUID      `json:"team_id,omitempty"`
	PlayerID    *uuid.UUID      `json:"player_id,omitempty"`
	Reason      string          `json:"reason"`
	Metadata    json.RawMessage `json:"metadata,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}
