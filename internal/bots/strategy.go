// Package bots produces picks on behalf of non-human participants. Each
// intelligence tier is a Strategy selected by the league's configuration;
// the justification and confidence a strategy returns travel with the
// resulting selection as provenance metadata and play no part in resolution.
package bots

import (
	"context"

	"github.com/google/uuid"
	"github.com/mfmanca2000/easyasta/internal/models"
)

// PickContext is the snapshot a strategy decides from.
type PickContext struct {
	Round models.AuctionRound
	Team  models.Team
	// Candidates are the round's position players that are unassigned,
	// not yet selected by anyone this round, sorted cheapest first.
	Candidates []models.Player
	// Needs is the team's per-position deficit against the roster quotas.
	Needs map[models.Position]int
	// SlotsRemaining is the team's total unfilled roster slots.
	SlotsRemaining int
	// FieldCredits holds every league team's remaining credits.
	FieldCredits []int
}

// Candidate is a strategy's chosen pick.
type Candidate struct {
	PlayerID   uuid.UUID
	Reason     string
	Confidence float64
}

// Strategy produces at most one candidate pick, or nil when no selection is
// possible for the team.
type Strategy interface {
	Name() string
	SelectPick(ctx context.Context, pc PickContext) (*Candidate, error)
}

// affordable filters candidates the team can pay for, preserving order.
func affordable(pc PickContext, maxPrice int) []models.Player {
	var out []models.Player
	for _, p := range pc.Candidates {
		if p.Price <= maxPrice {
			out = append(out, p)
		}
	}
	return out
}
