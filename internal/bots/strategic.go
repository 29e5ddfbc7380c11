package bots

import (
	"context"
	"math/rand"

	"github.com/mfmanca2000/easyasta/internal/models"
	"github.com/mfmanca2000/easyasta/internal/roster"
)

// StrategicStrategy sizes itself against the field: a rich team closing out a
// category bids aggressively, a poor or far-behind team hoards credits, and
// everything in between falls back to balanced spending.
type StrategicStrategy struct {
	balanced *BalancedStrategy
}

func NewStrategicStrategy(rng *rand.Rand) *StrategicStrategy {
	return &StrategicStrategy{balanced: NewBalancedStrategy(rng)}
}

func (s *StrategicStrategy) Name() string { return string(models.BotTierStrategic) }

func (s *StrategicStrategy) SelectPick(ctx context.Context, pc PickContext) (*Candidate, error) {
	pool := affordable(pc, pc.Team.RemainingCredits)
	if len(pool) == 0 {
		return nil, nil
	}

	avg := fieldAverage(pc.FieldCredits)
	rich := pc.Team.RemainingCredits >= avg
	poor := float64(pc.Team.RemainingCredits) < 0.9*float64(avg)

	// Rich and closing out this category: outbid everyone on the best player.
	if rich && pc.Needs[pc.Round.Position] <= 2 {
		choice := priciest(pool)
		return &Candidate{
			PlayerID:   choice.ID,
			Reason:     "credit advantage over the field, bidding aggressively on a premium player",
			Confidence: 0.8,
		}, nil
	}

	// Poor, or still far from a full roster: protect the budget with the
	// cheapest candidate an even per-slot split allows.
	if poor || pc.SlotsRemaining > roster.SquadSize/2 {
		split := pc.Team.RemainingCredits
		if pc.SlotsRemaining > 0 {
			split = pc.Team.RemainingCredits / pc.SlotsRemaining
		}
		choice := pool[0] // cheapest overall as last resort
		for _, p := range pool {
			if p.Price <= split {
				choice = p
				break
			}
		}
		return &Candidate{
			PlayerID:   choice.ID,
			Reason:     "preserving credits with the cheapest adequate candidate",
			Confidence: 0.7,
		}, nil
	}

	return s.balanced.SelectPick(ctx, pc)
}

func fieldAverage(credits []int) int {
	if len(credits) == 0 {
		return 0
	}
	total := 0
	for _, c := range credits {
		total += c
	}
	return total / len(credits)
}

func priciest(pool []models.Player) models.Player {
	best := pool[0]
	for _, p := range pool[1:] {
		if p.Price > best.Price {
			best = p
		}
	}
	return best
}
