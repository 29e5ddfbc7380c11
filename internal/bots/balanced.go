package bots

import (
	"context"
	"fmt"
	"math/rand"
	"sort"

	"github.com/mfmanca2000/easyasta/internal/models"
)

// BalancedStrategy spends toward an even budget split across the remaining
// roster slots, going premium only when a single slot is left in the round's
// category.
type BalancedStrategy struct {
	rng    *rand.Rand
	random *RandomStrategy
}

func NewBalancedStrategy(rng *rand.Rand) *BalancedStrategy {
	return &BalancedStrategy{rng: rng, random: NewRandomStrategy(rng)}
}

func (s *BalancedStrategy) Name() string { return string(models.BotTierBalanced) }

func (s *BalancedStrategy) SelectPick(ctx context.Context, pc PickContext) (*Candidate, error) {
	pool := affordable(pc, pc.Team.RemainingCredits)
	if len(pool) == 0 {
		return nil, nil
	}

	// Last slot for this category: go for the strongest player we can pay.
	if pc.Needs[pc.Round.Position] == 1 {
		choice := s.pickAmongPriciest(pool, 3)
		return &Candidate{
			PlayerID:   choice.ID,
			Reason:     "final slot in category, targeting a premium player",
			Confidence: 0.65,
		}, nil
	}

	// Otherwise aim near the ideal average spend per remaining slot.
	if pc.SlotsRemaining > 0 {
		ideal := pc.Team.RemainingCredits / pc.SlotsRemaining
		var inBand []models.Player
		for _, p := range pool {
			if p.Price >= ideal/2 && p.Price <= ideal+ideal/2 {
				inBand = append(inBand, p)
			}
		}
		if len(inBand) > 0 {
			choice := s.pickAmongPriciest(inBand, 3)
			return &Candidate{
				PlayerID:   choice.ID,
				Reason:     fmt.Sprintf("within ideal spend of %d credits per slot", ideal),
				Confidence: 0.55,
			}, nil
		}
	}

	// Fall back to the cheapest option that keeps a budget reserve.
	reserve := affordable(pc, pc.Team.RemainingCredits*8/10)
	if len(reserve) > 0 {
		return &Candidate{
			PlayerID:   reserve[0].ID,
			Reason:     "cheapest option within budget reserve",
			Confidence: 0.4,
		}, nil
	}

	return s.random.SelectPick(ctx, pc)
}

// pickAmongPriciest chooses randomly among the top n candidates by price.
func (s *BalancedStrategy) pickAmongPriciest(pool []models.Player, n int) models.Player {
	byPrice := make([]models.Player, len(pool))
	copy(byPrice, pool)
	sort.Slice(byPrice, func(i, j int) bool { return byPrice[i].Price > byPrice[j].Price })
	if n > len(byPrice) {
		n = len(byPrice)
	}
	return byPrice[s.rng.Intn(n)]
}
