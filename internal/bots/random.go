package bots

import (
	"context"
	"math/rand"

	"github.com/mfmanca2000/easyasta/internal/models"
)

const randomConfidence = 0.2

// RandomStrategy picks uniformly among affordable, unclaimed candidates.
type RandomStrategy struct {
	rng *rand.Rand
}

func NewRandomStrategy(rng *rand.Rand) *RandomStrategy {
	return &RandomStrategy{rng: rng}
}

func (s *RandomStrategy) Name() string { return string(models.BotTierRandom) }

func (s *RandomStrategy) SelectPick(_ context.Context, pc PickContext) (*Candidate, error) {
	pool := affordable(pc, pc.Team.RemainingCredits)
	if len(pool) == 0 {
		return nil, nil
	}
	choice := pool[s.rng.Intn(len(pool))]
	return &Candidate{
		PlayerID:   choice.ID,
		Reason:     "random affordable choice",
		Confidence: randomConfidence,
	}, nil
}
