package bots

import (
	"context"
	"math/rand"

	"github.com/google/uuid"
	"github.com/mfmanca2000/easyasta/internal/auction"
	"github.com/mfmanca2000/easyasta/internal/models"
	"github.com/mfmanca2000/easyasta/internal/roster"
	"github.com/rs/zerolog/log"
)

// Submitter is the slice of the auction app the engine submits through, so
// bot picks run the exact same validation and auto-advance path as humans.
type Submitter interface {
	SubmitPick(ctx context.Context, req auction.SubmitRequest) (*auction.SubmitOutcome, error)
}

// TriggerResult reports what the engine did for one bot team.
type TriggerResult struct {
	TeamID        uuid.UUID  `json:"team_id"`
	UserID        uuid.UUID  `json:"user_id"`
	PlayerID      *uuid.UUID `json:"player_id,omitempty"`
	Reason        string     `json:"reason,omitempty"`
	Confidence    float64    `json:"confidence,omitempty"`
	Submitted     bool       `json:"submitted"`
	Note          string     `json:"note,omitempty"`
	RoundComplete bool       `json:"round_complete"`
}

// Engine runs the league's configured strategy for its bot teams.
type Engine struct {
	store      auction.Store
	submitter  Submitter
	strategies map[models.BotTier]Strategy
}

// NewEngine creates a bot engine reading snapshots from store and submitting
// picks through submitter.
func NewEngine(store auction.Store, submitter Submitter, rng *rand.Rand) *Engine {
	return &Engine{
		store:     store,
		submitter: submitter,
		strategies: map[models.BotTier]Strategy{
			models.BotTierRandom:    NewRandomStrategy(rng),
			models.BotTierBalanced:  NewBalancedStrategy(rng),
			models.BotTierStrategic: NewStrategicStrategy(rng),
		},
	}
}

func (e *Engine) strategyFor(tier models.BotTier) Strategy {
	if s, ok := e.strategies[tier]; ok {
		return s
	}
	return e.strategies[models.BotTierRandom]
}

// TriggerRound produces a pick for every bot team of the round that has not
// selected yet, or for the single bot user when onlyUserID is set. A bot that
// finds no viable candidate is reported, not failed; a submission lost to a
// concurrent race is logged and skipped.
func (e *Engine) TriggerRound(ctx context.Context, leagueID, roundID uuid.UUID, onlyUserID *uuid.UUID) ([]TriggerResult, error) {
	round, err := e.store.GetRound(ctx, roundID)
	if err != nil {
		return nil, err
	}
	if round.LeagueID != leagueID {
		return nil, auction.ErrRoundNotFound
	}
	if round.Status != models.RoundStatusSelection {
		return nil, auction.ErrRoundNotOpen
	}

	league, err := e.store.GetLeague(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	strategy := e.strategyFor(league.BotTier)

	teams, err := e.store.ListTeams(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	fieldCredits := make([]int, len(teams))
	for i, t := range teams {
		fieldCredits[i] = t.RemainingCredits
	}

	selections, err := e.store.ListSelections(ctx, roundID)
	if err != nil {
		return nil, err
	}
	claimed := make(map[uuid.UUID]bool)
	picked := make(map[uuid.UUID]bool)
	for _, sel := range selections {
		claimed[sel.PlayerID] = true
		picked[sel.UserID] = true
	}

	available, err := e.store.ListAvailablePlayers(ctx, leagueID, round.Position)
	if err != nil {
		return nil, err
	}

	var results []TriggerResult
	for _, team := range teams {
		if !team.IsBot {
			continue
		}
		if onlyUserID != nil && team.UserID != *onlyUserID {
			continue
		}
		res := TriggerResult{TeamID: team.ID, UserID: team.UserID}
		if picked[team.UserID] {
			res.Note = "already selected this round"
			results = append(results, res)
			continue
		}

		comp, err := e.store.TeamComposition(ctx, team.ID)
		if err != nil {
			return nil, err
		}

		var candidates []models.Player
		for _, p := range available {
			if !claimed[p.ID] {
				candidates = append(candidates, p)
			}
		}

		cand, err := strategy.SelectPick(ctx, PickContext{
			Round:          *round,
			Team:           team,
			Candidates:     candidates,
			Needs:          roster.Needs(comp),
			SlotsRemaining: roster.TotalNeeded(comp),
			FieldCredits:   fieldCredits,
		})
		if err != nil {
			return nil, err
		}
		if cand == nil {
			res.Note = "no selection possible"
			results = append(results, res)
			continue
		}

		reason := cand.Reason
		confidence := cand.Confidence
		outcome, err := e.submitter.SubmitPick(ctx, auction.SubmitRequest{
			RoundID:       roundID,
			ActorUserID:   team.UserID,
			PlayerID:      cand.PlayerID,
			Origin:        models.SelectionOriginBot,
			Justification: &reason,
			Confidence:    &confidence,
		})
		if err != nil {
			log.Warn().Err(err).
				Str("round_id", roundID.String()).
				Str("team_id", team.ID.String()).
				Str("strategy", strategy.Name()).
				Msg("bot pick rejected")
			res.Note = err.Error()
			results = append(results, res)
			continue
		}

		claimed[cand.PlayerID] = true
		res.PlayerID = &cand.PlayerID
		res.Reason = reason
		res.Confidence = confidence
		res.Submitted = true
		res.RoundComplete = outcome.RoundComplete
		results = append(results, res)

		log.Info().
			Str("round_id", roundID.String()).
			Str("team_id", team.ID.String()).
			Str("player_id", cand.PlayerID.String()).
			Str("strategy", strategy.Name()).
			Float64("confidence", confidence).
			Msg("bot pick submitted")

		if outcome.RoundComplete {
			break
		}
	}
	return results, nil
}
