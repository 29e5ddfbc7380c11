package auction

import (
	"context"
	"math/rand"

	"github.com/google/uuid"
	"github.com/mfmanca2000/easyasta/internal/models"
	"github.com/mfmanca2000/easyasta/internal/roster"
	"github.com/rs/zerolog/log"
)

// drawMax is the upper bound of the tie-break draw. Collisions are possible
// but rare and are not re-rolled; on an exact tie the first contender seen
// keeps the win.
const drawMax = 1_000_000_000

type bidder struct {
	sel  models.PlayerSelection
	team models.Team
}

// ResolveRound turns the round's selections into ownership assignments.
// The round must be in RESOLUTION; the caller must run this inside a
// transaction so that all assignment side effects and the round-completion
// flag land together or not at all.
//
// A bidder whose team can no longer afford the player gets no assignment and
// no error: simultaneous picks can exhaust a budget unpredictably before
// resolution runs, and the player simply stays available for a future round.
func ResolveRound(ctx context.Context, s Store, rng *rand.Rand, roundID uuid.UUID) (*ResolutionOutcome, error) {
	round, err := s.GetRoundForUpdate(ctx, roundID)
	if err != nil {
		return nil, err
	}
	if round.Status != models.RoundStatusResolution {
		return nil, ErrRoundNotResolvable
	}

	selections, err := s.ListSelections(ctx, round.ID)
	if err != nil {
		return nil, err
	}

	// Partition by contested player, preserving first-seen order.
	var order []uuid.UUID
	groups := make(map[uuid.UUID][]models.PlayerSelection)
	for _, sel := range selections {
		if _, ok := groups[sel.PlayerID]; !ok {
			order = append(order, sel.PlayerID)
		}
		groups[sel.PlayerID] = append(groups[sel.PlayerID], sel)
	}

	var assignments []Assignment
	for _, playerID := range order {
		group := groups[playerID]
		player, err := s.GetPlayer(ctx, playerID)
		if err != nil {
			return nil, err
		}

		// Re-check affordability against current balances; earlier
		// resolutions in this round may have drained a bidder's credits.
		var eligible []bidder
		for _, sel := range group {
			team, err := s.GetTeamByUser(ctx, round.LeagueID, sel.UserID)
			if err != nil {
				return nil, err
			}
			if team.RemainingCredits >= player.Price {
				eligible = append(eligible, bidder{sel: sel, team: *team})
			} else {
				if err := s.StampSelection(ctx, sel.ID, nil, false); err != nil {
					return nil, err
				}
				log.Debug().
					Str("round_id", round.ID.String()).
					Str("player_id", playerID.String()).
					Str("user_id", sel.UserID.String()).
					Msg("bidder can no longer afford player, pick dropped")
			}
		}
		if len(eligible) == 0 {
			continue
		}

		if len(group) == 1 {
			// Uncontested: assign outright, no draw number.
			b := eligible[0]
			if err := assign(ctx, s, b, *player, nil); err != nil {
				return nil, err
			}
			assignments = append(assignments, Assignment{
				PlayerID: player.ID,
				TeamID:   b.team.ID,
				UserID:   b.sel.UserID,
				Price:    player.Price,
			})
			continue
		}

		// Contested: every eligible bidder draws, highest number wins.
		winner := 0
		draws := make([]int64, len(eligible))
		for i := range eligible {
			draws[i] = rng.Int63n(drawMax) + 1
			if draws[i] > draws[winner] {
				winner = i
			}
		}

		contenders := make([]Contender, len(eligible))
		for i, b := range eligible {
			won := i == winner
			n := draws[i]
			if err := s.StampSelection(ctx, b.sel.ID, &n, won); err != nil {
				return nil, err
			}
			contenders[i] = Contender{
				SelectionID:  b.sel.ID,
				UserID:       b.sel.UserID,
				TeamID:       b.team.ID,
				RandomNumber: n,
				IsWinner:     won,
			}
		}

		w := eligible[winner]
		if err := assignEffects(ctx, s, w, *player); err != nil {
			return nil, err
		}
		assignments = append(assignments, Assignment{
			PlayerID:   player.ID,
			TeamID:     w.team.ID,
			UserID:     w.sel.UserID,
			Price:      player.Price,
			Contenders: contenders,
		})
	}

	if err := s.UpdateRoundStatus(ctx, round.ID, models.RoundStatusCompleted); err != nil {
		return nil, err
	}
	round.Status = models.RoundStatusCompleted

	canContinue, err := evaluateContinuation(ctx, s, round.LeagueID)
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("round_id", round.ID.String()).
		Str("position", string(round.Position)).
		Int("assignments", len(assignments)).
		Bool("can_continue", canContinue).
		Msg("round resolved")

	return &ResolutionOutcome{
		Round:       *round,
		Assignments: assignments,
		CanContinue: canContinue,
	}, nil
}

// assign stamps an uncontested winner and applies the assignment effects.
func assign(ctx context.Context, s Store, b bidder, player models.Player, draw *int64) error {
	if err := s.StampSelection(ctx, b.sel.ID, draw, true); err != nil {
		return err
	}
	return assignEffects(ctx, s, b, player)
}

// assignEffects creates the ownership link, deducts credits and flips the
// player's availability flag. The selection stamp is handled by the caller.
func assignEffects(ctx context.Context, s Store, b bidder, player models.Player) error {
	if err := s.AddPlayerToRoster(ctx, b.team.ID, player.ID, player.Price); err != nil {
		return err
	}
	if err := s.DeductTeamCredits(ctx, b.team.ID, player.Price); err != nil {
		return err
	}
	return s.MarkPlayerAssigned(ctx, player.ID)
}

// evaluateContinuation marks the league COMPLETED and returns false once every
// team's composition exactly matches the roster quotas.
func evaluateContinuation(ctx context.Context, s Store, leagueID uuid.UUID) (bool, error) {
	teams, err := s.ListTeams(ctx, leagueID)
	if err != nil {
		return false, err
	}
	for _, t := range teams {
		comp, err := s.TeamComposition(ctx, t.ID)
		if err != nil {
			return false, err
		}
		if !roster.IsComplete(comp) {
			return true, nil
		}
	}
	if err := s.UpdateLeagueStatus(ctx, leagueID, models.LeagueStatusCompleted); err != nil {
		return false, err
	}
	return false, nil
}
