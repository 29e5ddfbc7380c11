package auction

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mfmanca2000/easyasta/internal/models"
)

// SubmitSelection validates and records one participant's pick. Preconditions
// run in order; the first failure wins and nothing is mutated. The caller must
// run this inside a transaction that has locked the round row (the count check
// below is what auto-advances the round, so two concurrent submissions must
// not both see teamCount-1 selections).
func SubmitSelection(ctx context.Context, s Store, clock clockwork.Clock, req SubmitRequest) (*SubmitOutcome, error) {
	round, err := s.GetRoundForUpdate(ctx, req.RoundID)
	if err != nil {
		return nil, err
	}
	if round.Status != models.RoundStatusSelection {
		return nil, ErrRoundNotOpen
	}

	team, err := s.GetTeamByUser(ctx, round.LeagueID, req.ActorUserID)
	if err != nil {
		if errors.Is(err, ErrTeamNotFound) {
			return nil, ErrNotLeagueMember
		}
		return nil, err
	}

	player, err := s.GetPlayer(ctx, req.PlayerID)
	if err != nil {
		return nil, err
	}
	if player.LeagueID != round.LeagueID || player.Position != round.Position || player.IsAssigned {
		return nil, ErrPlayerUnavailable
	}

	if team.RemainingCredits < player.Price {
		return nil, ErrInsufficientFunds
	}

	existing, err := s.GetSelection(ctx, round.ID, req.ActorUserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrAlreadySelected
	}

	origin := req.Origin
	if origin == "" {
		origin = models.SelectionOriginHuman
	}
	sel := models.PlayerSelection{
		ID:            uuid.New(),
		RoundID:       round.ID,
		UserID:        req.ActorUserID,
		PlayerID:      player.ID,
		Origin:        origin,
		Justification: req.Justification,
		Confidence:    req.Confidence,
		CreatedAt:     clock.Now().UTC(),
	}
	if err := s.CreateSelection(ctx, sel); err != nil {
		return nil, err
	}

	selections, err := s.CountSelections(ctx, round.ID)
	if err != nil {
		return nil, err
	}
	teamCount, err := s.CountTeams(ctx, round.LeagueID)
	if err != nil {
		return nil, err
	}

	complete := selections >= teamCount
	if complete {
		if err := s.UpdateRoundStatus(ctx, round.ID, models.RoundStatusResolution); err != nil {
			return nil, err
		}
	}

	return &SubmitOutcome{
		Selection:     sel,
		Team:          *team,
		Selections:    selections,
		TeamCount:     teamCount,
		RoundComplete: complete,
	}, nil
}
