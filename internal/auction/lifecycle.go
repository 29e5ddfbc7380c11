package auction

import (
	"context"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mfmanca2000/easyasta/internal/models"
)

// OpenRound validates and creates a new SELECTION round for one position
// category. The caller must run this inside a transaction: the league row
// lock serializes concurrent starts so that two of them cannot both see zero
// active rounds. Round numbers are scoped per position and resume where the
// last round of that position left off; the first round of a league also
// moves it SETUP -> AUCTION.
func OpenRound(ctx context.Context, s Store, clock clockwork.Clock, req StartRoundRequest) (*models.AuctionRound, error) {
	league, err := s.GetLeagueForUpdate(ctx, req.LeagueID)
	if err != nil {
		return nil, err
	}
	if league.Status == models.LeagueStatusCompleted {
		return nil, ErrLeagueCompleted
	}

	active, err := s.GetActiveRound(ctx, league.ID)
	if err != nil {
		return nil, err
	}
	if active != nil {
		return nil, ErrRoundAlreadyActive
	}

	if league.Status == models.LeagueStatusSetup {
		if err := s.UpdateLeagueStatus(ctx, league.ID, models.LeagueStatusAuction); err != nil {
			return nil, err
		}
	}

	last, err := s.LastRoundNumber(ctx, league.ID, req.Position)
	if err != nil {
		return nil, err
	}

	now := clock.Now().UTC()
	round := models.AuctionRound{
		ID:        uuid.New(),
		LeagueID:  league.ID,
		Position:  req.Position,
		Number:    last + 1,
		Status:    models.RoundStatusSelection,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.CreateRound(ctx, round); err != nil {
		return nil, err
	}
	return &round, nil
}
