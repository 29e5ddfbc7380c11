package admin

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mfmanca2000/easyasta/internal/auction"
	"github.com/mfmanca2000/easyasta/internal/models"
	"github.com/stretchr/testify/suite"
)

// overrideStore implements the slice of auction.Store the overrides touch.
// Unused methods come from the embedded interface and would panic if called.
type overrideStore struct {
	auction.Store
	league     *models.League
	rounds     map[uuid.UUID]*models.AuctionRound
	teams      map[uuid.UUID]*models.Team
	selections map[uuid.UUID]*models.PlayerSelection
}

func (f *overrideStore) GetLeague(_ context.Context, id uuid.UUID) (*models.League, error) {
	if f.league == nil || f.league.ID != id {
		return nil, auction.ErrLeagueNotFound
	}
	return f.league, nil
}

func (f *overrideStore) GetRoundForUpdate(_ context.Context, id uuid.UUID) (*models.AuctionRound, error) {
	r, ok := f.rounds[id]
	if !ok {
		return nil, auction.ErrRoundNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *overrideStore) GetTeam(_ context.Context, id uuid.UUID) (*models.Team, error) {
	t, ok := f.teams[id]
	if !ok {
		return nil, auction.ErrTeamNotFound
	}
	return t, nil
}

func (f *overrideStore) GetSelection(_ context.Context, roundID, userID uuid.UUID) (*models.PlayerSelection, error) {
	for _, s := range f.selections {
		if s.RoundID == roundID && s.UserID == userID {
			return s, nil
		}
	}
	return nil, nil
}

func (f *overrideStore) CountSelections(_ context.Context, roundID uuid.UUID) (int, error) {
	n := 0
	for _, s := range f.selections {
		if s.RoundID == roundID {
			n++
		}
	}
	return n, nil
}

func (f *overrideStore) UpdateRoundStatus(_ context.Context, id uuid.UUID, status models.RoundStatus) error {
	if r, ok := f.rounds[id]; ok {
		r.Status = status
	}
	return nil
}

func (f *overrideStore) DeleteSelection(_ context.Context, id uuid.UUID) error {
	delete(f.selections, id)
	return nil
}

func (f *overrideStore) DeleteSelectionsForRound(_ context.Context, roundID uuid.UUID) error {
	for id, s := range f.selections {
		if s.RoundID == roundID {
			delete(f.selections, id)
		}
	}
	return nil
}

func (f *overrideStore) DeleteRound(_ context.Context, id uuid.UUID) error {
	delete(f.rounds, id)
	return nil
}

func (f *overrideStore) LatestOtherRound(_ context.Context, leagueID, excludeID uuid.UUID) (*models.AuctionRound, error) {
	var latest *models.AuctionRound
	for _, r := range f.rounds {
		if r.LeagueID != leagueID || r.ID == excludeID {
			continue
		}
		if latest == nil || r.CreatedAt.After(latest.CreatedAt) {
			latest = r
		}
	}
	if latest == nil {
		return nil, nil
	}
	return latest, nil
}

type recordingAudit struct {
	actions []models.AdminAction
}

func (a *recordingAudit) InsertAction(_ context.Context, action models.AdminAction) error {
	a.actions = append(a.actions, action)
	return nil
}

type OverrideTestSuite struct {
	suite.Suite
	ctx   context.Context
	store *overrideStore
	audit *recordingAudit
	clock *clockwork.FakeClock

	adminID uuid.UUID
	round   *models.AuctionRound
	team    *models.Team
	sel     *models.PlayerSelection
}

func (s *OverrideTestSuite) SetupTest() {
	s.ctx = context.Background()
	s.clock = clockwork.NewFakeClockAt(time.Date(2025, 8, 20, 21, 30, 0, 0, time.UTC))
	s.adminID = uuid.New()

	league := &models.League{
		ID:          uuid.New(),
		AdminUserID: s.adminID,
		Status:      models.LeagueStatusAuction,
	}
	s.round = &models.AuctionRound{
		ID:        uuid.New(),
		LeagueID:  league.ID,
		Position:  models.PositionDefender,
		Number:    2,
		Status:    models.RoundStatusSelection,
		CreatedAt: s.clock.Now(),
	}
	s.team = &models.Team{
		ID:       uuid.New(),
		LeagueID: league.ID,
		UserID:   uuid.New(),
		Name:     "Squadra Uno",
	}
	s.sel = &models.PlayerSelection{
		ID:       uuid.New(),
		RoundID:  s.round.ID,
		UserID:   s.team.UserID,
		PlayerID: uuid.New(),
		Origin:   models.SelectionOriginHuman,
	}

	s.store = &overrideStore{
		league:     league,
		rounds:     map[uuid.UUID]*models.AuctionRound{s.round.ID: s.round},
		teams:      map[uuid.UUID]*models.Team{s.team.ID: s.team},
		selections: map[uuid.UUID]*models.PlayerSelection{s.sel.ID: s.sel},
	}
	s.audit = &recordingAudit{}
}

func (s *OverrideTestSuite) TestCancelSelection() {
	action, err := CancelSelection(s.ctx, s.store, s.audit, s.clock, CancelRequest{
		RoundID:      s.round.ID,
		ActorUserID:  s.adminID,
		TargetTeamID: s.team.ID,
		Reason:       "duplicate request from client retry",
	})

	s.Require().NoError(err)
	s.Empty(s.store.selections)
	s.Require().Len(s.audit.actions, 1)
	s.Equal(models.AdminActionCancelSelection, action.Kind)
	s.Equal(&s.team.ID, action.TeamID)
}

func (s *OverrideTestSuite) TestCancelWithoutSelectionFails() {
	otherTeam := &models.Team{ID: uuid.New(), LeagueID: s.round.LeagueID, UserID: uuid.New()}
	s.store.teams[otherTeam.ID] = otherTeam

	_, err := CancelSelection(s.ctx, s.store, s.audit, s.clock, CancelRequest{
		RoundID:      s.round.ID,
		ActorUserID:  s.adminID,
		TargetTeamID: otherTeam.ID,
		Reason:       "team asked to withdraw pick",
	})

	s.ErrorIs(err, ErrNoSelectionToCancel)
	s.Empty(s.audit.actions)
}

func (s *OverrideTestSuite) TestCancelOnCompletedRoundRejected() {
	// The round resolved and the selection won its draw; cancelling it now
	// would strand the ownership side effects of the resolution.
	s.round.Status = models.RoundStatusCompleted
	n := int64(712_044_981)
	won := true
	s.sel.RandomNumber = &n
	s.sel.IsWinner = &won

	_, err := CancelSelection(s.ctx, s.store, s.audit, s.clock, CancelRequest{
		RoundID:      s.round.ID,
		ActorUserID:  s.adminID,
		TargetTeamID: s.team.ID,
		Reason:       "undo the pick after resolution",
	})

	s.ErrorIs(err, ErrRoundNotActive)
	s.Contains(s.store.selections, s.sel.ID)
	s.Empty(s.audit.actions)
}

func (s *OverrideTestSuite) TestNonAdminRejected() {
	_, err := CancelSelection(s.ctx, s.store, s.audit, s.clock, CancelRequest{
		RoundID:      s.round.ID,
		ActorUserID:  uuid.New(),
		TargetTeamID: s.team.ID,
		Reason:       "trying to cancel a rival pick",
	})
	s.ErrorIs(err, ErrNotAdministrator)
}

func (s *OverrideTestSuite) TestShortReasonRejected() {
	_, err := CancelSelection(s.ctx, s.store, s.audit, s.clock, CancelRequest{
		RoundID:      s.round.ID,
		ActorUserID:  s.adminID,
		TargetTeamID: s.team.ID,
		Reason:       "oops",
	})
	s.ErrorIs(err, ErrReasonTooShort)
}

func (s *OverrideTestSuite) TestForceResolution() {
	action, round, err := ForceResolution(s.ctx, s.store, s.audit, s.clock, ForceResolveRequest{
		RoundID:     s.round.ID,
		ActorUserID: s.adminID,
		Reason:      "two participants offline tonight",
	})

	s.Require().NoError(err)
	s.Equal(models.RoundStatusResolution, round.Status)
	s.Equal(models.RoundStatusResolution, s.store.rounds[s.round.ID].Status)
	s.Equal(models.AdminActionForceResolve, action.Kind)
}

func (s *OverrideTestSuite) TestForceResolutionRequiresSelectionStatus() {
	s.round.Status = models.RoundStatusResolution

	_, _, err := ForceResolution(s.ctx, s.store, s.audit, s.clock, ForceResolveRequest{
		RoundID:     s.round.ID,
		ActorUserID: s.adminID,
		Reason:      "resolve the stuck round now",
	})
	s.ErrorIs(err, ErrRoundNotInSelection)
}

func (s *OverrideTestSuite) TestResetRound() {
	// Scenario: reset an active round with selections; the prior round left
	// non-terminal is restored to COMPLETED and one audit record references
	// the deleted round's id.
	prior := &models.AuctionRound{
		ID:        uuid.New(),
		LeagueID:  s.round.LeagueID,
		Position:  models.PositionGoalkeeper,
		Number:    1,
		Status:    models.RoundStatusResolution,
		CreatedAt: s.round.CreatedAt.Add(-time.Hour),
	}
	s.store.rounds[prior.ID] = prior

	for i := 0; i < 2; i++ {
		sel := &models.PlayerSelection{
			ID:      uuid.New(),
			RoundID: s.round.ID,
			UserID:  uuid.New(),
		}
		s.store.selections[sel.ID] = sel
	}

	action, err := ResetRound(s.ctx, s.store, s.audit, s.clock, ResetRequest{
		RoundID:     s.round.ID,
		ActorUserID: s.adminID,
		Reason:      "wrong category opened by mistake",
	})

	s.Require().NoError(err)
	s.Empty(s.store.selections)
	s.NotContains(s.store.rounds, s.round.ID)
	s.Equal(models.RoundStatusCompleted, s.store.rounds[prior.ID].Status)
	s.Require().Len(s.audit.actions, 1)
	s.Equal(&s.round.ID, action.RoundID)
	s.Equal(models.AdminActionResetRound, action.Kind)
}

func TestOverrideTestSuite(t *testing.T) {
	suite.Run(t, new(OverrideTestSuite))
}
