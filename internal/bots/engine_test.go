package bots

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mfmanca2000/easyasta/internal/auction"
	"github.com/mfmanca2000/easyasta/internal/models"
	"github.com/mfmanca2000/easyasta/internal/roster"
	"github.com/stretchr/testify/suite"
)

// snapshotStore implements just the read surface the engine uses.
type snapshotStore struct {
	auction.Store

	league       *models.League
	round        *models.AuctionRound
	teams        []models.Team
	selections   []models.PlayerSelection
	available    []models.Player
	compositions map[uuid.UUID]roster.Composition
}

func (s *snapshotStore) GetLeague(_ context.Context, id uuid.UUID) (*models.League, error) {
	if s.league == nil || s.league.ID != id {
		return nil, auction.ErrLeagueNotFound
	}
	cp := *s.league
	return &cp, nil
}

func (s *snapshotStore) GetRound(_ context.Context, id uuid.UUID) (*models.AuctionRound, error) {
	if s.round == nil || s.round.ID != id {
		return nil, auction.ErrRoundNotFound
	}
	cp := *s.round
	return &cp, nil
}

func (s *snapshotStore) ListTeams(_ context.Context, _ uuid.UUID) ([]models.Team, error) {
	return s.teams, nil
}

func (s *snapshotStore) ListSelections(_ context.Context, _ uuid.UUID) ([]models.PlayerSelection, error) {
	return s.selections, nil
}

func (s *snapshotStore) ListAvailablePlayers(_ context.Context, _ uuid.UUID, _ models.Position) ([]models.Player, error) {
	return s.available, nil
}

func (s *snapshotStore) TeamComposition(_ context.Context, teamID uuid.UUID) (roster.Composition, error) {
	if comp, ok := s.compositions[teamID]; ok {
		return comp, nil
	}
	return roster.Composition{}, nil
}

// recordingSubmitter captures submissions and can reject by player or flag the
// round complete after a set number of accepted picks.
type recordingSubmitter struct {
	requests      []auction.SubmitRequest
	rejectPlayer  map[uuid.UUID]error
	completeAfter int
}

func (r *recordingSubmitter) SubmitPick(_ context.Context, req auction.SubmitRequest) (*auction.SubmitOutcome, error) {
	if err, ok := r.rejectPlayer[req.PlayerID]; ok {
		return nil, err
	}
	r.requests = append(r.requests, req)
	return &auction.SubmitOutcome{
		Selection: models.PlayerSelection{
			ID:        uuid.New(),
			RoundID:   req.RoundID,
			UserID:    req.ActorUserID,
			PlayerID:  req.PlayerID,
			Origin:    req.Origin,
			CreatedAt: time.Now().UTC(),
		},
		RoundComplete: r.completeAfter > 0 && len(r.requests) >= r.completeAfter,
	}, nil
}

type EngineTestSuite struct {
	suite.Suite

	store     *snapshotStore
	submitter *recordingSubmitter
	engine    *Engine

	league   models.League
	round    models.AuctionRound
	humans   []models.Team
	botTeams []models.Team
}

func TestEngineTestSuite(t *testing.T) {
	suite.Run(t, new(EngineTestSuite))
}

func (s *EngineTestSuite) SetupTest() {
	s.league = models.League{
		ID:             uuid.New(),
		Name:           "Serie A Keepers",
		AdminUserID:    uuid.New(),
		InitialCredits: 500,
		Status:         models.LeagueStatusAuction,
		BotTier:        models.BotTierRandom,
	}
	s.round = models.AuctionRound{
		ID:       uuid.New(),
		LeagueID: s.league.ID,
		Position: models.PositionForward,
		Number:   1,
		Status:   models.RoundStatusSelection,
	}
	s.humans = []models.Team{
		{ID: uuid.New(), LeagueID: s.league.ID, UserID: uuid.New(), Name: "Humans FC", RemainingCredits: 400},
	}
	s.botTeams = []models.Team{
		{ID: uuid.New(), LeagueID: s.league.ID, UserID: uuid.New(), Name: "Bot One", RemainingCredits: 300, IsBot: true},
		{ID: uuid.New(), LeagueID: s.league.ID, UserID: uuid.New(), Name: "Bot Two", RemainingCredits: 250, IsBot: true},
	}

	s.store = &snapshotStore{
		league:       &s.league,
		round:        &s.round,
		teams:        append(append([]models.Team{}, s.humans...), s.botTeams...),
		compositions: make(map[uuid.UUID]roster.Composition),
		available: []models.Player{
			{ID: uuid.New(), LeagueID: s.league.ID, Name: "Cheap Striker", Position: models.PositionForward, Price: 5},
			{ID: uuid.New(), LeagueID: s.league.ID, Name: "Mid Striker", Position: models.PositionForward, Price: 40},
			{ID: uuid.New(), LeagueID: s.league.ID, Name: "Star Striker", Position: models.PositionForward, Price: 120},
		},
	}
	s.submitter = &recordingSubmitter{rejectPlayer: make(map[uuid.UUID]error)}
	s.engine = NewEngine(s.store, s.submitter, rand.New(rand.NewSource(42)))
}

func (s *EngineTestSuite) TestSubmitsForEveryIdleBot() {
	results, err := s.engine.TriggerRound(context.Background(), s.league.ID, s.round.ID, nil)
	s.Require().NoError(err)
	s.Require().Len(results, 2)

	s.Require().Len(s.submitter.requests, 2)
	seenPlayers := make(map[uuid.UUID]bool)
	for i, req := range s.submitter.requests {
		s.Equal(models.SelectionOriginBot, req.Origin)
		s.Equal(s.round.ID, req.RoundID)
		s.Require().NotNil(req.Justification)
		s.Require().NotNil(req.Confidence)
		s.False(seenPlayers[req.PlayerID], "bots must not claim the same player")
		seenPlayers[req.PlayerID] = true

		s.True(results[i].Submitted)
		s.NotNil(results[i].PlayerID)
	}
}

func (s *EngineTestSuite) TestHumansAreNeverTriggered() {
	results, err := s.engine.TriggerRound(context.Background(), s.league.ID, s.round.ID, nil)
	s.Require().NoError(err)

	for _, res := range results {
		s.NotEqual(s.humans[0].ID, res.TeamID)
	}
}

func (s *EngineTestSuite) TestSingleBotTrigger() {
	target := s.botTeams[1]
	results, err := s.engine.TriggerRound(context.Background(), s.league.ID, s.round.ID, &target.UserID)
	s.Require().NoError(err)
	s.Require().Len(results, 1)
	s.Equal(target.ID, results[0].TeamID)
	s.True(results[0].Submitted)
	s.Require().Len(s.submitter.requests, 1)
	s.Equal(target.UserID, s.submitter.requests[0].ActorUserID)
}

func (s *EngineTestSuite) TestBotWithExistingSelectionIsSkipped() {
	s.store.selections = []models.PlayerSelection{{
		ID:       uuid.New(),
		RoundID:  s.round.ID,
		UserID:   s.botTeams[0].UserID,
		PlayerID: s.store.available[0].ID,
		Origin:   models.SelectionOriginBot,
	}}

	results, err := s.engine.TriggerRound(context.Background(), s.league.ID, s.round.ID, nil)
	s.Require().NoError(err)
	s.Require().Len(results, 2)

	s.False(results[0].Submitted)
	s.Equal("already selected this round", results[0].Note)
	s.True(results[1].Submitted)
	// The already-claimed player is off the table for the second bot.
	s.NotEqual(s.store.available[0].ID, *results[1].PlayerID)
}

func (s *EngineTestSuite) TestNoSelectionPossibleIsNotAnError() {
	for i := range s.store.available {
		s.store.available[i].Price = 1000
	}

	results, err := s.engine.TriggerRound(context.Background(), s.league.ID, s.round.ID, nil)
	s.Require().NoError(err)
	s.Require().Len(results, 2)
	for _, res := range results {
		s.False(res.Submitted)
		s.Equal("no selection possible", res.Note)
	}
	s.Empty(s.submitter.requests)
}

func (s *EngineTestSuite) TestRejectedSubmissionIsReportedAndSkipped() {
	for i := range s.store.available {
		s.submitter.rejectPlayer[s.store.available[i].ID] = auction.ErrPlayerUnavailable
	}

	results, err := s.engine.TriggerRound(context.Background(), s.league.ID, s.round.ID, nil)
	s.Require().NoError(err)
	s.Require().Len(results, 2)
	for _, res := range results {
		s.False(res.Submitted)
		s.NotEmpty(res.Note)
	}
}

func (s *EngineTestSuite) TestStopsWhenRoundCompletes() {
	s.submitter.completeAfter = 1

	results, err := s.engine.TriggerRound(context.Background(), s.league.ID, s.round.ID, nil)
	s.Require().NoError(err)
	s.Require().Len(results, 1)
	s.True(results[0].Submitted)
	s.True(results[0].RoundComplete)
	s.Len(s.submitter.requests, 1)
}

func (s *EngineTestSuite) TestRequiresOpenRound() {
	s.round.Status = models.RoundStatusResolution
	s.store.round = &s.round

	_, err := s.engine.TriggerRound(context.Background(), s.league.ID, s.round.ID, nil)
	s.Require().ErrorIs(err, auction.ErrRoundNotOpen)
}

func (s *EngineTestSuite) TestRoundMustBelongToLeague() {
	_, err := s.engine.TriggerRound(context.Background(), uuid.New(), s.round.ID, nil)
	s.Require().ErrorIs(err, auction.ErrRoundNotFound)
}
