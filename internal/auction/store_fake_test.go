package auction

import (
	"context"
	"sort"

	"github.com/google/uuid"
	"github.com/mfmanca2000/easyasta/internal/models"
	"github.com/mfmanca2000/easyasta/internal/roster"
)

// fakeStore is an in-memory Store for exercising the validator and resolver
// without a database. Locking semantics are irrelevant single-threaded, so
// the ForUpdate variants are plain reads.
type fakeStore struct {
	leagues    map[uuid.UUID]*models.League
	rounds     map[uuid.UUID]*models.AuctionRound
	teams      map[uuid.UUID]*models.Team
	players    map[uuid.UUID]*models.Player
	selections map[uuid.UUID]*models.PlayerSelection
	rosters    map[uuid.UUID][]uuid.UUID // teamID -> playerIDs
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		leagues:    make(map[uuid.UUID]*models.League),
		rounds:     make(map[uuid.UUID]*models.AuctionRound),
		teams:      make(map[uuid.UUID]*models.Team),
		players:    make(map[uuid.UUID]*models.Player),
		selections: make(map[uuid.UUID]*models.PlayerSelection),
		rosters:    make(map[uuid.UUID][]uuid.UUID),
	}
}

var _ Store = (*fakeStore)(nil)

func (f *fakeStore) GetLeague(_ context.Context, id uuid.UUID) (*models.League, error) {
	l, ok := f.leagues[id]
	if !ok {
		return nil, ErrLeagueNotFound
	}
	cp := *l
	return &cp, nil
}

func (f *fakeStore) GetLeagueForUpdate(ctx context.Context, id uuid.UUID) (*models.League, error) {
	return f.GetLeague(ctx, id)
}

func (f *fakeStore) UpdateLeagueStatus(_ context.Context, id uuid.UUID, status models.LeagueStatus) error {
	if l, ok := f.leagues[id]; ok {
		l.Status = status
	}
	return nil
}

func (f *fakeStore) GetRound(_ context.Context, id uuid.UUID) (*models.AuctionRound, error) {
	r, ok := f.rounds[id]
	if !ok {
		return nil, ErrRoundNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeStore) GetRoundForUpdate(ctx context.Context, id uuid.UUID) (*models.AuctionRound, error) {
	return f.GetRound(ctx, id)
}

func (f *fakeStore) GetActiveRound(_ context.Context, leagueID uuid.UUID) (*models.AuctionRound, error) {
	for _, r := range f.rounds {
		if r.LeagueID == leagueID && r.Status.Active() {
			cp := *r
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) LastRoundNumber(_ context.Context, leagueID uuid.UUID, pos models.Position) (int, error) {
	last := 0
	for _, r := range f.rounds {
		if r.LeagueID == leagueID && r.Position == pos && r.Number > last {
			last = r.Number
		}
	}
	return last, nil
}

func (f *fakeStore) CreateRound(_ context.Context, round models.AuctionRound) error {
	cp := round
	f.rounds[round.ID] = &cp
	return nil
}

func (f *fakeStore) UpdateRoundStatus(_ context.Context, id uuid.UUID, status models.RoundStatus) error {
	if r, ok := f.rounds[id]; ok {
		r.Status = status
	}
	return nil
}

func (f *fakeStore) DeleteRound(_ context.Context, id uuid.UUID) error {
	delete(f.rounds, id)
	return nil
}

func (f *fakeStore) LatestOtherRound(_ context.Context, leagueID, excludeID uuid.UUID) (*models.AuctionRound, error) {
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
	cp := *latest
	return &cp, nil
}

func (f *fakeStore) GetTeam(_ context.Context, id uuid.UUID) (*models.Team, error) {
	t, ok := f.teams[id]
	if !ok {
		return nil, ErrTeamNotFound
	}
	cp := *t
	return &cp, nil
}

func (f *fakeStore) GetTeamByUser(_ context.Context, leagueID, userID uuid.UUID) (*models.Team, error) {
	for _, t := range f.teams {
		if t.LeagueID == leagueID && t.UserID == userID {
			cp := *t
			return &cp, nil
		}
	}
	return nil, ErrTeamNotFound
}

func (f *fakeStore) ListTeams(_ context.Context, leagueID uuid.UUID) ([]models.Team, error) {
	var teams []models.Team
	for _, t := range f.teams {
		if t.LeagueID == leagueID {
			teams = append(teams, *t)
		}
	}
	sort.Slice(teams, func(i, j int) bool { return teams[i].CreatedAt.Before(teams[j].CreatedAt) })
	return teams, nil
}

func (f *fakeStore) CountTeams(ctx context.Context, leagueID uuid.UUID) (int, error) {
	teams, _ := f.ListTeams(ctx, leagueID)
	return len(teams), nil
}

func (f *fakeStore) DeductTeamCredits(_ context.Context, teamID uuid.UUID, amount int) error {
	t, ok := f.teams[teamID]
	if !ok || t.RemainingCredits < amount {
		return ErrInsufficientFunds
	}
	t.RemainingCredits -= amount
	return nil
}

func (f *fakeStore) TeamComposition(_ context.Context, teamID uuid.UUID) (roster.Composition, error) {
	comp := make(roster.Composition)
	for _, pid := range f.rosters[teamID] {
		comp[f.players[pid].Position]++
	}
	return comp, nil
}

func (f *fakeStore) GetPlayer(_ context.Context, id uuid.UUID) (*models.Player, error) {
	p, ok := f.players[id]
	if !ok {
		return nil, ErrPlayerNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) ListAvailablePlayers(_ context.Context, leagueID uuid.UUID, pos models.Position) ([]models.Player, error) {
	var out []models.Player
	for _, p := range f.players {
		if p.LeagueID == leagueID && p.Position == pos && !p.IsAssigned {
			out = append(out, *p)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Price != out[j].Price {
			return out[i].Price < out[j].Price
		}
		return out[i].Name < out[j].Name
	})
	return out, nil
}

func (f *fakeStore) MarkPlayerAssigned(_ context.Context, id uuid.UUID) error {
	if p, ok := f.players[id]; ok {
		p.IsAssigned = true
	}
	return nil
}

func (f *fakeStore) AddPlayerToRoster(_ context.Context, teamID, playerID uuid.UUID, _ int) error {
	f.rosters[teamID] = append(f.rosters[teamID], playerID)
	return nil
}

func (f *fakeStore) GetSelection(_ context.Context, roundID, userID uuid.UUID) (*models.PlayerSelection, error) {
	for _, s := range f.selections {
		if s.RoundID == roundID && s.UserID == userID {
			cp := *s
			return &cp, nil
		}
	}
	return nil, nil
}

func (f *fakeStore) ListSelections(_ context.Context, roundID uuid.UUID) ([]models.PlayerSelection, error) {
	var out []models.PlayerSelection
	for _, s := range f.selections {
		if s.RoundID == roundID {
			out = append(out, *s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (f *fakeStore) CreateSelection(_ context.Context, sel models.PlayerSelection) error {
	cp := sel
	f.selections[sel.ID] = &cp
	return nil
}

func (f *fakeStore) CountSelections(ctx context.Context, roundID uuid.UUID) (int, error) {
	sels, _ := f.ListSelections(ctx, roundID)
	return len(sels), nil
}

func (f *fakeStore) StampSelection(_ context.Context, id uuid.UUID, randomNumber *int64, isWinner bool) error {
	s, ok := f.selections[id]
	if !ok {
		return nil
	}
	if randomNumber != nil {
		n := *randomNumber
		s.RandomNumber = &n
	}
	w := isWinner
	s.IsWinner = &w
	return nil
}

func (f *fakeStore) DeleteSelection(_ context.Context, id uuid.UUID) error {
	delete(f.selections, id)
	return nil
}

func (f *fakeStore) DeleteSelectionsForRound(_ context.Context, roundID uuid.UUID) error {
	for id, s := range f.selections {
		if s.RoundID == roundID {
			delete(f.selections, id)
		}
	}
	return nil
}
