// Package leagues handles league setup: creating the competition, enrolling
// participants and loading the selectable player pool. Everything here happens
// before or alongside the round lifecycle owned by the auction package.
package leagues

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mfmanca2000/easyasta/internal/auction"
	"github.com/mfmanca2000/easyasta/internal/models"
	"github.com/mfmanca2000/easyasta/internal/roster"
	"github.com/rs/zerolog/log"
)

// App handles league setup business logic.
type App struct {
	db       *sql.DB
	newRepo  func(auction.DBTX) *Repository
	newStore func(auction.DBTX) auction.Store
	clock    clockwork.Clock
}

func NewApp(db *sql.DB, newRepo func(auction.DBTX) *Repository, newStore func(auction.DBTX) auction.Store, clock clockwork.Clock) *App {
	return &App{
		db:       db,
		newRepo:  newRepo,
		newStore: newStore,
		clock:    clock,
	}
}

func (a *App) inTx(ctx context.Context, fn func(repo *Repository, s auction.Store) error) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(a.newRepo(tx), a.newStore(tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// CreateLeague creates a league in SETUP. The bot tier defaults to RANDOM
// when the request leaves it blank.
func (a *App) CreateLeague(ctx context.Context, req CreateLeagueRequest) (*models.League, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, ErrInvalidLeagueName
	}
	if req.InitialCredits <= 0 {
		return nil, ErrInvalidCredits
	}
	tier := req.BotTier
	switch tier {
	case models.BotTierRandom, models.BotTierBalanced, models.BotTierStrategic:
	case "":
		tier = models.BotTierRandom
	default:
		return nil, &auction.Error{Kind: auction.KindPolicyViolation, Message: "unknown bot tier"}
	}

	now := a.clock.Now().UTC()
	league := models.League{
		ID:             uuid.New(),
		Name:           req.Name,
		AdminUserID:    req.AdminUserID,
		InitialCredits: req.InitialCredits,
		Status:         models.LeagueStatusSetup,
		BotTier:        tier,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	err := a.inTx(ctx, func(repo *Repository, _ auction.Store) error {
		return repo.CreateLeague(ctx, league)
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("league_id", league.ID.String()).
		Str("name", league.Name).
		Int("initial_credits", league.InitialCredits).
		Str("bot_tier", string(league.BotTier)).
		Msg("league created")
	return &league, nil
}

// RegisterTeam enrolls a participant with the league's full starting budget.
// Enrollment closes once the first round starts.
func (a *App) RegisterTeam(ctx context.Context, req RegisterTeamRequest) (*models.Team, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, &auction.Error{Kind: auction.KindPolicyViolation, Message: "team name must not be empty"}
	}

	var team models.Team
	err := a.inTx(ctx, func(repo *Repository, s auction.Store) error {
		league, err := s.GetLeagueForUpdate(ctx, req.LeagueID)
		if err != nil {
			return err
		}
		if league.Status != models.LeagueStatusSetup {
			return ErrLeagueNotInSetup
		}

		existing, err := s.GetTeamByUser(ctx, league.ID, req.UserID)
		if err != nil && !errors.Is(err, auction.ErrTeamNotFound) {
			return err
		}
		if existing != nil {
			return ErrUserAlreadyEnrolled
		}

		now := a.clock.Now().UTC()
		team = models.Team{
			ID:               uuid.New(),
			LeagueID:         league.ID,
			UserID:           req.UserID,
			Name:             req.Name,
			RemainingCredits: league.InitialCredits,
			IsBot:            req.IsBot,
			CreatedAt:        now,
			UpdatedAt:        now,
		}
		return repo.CreateTeam(ctx, team)
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("league_id", team.LeagueID.String()).
		Str("team_id", team.ID.String()).
		Bool("is_bot", team.IsBot).
		Msg("team registered")
	return &team, nil
}

// ImportPlayers bulk-loads the player pool. Only valid during SETUP.
func (a *App) ImportPlayers(ctx context.Context, req ImportPlayersRequest) (int, error) {
	if len(req.Players) == 0 {
		return 0, ErrEmptyImport
	}
	for _, entry := range req.Players {
		if !entry.Position.Valid() {
			return 0, &auction.Error{Kind: auction.KindPolicyViolation, Message: "unknown position " + string(entry.Position)}
		}
		if entry.Price <= 0 {
			return 0, &auction.Error{Kind: auction.KindPolicyViolation, Message: "player price must be positive"}
		}
	}

	err := a.inTx(ctx, func(repo *Repository, s auction.Store) error {
		league, err := s.GetLeagueForUpdate(ctx, req.LeagueID)
		if err != nil {
			return err
		}
		if league.Status != models.LeagueStatusSetup {
			return ErrLeagueNotInSetup
		}

		now := a.clock.Now().UTC()
		players := make([]models.Player, len(req.Players))
		for i, entry := range req.Players {
			players[i] = models.Player{
				ID:        uuid.New(),
				LeagueID:  league.ID,
				Name:      entry.Name,
				Position:  entry.Position,
				Price:     entry.Price,
				CreatedAt: now,
			}
		}
		return repo.CreatePlayers(ctx, players)
	})
	if err != nil {
		return 0, err
	}

	log.Info().
		Str("league_id", req.LeagueID.String()).
		Int("players", len(req.Players)).
		Msg("players imported")
	return len(req.Players), nil
}

// GetLeague returns the league row.
func (a *App) GetLeague(ctx context.Context, id uuid.UUID) (*models.League, error) {
	return a.newStore(a.db).GetLeague(ctx, id)
}

// ListAvailablePlayers returns the unassigned pool of one position category.
func (a *App) ListAvailablePlayers(ctx context.Context, leagueID uuid.UUID, pos models.Position) ([]models.Player, error) {
	if !pos.Valid() {
		return nil, &auction.Error{Kind: auction.KindPolicyViolation, Message: "unknown position " + string(pos)}
	}
	return a.newStore(a.db).ListAvailablePlayers(ctx, leagueID, pos)
}

// Snapshot assembles the league read model: teams with rosters and the active
// round, if any.
func (a *App) Snapshot(ctx context.Context, leagueID uuid.UUID) (*LeagueSnapshot, error) {
	var snap LeagueSnapshot
	err := a.inTx(ctx, func(repo *Repository, s auction.Store) error {
		league, err := s.GetLeague(ctx, leagueID)
		if err != nil {
			return err
		}
		snap.League = *league

		teams, err := s.ListTeams(ctx, leagueID)
		if err != nil {
			return err
		}
		snap.Teams = make([]TeamSnapshot, 0, len(teams))
		for _, team := range teams {
			entries, err := repo.ListRoster(ctx, team.ID)
			if err != nil {
				return err
			}
			comp := make(roster.Composition)
			for _, e := range entries {
				comp[e.Player.Position]++
			}
			snap.Teams = append(snap.Teams, TeamSnapshot{
				Team:        team,
				Composition: comp,
				Roster:      entries,
				IsComplete:  roster.IsComplete(comp),
			})
		}

		snap.ActiveRound, err = s.GetActiveRound(ctx, leagueID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return &snap, nil
}
