package leagues

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/mfmanca2000/easyasta/internal/auction"
	"github.com/mfmanca2000/easyasta/internal/models"
)

// Repository persists league setup data: leagues, teams and the player pool.
type Repository struct {
	db auction.DBTX
}

func NewRepository(db auction.DBTX) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateLeague(ctx context.Context, league models.League) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO leagues (id, name, admin_user_id, initial_credits, status, bot_tier, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		league.ID, league.Name, league.AdminUserID, league.InitialCredits,
		league.Status, league.BotTier, league.CreatedAt, league.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create league: %w", err)
	}
	return nil
}

func (r *Repository) CreateTeam(ctx context.Context, team models.Team) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO teams (id, league_id, user_id, name, remaining_credits, is_bot, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		team.ID, team.LeagueID, team.UserID, team.Name, team.RemainingCredits,
		team.IsBot, team.CreatedAt, team.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create team: %w", err)
	}
	return nil
}

func (r *Repository) CreatePlayers(ctx context.Context, players []models.Player) error {
	for _, p := range players {
		_, err := r.db.ExecContext(ctx,
			`INSERT INTO players (id, league_id, name, position, price, is_assigned, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			p.ID, p.LeagueID, p.Name, p.Position, p.Price, p.IsAssigned, p.CreatedAt)
		if err != nil {
			return fmt.Errorf("failed to create player %s: %w", p.Name, err)
		}
	}
	return nil
}

// ListRoster returns a team's assigned players with the price paid for each.
func (r *Repository) ListRoster(ctx context.Context, teamID uuid.UUID) ([]RosterEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT p.id, p.league_id, p.name, p.position, p.price, p.is_assigned, p.created_at, tp.price_paid
		 FROM team_players tp
		 JOIN players p ON p.id = tp.player_id
		 WHERE tp.team_id = $1
		 ORDER BY tp.acquired_at`, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list roster: %w", err)
	}
	defer rows.Close()

	var out []RosterEntry
	for rows.Next() {
		var e RosterEntry
		if err := rows.Scan(
			&e.Player.ID, &e.Player.LeagueID, &e.Player.Name, &e.Player.Position,
			&e.Player.Price, &e.Player.IsAssigned, &e.Player.CreatedAt, &e.PricePaid,
		); err != nil {
			return nil, fmt.Errorf("failed to scan roster entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
