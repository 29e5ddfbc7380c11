package auction

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/mfmanca2000/easyasta/internal/models"
	"github.com/mfmanca2000/easyasta/internal/roster"
)

// DBTX is satisfied by both *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Repository implements Store against Postgres.
type Repository struct {
	db DBTX
}

// NewRepository binds a repository to db, which is normally the transaction
// the calling unit of work opened.
func NewRepository(db DBTX) *Repository {
	return &Repository{db: db}
}

var _ Store = (*Repository)(nil)

const leagueColumns = `id, name, admin_user_id, initial_credits, status, bot_tier, created_at, updated_at`

func (r *Repository) getLeague(ctx context.Context, id uuid.UUID, forUpdate bool) (*models.League, error) {
	query := `SELECT ` + leagueColumns + ` FROM leagues WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var l models.League
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&l.ID, &l.Name, &l.AdminUserID, &l.InitialCredits, &l.Status, &l.BotTier, &l.CreatedAt, &l.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrLeagueNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get league: %w", err)
	}
	return &l, nil
}

func (r *Repository) GetLeague(ctx context.Context, id uuid.UUID) (*models.League, error) {
	return r.getLeague(ctx, id, false)
}

func (r *Repository) GetLeagueForUpdate(ctx context.Context, id uuid.UUID) (*models.League, error) {
	return r.getLeague(ctx, id, true)
}

func (r *Repository) UpdateLeagueStatus(ctx context.Context, id uuid.UUID, status models.LeagueStatus) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE leagues SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update league status: %w", err)
	}
	return nil
}

const roundColumns = `id, league_id, position, number, status, created_at, updated_at`

func (r *Repository) scanRound(row *sql.Row) (*models.AuctionRound, error) {
	var rd models.AuctionRound
	err := row.Scan(&rd.ID, &rd.LeagueID, &rd.Position, &rd.Number, &rd.Status, &rd.CreatedAt, &rd.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &rd, nil
}

func (r *Repository) getRound(ctx context.Context, id uuid.UUID, forUpdate bool) (*models.AuctionRound, error) {
	query := `SELECT ` + roundColumns + ` FROM auction_rounds WHERE id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	rd, err := r.scanRound(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrRoundNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get round: %w", err)
	}
	return rd, nil
}

func (r *Repository) GetRound(ctx context.Context, id uuid.UUID) (*models.AuctionRound, error) {
	return r.getRound(ctx, id, false)
}

func (r *Repository) GetRoundForUpdate(ctx context.Context, id uuid.UUID) (*models.AuctionRound, error) {
	return r.getRound(ctx, id, true)
}

func (r *Repository) GetActiveRound(ctx context.Context, leagueID uuid.UUID) (*models.AuctionRound, error) {
	rd, err := r.scanRound(r.db.QueryRowContext(ctx,
		`SELECT `+roundColumns+` FROM auction_rounds
		 WHERE league_id = $1 AND status IN ('SELECTION', 'RESOLUTION')
		 FOR UPDATE`, leagueID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get active round: %w", err)
	}
	return rd, nil
}

func (r *Repository) LastRoundNumber(ctx context.Context, leagueID uuid.UUID, pos models.Position) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(MAX(number), 0) FROM auction_rounds WHERE league_id = $1 AND position = $2`,
		leagueID, pos).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to get last round number: %w", err)
	}
	return n, nil
}

func (r *Repository) CreateRound(ctx context.Context, round models.AuctionRound) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO auction_rounds (id, league_id, position, number, status, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $6)`,
		round.ID, round.LeagueID, round.Position, round.Number, round.Status, round.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create round: %w", err)
	}
	return nil
}

func (r *Repository) UpdateRoundStatus(ctx context.Context, id uuid.UUID, status models.RoundStatus) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE auction_rounds SET status = $2, updated_at = now() WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update round status: %w", err)
	}
	return nil
}

func (r *Repository) DeleteRound(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM auction_rounds WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete round: %w", err)
	}
	return nil
}

func (r *Repository) LatestOtherRound(ctx context.Context, leagueID, excludeID uuid.UUID) (*models.AuctionRound, error) {
	rd, err := r.scanRound(r.db.QueryRowContext(ctx,
		`SELECT `+roundColumns+` FROM auction_rounds
		 WHERE league_id = $1 AND id <> $2
		 ORDER BY created_at DESC
		 LIMIT 1`, leagueID, excludeID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get latest other round: %w", err)
	}
	return rd, nil
}

const teamColumns = `id, league_id, user_id, name, remaining_credits, is_bot, created_at, updated_at`

func (r *Repository) GetTeam(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	var t models.Team
	err := r.db.QueryRowContext(ctx,
		`SELECT `+teamColumns+` FROM teams WHERE id = $1`, id).Scan(
		&t.ID, &t.LeagueID, &t.UserID, &t.Name, &t.RemainingCredits, &t.IsBot, &t.CreatedAt, &t.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTeamNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	return &t, nil
}

func (r *Repository) GetTeamByUser(ctx context.Context, leagueID, userID uuid.UUID) (*models.Team, error) {
	var t models.Team
	err := r.db.QueryRowContext(ctx,
		`SELECT `+teamColumns+` FROM teams WHERE league_id = $1 AND user_id = $2`,
		leagueID, userID).Scan(
		&t.ID, &t.LeagueID, &t.UserID, &t.Name, &t.RemainingCredits, &t.IsBot, &t.CreatedAt, &t.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrTeamNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get team by user: %w", err)
	}
	return &t, nil
}

func (r *Repository) ListTeams(ctx context.Context, leagueID uuid.UUID) ([]models.Team, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+teamColumns+` FROM teams WHERE league_id = $1 ORDER BY created_at`, leagueID)
	if err != nil {
		return nil, fmt.Errorf("failed to list teams: %w", err)
	}
	defer rows.Close()

	var teams []models.Team
	for rows.Next() {
		var t models.Team
		if err := rows.Scan(&t.ID, &t.LeagueID, &t.UserID, &t.Name, &t.RemainingCredits, &t.IsBot, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

func (r *Repository) CountTeams(ctx context.Context, leagueID uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM teams WHERE league_id = $1`, leagueID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count teams: %w", err)
	}
	return n, nil
}

func (r *Repository) DeductTeamCredits(ctx context.Context, teamID uuid.UUID, amount int) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE teams SET remaining_credits = remaining_credits - $2, updated_at = now()
		 WHERE id = $1 AND remaining_credits >= $2`, teamID, amount)
	if err != nil {
		return fmt.Errorf("failed to deduct team credits: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to deduct team credits: %w", err)
	}
	if affected == 0 {
		return ErrInsufficientFunds
	}
	return nil
}

func (r *Repository) TeamComposition(ctx context.Context, teamID uuid.UUID) (roster.Composition, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT p.position, COUNT(*)
		 FROM team_players tp
		 JOIN players p ON p.id = tp.player_id
		 WHERE tp.team_id = $1
		 GROUP BY p.position`, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to get team composition: %w", err)
	}
	defer rows.Close()

	comp := make(roster.Composition)
	for rows.Next() {
		var pos models.Position
		var n int
		if err := rows.Scan(&pos, &n); err != nil {
			return nil, fmt.Errorf("failed to scan composition row: %w", err)
		}
		comp[pos] = n
	}
	return comp, rows.Err()
}

func (r *Repository) GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error) {
	var p models.Player
	err := r.db.QueryRowContext(ctx,
		`SELECT id, league_id, name, position, price, is_assigned, created_at FROM players WHERE id = $1`,
		id).Scan(&p.ID, &p.LeagueID, &p.Name, &p.Position, &p.Price, &p.IsAssigned, &p.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrPlayerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get player: %w", err)
	}
	return &p, nil
}

func (r *Repository) ListAvailablePlayers(ctx context.Context, leagueID uuid.UUID, pos models.Position) ([]models.Player, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, league_id, name, position, price, is_assigned, created_at
		 FROM players
		 WHERE league_id = $1 AND position = $2 AND is_assigned = FALSE
		 ORDER BY price, name`, leagueID, pos)
	if err != nil {
		return nil, fmt.Errorf("failed to list available players: %w", err)
	}
	defer rows.Close()

	var players []models.Player
	for rows.Next() {
		var p models.Player
		if err := rows.Scan(&p.ID, &p.LeagueID, &p.Name, &p.Position, &p.Price, &p.IsAssigned, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan player: %w", err)
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

func (r *Repository) MarkPlayerAssigned(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `UPDATE players SET is_assigned = TRUE WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to mark player assigned: %w", err)
	}
	return nil
}

func (r *Repository) AddPlayerToRoster(ctx context.Context, teamID, playerID uuid.UUID, pricePaid int) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO team_players (team_id, player_id, price_paid, acquired_at) VALUES ($1, $2, $3, now())`,
		teamID, playerID, pricePaid)
	if err != nil {
		return fmt.Errorf("failed to add player to roster: %w", err)
	}
	return nil
}

const selectionColumns = `id, round_id, user_id, player_id, origin, justification, confidence, random_number, is_winner, created_at`

func (r *Repository) scanSelection(scan func(...any) error) (*models.PlayerSelection, error) {
	var s models.PlayerSelection
	var justification sql.NullString
	var confidence sql.NullFloat64
	var randomNumber sql.NullInt64
	var isWinner sql.NullBool

	err := scan(&s.ID, &s.RoundID, &s.UserID, &s.PlayerID, &s.Origin,
		&justification, &confidence, &randomNumber, &isWinner, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	if justification.Valid {
		s.Justification = &justification.String
	}
	if confidence.Valid {
		s.Confidence = &confidence.Float64
	}
	if randomNumber.Valid {
		s.RandomNumber = &randomNumber.Int64
	}
	if isWinner.Valid {
		s.IsWinner = &isWinner.Bool
	}
	return &s, nil
}

func (r *Repository) GetSelection(ctx context.Context, roundID, userID uuid.UUID) (*models.PlayerSelection, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+selectionColumns+` FROM player_selections WHERE round_id = $1 AND user_id = $2`,
		roundID, userID)
	s, err := r.scanSelection(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get selection: %w", err)
	}
	return s, nil
}

func (r *Repository) ListSelections(ctx context.Context, roundID uuid.UUID) ([]models.PlayerSelection, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+selectionColumns+` FROM player_selections WHERE round_id = $1 ORDER BY created_at`,
		roundID)
	if err != nil {
		return nil, fmt.Errorf("failed to list selections: %w", err)
	}
	defer rows.Close()

	var selections []models.PlayerSelection
	for rows.Next() {
		s, err := r.scanSelection(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan selection: %w", err)
		}
		selections = append(selections, *s)
	}
	return selections, rows.Err()
}

func (r *Repository) CreateSelection(ctx context.Context, sel models.PlayerSelection) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO player_selections (id, round_id, user_id, player_id, origin, justification, confidence, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		sel.ID, sel.RoundID, sel.UserID, sel.PlayerID, sel.Origin, sel.Justification, sel.Confidence, sel.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create selection: %w", err)
	}
	return nil
}

func (r *Repository) CountSelections(ctx context.Context, roundID uuid.UUID) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM player_selections WHERE round_id = $1`, roundID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count selections: %w", err)
	}
	return n, nil
}

func (r *Repository) StampSelection(ctx context.Context, id uuid.UUID, randomNumber *int64, isWinner bool) error {
	var rn sql.NullInt64
	if randomNumber != nil {
		rn = sql.NullInt64{Int64: *randomNumber, Valid: true}
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE player_selections SET random_number = $2, is_winner = $3 WHERE id = $1`,
		id, rn, isWinner)
	if err != nil {
		return fmt.Errorf("failed to stamp selection: %w", err)
	}
	return nil
}

func (r *Repository) DeleteSelection(ctx context.Context, id uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM player_selections WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete selection: %w", err)
	}
	return nil
}

func (r *Repository) DeleteSelectionsForRound(ctx context.Context, roundID uuid.UUID) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM player_selections WHERE round_id = $1`, roundID); err != nil {
		return fmt.Errorf("failed to delete selections for round: %w", err)
	}
	return nil
}
