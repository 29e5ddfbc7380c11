package admin

import (
	"context"
	"fmt"

	"github.com/mfmanca2000/easyasta/internal/auction"
	"github.com/mfmanca2000/easyasta/internal/models"
	"github.com/sqlc-dev/pqtype"
)

// Repository persists admin audit records.
type Repository struct {
	db auction.DBTX
}

// NewRepository binds the audit repository to db, normally the transaction of
// the override being recorded.
func NewRepository(db auction.DBTX) *Repository {
	return &Repository{db: db}
}

// InsertAction appends one immutable audit record.
func (r *Repository) InsertAction(ctx context.Context, action models.AdminAction) error {
	metadata := pqtype.NullRawMessage{RawMessage: action.Metadata, Valid: len(action.Metadata) > 0}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO admin_actions (id, league_id, actor_user_id, kind, round_id, team_id, player_id, reason, metadata, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		action.ID, action.LeagueID, action.ActorUserID, action.Kind,
		action.RoundID, action.TeamID, action.PlayerID, action.Reason, metadata, action.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert admin action: %w", err)
	}
	return nil
}
