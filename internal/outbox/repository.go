package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/mfmanca2000/easyasta/internal/auction"
	"github.com/mfmanca2000/easyasta/internal/auction/events"
)

// Repository persists outbox rows. Insert is called inside the same
// transaction as the domain mutation that produced the event; the fetch and
// mark methods run inside the worker's own transaction.
type Repository struct {
	db auction.DBTX
}

func NewRepository(db auction.DBTX) *Repository {
	return &Repository{db: db}
}

var _ auction.Outbox = (*Repository)(nil)

// Insert stores the envelope for later delivery. The payload column carries
// the envelope exactly as consumers will receive it.
func (r *Repository) Insert(ctx context.Context, ev events.Envelope) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("failed to marshal outbox envelope: %w", err)
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO auction_outbox (id, league_id, event_kind, payload, created_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		ev.ID, ev.LeagueID, ev.Kind, payload, ev.OccurredAt)
	if err != nil {
		return fmt.Errorf("failed to insert outbox event: %w", err)
	}
	return nil
}

// FetchUnsent returns up to limit undelivered events, oldest first, locking
// the rows so concurrent workers never deliver the same event twice.
func (r *Repository) FetchUnsent(ctx context.Context, limit int32) ([]OutboxEvent, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, league_id, event_kind, payload, created_at
		 FROM auction_outbox
		 WHERE sent_at IS NULL
		 ORDER BY created_at
		 LIMIT $1
		 FOR UPDATE SKIP LOCKED`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unsent outbox events: %w", err)
	}
	defer rows.Close()

	var out []OutboxEvent
	for rows.Next() {
		var ev OutboxEvent
		if err := rows.Scan(&ev.ID, &ev.LeagueID, &ev.EventKind, &ev.Payload, &ev.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan outbox event: %w", err)
		}
		out = append(out, ev)
	}
	return out, rows.Err()
}

// MarkSent stamps the given events as delivered.
func (r *Repository) MarkSent(ctx context.Context, ids []uuid.UUID) error {
	if len(ids) == 0 {
		return nil
	}
	_, err := r.db.ExecContext(ctx,
		`UPDATE auction_outbox SET sent_at = now() WHERE id = ANY($1)`, pq.Array(ids))
	if err != nil {
		return fmt.Errorf("failed to mark outbox events as sent: %w", err)
	}
	return nil
}

// FetchByID returns one undelivered event, for manual redelivery tooling.
func (r *Repository) FetchByID(ctx context.Context, id uuid.UUID) (*OutboxEvent, error) {
	var ev OutboxEvent
	err := r.db.QueryRowContext(ctx,
		`SELECT id, league_id, event_kind, payload, created_at
		 FROM auction_outbox
		 WHERE id = $1 AND sent_at IS NULL`, id).
		Scan(&ev.ID, &ev.LeagueID, &ev.EventKind, &ev.Payload, &ev.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("outbox event not found or already sent")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch outbox event: %w", err)
	}
	return &ev, nil
}
