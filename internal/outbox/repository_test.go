package outbox

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mfmanca2000/easyasta/internal/auction/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type execCall struct {
	query string
	args  []any
}

// execRecorder satisfies auction.DBTX for exec-only assertions.
type execRecorder struct {
	calls []execCall
}

func (r *execRecorder) ExecContext(_ context.Context, query string, args ...any) (sql.Result, error) {
	r.calls = append(r.calls, execCall{query: query, args: args})
	return nil, nil
}

func (r *execRecorder) QueryContext(context.Context, string, ...any) (*sql.Rows, error) {
	panic("unexpected query")
}

func (r *execRecorder) QueryRowContext(context.Context, string, ...any) *sql.Row {
	panic("unexpected query")
}

func TestInsertPersistsEnvelopeVerbatim(t *testing.T) {
	db := &execRecorder{}
	repo := NewRepository(db)

	env, err := events.NewEnvelope(uuid.New(), time.Now().UTC(), events.RoundStartedPayload{
		RoundID:  uuid.New().String(),
		Position: "FORWARD",
		Number:   1,
	})
	require.NoError(t, err)

	require.NoError(t, repo.Insert(context.Background(), env))
	require.Len(t, db.calls, 1)

	call := db.calls[0]
	assert.Contains(t, call.query, "INSERT INTO auction_outbox")
	require.Len(t, call.args, 5)
	assert.Equal(t, env.ID, call.args[0])
	assert.Equal(t, env.LeagueID, call.args[1])
	assert.Equal(t, env.Kind, call.args[2])

	var stored events.Envelope
	require.NoError(t, json.Unmarshal(call.args[3].([]byte), &stored))
	assert.Equal(t, env.ID, stored.ID)
	assert.Equal(t, env.Kind, stored.Kind)

	payload, err := stored.Decode()
	require.NoError(t, err)
	started, ok := payload.(*events.RoundStartedPayload)
	require.True(t, ok)
	assert.Equal(t, 1, started.Number)
}

func TestMarkSentSkipsEmptyBatch(t *testing.T) {
	db := &execRecorder{}
	repo := NewRepository(db)

	require.NoError(t, repo.MarkSent(context.Background(), nil))
	assert.Empty(t, db.calls)
}
