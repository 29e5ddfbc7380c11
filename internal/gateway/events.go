package gateway

import (
	"encoding/json"
	"time"

	"github.com/mfmanca2000/easyasta/internal/auction/events"
)

// LeagueEvent is the frame pushed to WebSocket clients. Data carries the
// kind-specific payload from the originating envelope.
type LeagueEvent struct {
	ID        string          `json:"id"`
	LeagueID  string          `json:"league_id"`
	Type      events.Kind     `json:"type"`
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// fromEnvelope converts a decoded outbox envelope to the client frame.
func fromEnvelope(env events.Envelope) *LeagueEvent {
	return &LeagueEvent{
		ID:        env.ID.String(),
		LeagueID:  env.LeagueID.String(),
		Type:      env.Kind,
		Timestamp: env.OccurredAt,
		Data:      env.Payload,
	}
}
