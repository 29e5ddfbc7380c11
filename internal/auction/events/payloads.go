// Package events defines the notification payloads fanned out to league
// participants. Each event kind has its own payload type; consumers switch on
// Kind and decode exactly one shape, never probe optional fields.
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Kind tags an event envelope.
type Kind string

const (
	KindSelectionMade           Kind = "SelectionMade"
	KindRoundReadyForResolution Kind = "RoundReadyForResolution"
	KindRoundResolved           Kind = "RoundResolved"
	KindRoundStarted            Kind = "RoundStarted"
	KindAdminOverrideApplied    Kind = "AdminOverrideApplied"
)

// Payload is implemented by every event payload type.
type Payload interface {
	EventKind() Kind
}

// SelectionMadePayload is emitted after every accepted pick.
type SelectionMadePayload struct {
	RoundID    string    `json:"round_id"`
	UserID     string    `json:"user_id"`
	TeamID     string    `json:"team_id"`
	PlayerID   string    `json:"player_id"`
	Origin     string    `json:"origin"`
	Selections int       `json:"selections"`
	TeamCount  int       `json:"team_count"`
	MadeAt     time.Time `json:"made_at"`
}

func (SelectionMadePayload) EventKind() Kind { return KindSelectionMade }

// RoundReadyForResolutionPayload is emitted when the last participant picks
// (or an admin forces resolution) and the round moves to RESOLUTION.
type RoundReadyForResolutionPayload struct {
	RoundID  string    `json:"round_id"`
	Position string    `json:"position"`
	Number   int       `json:"number"`
	Forced   bool      `json:"forced"`
	ReadyAt  time.Time `json:"ready_at"`
}

func (RoundReadyForResolutionPayload) EventKind() Kind { return KindRoundReadyForResolution }

// ContenderResult is one bidder's outcome inside a contested draw.
type ContenderResult struct {
	UserID       string `json:"user_id"`
	TeamID       string `json:"team_id"`
	RandomNumber int64  `json:"random_number"`
	IsWinner     bool   `json:"is_winner"`
}

// AssignmentResult is one player handed to a team by the resolver.
type AssignmentResult struct {
	PlayerID   string            `json:"player_id"`
	TeamID     string            `json:"team_id"`
	UserID     string            `json:"user_id"`
	Price      int               `json:"price"`
	Contenders []ContenderResult `json:"contenders,omitempty"`
}

// RoundResolvedPayload carries the full assignment list plus the continuation
// decision. Losing contenders appear inside Assignments so clients can show
// the draw outcome; they get no separate event.
type RoundResolvedPayload struct {
	RoundID     string             `json:"round_id"`
	Position    string             `json:"position"`
	Number      int                `json:"number"`
	Assignments []AssignmentResult `json:"assignments"`
	CanContinue bool               `json:"can_continue"`
	ResolvedAt  time.Time          `json:"resolved_at"`
}

func (RoundResolvedPayload) EventKind() Kind { return KindRoundResolved }

// RoundStartedPayload is emitted when the lifecycle manager opens a round.
type RoundStartedPayload struct {
	RoundID   string    `json:"round_id"`
	Position  string    `json:"position"`
	Number    int       `json:"number"`
	StartedAt time.Time `json:"started_at"`
}

func (RoundStartedPayload) EventKind() Kind { return KindRoundStarted }

// AdminOverrideAppliedPayload is emitted after every administrative override.
type AdminOverrideAppliedPayload struct {
	ActionID  string    `json:"action_id"`
	Kind      string    `json:"kind"`
	RoundID   string    `json:"round_id,omitempty"`
	TeamID    string    `json:"team_id,omitempty"`
	Reason    string    `json:"reason"`
	AppliedAt time.Time `json:"applied_at"`
}

func (AdminOverrideAppliedPayload) EventKind() Kind { return KindAdminOverrideApplied }

// Envelope is the wire form stored in the outbox and published to NATS.
type Envelope struct {
	ID         uuid.UUID       `json:"event_id"`
	LeagueID   uuid.UUID       `json:"league_id"`
	Kind       Kind            `json:"event_type"`
	OccurredAt time.Time       `json:"occurred_at"`
	Payload    json.RawMessage `json:"payload"`
}

// NewEnvelope wraps a payload for a league at the given instant.
func NewEnvelope(leagueID uuid.UUID, at time.Time, p Payload) (Envelope, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return Envelope{}, fmt.Errorf("marshal %s payload: %w", p.EventKind(), err)
	}
	return Envelope{
		ID:         uuid.New(),
		LeagueID:   leagueID,
		Kind:       p.EventKind(),
		OccurredAt: at,
		Payload:    raw,
	}, nil
}

// Decode returns the typed payload for the envelope's kind.
func (e Envelope) Decode() (Payload, error) {
	var p Payload
	switch e.Kind {
	case KindSelectionMade:
		p = &SelectionMadePayload{}
	case KindRoundReadyForResolution:
		p = &RoundReadyForResolutionPayload{}
	case KindRoundResolved:
		p = &RoundResolvedPayload{}
	case KindRoundStarted:
		p = &RoundStartedPayload{}
	case KindAdminOverrideApplied:
		p = &AdminOverrideAppliedPayload{}
	default:
		return nil, fmt.Errorf("unknown event kind %q", e.Kind)
	}
	if err := json.Unmarshal(e.Payload, p); err != nil {
		return nil, fmt.Errorf("unmarshal %s payload: %w", e.Kind, err)
	}
	return p, nil
}
