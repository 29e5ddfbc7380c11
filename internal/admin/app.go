package admin

import (
	"context"
	"database/sql"

	"github.com/jonboulle/clockwork"
	"github.com/mfmanca2000/easyasta/internal/auction"
	"github.com/mfmanca2000/easyasta/internal/auction/events"
	"github.com/mfmanca2000/easyasta/internal/models"
	"github.com/rs/zerolog/log"
)

// App runs each override in its own transaction and emits the corresponding
// notification through the transactional outbox.
type App struct {
	db        *sql.DB
	newStore  func(auction.DBTX) auction.Store
	newAudit  func(auction.DBTX) AuditStore
	newOutbox func(auction.DBTX) auction.Outbox
	clock     clockwork.Clock
}

func NewApp(db *sql.DB, newStore func(auction.DBTX) auction.Store, newAudit func(auction.DBTX) AuditStore, newOutbox func(auction.DBTX) auction.Outbox, clock clockwork.Clock) *App {
	return &App{
		db:        db,
		newStore:  newStore,
		newAudit:  newAudit,
		newOutbox: newOutbox,
		clock:     clock,
	}
}

func (a *App) inTx(ctx context.Context, fn func(s auction.Store, audit AuditStore, ob auction.Outbox) error) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(a.newStore(tx), a.newAudit(tx), a.newOutbox(tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// CancelSelection removes one team's pick from the active round.
func (a *App) CancelSelection(ctx context.Context, req CancelRequest) (*models.AdminAction, error) {
	var action *models.AdminAction
	err := a.inTx(ctx, func(s auction.Store, audit AuditStore, ob auction.Outbox) error {
		var err error
		action, err = CancelSelection(ctx, s, audit, a.clock, req)
		if err != nil {
			return err
		}
		return a.emitOverride(ctx, ob, action)
	})
	if err != nil {
		return nil, err
	}
	a.logOverride(action)
	return action, nil
}

// ForceResolution pushes the round to RESOLUTION ahead of the participants.
func (a *App) ForceResolution(ctx context.Context, req ForceResolveRequest) (*models.AdminAction, error) {
	var action *models.AdminAction
	err := a.inTx(ctx, func(s auction.Store, audit AuditStore, ob auction.Outbox) error {
		var round *models.AuctionRound
		var err error
		action, round, err = ForceResolution(ctx, s, audit, a.clock, req)
		if err != nil {
			return err
		}
		if err := a.emitOverride(ctx, ob, action); err != nil {
			return err
		}
		env, err := events.NewEnvelope(round.LeagueID, a.clock.Now().UTC(), events.RoundReadyForResolutionPayload{
			RoundID:  round.ID.String(),
			Position: string(round.Position),
			Number:   round.Number,
			Forced:   true,
			ReadyAt:  a.clock.Now().UTC(),
		})
		if err != nil {
			return err
		}
		return ob.Insert(ctx, env)
	})
	if err != nil {
		return nil, err
	}
	a.logOverride(action)
	return action, nil
}

// ResetRound deletes the round and its selections outright.
func (a *App) ResetRound(ctx context.Context, req ResetRequest) (*models.AdminAction, error) {
	var action *models.AdminAction
	err := a.inTx(ctx, func(s auction.Store, audit AuditStore, ob auction.Outbox) error {
		var err error
		action, err = ResetRound(ctx, s, audit, a.clock, req)
		if err != nil {
			return err
		}
		return a.emitOverride(ctx, ob, action)
	})
	if err != nil {
		return nil, err
	}
	a.logOverride(action)
	return action, nil
}

func (a *App) emitOverride(ctx context.Context, ob auction.Outbox, action *models.AdminAction) error {
	payload := events.AdminOverrideAppliedPayload{
		ActionID:  action.ID.String(),
		Kind:      string(action.Kind),
		Reason:    action.Reason,
		AppliedAt: action.CreatedAt,
	}
	if action.RoundID != nil {
		payload.RoundID = action.RoundID.String()
	}
	if action.TeamID != nil {
		payload.TeamID = action.TeamID.String()
	}
	env, err := events.NewEnvelope(action.LeagueID, a.clock.Now().UTC(), payload)
	if err != nil {
		return err
	}
	return ob.Insert(ctx, env)
}

func (a *App) logOverride(action *models.AdminAction) {
	log.Info().
		Str("action_id", action.ID.String()).
		Str("kind", string(action.Kind)).
		Str("league_id", action.LeagueID.String()).
		Str("actor", action.ActorUserID.String()).
		Msg("admin override applied")
}
