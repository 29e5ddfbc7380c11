package auction

import (
	"context"
	"database/sql"
	"math/rand"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mfmanca2000/easyasta/internal/auction/events"
	"github.com/mfmanca2000/easyasta/internal/models"
	"github.com/rs/zerolog/log"
)

// Outbox defines what the auction app needs from the transactional outbox.
// Events inserted here are published to the real-time fan-out after commit.
type Outbox interface {
	Insert(ctx context.Context, ev events.Envelope) error
}

// App is the round lifecycle manager. It owns every transaction boundary of
// the auction core: pick submission, round start, and resolution.
type App struct {
	db        *sql.DB
	newStore  func(DBTX) Store
	newOutbox func(DBTX) Outbox
	clock     clockwork.Clock
	rng       *rand.Rand
}

// NewApp creates the auction app. newOutbox binds an outbox repository to the
// same transaction as the store so notifications never outrun their mutation.
func NewApp(db *sql.DB, newStore func(DBTX) Store, newOutbox func(DBTX) Outbox, clock clockwork.Clock, rng *rand.Rand) *App {
	return &App{
		db:        db,
		newStore:  newStore,
		newOutbox: newOutbox,
		clock:     clock,
		rng:       rng,
	}
}

// inTx runs fn inside a transaction with a store and outbox bound to it.
func (a *App) inTx(ctx context.Context, fn func(s Store, ob Outbox) error) error {
	tx, err := a.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	if err := fn(a.newStore(tx), a.newOutbox(tx)); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// StartRound opens a new SELECTION round at the given position category.
// Fails with ErrRoundAlreadyActive while any round of the league is still in
// SELECTION or RESOLUTION.
func (a *App) StartRound(ctx context.Context, req StartRoundRequest) (*models.AuctionRound, error) {
	var round *models.AuctionRound
	err := a.inTx(ctx, func(s Store, ob Outbox) error {
		var err error
		round, err = OpenRound(ctx, s, a.clock, req)
		if err != nil {
			return err
		}
		return a.emit(ctx, ob, round.LeagueID, events.RoundStartedPayload{
			RoundID:   round.ID.String(),
			Position:  string(round.Position),
			Number:    round.Number,
			StartedAt: round.CreatedAt,
		})
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("league_id", round.LeagueID.String()).
		Str("position", string(round.Position)).
		Int("number", round.Number).
		Msg("round started")
	return round, nil
}

// SubmitPick records one participant's selection and, when it was the last
// one outstanding, advances the round to RESOLUTION in the same unit of work.
func (a *App) SubmitPick(ctx context.Context, req SubmitRequest) (*SubmitOutcome, error) {
	var outcome *SubmitOutcome
	err := a.inTx(ctx, func(s Store, ob Outbox) error {
		var err error
		outcome, err = SubmitSelection(ctx, s, a.clock, req)
		if err != nil {
			return err
		}

		leagueID := outcome.Team.LeagueID
		if err := a.emit(ctx, ob, leagueID, events.SelectionMadePayload{
			RoundID:    req.RoundID.String(),
			UserID:     req.ActorUserID.String(),
			TeamID:     outcome.Team.ID.String(),
			PlayerID:   req.PlayerID.String(),
			Origin:     string(outcome.Selection.Origin),
			Selections: outcome.Selections,
			TeamCount:  outcome.TeamCount,
			MadeAt:     outcome.Selection.CreatedAt,
		}); err != nil {
			return err
		}

		if outcome.RoundComplete {
			round, err := s.GetRound(ctx, req.RoundID)
			if err != nil {
				return err
			}
			return a.emit(ctx, ob, leagueID, events.RoundReadyForResolutionPayload{
				RoundID:  round.ID.String(),
				Position: string(round.Position),
				Number:   round.Number,
				Forced:   false,
				ReadyAt:  a.clock.Now().UTC(),
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

// CompleteRoundAndAdvance resolves the round and reports whether the auction
// can continue. The caller (API layer) decides whether to prompt the admin for
// the next category or declare the league complete.
func (a *App) CompleteRoundAndAdvance(ctx context.Context, roundID uuid.UUID) (*ResolutionOutcome, error) {
	var outcome *ResolutionOutcome
	err := a.inTx(ctx, func(s Store, ob Outbox) error {
		var err error
		outcome, err = ResolveRound(ctx, s, a.rng, roundID)
		if err != nil {
			return err
		}

		payload := events.RoundResolvedPayload{
			RoundID:     outcome.Round.ID.String(),
			Position:    string(outcome.Round.Position),
			Number:      outcome.Round.Number,
			Assignments: make([]events.AssignmentResult, 0, len(outcome.Assignments)),
			CanContinue: outcome.CanContinue,
			ResolvedAt:  a.clock.Now().UTC(),
		}
		for _, asg := range outcome.Assignments {
			res := events.AssignmentResult{
				PlayerID: asg.PlayerID.String(),
				TeamID:   asg.TeamID.String(),
				UserID:   asg.UserID.String(),
				Price:    asg.Price,
			}
			for _, c := range asg.Contenders {
				res.Contenders = append(res.Contenders, events.ContenderResult{
					UserID:       c.UserID.String(),
					TeamID:       c.TeamID.String(),
					RandomNumber: c.RandomNumber,
					IsWinner:     c.IsWinner,
				})
			}
			payload.Assignments = append(payload.Assignments, res)
		}
		return a.emit(ctx, ob, outcome.Round.LeagueID, payload)
	})
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

func (a *App) emit(ctx context.Context, ob Outbox, leagueID uuid.UUID, p events.Payload) error {
	env, err := events.NewEnvelope(leagueID, a.clock.Now().UTC(), p)
	if err != nil {
		return err
	}
	return ob.Insert(ctx, env)
}
