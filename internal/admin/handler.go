// Package admin implements the out-of-band overrides a league administrator
// can apply to a running auction. Every override demands a justification and
// leaves an immutable audit record in the same unit of work as its effect.
package admin

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/mfmanca2000/easyasta/internal/auction"
	"github.com/mfmanca2000/easyasta/internal/models"
)

// MinReasonLen is the shortest justification accepted for an override.
const MinReasonLen = 10

// AuditStore defines what the overrides need for audit recording.
type AuditStore interface {
	InsertAction(ctx context.Context, action models.AdminAction) error
}

// CancelRequest removes one team's selection from the active round.
type CancelRequest struct {
	RoundID      uuid.UUID
	ActorUserID  uuid.UUID
	TargetTeamID uuid.UUID
	Reason       string
}

// ForceResolveRequest pushes an in-SELECTION round straight to RESOLUTION.
type ForceResolveRequest struct {
	RoundID     uuid.UUID
	ActorUserID uuid.UUID
	Reason      string
}

// ResetRequest deletes the round and all its selections outright.
type ResetRequest struct {
	RoundID     uuid.UUID
	ActorUserID uuid.UUID
	Reason      string
}

func guard(ctx context.Context, s auction.Store, leagueID, actorUserID uuid.UUID, reason string) (*models.League, error) {
	if len(reason) < MinReasonLen {
		return nil, ErrReasonTooShort
	}
	league, err := s.GetLeague(ctx, leagueID)
	if err != nil {
		return nil, err
	}
	if league.AdminUserID != actorUserID {
		return nil, ErrNotAdministrator
	}
	return league, nil
}

// CancelSelection removes the target team's pick from the round. Only the
// active round's selections can be cancelled: once a round completes its
// selections are a historical record of the resolution, and deleting one would
// orphan the ownership side effects it produced. Fails when the target team
// made no selection this round.
func CancelSelection(ctx context.Context, s auction.Store, audit AuditStore, clock clockwork.Clock, req CancelRequest) (*models.AdminAction, error) {
	round, err := s.GetRoundForUpdate(ctx, req.RoundID)
	if err != nil {
		return nil, err
	}
	if !round.Status.Active() {
		return nil, ErrRoundNotActive
	}
	if _, err := guard(ctx, s, round.LeagueID, req.ActorUserID, req.Reason); err != nil {
		return nil, err
	}

	team, err := s.GetTeam(ctx, req.TargetTeamID)
	if err != nil {
		return nil, err
	}
	sel, err := s.GetSelection(ctx, round.ID, team.UserID)
	if err != nil {
		return nil, err
	}
	if sel == nil {
		return nil, ErrNoSelectionToCancel
	}

	if err := s.DeleteSelection(ctx, sel.ID); err != nil {
		return nil, err
	}

	metadata, _ := json.Marshal(map[string]string{
		"selection_id": sel.ID.String(),
		"player_id":    sel.PlayerID.String(),
	})
	action := models.AdminAction{
		ID:          uuid.New(),
		LeagueID:    round.LeagueID,
		ActorUserID: req.ActorUserID,
		Kind:        models.AdminActionCancelSelection,
		RoundID:     &round.ID,
		TeamID:      &team.ID,
		PlayerID:    &sel.PlayerID,
		Reason:      req.Reason,
		Metadata:    metadata,
		CreatedAt:   clock.Now().UTC(),
	}
	if err := audit.InsertAction(ctx, action); err != nil {
		return nil, err
	}
	return &action, nil
}

// ForceResolution transitions a SELECTION round to RESOLUTION without waiting
// for the remaining participants.
func ForceResolution(ctx context.Context, s auction.Store, audit AuditStore, clock clockwork.Clock, req ForceResolveRequest) (*models.AdminAction, *models.AuctionRound, error) {
	round, err := s.GetRoundForUpdate(ctx, req.RoundID)
	if err != nil {
		return nil, nil, err
	}
	if _, err := guard(ctx, s, round.LeagueID, req.ActorUserID, req.Reason); err != nil {
		return nil, nil, err
	}
	if round.Status != models.RoundStatusSelection {
		return nil, nil, ErrRoundNotInSelection
	}

	if err := s.UpdateRoundStatus(ctx, round.ID, models.RoundStatusResolution); err != nil {
		return nil, nil, err
	}
	round.Status = models.RoundStatusResolution

	selections, err := s.CountSelections(ctx, round.ID)
	if err != nil {
		return nil, nil, err
	}
	metadata, _ := json.Marshal(map[string]int{"selections_at_force": selections})
	action := models.AdminAction{
		ID:          uuid.New(),
		LeagueID:    round.LeagueID,
		ActorUserID: req.ActorUserID,
		Kind:        models.AdminActionForceResolve,
		RoundID:     &round.ID,
		Reason:      req.Reason,
		Metadata:    metadata,
		CreatedAt:   clock.Now().UTC(),
	}
	if err := audit.InsertAction(ctx, action); err != nil {
		return nil, nil, err
	}
	return &action, round, nil
}

// ResetRound annihilates the round and its selections. The audit record is
// written before the deletes so its round reference stays resolvable. A prior
// round left non-terminal for bookkeeping reasons is restored to COMPLETED.
func ResetRound(ctx context.Context, s auction.Store, audit AuditStore, clock clockwork.Clock, req ResetRequest) (*models.AdminAction, error) {
	round, err := s.GetRoundForUpdate(ctx, req.RoundID)
	if err != nil {
		return nil, err
	}
	if _, err := guard(ctx, s, round.LeagueID, req.ActorUserID, req.Reason); err != nil {
		return nil, err
	}

	selections, err := s.CountSelections(ctx, round.ID)
	if err != nil {
		return nil, err
	}
	metadata, _ := json.Marshal(map[string]any{
		"position":           string(round.Position),
		"number":             round.Number,
		"selections_removed": selections,
	})
	action := models.AdminAction{
		ID:          uuid.New(),
		LeagueID:    round.LeagueID,
		ActorUserID: req.ActorUserID,
		Kind:        models.AdminActionResetRound,
		RoundID:     &round.ID,
		Reason:      req.Reason,
		Metadata:    metadata,
		CreatedAt:   clock.Now().UTC(),
	}
	if err := audit.InsertAction(ctx, action); err != nil {
		return nil, err
	}

	if err := s.DeleteSelectionsForRound(ctx, round.ID); err != nil {
		return nil, err
	}
	if err := s.DeleteRound(ctx, round.ID); err != nil {
		return nil, err
	}

	prior, err := s.LatestOtherRound(ctx, round.LeagueID, round.ID)
	if err != nil {
		return nil, err
	}
	if prior != nil && prior.Status != models.RoundStatusCompleted {
		if err := s.UpdateRoundStatus(ctx, prior.ID, models.RoundStatusCompleted); err != nil {
			return nil, err
		}
	}
	return &action, nil
}
