package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/mfmanca2000/easyasta/internal/admin"
	"github.com/mfmanca2000/easyasta/internal/auction"
	"github.com/mfmanca2000/easyasta/internal/bots"
	"github.com/mfmanca2000/easyasta/internal/leagues"
	"github.com/mfmanca2000/easyasta/internal/models"
	"github.com/rs/zerolog/log"
)

// AuctionService is the round lifecycle surface the API exposes.
type AuctionService interface {
	StartRound(ctx context.Context, req auction.StartRoundRequest) (*models.AuctionRound, error)
	SubmitPick(ctx context.Context, req auction.SubmitRequest) (*auction.SubmitOutcome, error)
	CompleteRoundAndAdvance(ctx context.Context, roundID uuid.UUID) (*auction.ResolutionOutcome, error)
}

// AdminService is the override surface the API exposes.
type AdminService interface {
	CancelSelection(ctx context.Context, req admin.CancelRequest) (*models.AdminAction, error)
	ForceResolution(ctx context.Context, req admin.ForceResolveRequest) (*models.AdminAction, error)
	ResetRound(ctx context.Context, req admin.ResetRequest) (*models.AdminAction, error)
}

// LeagueService is the setup and read-model surface the API exposes.
type LeagueService interface {
	CreateLeague(ctx context.Context, req leagues.CreateLeagueRequest) (*models.League, error)
	RegisterTeam(ctx context.Context, req leagues.RegisterTeamRequest) (*models.Team, error)
	ImportPlayers(ctx context.Context, req leagues.ImportPlayersRequest) (int, error)
	ListAvailablePlayers(ctx context.Context, leagueID uuid.UUID, pos models.Position) ([]models.Player, error)
	Snapshot(ctx context.Context, leagueID uuid.UUID) (*leagues.LeagueSnapshot, error)
}

// BotService triggers bot picks for a round.
type BotService interface {
	TriggerRound(ctx context.Context, leagueID, roundID uuid.UUID, onlyUserID *uuid.UUID) ([]bots.TriggerResult, error)
}

// APIHandler serves the JSON API in front of the domain apps.
type APIHandler struct {
	auctionSvc AuctionService
	adminSvc   AdminService
	leagueSvc  LeagueService
	botSvc     BotService
}

func NewAPIHandler(auctionSvc AuctionService, adminSvc AdminService, leagueSvc LeagueService, botSvc BotService) *APIHandler {
	return &APIHandler{
		auctionSvc: auctionSvc,
		adminSvc:   adminSvc,
		leagueSvc:  leagueSvc,
		botSvc:     botSvc,
	}
}

// RegisterRoutes registers the JSON API routes.
func (h *APIHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("POST /api/leagues", h.handleCreateLeague)
	mux.HandleFunc("GET /api/leagues/{league_id}", h.handleLeagueSnapshot)
	mux.HandleFunc("POST /api/leagues/{league_id}/teams", h.handleRegisterTeam)
	mux.HandleFunc("POST /api/leagues/{league_id}/players", h.handleImportPlayers)
	mux.HandleFunc("GET /api/leagues/{league_id}/players", h.handleAvailablePlayers)
	mux.HandleFunc("POST /api/leagues/{league_id}/rounds", h.handleStartRound)
	mux.HandleFunc("POST /api/leagues/{league_id}/rounds/{round_id}/bots", h.handleTriggerBots)
	mux.HandleFunc("POST /api/rounds/{round_id}/selections", h.handleSubmitPick)
	mux.HandleFunc("POST /api/rounds/{round_id}/resolve", h.handleResolveRound)
	mux.HandleFunc("POST /api/rounds/{round_id}/force-resolve", h.handleForceResolve)
	mux.HandleFunc("POST /api/rounds/{round_id}/reset", h.handleResetRound)
	mux.HandleFunc("POST /api/rounds/{round_id}/selections/cancel", h.handleCancelSelection)
}

func (h *APIHandler) handleCreateLeague(w http.ResponseWriter, r *http.Request) {
	actor, ok := requireUser(w, r)
	if !ok {
		return
	}
	var req leagues.CreateLeagueRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.AdminUserID = actor

	league, err := h.leagueSvc.CreateLeague(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, league)
}

func (h *APIHandler) handleLeagueSnapshot(w http.ResponseWriter, r *http.Request) {
	leagueID, ok := pathUUID(w, r, "league_id")
	if !ok {
		return
	}
	snap, err := h.leagueSvc.Snapshot(r.Context(), leagueID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

func (h *APIHandler) handleRegisterTeam(w http.ResponseWriter, r *http.Request) {
	leagueID, ok := pathUUID(w, r, "league_id")
	if !ok {
		return
	}
	var req leagues.RegisterTeamRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.LeagueID = leagueID
	if req.UserID == uuid.Nil {
		actor, ok := requireUser(w, r)
		if !ok {
			return
		}
		req.UserID = actor
	}

	team, err := h.leagueSvc.RegisterTeam(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, team)
}

func (h *APIHandler) handleImportPlayers(w http.ResponseWriter, r *http.Request) {
	leagueID, ok := pathUUID(w, r, "league_id")
	if !ok {
		return
	}
	var req leagues.ImportPlayersRequest
	if !decodeBody(w, r, &req) {
		return
	}
	req.LeagueID = leagueID

	count, err := h.leagueSvc.ImportPlayers(r.Context(), req)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]int{"imported": count})
}

func (h *APIHandler) handleAvailablePlayers(w http.ResponseWriter, r *http.Request) {
	leagueID, ok := pathUUID(w, r, "league_id")
	if !ok {
		return
	}
	pos := models.Position(r.URL.Query().Get("position"))
	players, err := h.leagueSvc.ListAvailablePlayers(r.Context(), leagueID, pos)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"players": players})
}

func (h *APIHandler) handleStartRound(w http.ResponseWriter, r *http.Request) {
	leagueID, ok := pathUUID(w, r, "league_id")
	if !ok {
		return
	}
	var body struct {
		Position models.Position `json:"position"`
	}
	if !decodeBody(w, r, &body) {
		return
	}
	if !body.Position.Valid() {
		writeBadRequest(w, "unknown position")
		return
	}

	round, err := h.auctionSvc.StartRound(r.Context(), auction.StartRoundRequest{
		LeagueID: leagueID,
		Position: body.Position,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, round)
}

func (h *APIHandler) handleSubmitPick(w http.ResponseWriter, r *http.Request) {
	roundID, ok := pathUUID(w, r, "round_id")
	if !ok {
		return
	}
	actor, ok := requireUser(w, r)
	if !ok {
		return
	}
	var body struct {
		PlayerID uuid.UUID `json:"player_id"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	outcome, err := h.auctionSvc.SubmitPick(r.Context(), auction.SubmitRequest{
		RoundID:     roundID,
		ActorUserID: actor,
		PlayerID:    body.PlayerID,
		Origin:      models.SelectionOriginHuman,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, outcome)
}

func (h *APIHandler) handleResolveRound(w http.ResponseWriter, r *http.Request) {
	roundID, ok := pathUUID(w, r, "round_id")
	if !ok {
		return
	}
	outcome, err := h.auctionSvc.CompleteRoundAndAdvance(r.Context(), roundID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, outcome)
}

func (h *APIHandler) handleForceResolve(w http.ResponseWriter, r *http.Request) {
	roundID, ok := pathUUID(w, r, "round_id")
	if !ok {
		return
	}
	actor, ok := requireUser(w, r)
	if !ok {
		return
	}
	var body struct {
		Reason string `json:"reason"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	action, err := h.adminSvc.ForceResolution(r.Context(), admin.ForceResolveRequest{
		RoundID:     roundID,
		ActorUserID: actor,
		Reason:      body.Reason,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, action)
}

func (h *APIHandler) handleResetRound(w http.ResponseWriter, r *http.Request) {
	roundID, ok := pathUUID(w, r, "round_id")
	if !ok {
		return
	}
	actor, ok := requireUser(w, r)
	if !ok {
		return
	}
	var body struct {
		Reason string `json:"reason"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	action, err := h.adminSvc.ResetRound(r.Context(), admin.ResetRequest{
		RoundID:     roundID,
		ActorUserID: actor,
		Reason:      body.Reason,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, action)
}

func (h *APIHandler) handleCancelSelection(w http.ResponseWriter, r *http.Request) {
	roundID, ok := pathUUID(w, r, "round_id")
	if !ok {
		return
	}
	actor, ok := requireUser(w, r)
	if !ok {
		return
	}
	var body struct {
		TeamID uuid.UUID `json:"team_id"`
		Reason string    `json:"reason"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	action, err := h.adminSvc.CancelSelection(r.Context(), admin.CancelRequest{
		RoundID:      roundID,
		ActorUserID:  actor,
		TargetTeamID: body.TeamID,
		Reason:       body.Reason,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, action)
}

func (h *APIHandler) handleTriggerBots(w http.ResponseWriter, r *http.Request) {
	leagueID, ok := pathUUID(w, r, "league_id")
	if !ok {
		return
	}
	roundID, ok := pathUUID(w, r, "round_id")
	if !ok {
		return
	}
	var body struct {
		UserID *uuid.UUID `json:"user_id"`
	}
	if !decodeBody(w, r, &body) {
		return
	}

	results, err := h.botSvc.TriggerRound(r.Context(), leagueID, roundID, body.UserID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

func pathUUID(w http.ResponseWriter, r *http.Request, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		writeBadRequest(w, "invalid "+name)
		return uuid.Nil, false
	}
	return id, true
}

func requireUser(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := r.Header.Get("X-User-ID")
	if raw == "" {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "X-User-ID header required"})
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, errorBody{Error: "invalid X-User-ID header"})
		return uuid.Nil, false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeBadRequest(w, "invalid request body")
		return false
	}
	return true
}

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func writeBadRequest(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, errorBody{Error: msg})
}

// writeError maps typed domain errors to HTTP statuses; anything untyped is a
// server fault.
func writeError(w http.ResponseWriter, err error) {
	var ae *auction.Error
	if !errors.As(err, &ae) {
		log.Error().Err(err).Msg("request failed")
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
		return
	}

	status := http.StatusInternalServerError
	switch ae.Kind {
	case auction.KindNotFound:
		status = http.StatusNotFound
	case auction.KindInvalidState, auction.KindConflict:
		status = http.StatusConflict
	case auction.KindPolicyViolation:
		status = http.StatusUnprocessableEntity
	}
	writeJSON(w, status, errorBody{Error: ae.Message, Kind: string(ae.Kind)})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Error().Err(err).Msg("failed to encode response")
	}
}
