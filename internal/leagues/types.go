package leagues

import (
	"github.com/google/uuid"
	"github.com/mfmanca2000/easyasta/internal/models"
	"github.com/mfmanca2000/easyasta/internal/roster"
)

// CreateLeagueRequest creates a league in SETUP with its budget and bot tier.
type CreateLeagueRequest struct {
	Name           string         `json:"name"`
	AdminUserID    uuid.UUID      `json:"admin_user_id"`
	InitialCredits int            `json:"initial_credits"`
	BotTier        models.BotTier `json:"bot_tier"`
}

// RegisterTeamRequest enrolls one participant, human or bot, in a league.
type RegisterTeamRequest struct {
	LeagueID uuid.UUID `json:"league_id"`
	UserID   uuid.UUID `json:"user_id"`
	Name     string    `json:"name"`
	IsBot    bool      `json:"is_bot"`
}

// ImportPlayersRequest loads the selectable player pool for a league.
type ImportPlayersRequest struct {
	LeagueID uuid.UUID     `json:"league_id"`
	Players  []PlayerEntry `json:"players"`
}

// PlayerEntry is one player of a bulk import.
type PlayerEntry struct {
	Name     string          `json:"name"`
	Position models.Position `json:"position"`
	Price    int             `json:"price"`
}

// RosterEntry is one assigned player inside a team snapshot.
type RosterEntry struct {
	Player    models.Player `json:"player"`
	PricePaid int           `json:"price_paid"`
}

// TeamSnapshot is one team's full state: credits, composition and roster.
type TeamSnapshot struct {
	Team        models.Team        `json:"team"`
	Composition roster.Composition `json:"composition"`
	Roster      []RosterEntry      `json:"roster"`
	IsComplete  bool               `json:"is_complete"`
}

// LeagueSnapshot is the read model served to clients catching up on a league.
type LeagueSnapshot struct {
	League      models.League        `json:"league"`
	Teams       []TeamSnapshot       `json:"teams"`
	ActiveRound *models.AuctionRound `json:"active_round,omitempty"`
}
