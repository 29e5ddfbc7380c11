package auction

import (
	"context"

	"github.com/google/uuid"
	"github.com/mfmanca2000/easyasta/internal/models"
	"github.com/mfmanca2000/easyasta/internal/roster"
)

// Store defines what the auction core needs from the database layer. All
// methods run inside the transaction the caller opened; the ForUpdate variants
// take row locks so the state-check-then-transition sequences of the round
// lifecycle are race-free.
type Store interface {
	GetLeague(ctx context.Context, id uuid.UUID) (*models.League, error)
	GetLeagueForUpdate(ctx context.Context, id uuid.UUID) (*models.League, error)
	UpdateLeagueStatus(ctx context.Context, id uuid.UUID, status models.LeagueStatus) error

	GetRound(ctx context.Context, id uuid.UUID) (*models.AuctionRound, error)
	GetRoundForUpdate(ctx context.Context, id uuid.UUID) (*models.AuctionRound, error)
	// GetActiveRound returns the league's round in SELECTION or RESOLUTION,
	// or nil when none exists.
	GetActiveRound(ctx context.Context, leagueID uuid.UUID) (*models.AuctionRound, error)
	LastRoundNumber(ctx context.Context, leagueID uuid.UUID, pos models.Position) (int, error)
	CreateRound(ctx context.Context, round models.AuctionRound) error
	UpdateRoundStatus(ctx context.Context, id uuid.UUID, status models.RoundStatus) error
	DeleteRound(ctx context.Context, id uuid.UUID) error
	// LatestOtherRound returns the most recently created round of the league
	// other than excludeID, or nil when the deleted round was the first.
	LatestOtherRound(ctx context.Context, leagueID, excludeID uuid.UUID) (*models.AuctionRound, error)

	GetTeam(ctx context.Context, id uuid.UUID) (*models.Team, error)
	GetTeamByUser(ctx context.Context, leagueID, userID uuid.UUID) (*models.Team, error)
	ListTeams(ctx context.Context, leagueID uuid.UUID) ([]models.Team, error)
	CountTeams(ctx context.Context, leagueID uuid.UUID) (int, error)
	DeductTeamCredits(ctx context.Context, teamID uuid.UUID, amount int) error
	TeamComposition(ctx context.Context, teamID uuid.UUID) (roster.Composition, error)

	GetPlayer(ctx context.Context, id uuid.UUID) (*models.Player, error)
	// ListAvailablePlayers returns the league's unassigned players of one
	// position category, cheapest first.
	ListAvailablePlayers(ctx context.Context, leagueID uuid.UUID, pos models.Position) ([]models.Player, error)
	MarkPlayerAssigned(ctx context.Context, id uuid.UUID) error
	AddPlayerToRoster(ctx context.Context, teamID, playerID uuid.UUID, pricePaid int) error

	GetSelection(ctx context.Context, roundID, userID uuid.UUID) (*models.PlayerSelection, error)
	ListSelections(ctx context.Context, roundID uuid.UUID) ([]models.PlayerSelection, error)
	CreateSelection(ctx context.Context, sel models.PlayerSelection) error
	CountSelections(ctx context.Context, roundID uuid.UUID) (int, error)
	StampSelection(ctx context.Context, id uuid.UUID, randomNumber *int64, isWinner bool) error
	DeleteSelection(ctx context.Context, id uuid.UUID) error
	DeleteSelectionsForRound(ctx context.Context, roundID uuid.UUID) error
}

// SubmitRequest is one participant's pick within a round.
type SubmitRequest struct {
	RoundID       uuid.UUID
	ActorUserID   uuid.UUID
	PlayerID      uuid.UUID
	Origin        models.SelectionOrigin
	Justification *string
	Confidence    *float64
}

// SubmitOutcome reports an accepted pick and whether it completed the round.
type SubmitOutcome struct {
	Selection     models.PlayerSelection
	Team          models.Team
	Selections    int
	TeamCount     int
	RoundComplete bool
}

// Contender is one bidder inside a contested draw.
type Contender struct {
	SelectionID  uuid.UUID
	UserID       uuid.UUID
	TeamID       uuid.UUID
	RandomNumber int64
	IsWinner     bool
}

// Assignment is one player handed to a team by the resolver.
type Assignment struct {
	PlayerID   uuid.UUID
	TeamID     uuid.UUID
	UserID     uuid.UUID
	Price      int
	Contenders []Contender
}

// ResolutionOutcome is the full result of resolving one round.
type ResolutionOutcome struct {
	Round       models.AuctionRound
	Assignments []Assignment
	// CanContinue is false once every team's roster exactly matches the
	// quotas, at which point the league has been marked COMPLETED.
	CanContinue bool
}

// StartRoundRequest opens a new selection round at the given category.
type StartRoundRequest struct {
	LeagueID uuid.UUID
	Position models.Position
}
