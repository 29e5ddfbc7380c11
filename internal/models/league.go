package models

import (
	"time"

	"github.com/google/uuid"
)

// LeagueStatus defines the lifecycle status of a league.
type LeagueStatus string

const (
	LeagueStatusSetup     LeagueStatus = "SETUP"
	LeagueStatusAuction   LeagueStatus = "AUCTION"
	LeagueStatusCompleted LeagueStatus = "COMPLETED"
)

// BotTier selects which bot strategy a league runs for its bot teams.
type BotTier string

const (
	BotTierRandom    BotTier = "RANDOM"
	BotTierBalanced  BotTier = "BALANCED"
	BotTierStrategic BotTier = "STRATEGIC"
)

// League represents one auction competition.
type League struct {
	ID             uuid.UUID    `json:"id"`
	Name           string       `json:"name"`
	AdminUserID    uuid.UUID    `json:"admin_user_id"`
	InitialCredits int          `json:"initial_credits"`
	Status         LeagueStatus `json:"status"`
	BotTier        BotTier      `json:"bot_tier"`
	CreatedAt      time.Time    `json:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at"`
}
