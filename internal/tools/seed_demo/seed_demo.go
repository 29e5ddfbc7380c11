package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/mfmanca2000/easyasta/internal/dbconfig"
	"github.com/mfmanca2000/easyasta/internal/models"
)

// SeedPlayer mirrors the JSON player pool snapshot.
type SeedPlayer struct {
	Name     string `json:"name"`
	Position string `json:"position"`
	Price    int    `json:"price"`
}

type SeedFile struct {
	LeagueName     string       `json:"league_name"`
	InitialCredits int          `json:"initial_credits"`
	BotTier        string       `json:"bot_tier"`
	HumanTeams     []string     `json:"human_teams"`
	BotTeams       []string     `json:"bot_teams"`
	Players        []SeedPlayer `json:"players"`
}

func main() {
	path := "internal/assets/demo_league.json"
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read JSON: %v\n", err)
		os.Exit(1)
	}
	var seed SeedFile
	if err := json.Unmarshal(data, &seed); err != nil {
		fmt.Fprintf(os.Stderr, "unmarshal JSON: %v\n", err)
		os.Exit(1)
	}
	if seed.InitialCredits <= 0 {
		seed.InitialCredits = 500
	}
	if seed.BotTier == "" {
		seed.BotTier = string(models.BotTierBalanced)
	}

	cfg := dbconfig.NewConfigFromEnv()
	pool, err := pgxpool.New(context.Background(), cfg.DSN())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to connect: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	ctx := context.Background()
	now := time.Now().UTC()

	adminID := uuid.New()
	leagueID := uuid.New()
	_, err = pool.Exec(ctx, `
        INSERT INTO leagues (id, name, admin_user_id, initial_credits, status, bot_tier, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$7)
    `, leagueID, seed.LeagueName, adminID, seed.InitialCredits, models.LeagueStatusSetup, seed.BotTier, now)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error inserting league: %v\n", err)
		os.Exit(1)
	}

	teams := 0
	insertTeam := func(name string, isBot bool) {
		_, err := pool.Exec(ctx, `
            INSERT INTO teams (id, league_id, user_id, name, remaining_credits, is_bot, created_at, updated_at)
            VALUES ($1,$2,$3,$4,$5,$6,$7,$7)
        `, uuid.New(), leagueID, uuid.New(), name, seed.InitialCredits, isBot, now)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error inserting team %s: %v\n", name, err)
			return
		}
		teams++
	}
	for _, name := range seed.HumanTeams {
		insertTeam(name, false)
	}
	for _, name := range seed.BotTeams {
		insertTeam(name, true)
	}

	var (
		inserted int
		errs     int
	)
	for _, p := range seed.Players {
		_, err := pool.Exec(ctx, `
            INSERT INTO players (id, league_id, name, position, price, is_assigned, created_at)
            VALUES ($1,$2,$3,$4,$5,false,$6)
        `, uuid.New(), leagueID, p.Name, p.Position, p.Price, now)
		if err != nil {
			fmt.Fprintf(os.Stderr, "error inserting player %s: %v\n", p.Name, err)
			errs++
			continue
		}
		inserted++
	}

	fmt.Printf(
		"Demo seed complete: league %s (admin %s), %d teams, %d players inserted, %d errors\n",
		leagueID, adminID, teams, inserted, errs,
	)
}
