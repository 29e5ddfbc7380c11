package main

import (
	"database/sql"
	"math/rand"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mfmanca2000/easyasta/internal/admin"
	"github.com/mfmanca2000/easyasta/internal/auction"
	"github.com/mfmanca2000/easyasta/internal/bots"
	"github.com/mfmanca2000/easyasta/internal/gateway"
	"github.com/mfmanca2000/easyasta/internal/leagues"
	"github.com/mfmanca2000/easyasta/internal/outbox"
)

type Services struct {
	Auction      *auction.App
	Admin        *admin.App
	Leagues      *leagues.App
	Bots         *bots.Engine
	OutboxWorker *outbox.Worker
	Gateway      *gateway.Service
	API          *gateway.APIHandler
}

func setupServices(database *sql.DB, config *Config) (*Services, error) {
	clock := clockwork.NewRealClock()
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	newStore := func(db auction.DBTX) auction.Store { return auction.NewRepository(db) }
	newOutbox := func(db auction.DBTX) auction.Outbox { return outbox.NewRepository(db) }
	newAudit := func(db auction.DBTX) admin.AuditStore { return admin.NewRepository(db) }
	newLeagueRepo := func(db auction.DBTX) *leagues.Repository { return leagues.NewRepository(db) }

	auctionApp := auction.NewApp(database, newStore, newOutbox, clock, rng)
	adminApp := admin.NewApp(database, newStore, newAudit, newOutbox, clock)
	leaguesApp := leagues.NewApp(database, newLeagueRepo, newStore, clock)
	botEngine := bots.NewEngine(auction.NewRepository(database), auctionApp, rng)

	// Outbox worker publishing to JetStream.
	jsCfg := outbox.DefaultJetStreamConfig()
	jsCfg.URL = config.natsURL()
	if config.Nats.StreamName != "" {
		jsCfg.StreamName = config.Nats.StreamName
	}
	if config.Nats.SubjectPrefix != "" {
		jsCfg.SubjectPrefix = config.Nats.SubjectPrefix
	}
	publisher, err := outbox.NewJetStreamPublisher(jsCfg)
	if err != nil {
		return nil, err
	}

	workerCfg := outbox.DefaultConfig()
	workerCfg.PollInterval = config.outboxPollInterval()
	if config.Outbox.BatchSize > 0 {
		workerCfg.BatchSize = int32(config.Outbox.BatchSize)
	}
	if config.Outbox.MaxRetries > 0 {
		workerCfg.MaxRetries = config.Outbox.MaxRetries
	}
	worker := outbox.NewWorker(database, publisher, workerCfg)

	// WebSocket gateway consuming the same stream.
	gwCfg := gateway.DefaultConfig()
	gwCfg.JetStreamConfig.URL = jsCfg.URL
	gwCfg.JetStreamConfig.StreamName = jsCfg.StreamName
	gwCfg.JetStreamConfig.SubjectFilter = jsCfg.SubjectPrefix + ".>"
	gatewayService, err := gateway.NewService(gwCfg)
	if err != nil {
		return nil, err
	}

	return &Services{
		Auction:      auctionApp,
		Admin:        adminApp,
		Leagues:      leaguesApp,
		Bots:         botEngine,
		OutboxWorker: worker,
		Gateway:      gatewayService,
		API:          gateway.NewAPIHandler(auctionApp, adminApp, leaguesApp, botEngine),
	}, nil
}
