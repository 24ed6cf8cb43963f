package main

import (
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"chainchat-server/internal/auth"
	"chainchat-server/internal/automation"
	"chainchat-server/internal/config"
	"chainchat-server/internal/events"
	"chainchat-server/internal/hub"
	"chainchat-server/internal/ledger"
	"chainchat-server/internal/oracle"
	"chainchat-server/internal/registry"
	"chainchat-server/internal/scheduler"
	"chainchat-server/internal/server"
)

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("load config")
	}

	gin.SetMode(cfg.GinMode)

	wsHub := hub.New()
	dispatcher := events.NewDispatcher(wsHub)

	led := ledger.NewWithOptions(ledger.Options{
		StateFile: cfg.LedgerStateFile,
		Notifier:  dispatcher,
	})
	dispatcher.SetMemberSource(led)

	reg := registry.NewWithOptions(registry.Options{Notifier: dispatcher})

	tokenCfg := auth.TokenConfig{
		Secret: cfg.MasterSecret,
		Expiry: cfg.TokenExpiry,
		Issuer: "chainchat-server",
	}

	var oracleClient *oracle.Client
	var controller *automation.Controller
	if cfg.OracleBaseURL != "" {
		oracleClient = oracle.NewClient(cfg.OracleBaseURL, cfg.OracleTimeout)
		controller = automation.NewWithOptions(led, oracleClient, automation.Config{
			Interval:       cfg.UpkeepInterval,
			DefaultGroupID: cfg.DefaultGroupID,
			Feeds:          cfg.OracleFeeds,
		}, automation.Options{Notifier: dispatcher})

		sched := scheduler.New(controller, cfg.UpkeepPoll, log)
		if err := sched.Start(); err != nil {
			log.Fatal().Err(err).Msg("start scheduler")
		}
		defer sched.Stop()
		log.Info().
			Dur("interval", cfg.UpkeepInterval).
			Dur("poll", cfg.UpkeepPoll).
			Strs("feeds", cfg.OracleFeeds).
			Msg("price automation enabled")
	} else {
		log.Info().Msg("ORACLE_BASE_URL not set, price automation disabled")
	}

	router := server.NewRouter(server.Deps{
		Ledger:      led,
		Registry:    reg,
		Controller:  controller,
		Oracle:      oracleClient,
		Hub:         wsHub,
		Challenges:  auth.NewChallengeStore(5 * time.Minute),
		TokenConfig: tokenCfg,
	})

	log.Info().Str("addr", fmt.Sprintf(":%d", cfg.Port)).Msg("listening")
	if err := server.Run(cfg, router); err != nil {
		log.Fatal().Err(err).Msg("server stopped")
	}
}
