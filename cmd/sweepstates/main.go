package main

import (
	"context"
	"log"
	"os"
	"time"

	"planbackend/config"
	"planbackend/db"
	"planbackend/middleware"
	"planbackend/services/oauthstates"
)

// sweepstates deletes expired OAuth states from Postgres. It is meant to run from cron.
// Redis-backed states expire on their own, so the sweep is a no-op there.
func main() {
	log.Printf("🧹 Starting OAuth state sweep...")

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	alertMiddleware := middleware.NewErrorAlertMiddleware(middleware.SlackAlertConfig{
		WebhookURL:  cfg.SlackConfig.AlertWebhookURL,
		Environment: cfg.Environment,
		AppName:     "planbackend-sweepstates",
		LogsURL:     cfg.ServerLogsURL,
	})

	dbConn, err := db.NewConnection(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer dbConn.Close()

	statesRepo := db.NewPostgresOAuthStatesRepository(dbConn, cfg.DatabaseSchema)
	statesService := oauthstates.NewOAuthStatesService(statesRepo, cfg.OAuthStateTTL)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	var deleted int64
	sweep := alertMiddleware.WrapBackgroundTask("SweepExpiredOAuthStates", func() error {
		var err error
		deleted, err = statesService.SweepExpired(ctx)
		return err
	})
	if err := sweep(); err != nil {
		log.Printf("❌ OAuth state sweep failed: %v", err)
		// give the async alert a moment to go out
		time.Sleep(2 * time.Second)
		os.Exit(1)
	}

	log.Printf("✅ OAuth state sweep completed!")
	log.Printf("📊 Summary:")
	log.Printf("   - Expired states deleted: %d", deleted)
}
