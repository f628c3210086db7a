package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	googleclient "planbackend/clients/google"
	notionclient "planbackend/clients/notion"
	slackclient "planbackend/clients/slack"
	"planbackend/config"
	"planbackend/db"
	"planbackend/handlers"
	"planbackend/middleware"
	"planbackend/salesnotif"
	"planbackend/services"
	googleintegrations "planbackend/services/google_integrations"
	"planbackend/services/integrations"
	notionintegrations "planbackend/services/notion_integrations"
	"planbackend/services/oauthstates"
	slackintegrations "planbackend/services/slack_integrations"
	"planbackend/services/tasks"
	"planbackend/services/tokencipher"
	"planbackend/services/txmanager"
	"planbackend/services/users"
	"planbackend/usecases/imports"
	"planbackend/utils"
)

func main() {
	if err := run(); err != nil {
		log.Printf("❌ Fatal error: %v", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return err
	}

	// Initialize error alert middleware
	alertMiddleware := middleware.NewErrorAlertMiddleware(middleware.SlackAlertConfig{
		WebhookURL:  cfg.SlackConfig.AlertWebhookURL,
		Environment: cfg.Environment,
		AppName:     "planbackend",
		LogsURL:     cfg.ServerLogsURL,
	})

	salesnotif.Init(cfg.SlackConfig.SalesWebhookURL, cfg.Environment)

	if err := db.Migrate(cfg.DatabaseURL, cfg.DatabaseSchema); err != nil {
		return err
	}

	// Initialize database connection
	dbConn, err := db.NewConnection(cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer dbConn.Close()

	// Initialize repositories with shared connection
	usersRepo := db.NewPostgresUsersRepository(dbConn, cfg.DatabaseSchema)
	integrationsRepo := db.NewPostgresIntegrationsRepository(dbConn, cfg.DatabaseSchema)
	tasksRepo := db.NewPostgresTasksRepository(dbConn, cfg.DatabaseSchema)

	oauthStatesService, closeStates, err := newOAuthStatesService(cfg, dbConn)
	if err != nil {
		return err
	}
	defer closeStates()

	cipher, err := tokencipher.NewCipher(cfg.TokenEncryptionKey)
	if err != nil {
		return err
	}

	// Initialize transaction manager
	txManager := txmanager.NewTransactionManager(dbConn)

	usersService := users.NewUsersService(usersRepo)
	integrationsService := integrations.NewIntegrationsService(integrationsRepo, txManager)

	var googleService services.GoogleIntegrationsService
	if cfg.GoogleConfig.IsConfigured() {
		googleService = googleintegrations.NewGoogleIntegrationsService(
			integrationsService,
			oauthStatesService,
			googleclient.NewGoogleClient(cfg.GoogleConfig.ClientID, cfg.GoogleConfig.ClientSecret, cfg.ProviderHTTPTimeout),
			cfg.GoogleRedirectURL(),
		)
	} else {
		googleService = googleintegrations.NewOptionalGoogleIntegrationsService()
	}

	var notionService services.NotionIntegrationsService
	if cfg.NotionConfig.IsConfigured() {
		notionService = notionintegrations.NewNotionIntegrationsService(
			integrationsService,
			oauthStatesService,
			notionclient.NewNotionClient(cfg.NotionConfig.ClientID, cfg.NotionConfig.ClientSecret, cfg.ProviderHTTPTimeout),
			cipher,
			cfg.NotionRedirectURL(),
		)
	} else {
		notionService = notionintegrations.NewOptionalNotionIntegrationsService()
	}

	var slackService services.SlackIntegrationsService
	if cfg.SlackConfig.IsConfigured() {
		slackService = slackintegrations.NewSlackIntegrationsService(
			integrationsService,
			oauthStatesService,
			slackclient.NewSlackClient(cfg.SlackConfig.ClientID, cfg.SlackConfig.ClientSecret, cfg.ProviderHTTPTimeout),
			cfg.SlackRedirectURL(),
		)
	} else {
		slackService = slackintegrations.NewOptionalSlackIntegrationsService()
	}

	tasksService := tasks.NewTasksService(tasksRepo, notionService)
	importsUseCase := imports.NewImportsUseCase(notionService, slackService, googleService, tasksService)

	integrationsHandler := handlers.NewIntegrationsHTTPHandler(
		integrationsService,
		googleService,
		notionService,
		slackService,
		importsUseCase,
		cfg.FrontendOrigin,
	)
	tasksHandler := handlers.NewTasksHTTPHandler(tasksService)
	authMiddleware := middleware.NewClerkAuthMiddleware(usersService, cfg.ClerkConfig.SecretKey)

	// Create a new router
	router := mux.NewRouter()
	tasksHandler.SetupEndpoints(router, authMiddleware)
	integrationsHandler.SetupEndpoints(router, authMiddleware)

	// Expired OAuth states are swept periodically, redemption already rejects them
	sweepTicker := time.NewTicker(cfg.OAuthStateTTL)
	go func() {
		for range sweepTicker.C {
			_ = alertMiddleware.WrapBackgroundTask("SweepExpiredOAuthStates", func() error {
				_, err := oauthStatesService.SweepExpired(context.Background())
				return err
			})()
		}
	}()
	defer sweepTicker.Stop()

	// Setup CORS middleware
	c := cors.New(cors.Options{
		AllowedOrigins:   utils.SplitAndTrim(cfg.CORSAllowedOrigins),
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
	})

	// Setup and handle graceful shutdown
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           alertMiddleware.HTTPMiddleware(c.Handler(router)),
		ReadHeaderTimeout: 30 * time.Second,
	}

	return handleGracefulShutdown(server)
}

// newOAuthStatesService keeps states in Redis when REDIS_URL is set and in Postgres otherwise
func newOAuthStatesService(cfg *config.AppConfig, dbConn *sqlx.DB) (*oauthstates.OAuthStatesService, func(), error) {
	if cfg.RedisURL == "" {
		repo := db.NewPostgresOAuthStatesRepository(dbConn, cfg.DatabaseSchema)
		return oauthstates.NewOAuthStatesService(repo, cfg.OAuthStateTTL), func() {}, nil
	}

	opts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Printf("✅ Connected to Redis for OAuth states")
	repo := db.NewRedisOAuthStatesRepository(client, cfg.OAuthStateTTL)
	closeFn := func() {
		if err := client.Close(); err != nil {
			log.Printf("❌ Failed to close redis client: %v", err)
		}
	}
	return oauthstates.NewOAuthStatesService(repo, cfg.OAuthStateTTL), closeFn, nil
}

func handleGracefulShutdown(server *http.Server) error {
	// Channel to listen for interrupt signal
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	// Start server in a goroutine
	go func() {
		log.Printf("✅ Listening on http://localhost%s", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Printf("❌ Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	<-stop
	log.Printf("🛑 Shutdown signal received, cleaning up...")

	// Create a deadline for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// Shutdown server gracefully
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("❌ Server shutdown error: %v", err)
		return err
	}

	salesnotif.Flush()
	log.Printf("✅ Server stopped gracefully")
	return nil
}
