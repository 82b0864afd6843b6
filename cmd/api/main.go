package main

import (
	"context"
	"log"
	"log/slog"
	nethttp "net/http"
	"os"

	"golang.org/x/oauth2"
	"google.golang.org/api/option"

	"cardsync/internal/auth"
	"cardsync/internal/cards"
	"cardsync/internal/config"
	"cardsync/internal/drive"
	"cardsync/internal/handlers"
	"cardsync/internal/http"
	"cardsync/internal/sheets"
	"cardsync/internal/storage"
	"cardsync/internal/vision"
)

func main() {
	// Load configuration first (needed for log level)
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Configure structured logging with configurable level and format
	opts := &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}
	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	slog.Debug("Logging configured", "level", cfg.LogLevel.String(), "format", cfg.LogFormat)

	// Initialize database
	db, err := storage.Open(cfg)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	if err := storage.Migrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	slog.Info("Database initialized", "host", cfg.DatabaseHost, "name", cfg.DatabaseName)

	settingsRepo := storage.NewSettingsRepo(db)

	ctx := context.Background()

	// The Vision client authenticates as the service account; Drive and
	// Sheets clients are built per request with the user's OAuth token.
	var visionOpts []option.ClientOption
	if cfg.GoogleCredentials != "" {
		visionOpts = append(visionOpts, option.WithCredentialsFile(cfg.GoogleCredentials))
	}
	visionClient, err := vision.NewClient(ctx, visionOpts...)
	if err != nil {
		log.Fatalf("Failed to create Vision client: %v", err)
	}
	slog.Info("Vision client initialized")

	newDrive := func(ctx context.Context, accessToken string) (drive.Gateway, error) {
		return drive.NewClient(ctx, option.WithTokenSource(
			oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})))
	}
	newSyncer := func(ctx context.Context, accessToken string) (cards.Syncer, error) {
		tokenSource := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
		driveClient, err := drive.NewClient(ctx, option.WithTokenSource(tokenSource))
		if err != nil {
			return nil, err
		}
		sheetsClient, err := sheets.NewClient(ctx, option.WithTokenSource(tokenSource))
		if err != nil {
			return nil, err
		}
		return cards.NewSynchronizer(driveClient, sheetsClient, visionClient), nil
	}

	sessions := auth.NewSessionManager(cfg.SessionSecret)
	authHandler := auth.NewHandler(auth.NewOAuthConfig(cfg), sessions, "/")

	deps := &http.Deps{
		Settings:  settingsRepo,
		Sessions:  sessions,
		Auth:      authHandler,
		NewSyncer: handlers.SyncerFactory(newSyncer),
		NewDrive:  handlers.DriveFactory(newDrive),
		DB:        db,
	}
	router := http.NewRouter(deps)

	addr := ":" + cfg.APIPort
	slog.Info("Starting API server", "addr", addr)
	if err := nethttp.ListenAndServe(addr, router); err != nil {
		log.Fatalf("API server failed to start: %v", err)
	}
}
