// Package main is the entry point for the jobs API server.
//
// main stays small: load configuration, build the logger, open the store,
// hand everything to internal/server and block until shutdown.
package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/sakif/jobs-api/internal/config"
	"github.com/sakif/jobs-api/internal/server"
)

func main() {
	// === 1. LOCAL .env ===
	// Missing .env is normal in production; the real environment is used.
	envErr := godotenv.Load()

	// === 2. CONFIGURATION ===
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// === 3. LOGGING ===
	// Levels: Debug → Info → Warn → Error. LOG_LEVEL picks the floor.
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))
	slog.SetDefault(logger)
	if envErr != nil {
		logger.Debug("no .env file loaded", slog.String("error", envErr.Error()))
	}

	// === 4. STORE ===
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	store, err := server.OpenStore(ctx, cfg)
	cancel()
	if err != nil {
		logger.Error("failed to open store",
			slog.String("driver", cfg.DBDriver),
			slog.String("error", err.Error()),
		)
		os.Exit(1)
	}

	// === 5. SERVER ===
	srv, err := server.New(cfg, store, logger)
	if err != nil {
		_ = store.Close()
		logger.Error("failed to create server", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Start blocks until Ctrl+C / SIGTERM and closes the store on the way out.
	if err := srv.Start(); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
