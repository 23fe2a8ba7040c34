package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/mehuldv/satsangtv/internal/config"
	"github.com/mehuldv/satsangtv/internal/db"
	"github.com/mehuldv/satsangtv/internal/logger"
	"github.com/mehuldv/satsangtv/internal/server"
	"github.com/mehuldv/satsangtv/internal/youtube"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Init("info", false)
		logger.Log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Init(cfg.Logging.Level, cfg.Logging.Pretty)

	database, err := db.New(cfg.Database.Path)
	if err != nil {
		logger.Log.Fatal().Err(err).Str("path", cfg.Database.Path).Msg("Failed to open database")
	}
	defer database.Close() // nolint:errcheck

	sqlDB, err := database.GetSQLDB()
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to get database handle for migrations")
	}
	if err := db.RunMigrations(sqlDB, "file://./migrations"); err != nil {
		logger.Log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	if cfg.YouTube.APIKey == "" {
		logger.Log.Warn().Msg("YouTube API key not configured; metadata resolution will fail until it is set")
	}
	resolver := youtube.NewClient(cfg.YouTube.APIKey, cfg.YouTube.Timeout)

	srv := server.New(cfg, database, resolver)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		logger.Log.Fatal().Err(err).Msg("Server stopped unexpectedly")
	case sig := <-quit:
		logger.Log.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Error().Err(err).Msg("Graceful shutdown failed")
	}
}
