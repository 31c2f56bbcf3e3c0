package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gameon/internal/api/v1/router"
	"gameon/internal/config"
	"gameon/internal/logger"

	"github.com/joho/godotenv"
)

// @title Gameon Den Billing API
// @version 1.0
// @description Local billing API for the lounge counter
// @host localhost:8080
// @BasePath /v1
// @Schemes http

func main() {
	bootLogger := logger.New()

	// 1. Load configuration
	if err := godotenv.Load(); err != nil {
		bootLogger.Warn().Msg("Warning: no .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		bootLogger.Fatal().Msgf("Error loading config: %v", err)
	}
	logger := logger.NewWithLevel(cfg.LogLevel)

	// 2. Build router (and the backends behind it)
	startCtx, cancelStart := context.WithTimeout(context.Background(), 30*time.Second)
	r, closeBackends, err := router.New(startCtx, cfg, logger)
	cancelStart()
	if err != nil {
		logger.Fatal().Msgf("Failed to build router: %v", err)
	}
	defer func() {
		if err := closeBackends(); err != nil {
			logger.Error().Err(err).Msg("Failed to close backends")
		}
	}()

	// 3. Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Addr(),
		Handler:      r,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// 4. Start server in a goroutine
	go func() {
		logger.Info().Msgf("Server starting on %s", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Msgf("Listen: %s\n", err)
		}
	}()

	// 5. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info().Msg("Shutdown signal received, exiting...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Msgf("Server forced to shutdown: %v", err)
		return
	}
	logger.Info().Msg("Server shut down gracefully")
}
