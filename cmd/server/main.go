package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/johnwmail/lpaste/internal/config"
	"github.com/johnwmail/lpaste/internal/logging"
	"github.com/johnwmail/lpaste/internal/server"
)

// Version/build info (set via -ldflags at build time)
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// A missing .env file is fine.
	_ = godotenv.Load()

	err := run(ctx, os.Args[1:], os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "lpaste: %v\n", err)
		os.Exit(1)
	}
}

// run serves lpaste until ctx is cancelled.
func run(ctx context.Context, args []string, stderr io.Writer) error {
	cfg, err := config.Load(args, stderr)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := logging.New(stderr, cfg.LogLevel, cfg.LogFormat)
	if cfg.Debug {
		gin.SetMode(gin.DebugMode)
	} else {
		gin.SetMode(gin.ReleaseMode)
	}

	logger.Info().
		Str("version", version).
		Str("build_time", buildTime).
		Str("git_commit", gitCommit).
		Str("storage_type", cfg.StorageType).
		Str("session_store", cfg.SessionStore).
		Int("http_port", cfg.HTTPPort).
		Msg("Starting lpaste")

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Error().Err(err).Msg("Failed to close backends")
		}
	}()

	return server.Run(ctx, cfg.Addr(), app.Router, logger)
}
