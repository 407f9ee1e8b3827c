package main

import (
	"context"
	"os"
	"time"

	"sheetwallet/internal/cli"
	applog "sheetwallet/internal/log"
)

const shutdownTimeout = 30 * time.Second

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(os.Getenv("LOG_LEVEL"))

	cfg, err := cli.LoadAndValidateConfig()
	if err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	ctx := context.Background()
	app, err := cli.Build(ctx, cfg, logger)
	if err != nil {
		logger.Error("Failed to initialize application", applog.FieldError, err, applog.FieldBackend, cfg.DataBackend)
		os.Exit(1)
	}

	logger.Info("Wallet API configured",
		applog.FieldBackend, cfg.DataBackend,
		"auth_mode", cfg.AuthMode,
		"port", cfg.Port)
	if err := app.Run(ctx, shutdownTimeout); err != nil {
		logger.Error("Server error", applog.FieldError, err)
		os.Exit(1)
	}
}
