// Package cli holds the process bootstrap shared by the commands: logging,
// environment, configuration, dependency wiring and the serve loop.
package cli

import (
	"github.com/joho/godotenv"

	"sheetwallet/internal/config"
	applog "sheetwallet/internal/log"
)

// SetupLogger builds the process logger for level and installs it as the
// slog default. Unknown levels fall back to info with a warning.
func SetupLogger(level string) *applog.Logger {
	lvl, err := applog.ParseLevel(level)
	cfg := applog.DefaultConfig()
	cfg.Level = lvl
	logger := applog.New(cfg)
	applog.SetDefault(logger)
	if err != nil {
		logger.Warn("Falling back to info logging", applog.FieldError, err)
	}
	return logger
}

// LoadEnvFile loads .env for local development. A missing file is fine.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig reads the environment and validates the result.
func LoadAndValidateConfig() (*config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}
