package backend

import (
	"context"
	"fmt"
	"log/slog"

	"sheetwallet/internal/sheets/google"
	"sheetwallet/internal/sheets/memory"
	"sheetwallet/internal/storage"
)

// DefaultFactory implements the Factory interface
type DefaultFactory struct {
	logger *slog.Logger
}

func NewFactory(logger *slog.Logger) *DefaultFactory {
	if logger == nil {
		logger = slog.Default()
	}
	return &DefaultFactory{logger: logger}
}

func (f *DefaultFactory) Create(ctx context.Context, config Config) (*Result, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	switch config.Type {
	case SQLite:
		store, err := storage.NewSQLiteStore(config.SQLiteDBPath)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite store: %w", err)
		}
		f.logger.Info("Initialized SQLite backend", "db_path", config.SQLiteDBPath)
		return &Result{Store: store, Cleanup: store.Close}, nil
	case Sheets:
		cli, err := google.New(ctx, config.SpreadsheetID, config.Credentials)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize Google Sheets client: %w", err)
		}
		f.logger.Info("Initialized Google Sheets backend", "spreadsheet_id", config.SpreadsheetID)
		return &Result{Store: cli}, nil
	default:
		f.logger.Info("Initialized memory backend")
		return &Result{Store: memory.New()}, nil
	}
}
