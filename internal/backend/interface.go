package backend

import (
	"context"

	ports "sheetwallet/internal/sheets"
	"sheetwallet/internal/sheets/google"
)

// CleanupFunc releases resources held by a store.
type CleanupFunc func() error

// Result contains the store instance and optional cleanup function
type Result struct {
	Store   ports.RowStore
	Cleanup CleanupFunc
}

// Factory creates row stores based on configuration
type Factory interface {
	Create(ctx context.Context, config Config) (*Result, error)
}

// Config holds configuration for store creation
type Config struct {
	Type Type

	// SQLite specific
	SQLiteDBPath string

	// Google Sheets specific
	SpreadsheetID string
	Credentials   google.Credentials
}

// Type names a RowStore implementation.
type Type string

const (
	SQLite Type = "sqlite"
	Sheets Type = "sheets"
	Memory Type = "memory"
)

func (t Type) String() string {
	return string(t)
}

// IsValid returns true if the backend type is known
func (t Type) IsValid() bool {
	switch t {
	case SQLite, Sheets, Memory:
		return true
	default:
		return false
	}
}
