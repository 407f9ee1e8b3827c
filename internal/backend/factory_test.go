package backend

import (
	"context"
	"path/filepath"
	"testing"

	"sheetwallet/internal/config"
	"sheetwallet/internal/sheets/memory"
	"sheetwallet/internal/storage"
)

func TestFromAppConfig(t *testing.T) {
	cfg := &config.Config{
		DataBackend:     "sheets",
		GoogleSheetID:   "sid",
		SAClientEmail:   "svc@example.com",
		CredentialsFile: "/keys/sa.json",
	}
	bc, err := FromAppConfig(cfg)
	if err != nil {
		t.Fatalf("FromAppConfig: %v", err)
	}
	if bc.Type != Sheets || bc.SpreadsheetID != "sid" || bc.Credentials.File != "/keys/sa.json" || bc.Credentials.Inline.ClientEmail != "svc@example.com" {
		t.Fatalf("unexpected backend config: %+v", bc)
	}

	if _, err := FromAppConfig(&config.Config{DataBackend: "redis"}); err == nil {
		t.Fatal("expected error for unknown backend")
	}
	if _, err := FromAppConfig(nil); err == nil {
		t.Fatal("expected error for nil config")
	}
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	f := NewFactory(nil)

	res, err := f.Create(ctx, Config{Type: Memory})
	if err != nil {
		t.Fatalf("memory: %v", err)
	}
	if _, ok := res.Store.(*memory.Store); !ok {
		t.Fatalf("memory backend returned %T", res.Store)
	}

	res, err = f.Create(ctx, Config{Type: SQLite, SQLiteDBPath: filepath.Join(t.TempDir(), "w.db")})
	if err != nil {
		t.Fatalf("sqlite: %v", err)
	}
	if _, ok := res.Store.(*storage.SQLiteStore); !ok || res.Cleanup == nil {
		t.Fatalf("sqlite backend returned %T", res.Store)
	}
	if err := res.Cleanup(); err != nil {
		t.Fatalf("cleanup: %v", err)
	}

	if _, err := f.Create(ctx, Config{Type: Sheets}); err == nil {
		t.Fatal("expected error for sheets backend without spreadsheet id")
	}
	if _, err := f.Create(ctx, Config{Type: Sheets, SpreadsheetID: "sid"}); err == nil {
		t.Fatal("expected error for sheets backend without credentials")
	}
}
