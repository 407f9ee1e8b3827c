package storage

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"

	ports "sheetwallet/internal/sheets"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "nested", "wallet.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStoreReadUnknownSheet(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.Read(context.Background(), "'budgets'!A:B"); !errors.Is(err, ports.ErrRangeNotFound) {
		t.Fatalf("err = %v, want ErrRangeNotFound", err)
	}
}

func TestSQLiteStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := newTestStore(t)

	if err := s.Write(ctx, "'transactions'!A1", [][]string{{"id", "date", "type"}, {"1", "2024-01-01", "expense"}}, ports.Raw); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if err := s.Append(ctx, "'transactions'!A:C", []string{"2", "2024-01-02", "income"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := s.Append(ctx, "'transactions'!A:C", []string{"3", "", ""}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := s.Write(ctx, ports.RowRange("transactions", 2, 3), [][]string{{"1", "2024-02-01", "expense"}}, ports.UserEntered); err != nil {
		t.Fatalf("Write row: %v", err)
	}
	if err := s.DeleteRow(ctx, "transactions", 3); err != nil {
		t.Fatalf("DeleteRow: %v", err)
	}

	got, err := s.Read(ctx, "'transactions'!A:C")
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	want := [][]string{{"id", "date", "type"}, {"1", "2024-02-01", "expense"}, {"3"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("rows = %#v, want %#v", got, want)
	}
}

func TestSQLiteStoreDeleteUnknownSheet(t *testing.T) {
	s := newTestStore(t)
	if err := s.DeleteRow(context.Background(), "users", 2); !errors.Is(err, ports.ErrSheetNotFound) {
		t.Fatalf("err = %v, want ErrSheetNotFound", err)
	}
}

func TestSQLiteStoreReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "wallet.db")
	s, err := NewSQLiteStore(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Write(ctx, "'budgets'!A1", [][]string{{"id", "amount"}, {"1", "10"}}, ports.Raw); err != nil {
		t.Fatal(err)
	}
	s.Close()

	s, err = NewSQLiteStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer s.Close()
	got, err := s.Read(ctx, "'budgets'!A:B")
	if err != nil || len(got) != 2 || got[1][1] != "10" {
		t.Fatalf("after reopen = %#v, %v", got, err)
	}
}
