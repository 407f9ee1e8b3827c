package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	ports "sheetwallet/internal/sheets"

	_ "modernc.org/sqlite"
)

// SQLiteStore is a RowStore that keeps every sheet as ordered rows of JSON
// encoded cells. Each operation loads the affected sheet, edits it with the
// same grid helpers the memory store uses and writes it back in one
// transaction.
type SQLiteStore struct {
	db *sql.DB
}

var _ ports.RowStore = (*SQLiteStore)(nil)

type querier interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}
	if err := RunMigrations(dbPath); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// sqlite allows a single writer
	db.SetMaxOpenConns(1)
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		db.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}
	slog.Info("SQLite store ready", "path", dbPath)
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) Read(ctx context.Context, rng string) ([][]string, error) {
	r, err := ports.ParseRange(rng)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrRangeNotFound, err)
	}
	ok, err := sheetExists(ctx, s.db, r.Sheet)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("read %s: %w", rng, ports.ErrRangeNotFound)
	}
	grid, err := loadGrid(ctx, s.db, r.Sheet)
	if err != nil {
		return nil, err
	}
	return ports.Project(grid, r), nil
}

func (s *SQLiteStore) Write(ctx context.Context, rng string, rows [][]string, _ ports.InputMode) error {
	r, err := ports.ParseRange(rng)
	if err != nil {
		return err
	}
	return s.edit(ctx, r.Sheet, true, func(grid [][]string) ([][]string, error) {
		return ports.Place(grid, r, rows), nil
	})
}

func (s *SQLiteStore) Append(ctx context.Context, rng string, row []string) error {
	r, err := ports.ParseRange(rng)
	if err != nil {
		return err
	}
	return s.edit(ctx, r.Sheet, true, func(grid [][]string) ([][]string, error) {
		return ports.AppendRow(grid, r, row), nil
	})
}

func (s *SQLiteStore) DeleteRow(ctx context.Context, sheet string, rowIndex int) error {
	return s.edit(ctx, sheet, false, func(grid [][]string) ([][]string, error) {
		if rowIndex < 1 || rowIndex > len(grid) {
			return nil, fmt.Errorf("delete row %d of %q: out of bounds", rowIndex, sheet)
		}
		return append(grid[:rowIndex-1], grid[rowIndex:]...), nil
	})
}

// edit runs fn over the grid of sheet inside a transaction. When create is
// false a missing sheet fails with ErrSheetNotFound.
func (s *SQLiteStore) edit(ctx context.Context, sheet string, create bool, fn func([][]string) ([][]string, error)) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	ok, err := sheetExists(ctx, tx, sheet)
	if err != nil {
		return err
	}
	switch {
	case !ok && !create:
		return fmt.Errorf("sheet %q: %w", sheet, ports.ErrSheetNotFound)
	case !ok:
		if _, err := tx.ExecContext(ctx, `INSERT INTO sheets (title) VALUES (?)`, sheet); err != nil {
			return fmt.Errorf("create sheet %q: %w", sheet, err)
		}
	}

	grid, err := loadGrid(ctx, tx, sheet)
	if err != nil {
		return err
	}
	grid, err = fn(grid)
	if err != nil {
		return err
	}
	if err := storeGrid(ctx, tx, sheet, grid); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

func sheetExists(ctx context.Context, q querier, sheet string) (bool, error) {
	var title string
	err := q.QueryRowContext(ctx, `SELECT title FROM sheets WHERE title = ?`, sheet).Scan(&title)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lookup sheet %q: %w", sheet, err)
	}
	return true, nil
}

func loadGrid(ctx context.Context, q querier, sheet string) ([][]string, error) {
	rows, err := q.QueryContext(ctx, `SELECT position, cells FROM sheet_rows WHERE sheet = ? ORDER BY position`, sheet)
	if err != nil {
		return nil, fmt.Errorf("load sheet %q: %w", sheet, err)
	}
	defer rows.Close()

	var grid [][]string
	for rows.Next() {
		var (
			pos   int
			cells string
		)
		if err := rows.Scan(&pos, &cells); err != nil {
			return nil, fmt.Errorf("scan row: %w", err)
		}
		var row []string
		if err := json.Unmarshal([]byte(cells), &row); err != nil {
			return nil, fmt.Errorf("decode row %d of %q: %w", pos, sheet, err)
		}
		for len(grid) < pos-1 {
			grid = append(grid, nil)
		}
		grid = append(grid, row)
	}
	return grid, rows.Err()
}

func storeGrid(ctx context.Context, q querier, sheet string, grid [][]string) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM sheet_rows WHERE sheet = ?`, sheet); err != nil {
		return fmt.Errorf("clear sheet %q: %w", sheet, err)
	}
	for i, row := range grid {
		if len(row) == 0 {
			continue
		}
		cells, err := json.Marshal(row)
		if err != nil {
			return fmt.Errorf("encode row %d: %w", i+1, err)
		}
		if _, err := q.ExecContext(ctx,
			`INSERT INTO sheet_rows (sheet, position, cells) VALUES (?, ?, ?)`,
			sheet, i+1, string(cells)); err != nil {
			return fmt.Errorf("store row %d of %q: %w", i+1, sheet, err)
		}
	}
	return nil
}
