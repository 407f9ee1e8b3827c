package memory

import (
	"context"
	"fmt"
	"sync"

	ports "sheetwallet/internal/sheets"
)

// Store is a RowStore kept in process memory. Sheets are created on first
// write; reads of unknown sheets fail with ErrRangeNotFound like the remote API.
type Store struct {
	mu     sync.Mutex
	sheets map[string][][]string
}

var _ ports.RowStore = (*Store)(nil)

func New() *Store {
	return &Store{sheets: map[string][][]string{}}
}

// Seed replaces the content of sheet with rows.
func (s *Store) Seed(sheet string, rows [][]string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sheets[sheet] = cloneGrid(rows)
}

// Rows returns a copy of the raw grid of sheet.
func (s *Store) Rows(sheet string) [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneGrid(s.sheets[sheet])
}

func (s *Store) Read(_ context.Context, rng string) ([][]string, error) {
	r, err := ports.ParseRange(rng)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ports.ErrRangeNotFound, err)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	grid, ok := s.sheets[r.Sheet]
	if !ok {
		return nil, fmt.Errorf("read %s: %w", rng, ports.ErrRangeNotFound)
	}
	return ports.Project(grid, r), nil
}

func (s *Store) Write(_ context.Context, rng string, rows [][]string, _ ports.InputMode) error {
	r, err := ports.ParseRange(rng)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sheets[r.Sheet] = ports.Place(s.sheets[r.Sheet], r, cloneGrid(rows))
	return nil
}

func (s *Store) Append(_ context.Context, rng string, row []string) error {
	r, err := ports.ParseRange(rng)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sheets[r.Sheet] = ports.AppendRow(s.sheets[r.Sheet], r, append([]string(nil), row...))
	return nil
}

func (s *Store) DeleteRow(_ context.Context, sheet string, rowIndex int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	grid, ok := s.sheets[sheet]
	if !ok {
		return fmt.Errorf("delete row %d of %q: %w", rowIndex, sheet, ports.ErrSheetNotFound)
	}
	if rowIndex < 1 || rowIndex > len(grid) {
		return fmt.Errorf("delete row %d of %q: out of bounds", rowIndex, sheet)
	}
	s.sheets[sheet] = append(grid[:rowIndex-1], grid[rowIndex:]...)
	return nil
}

func cloneGrid(in [][]string) [][]string {
	if in == nil {
		return nil
	}
	out := make([][]string, len(in))
	for i, row := range in {
		out[i] = append([]string(nil), row...)
	}
	return out
}
