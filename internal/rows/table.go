// Package rows maps header-plus-data sheet ranges onto records.
package rows

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"sheetwallet/internal/core"
	ports "sheetwallet/internal/sheets"
)

// Table is one named range with a fixed column order.
type Table struct {
	store   ports.RowStore
	rng     string
	sheet   string
	columns []string
}

// Match is a record located by FindByID together with its 1-based sheet row.
type Match struct {
	Index  int
	Record core.Record
}

func NewTable(store ports.RowStore, rng string, columns []string) (*Table, error) {
	r, err := ports.ParseRange(rng)
	if err != nil {
		return nil, err
	}
	return &Table{
		store:   store,
		rng:     rng,
		sheet:   r.Sheet,
		columns: append([]string(nil), columns...),
	}, nil
}

func (t *Table) Range() string     { return t.rng }
func (t *Table) Columns() []string { return append([]string(nil), t.columns...) }

// ReadRows returns the raw rows of the range. A range the store does not know
// yet reads as empty.
func (t *Table) ReadRows(ctx context.Context) ([][]string, error) {
	rows, err := t.store.Read(ctx, t.rng)
	if errors.Is(err, ports.ErrRangeNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return rows, nil
}

// FetchAll returns every data row keyed by the header.
func (t *Table) FetchAll(ctx context.Context) ([]core.Record, error) {
	rows, err := t.ReadRows(ctx)
	if err != nil {
		return nil, err
	}
	return Normalize(rows), nil
}

// Normalize turns a header row plus data rows into records. Missing trailing
// cells become "".
func Normalize(rows [][]string) []core.Record {
	if len(rows) < 2 {
		return []core.Record{}
	}
	header := rows[0]
	out := make([]core.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		out = append(out, toRecord(header, row))
	}
	return out
}

func toRecord(header, row []string) core.Record {
	rec := make(core.Record, len(header))
	for i, key := range header {
		if i < len(row) {
			rec[key] = row[i]
		} else {
			rec[key] = ""
		}
	}
	return rec
}

// ToRow lays values out in column order; absent keys become "".
func ToRow(columns []string, values map[string]string) []string {
	row := make([]string, len(columns))
	for i, col := range columns {
		row[i] = values[col]
	}
	return row
}

func (t *Table) Append(ctx context.Context, values map[string]string) error {
	if err := t.store.Append(ctx, t.rng, ToRow(t.columns, values)); err != nil {
		return fmt.Errorf("append to %s: %w", t.sheet, err)
	}
	return nil
}

// FindByID returns the first data row whose idColumn equals id after
// trimming. When extra is non-empty the first id match must also agree with
// it case-insensitively; a mismatch ends the search.
func (t *Table) FindByID(ctx context.Context, idColumn, id string, extra map[string]string) (Match, bool, error) {
	rows, err := t.ReadRows(ctx)
	if err != nil {
		return Match{}, false, err
	}
	if len(rows) < 2 {
		return Match{}, false, nil
	}
	header := rows[0]
	idIdx := indexOf(header, idColumn)
	if idIdx < 0 {
		return Match{}, false, nil
	}

	target := strings.TrimSpace(id)
	for i, row := range rows[1:] {
		cell := ""
		if idIdx < len(row) {
			cell = row[idIdx]
		}
		if strings.TrimSpace(cell) != target {
			continue
		}
		rec := toRecord(header, row)
		for key, want := range extra {
			if !strings.EqualFold(rec[key], want) {
				return Match{}, false, nil
			}
		}
		return Match{Index: i + 2, Record: rec}, true, nil
	}
	return Match{}, false, nil
}

// Update overwrites every column of row rowIndex.
func (t *Table) Update(ctx context.Context, rowIndex int, values map[string]string) error {
	rng := ports.RowRange(t.sheet, rowIndex, len(t.columns))
	if err := t.store.Write(ctx, rng, [][]string{ToRow(t.columns, values)}, ports.UserEntered); err != nil {
		return fmt.Errorf("update %s row %d: %w", t.sheet, rowIndex, err)
	}
	return nil
}

// Delete removes row rowIndex, shifting the rows below it up.
func (t *Table) Delete(ctx context.Context, rowIndex int) error {
	if err := t.store.DeleteRow(ctx, t.sheet, rowIndex); err != nil {
		return fmt.Errorf("delete %s row %d: %w", t.sheet, rowIndex, err)
	}
	return nil
}

// EnsureHeader writes the header row when the range holds no rows at all.
func (t *Table) EnsureHeader(ctx context.Context) error {
	raw, err := t.ReadRows(ctx)
	if err != nil || len(raw) > 0 {
		return err
	}
	if err := t.store.Write(ctx, t.rng, [][]string{t.Columns()}, ports.Raw); err != nil {
		return fmt.Errorf("write %s header: %w", t.sheet, err)
	}
	return nil
}

// Initialize writes the header and one default row at the top of the range.
func (t *Table) Initialize(ctx context.Context, defaults map[string]string) error {
	values := [][]string{t.Columns(), ToRow(t.columns, defaults)}
	if err := t.store.Write(ctx, t.rng, values, ports.Raw); err != nil {
		return fmt.Errorf("initialize %s: %w", t.sheet, err)
	}
	return nil
}

func indexOf(header []string, col string) int {
	for i, h := range header {
		if h == col {
			return i
		}
	}
	return -1
}
