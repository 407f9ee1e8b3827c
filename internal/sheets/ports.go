package sheets

import (
	"context"
	"errors"
)

// InputMode controls how the store interprets written cells.
type InputMode string

const (
	// Raw stores values verbatim.
	Raw InputMode = "RAW"
	// UserEntered parses values as if typed into the sheet UI.
	UserEntered InputMode = "USER_ENTERED"
)

var (
	// ErrRangeNotFound is returned by Read when the sheet or range does not exist
	// or cannot be parsed by the store.
	ErrRangeNotFound = errors.New("range not found")
	// ErrSheetNotFound is returned by DeleteRow when no sheet has the given title.
	ErrSheetNotFound = errors.New("sheet not found")
)

// RowStore is the outbound port to the tabular store. Ranges use A1 notation,
// rows are 1-based and cells are exchanged as strings.
type RowStore interface {
	// Read returns the rows of rng with trailing empty cells and rows omitted.
	Read(ctx context.Context, rng string) ([][]string, error)

	// Write overwrites the cells of rng starting at its top-left corner.
	Write(ctx context.Context, rng string, rows [][]string, mode InputMode) error

	// Append inserts row after the last non-empty row of rng.
	Append(ctx context.Context, rng string, row []string) error

	// DeleteRow removes row rowIndex of the named sheet, shifting later rows up.
	DeleteRow(ctx context.Context, sheet string, rowIndex int) error
}
