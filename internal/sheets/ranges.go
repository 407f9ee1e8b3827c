package sheets

import (
	"fmt"
	"strconv"
	"strings"
)

// Range is a parsed A1 range. Zero bounds are open: a zero StartCol or
// StartRow means 1, a zero EndCol or EndRow means "to the end".
type Range struct {
	Sheet    string
	StartCol int
	EndCol   int
	StartRow int
	EndRow   int
}

// ParseRange parses A1 ranges with quoted or bare sheet names, e.g. budgets!A1:B2.
func ParseRange(a1 string) (Range, error) {
	a1 = strings.TrimSpace(a1)
	if a1 == "" {
		return Range{}, fmt.Errorf("parse range: empty")
	}

	var r Range
	rest := ""
	if strings.HasPrefix(a1, "'") {
		var b strings.Builder
		i := 1
		closed := false
		for i < len(a1) {
			if a1[i] == '\'' {
				if i+1 < len(a1) && a1[i+1] == '\'' {
					b.WriteByte('\'')
					i += 2
					continue
				}
				closed = true
				i++
				break
			}
			b.WriteByte(a1[i])
			i++
		}
		if !closed {
			return Range{}, fmt.Errorf("parse range %q: unterminated sheet name", a1)
		}
		r.Sheet = b.String()
		rest = a1[i:]
		if rest != "" && !strings.HasPrefix(rest, "!") {
			return Range{}, fmt.Errorf("parse range %q: expected '!' after sheet name", a1)
		}
		rest = strings.TrimPrefix(rest, "!")
	} else if idx := strings.LastIndex(a1, "!"); idx >= 0 {
		r.Sheet = a1[:idx]
		rest = a1[idx+1:]
	} else {
		r.Sheet = a1
	}
	if r.Sheet == "" {
		return Range{}, fmt.Errorf("parse range %q: missing sheet name", a1)
	}
	if rest == "" {
		return r, nil
	}

	start, end, found := strings.Cut(rest, ":")
	var err error
	if r.StartCol, r.StartRow, err = parseCell(start); err != nil {
		return Range{}, fmt.Errorf("parse range %q: %w", a1, err)
	}
	if !found {
		r.EndCol, r.EndRow = r.StartCol, r.StartRow
		return r, nil
	}
	if r.EndCol, r.EndRow, err = parseCell(end); err != nil {
		return Range{}, fmt.Errorf("parse range %q: %w", a1, err)
	}
	return r, nil
}

// parseCell splits a reference like "AB12" into column 28 and row 12.
// Either part may be missing.
func parseCell(ref string) (col, row int, err error) {
	ref = strings.ToUpper(strings.TrimSpace(ref))
	i := 0
	for i < len(ref) && ref[i] >= 'A' && ref[i] <= 'Z' {
		col = col*26 + int(ref[i]-'A'+1)
		i++
	}
	if i < len(ref) {
		row, err = strconv.Atoi(ref[i:])
		if err != nil || row < 1 {
			return 0, 0, fmt.Errorf("invalid cell reference %q", ref)
		}
	}
	if i == 0 && row == 0 {
		return 0, 0, fmt.Errorf("invalid cell reference %q", ref)
	}
	return col, row, nil
}

// ColumnLetter converts a 1-based column number to its A1 letters.
func ColumnLetter(n int) string {
	if n < 1 {
		return ""
	}
	var b []byte
	for n > 0 {
		n--
		b = append([]byte{byte('A' + n%26)}, b...)
		n /= 26
	}
	return string(b)
}

// QuoteSheet renders a sheet name for use in an A1 range.
func QuoteSheet(name string) string {
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

// RowRange addresses columns 1..width of a single row.
func RowRange(sheet string, row, width int) string {
	return fmt.Sprintf("%s!A%d:%s%d", QuoteSheet(sheet), row, ColumnLetter(width), row)
}

func (r Range) String() string {
	cell := func(col, row int) string {
		s := ColumnLetter(col)
		if row > 0 {
			s += strconv.Itoa(row)
		}
		return s
	}
	start, end := cell(r.StartCol, r.StartRow), cell(r.EndCol, r.EndRow)
	switch {
	case start == "" && end == "":
		return QuoteSheet(r.Sheet)
	case start == end:
		return QuoteSheet(r.Sheet) + "!" + start
	default:
		return QuoteSheet(r.Sheet) + "!" + start + ":" + end
	}
}

func (r Range) firstCol() int {
	if r.StartCol < 1 {
		return 1
	}
	return r.StartCol
}

func (r Range) firstRow() int {
	if r.StartRow < 1 {
		return 1
	}
	return r.StartRow
}

// Project cuts the cells covered by r out of a full sheet grid, dropping
// trailing empty cells and rows the way the Sheets API does.
func Project(grid [][]string, r Range) [][]string {
	first, last := r.firstRow(), len(grid)
	if r.EndRow > 0 && r.EndRow < last {
		last = r.EndRow
	}
	var out [][]string
	for i := first; i <= last; i++ {
		row := grid[i-1]
		lo, hi := r.firstCol(), len(row)
		if r.EndCol > 0 && r.EndCol < hi {
			hi = r.EndCol
		}
		var cells []string
		if lo <= hi {
			cells = append(cells, row[lo-1:hi]...)
		}
		out = append(out, trimCells(cells))
	}
	for len(out) > 0 && len(out[len(out)-1]) == 0 {
		out = out[:len(out)-1]
	}
	return out
}

// Place writes values into grid with its top-left corner at r's start,
// growing the grid as needed, and returns the updated grid.
func Place(grid [][]string, r Range, values [][]string) [][]string {
	top, left := r.firstRow(), r.firstCol()
	for i, vals := range values {
		idx := top - 1 + i
		for len(grid) <= idx {
			grid = append(grid, nil)
		}
		row := grid[idx]
		for len(row) < left-1+len(vals) {
			row = append(row, "")
		}
		copy(row[left-1:], vals)
		grid[idx] = row
	}
	return grid
}

// AppendRow places row after the last non-empty row covered by r.
func AppendRow(grid [][]string, r Range, row []string) [][]string {
	next := len(Project(grid, Range{Sheet: r.Sheet, StartCol: r.StartCol, EndCol: r.EndCol})) + 1
	if next < r.firstRow() {
		next = r.firstRow()
	}
	at := r
	at.StartRow, at.EndRow = next, next
	return Place(grid, at, [][]string{row})
}

func trimCells(cells []string) []string {
	n := len(cells)
	for n > 0 && cells[n-1] == "" {
		n--
	}
	if n == 0 {
		return []string{}
	}
	return append([]string(nil), cells[:n]...)
}
