package listing

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

const columnGap = "  "

// column is one table column. Numeric columns are right-aligned.
type column struct {
	title   string
	numeric bool
}

type table struct {
	columns []column
	rows    [][]string
}

func newTable(columns ...column) *table {
	return &table{columns: columns}
}

// addRow appends a row; missing cells are blank and extra cells are dropped.
func (t *table) addRow(cells ...string) {
	row := make([]string, len(t.columns))
	copy(row, cells)
	t.rows = append(t.rows, row)
}

func (t *table) widths() []int {
	widths := make([]int, len(t.columns))
	for i, col := range t.columns {
		widths[i] = runewidth.StringWidth(col.title)
	}
	for _, row := range t.rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	return widths
}

// lines renders the header followed by one line per row.
func (t *table) lines() []string {
	if len(t.columns) == 0 {
		return nil
	}
	widths := t.widths()
	header := make([]string, len(t.columns))
	for i, col := range t.columns {
		header[i] = col.title
	}
	out := make([]string, 0, len(t.rows)+1)
	out = append(out, t.line(header, widths))
	for _, row := range t.rows {
		out = append(out, t.line(row, widths))
	}
	return out
}

func (t *table) line(cells []string, widths []int) string {
	padded := make([]string, len(cells))
	for i, cell := range cells {
		if t.columns[i].numeric {
			padded[i] = runewidth.FillLeft(cell, widths[i])
		} else {
			padded[i] = runewidth.FillRight(cell, widths[i])
		}
	}
	return strings.TrimRight(strings.Join(padded, columnGap), " ")
}
