package output

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Table represents a columnized table
type Table struct {
	formatter *Formatter
	headers   []string
	rows      [][]string
}

// Headers sets the table headers
func (t *Table) Headers(headers ...string) *Table {
	t.headers = headers
	return t
}

// Row adds a row to the table
func (t *Table) Row(cells ...string) *Table {
	t.rows = append(t.rows, cells)
	return t
}

// cellWidth measures what the terminal shows, ignoring escape codes.
func cellWidth(s string) int {
	return runewidth.StringWidth(StripANSI(s))
}

func (t *Table) columnWidths() []int {
	var widths []int
	grow := func(cells []string) {
		for i, cell := range cells {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], cellWidth(cell))
		}
	}
	grow(t.headers)
	for _, row := range t.rows {
		grow(row)
	}
	return widths
}

func (t *Table) writeRow(cells []string, widths []int) {
	var b strings.Builder
	for i, cell := range cells {
		b.WriteString(cell)
		if i == len(cells)-1 {
			break
		}
		b.WriteString(strings.Repeat(" ", widths[i]-cellWidth(cell)+2))
	}
	fmt.Fprintln(t.formatter.writer, b.String())
}

// Print renders the table
func (t *Table) Print() {
	if t.formatter.level == LevelQuiet {
		return
	}

	widths := t.columnWidths()

	if len(t.headers) > 0 {
		headerRow := make([]string, len(t.headers))
		separators := make([]string, len(t.headers))
		for i, header := range t.headers {
			headerRow[i] = t.formatter.colorize(header, t.formatter.theme.Primary, StyleBold)
			separators[i] = strings.Repeat("─", widths[i])
		}
		t.writeRow(headerRow, widths)
		t.writeRow(separators, widths)
	}

	for _, row := range t.rows {
		t.writeRow(row, widths)
	}
}
