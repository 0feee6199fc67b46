package output

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

// Header prints a prominent header
func (f *Formatter) Header(text string) {
	if f.level == LevelQuiet {
		return
	}

	border := strings.Repeat("═", min(runewidth.StringWidth(text)+4, f.width))

	fmt.Fprintln(f.writer, f.colorize(border, f.theme.Border, StyleBold))
	fmt.Fprintln(f.writer, f.colorize(fmt.Sprintf("  %s  ", text), f.theme.Primary, StyleBold))
	fmt.Fprintln(f.writer, f.colorize(border, f.theme.Border, StyleBold))
}

// List prints a bulleted list item
func (f *Formatter) List(format string, args ...any) {
	if f.level == LevelQuiet {
		return
	}
	message := fmt.Sprintf(format, args...)
	fmt.Fprintln(f.writer, f.colorize("• "+message, f.theme.Primary, StyleNormal))
}

// Truncate shortens text to the given display width, ending in "…".
func (f *Formatter) Truncate(text string, width int) string {
	return runewidth.Truncate(text, width, "…")
}

// Table starts a new table for columnized output
func (f *Formatter) Table() *Table {
	return &Table{
		formatter: f,
		headers:   make([]string, 0),
		rows:      make([][]string, 0),
	}
}

// NewSpinner creates a new spinner
func (f *Formatter) NewSpinner(message string) *Spinner {
	return &Spinner{
		formatter: f,
		message:   message,
		frames:    []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
	}
}
