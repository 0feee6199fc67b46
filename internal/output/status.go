package output

import "fmt"

const clearLine = "\r\033[K"

// StatusLine is a single rewritable line, used while a command runs.
type StatusLine struct {
	formatter *Formatter
	active    bool
}

// NewStatusLine creates a new status line
func (f *Formatter) NewStatusLine() *StatusLine {
	return &StatusLine{formatter: f}
}

// Update updates the status line
func (sl *StatusLine) Update(status string, args ...any) {
	if sl.formatter.level == LevelQuiet {
		return
	}
	fmt.Fprint(sl.formatter.writer, clearLine+fmt.Sprintf(status, args...))
	sl.active = true
}

// Success shows a success message and ends the status line
func (sl *StatusLine) Success(message string, args ...any) {
	sl.Clear()
	sl.formatter.Success(message, args...)
}

// Error shows an error message and ends the status line
func (sl *StatusLine) Error(message string, args ...any) {
	sl.Clear()
	sl.formatter.Error(message, args...)
}

// Clear clears the status line
func (sl *StatusLine) Clear() {
	if sl.active {
		fmt.Fprint(sl.formatter.writer, clearLine)
		sl.active = false
	}
}
