package output

import "fmt"

// Success prints a success message
func (f *Formatter) Success(format string, args ...any) {
	if f.level == LevelQuiet {
		return
	}
	message := fmt.Sprintf(format, args...)
	fmt.Fprintln(f.writer, f.colorize(f.icon("✓", "OK:")+" "+message, f.theme.Success, StyleBold))
}

// Error prints an error message. Errors print even when quiet.
func (f *Formatter) Error(format string, args ...any) {
	message := fmt.Sprintf(format, args...)
	fmt.Fprintln(f.writer, f.colorize(f.icon("✗", "ERROR:")+" "+message, f.theme.Error, StyleBold))
}

// Warning prints a warning message
func (f *Formatter) Warning(format string, args ...any) {
	if f.level == LevelQuiet {
		return
	}
	message := fmt.Sprintf(format, args...)
	fmt.Fprintln(f.writer, f.colorize(f.icon("⚠", "WARNING:")+" "+message, f.theme.Warning, StyleBold))
}

// Info prints an info message
func (f *Formatter) Info(format string, args ...any) {
	if f.level == LevelQuiet {
		return
	}
	message := fmt.Sprintf(format, args...)
	fmt.Fprintln(f.writer, f.colorize(f.icon("ℹ", "INFO:")+" "+message, f.theme.Info, StyleNormal))
}

// Debug prints a debug message
func (f *Formatter) Debug(format string, args ...any) {
	if f.level < LevelDebug {
		return
	}
	message := fmt.Sprintf(format, args...)
	fmt.Fprintln(f.writer, f.colorize(f.icon("·", "DEBUG:")+" "+message, f.theme.Muted, StyleDim))
}

// icon picks the glyph, or a spoken word when a screen reader is in use.
func (f *Formatter) icon(glyph, word string) string {
	if f.screenReader {
		return word
	}
	return glyph
}
