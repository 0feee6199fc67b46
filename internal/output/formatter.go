package output

import (
	"fmt"
	"io"
	"strings"
)

// Color represents ANSI color codes
type Color int

const (
	ColorReset Color = iota
	ColorRed
	ColorGreen
	ColorYellow
	ColorBlue
	ColorMagenta
	ColorCyan
	ColorWhite
	ColorBrightRed
	ColorBrightGreen
	ColorBrightYellow
	ColorBrightBlue
	ColorBrightMagenta
	ColorBrightCyan
	ColorBrightWhite
)

var colorCodes = map[Color]string{
	ColorRed:           "31",
	ColorGreen:         "32",
	ColorYellow:        "33",
	ColorBlue:          "34",
	ColorMagenta:       "35",
	ColorCyan:          "36",
	ColorWhite:         "37",
	ColorBrightRed:     "91",
	ColorBrightGreen:   "92",
	ColorBrightYellow:  "93",
	ColorBrightBlue:    "94",
	ColorBrightMagenta: "95",
	ColorBrightCyan:    "96",
	ColorBrightWhite:   "97",
}

// Style represents text formatting
type Style int

const (
	StyleNormal Style = iota
	StyleBold
	StyleDim
	StyleItalic
	StyleUnderline
)

var styleCodes = map[Style]string{
	StyleBold:      "1",
	StyleDim:       "2",
	StyleItalic:    "3",
	StyleUnderline: "4",
}

// OutputLevel represents the verbosity level
type OutputLevel int

const (
	LevelQuiet OutputLevel = iota
	LevelNormal
	LevelVerbose
	LevelDebug
)

// ColorMode is the user's color preference from the settings file.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

// Theme defines the color scheme for different elements
type Theme struct {
	Primary    Color
	Secondary  Color
	Success    Color
	Warning    Color
	Error      Color
	Info       Color
	Muted      Color
	Highlight  Color
	Border     Color
	Background Color
}

// DefaultTheme provides a sensible default color scheme
var DefaultTheme = Theme{
	Primary:    ColorBlue,
	Secondary:  ColorCyan,
	Success:    ColorGreen,
	Warning:    ColorYellow,
	Error:      ColorRed,
	Info:       ColorBlue,
	Muted:      ColorWhite,
	Highlight:  ColorBrightYellow,
	Border:     ColorMagenta,
	Background: ColorReset,
}

// Formatter handles styled output formatting
type Formatter struct {
	writer       io.Writer
	theme        Theme
	level        OutputLevel
	colorOutput  bool
	screenReader bool
	width        int
}

// NewFormatter creates a new formatter with the given configuration
func NewFormatter(w io.Writer) *Formatter {
	f := &Formatter{
		writer:      w,
		theme:       DefaultTheme,
		level:       LevelNormal,
		colorOutput: isColorSupported(),
		width:       getTerminalWidth(),
	}
	if mode := accessibilityFromEnv(); mode != AccessibilityNormal {
		f.SetAccessibilityMode(mode)
	}
	return f
}

// Writer returns the destination the formatter prints to.
func (f *Formatter) Writer() io.Writer {
	return f.writer
}

// Theme returns the active color theme.
func (f *Formatter) Theme() Theme {
	return f.theme
}

// SetLevel changes the output verbosity level
func (f *Formatter) SetLevel(level OutputLevel) {
	f.level = level
}

// Level returns the output verbosity level.
func (f *Formatter) Level() OutputLevel {
	return f.level
}

// SetColorOutput enables or disables color output
func (f *Formatter) SetColorOutput(enabled bool) {
	f.colorOutput = enabled
}

// ColorEnabled reports whether escape codes are written.
func (f *Formatter) ColorEnabled() bool {
	return f.colorOutput
}

// SetColorMode applies a settings value. "auto" keeps terminal detection.
func (f *Formatter) SetColorMode(mode ColorMode) error {
	switch mode {
	case ColorAuto, "":
		f.colorOutput = isColorSupported()
	case ColorAlways:
		f.colorOutput = true
	case ColorNever:
		f.colorOutput = false
	default:
		return fmt.Errorf("unknown color mode %q", mode)
	}
	return nil
}

// Colorize applies color and style to text if color output is enabled.
func (f *Formatter) Colorize(text string, color Color, style Style) string {
	return f.colorize(text, color, style)
}

func (f *Formatter) colorize(text string, color Color, style Style) string {
	if !f.colorOutput {
		return text
	}

	colorCode, ok := colorCodes[color]
	if !ok {
		return text
	}

	var codes []string
	if styleCode, ok := styleCodes[style]; ok {
		codes = append(codes, styleCode)
	}
	codes = append(codes, colorCode)

	return fmt.Sprintf("\033[%sm%s\033[0m", strings.Join(codes, ";"), text)
}

// Width returns the cached terminal width.
func (f *Formatter) Width() int {
	return f.width
}

