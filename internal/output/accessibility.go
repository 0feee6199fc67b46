package output

import (
	"fmt"
	"os"
	"strings"
)

// AccessibilityMode represents different accessibility configurations
type AccessibilityMode int

const (
	AccessibilityNormal AccessibilityMode = iota
	AccessibilityHighContrast
	AccessibilityScreenReader
	AccessibilityMinimal
)

// ParseAccessibilityMode reads the names accepted in CMDMENU_ACCESSIBILITY.
func ParseAccessibilityMode(name string) AccessibilityMode {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "high-contrast":
		return AccessibilityHighContrast
	case "screen-reader":
		return AccessibilityScreenReader
	case "minimal":
		return AccessibilityMinimal
	default:
		return AccessibilityNormal
	}
}

func accessibilityFromEnv() AccessibilityMode {
	return ParseAccessibilityMode(os.Getenv("CMDMENU_ACCESSIBILITY"))
}

// SetAccessibilityMode configures the formatter for accessibility needs
func (f *Formatter) SetAccessibilityMode(mode AccessibilityMode) {
	switch mode {
	case AccessibilityHighContrast:
		f.theme = HighContrastTheme
		f.colorOutput = true
		f.screenReader = false
	case AccessibilityScreenReader:
		f.colorOutput = false
		f.screenReader = true
		f.theme = DefaultTheme
	case AccessibilityMinimal:
		f.colorOutput = false
		f.screenReader = false
		f.theme = DefaultTheme
	}
}

// HighContrastTheme for better visibility
var HighContrastTheme = Theme{
	Primary:    ColorBrightWhite,
	Secondary:  ColorBrightCyan,
	Success:    ColorBrightGreen,
	Warning:    ColorBrightYellow,
	Error:      ColorBrightRed,
	Info:       ColorBrightBlue,
	Muted:      ColorWhite,
	Highlight:  ColorBrightYellow,
	Border:     ColorBrightWhite,
	Background: ColorReset,
}

// ScreenReaderText outputs text with its role spelled out when color is off.
func (f *Formatter) ScreenReaderText(semanticRole, content string) {
	if f.colorOutput {
		switch semanticRole {
		case "success":
			fmt.Fprintln(f.writer, f.colorize(content, f.theme.Success, StyleNormal))
		case "error":
			fmt.Fprintln(f.writer, f.colorize(content, f.theme.Error, StyleNormal))
		case "warning":
			fmt.Fprintln(f.writer, f.colorize(content, f.theme.Warning, StyleNormal))
		case "info":
			fmt.Fprintln(f.writer, f.colorize(content, f.theme.Info, StyleNormal))
		default:
			fmt.Fprintln(f.writer, content)
		}
		return
	}

	switch semanticRole {
	case "success", "error", "warning", "info":
		fmt.Fprintf(f.writer, "%s: %s\n", strings.ToUpper(semanticRole), content)
	default:
		fmt.Fprintln(f.writer, content)
	}
}
