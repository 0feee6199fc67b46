package output

import (
	"os"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/term"
)

func isColorSupported() bool {
	switch accessibilityFromEnv() {
	case AccessibilityScreenReader, AccessibilityMinimal:
		return false
	case AccessibilityHighContrast:
		return true
	}

	// NO_COLOR standard
	if os.Getenv("NO_COLOR") != "" {
		return false
	}

	if os.Getenv("FORCE_COLOR") != "" {
		return true
	}

	if isCIEnvironment() {
		return os.Getenv("CI_NO_COLOR") == ""
	}

	// Screen readers
	if os.Getenv("NVDA") != "" || os.Getenv("JAWS") != "" || os.Getenv("ORCA") != "" {
		return false
	}

	termName := os.Getenv("TERM")
	if termName == "" || termName == "dumb" {
		return false
	}

	return IsTerminal(os.Stderr)
}

// isCIEnvironment checks if running in CI/CD
func isCIEnvironment() bool {
	ciVars := []string{
		"CI", "GITHUB_ACTIONS", "TRAVIS", "CIRCLECI", "GITLAB_CI",
		"JENKINS_URL", "BUILDKITE", "APPVEYOR", "DRONE", "TF_BUILD",
	}

	for _, env := range ciVars {
		if os.Getenv(env) != "" {
			return true
		}
	}
	return false
}

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}

// getTerminalWidth honors COLUMNS, then asks the terminal, then assumes 80.
func getTerminalWidth() int {
	if width := os.Getenv("COLUMNS"); width != "" {
		if w, err := strconv.Atoi(width); err == nil && w > 0 {
			return w
		}
	}

	if w, _, err := term.GetSize(int(os.Stderr.Fd())); err == nil && w > 0 {
		return w
	}

	return 80
}

var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*m`)

// StripANSI removes color escape sequences.
func StripANSI(s string) string {
	if !strings.Contains(s, "\x1b") {
		return s
	}
	return ansiPattern.ReplaceAllString(s, "")
}
