// Package security keeps secrets out of child environments and log output.
package security

import (
	"os"
	"regexp"
	"sort"
	"strings"
)

// SensitivePattern defines patterns for sensitive environment variables
type SensitivePattern struct {
	Pattern     *regexp.Regexp
	Replacement string
	Description string
}

// VisibilityLevel controls how much of a value is shown
type VisibilityLevel int

const (
	VisibilityHidden  VisibilityLevel = iota // Show nothing
	VisibilityMasked                         // Show a replacement tag
	VisibilityLimited                        // Show first/last chars only
	VisibilityFull                           // Show full values
)

// EnvSanitizer classifies environment variable names and masks their values.
type EnvSanitizer struct {
	sensitivePatterns []SensitivePattern
	safeVars          map[string]bool
	visibilityLevel   VisibilityLevel
}

// NewEnvSanitizer creates a sanitizer with the default patterns.
func NewEnvSanitizer() *EnvSanitizer {
	return &EnvSanitizer{
		sensitivePatterns: []SensitivePattern{
			// Specific patterns first, catch-all last
			{
				Pattern:     regexp.MustCompile(`(?i).*(aws|gcp|azure|cloud).*(key|token|secret|password|pass|pwd|auth|access).*`),
				Replacement: "[REDACTED-CLOUD]",
				Description: "Cloud provider credentials",
			},
			{
				Pattern:     regexp.MustCompile(`(?i).*(db|database|sql).*(pass|pwd|password|secret).*`),
				Replacement: "[REDACTED-DATABASE]",
				Description: "Database credentials",
			},
			{
				Pattern:     regexp.MustCompile(`(?i).*(key|token|secret|password|pass|pwd|auth|api).*`),
				Replacement: "[REDACTED-SECRET]",
				Description: "API keys, tokens, passwords, and secrets",
			},
		},
		safeVars: map[string]bool{
			"HOME": true, "USER": true, "LOGNAME": true, "PATH": true,
			"TERM": true, "SHELL": true, "LANG": true, "LC_ALL": true,
			"TZ": true, "COLUMNS": true, "LINES": true, "DISPLAY": true,
			"EDITOR": true, "VISUAL": true, "PWD": true,
			"NO_COLOR": true, "FORCE_COLOR": true,
			"CMDMENURC": true, "CMDMENU_ACCESSIBILITY": true, "XDG_CONFIG_HOME": true,
			// SSH_AUTH_SOCK is a socket path, not a secret
			"SSH_AUTH_SOCK": true,
		},
		visibilityLevel: VisibilityMasked,
	}
}

// SetVisibilityLevel sets how SanitizeValue renders values.
func (es *EnvSanitizer) SetVisibilityLevel(level VisibilityLevel) {
	es.visibilityLevel = level
}

// IsSensitive reports whether an environment variable name looks like a secret.
func (es *EnvSanitizer) IsSensitive(name string) bool {
	if es.safeVars[name] {
		return false
	}
	for _, pattern := range es.sensitivePatterns {
		if pattern.Pattern.MatchString(name) {
			return true
		}
	}
	return false
}

// SanitizeValue renders value according to the visibility level.
func (es *EnvSanitizer) SanitizeValue(name, value string) string {
	if value == "" || es.safeVars[name] {
		return value
	}

	switch es.visibilityLevel {
	case VisibilityHidden:
		return "[HIDDEN]"
	case VisibilityLimited:
		return limitedValue(value)
	case VisibilityFull:
		return value
	}

	if es.IsSensitive(name) {
		return es.maskedReplacement(name)
	}
	return "[MASKED]"
}

func (es *EnvSanitizer) maskedReplacement(name string) string {
	for _, pattern := range es.sensitivePatterns {
		if pattern.Pattern.MatchString(name) {
			return pattern.Replacement
		}
	}
	return "[REDACTED]"
}

func limitedValue(value string) string {
	switch {
	case len(value) <= 8:
		return strings.Repeat("*", len(value))
	case len(value) <= 16:
		return value[:2] + strings.Repeat("*", len(value)-4) + value[len(value)-2:]
	default:
		return value[:3] + strings.Repeat("*", len(value)-6) + value[len(value)-3:]
	}
}

// FilterEnviron drops sensitive variables from a KEY=VALUE list, keeping order.
func (es *EnvSanitizer) FilterEnviron(environ []string) []string {
	kept := make([]string, 0, len(environ))
	for _, kv := range environ {
		name, _, _ := strings.Cut(kv, "=")
		if es.IsSensitive(name) {
			continue
		}
		kept = append(kept, kv)
	}
	return kept
}

// SanitizedEnviron returns the current environment with values rendered
// through SanitizeValue, as sorted NAME=value lines.
func (es *EnvSanitizer) SanitizedEnviron() []string {
	var lines []string
	for _, kv := range os.Environ() {
		name, value, ok := strings.Cut(kv, "=")
		if !ok {
			continue
		}
		lines = append(lines, name+"="+es.SanitizeValue(name, value))
	}
	sort.Strings(lines)
	return lines
}

var (
	assignmentPattern = regexp.MustCompile(`\b([A-Za-z_][A-Za-z0-9_]*)=("[^"]*"|'[^']*'|\S+)`)
	secretFlagPattern = regexp.MustCompile(`(?i)(--?(?:password|passwd|pass|token|secret|api-key|apikey)[= ])("[^"]*"|'[^']*'|\S+)`)
)

// MaskCommand hides the values of secret-looking VAR=value assignments and
// --password style flags in a command line before it is logged.
func (es *EnvSanitizer) MaskCommand(command string) string {
	masked := assignmentPattern.ReplaceAllStringFunc(command, func(m string) string {
		sub := assignmentPattern.FindStringSubmatch(m)
		if !es.IsSensitive(sub[1]) {
			return m
		}
		return sub[1] + "=" + es.maskedReplacement(sub[1])
	})
	return secretFlagPattern.ReplaceAllString(masked, "${1}[REDACTED]")
}
