package exec

import "strings"

// Risk is a coarse rating of how destructive a command looks.
type Risk int

const (
	RiskSafe Risk = iota
	RiskMedium
	RiskHigh
	RiskCritical
)

func (r Risk) String() string {
	switch r {
	case RiskSafe:
		return "SAFE"
	case RiskMedium:
		return "MEDIUM"
	case RiskHigh:
		return "HIGH"
	case RiskCritical:
		return "CRITICAL"
	default:
		return "UNKNOWN"
	}
}

// Warning is the line shown to the user before confirming a command.
func (r Risk) Warning() string {
	switch r {
	case RiskCritical:
		return "CRITICAL: Don't do this"
	case RiskHigh:
		return "HIGH: Are you sure?"
	case RiskMedium:
		return "MEDIUM: Are you sure you want to run this?"
	default:
		return "SAFE"
	}
}

// NeedsConfirmation reports whether the rating warrants asking first.
func (r Risk) NeedsConfirmation() bool {
	return r >= RiskMedium
}

var (
	criticalPatterns = []string{"rm -rf", "rm -fr", "mkfs", "dd if=", ":(){", "> /dev/sd", "format "}
	highPatterns     = []string{"sudo rm", "rm /", "shutdown", "reboot", "halt", "poweroff", "kill -9", "killall"}
	mediumPatterns   = []string{"sudo", "rm ", "mv ", "chmod", "chown", "systemctl", "git push", "del "}
)

// AssessRisk rates the command text of a menu entry. A directive naming
// root is at least RiskMedium whatever the command does.
func AssessRisk(commandText string) Risk {
	d := ParseDirective(commandText)
	cmd := strings.ToLower(d.Command)

	risk := RiskSafe
	switch {
	case containsAny(cmd, criticalPatterns):
		risk = RiskCritical
	case containsAny(cmd, highPatterns):
		risk = RiskHigh
	case containsAny(cmd, mediumPatterns):
		risk = RiskMedium
	}

	if d.User == "root" && risk < RiskMedium {
		risk = RiskMedium
	}
	return risk
}

// Warnings lists what a command appears to do that deserves attention.
func Warnings(commandText string) []string {
	d := ParseDirective(commandText)
	var warnings []string

	if d.User != "" {
		warnings = append(warnings, "Runs as user "+d.User)
	}
	if strings.Contains(d.Command, "sudo") {
		warnings = append(warnings, "Command requires elevated privileges")
	}
	if strings.Contains(d.Command, "rm ") {
		warnings = append(warnings, "Command will delete files")
	}
	if strings.Contains(d.Command, "curl") || strings.Contains(d.Command, "wget") {
		warnings = append(warnings, "Command accesses network")
	}
	return warnings
}

func containsAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}
