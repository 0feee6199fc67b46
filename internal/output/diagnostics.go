package output

import (
	"fmt"
	"sort"
	"strings"
)

// DiagnosticStatus is the outcome of a single check.
type DiagnosticStatus string

const (
	StatusReady   DiagnosticStatus = "✓ Ready"
	StatusWarning DiagnosticStatus = "⚠ Warning"
	StatusFailed  DiagnosticStatus = "✗ Failed"
)

// DiagnosticInfo represents system diagnostic information
type DiagnosticInfo struct {
	Component   string
	Status      DiagnosticStatus
	Details     map[string]any
	Suggestions []string
}

// Healthy reports whether the check passed.
func (d DiagnosticInfo) Healthy() bool {
	return d.Status == StatusReady
}

// RenderDiagnostics outputs comprehensive system diagnostics
func (f *Formatter) RenderDiagnostics(diagnostics []DiagnosticInfo) {
	f.Header("System Diagnostics")

	table := f.Table().Headers("Component", "Status", "Details")

	for _, diag := range diagnostics {
		status := string(diag.Status)
		switch diag.Status {
		case StatusReady:
			status = f.colorize(status, f.theme.Success, StyleBold)
		case StatusWarning:
			status = f.colorize(status, f.theme.Warning, StyleBold)
		case StatusFailed:
			status = f.colorize(status, f.theme.Error, StyleBold)
		default:
			status = f.colorize(status, f.theme.Info, StyleNormal)
		}

		table.Row(diag.Component, status, formatDetails(diag.Details))
	}

	table.Print()

	for _, diag := range diagnostics {
		if diag.Healthy() || len(diag.Suggestions) == 0 {
			continue
		}
		fmt.Fprintln(f.writer)
		f.ScreenReaderText("warning", fmt.Sprintf("%s Issues", diag.Component))
		for _, suggestion := range diag.Suggestions {
			f.List("%s", suggestion)
		}
	}
}

func formatDetails(details map[string]any) string {
	if len(details) == 0 {
		return ""
	}
	keys := make([]string, 0, len(details))
	for k := range details {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %v", k, details[k]))
	}
	return strings.Join(parts, ", ")
}
