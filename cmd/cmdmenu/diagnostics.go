package main

import (
	"fmt"
	"os"
	osexec "os/exec"
	"runtime"
	"strings"

	"github.com/spf13/cobra"

	"github.com/johnconnor-sec/cmdmenu/internal/config"
	"github.com/johnconnor-sec/cmdmenu/internal/exec"
	"github.com/johnconnor-sec/cmdmenu/internal/output"
	"github.com/johnconnor-sec/cmdmenu/internal/security"
)

func newDiagnosticsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "diagnostics",
		Short: "Check the settings, menu file and shell",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runDiagnostics(cmd)
		},
	}
}

func (a *app) runDiagnostics(cmd *cobra.Command) error {
	diagnostics := []output.DiagnosticInfo{
		{
			Component: "Go Runtime",
			Status:    output.StatusReady,
			Details:   map[string]any{"version": runtime.Version()},
		},
		{
			Component: "Version",
			Status:    output.StatusReady,
			Details:   map[string]any{"version": version, "commit": commit},
		},
	}

	cfg, cfgErr := a.loadConfig(cmd)
	settings := output.DiagnosticInfo{Component: "Settings", Status: output.StatusReady, Details: map[string]any{}}
	switch {
	case cfgErr != nil:
		settings.Status = output.StatusFailed
		settings.Details["error"] = firstLine(cfgErr.Error())
		settings.Suggestions = []string{"Run 'cmdmenu config validate' for details", "Run 'cmdmenu config init' to create a new settings file"}
		cfg = config.DefaultConfig()
	case cfg.ConfigPath == "":
		settings.Status = output.StatusWarning
		settings.Details["path"] = "defaults"
		settings.Suggestions = []string{"Run 'cmdmenu config init' to create a settings file"}
	default:
		settings.Details["path"] = cfg.ConfigPath
	}
	diagnostics = append(diagnostics, settings)

	menuFile := cfg.ResolveMenuFile()
	if table, err := config.LoadMenu(menuFile); err != nil {
		diagnostics = append(diagnostics, output.DiagnosticInfo{
			Component:   "Menu File",
			Status:      output.StatusFailed,
			Details:     map[string]any{"path": menuFile, "error": firstLine(err.Error())},
			Suggestions: []string{"Pass the menu file with -c FILE", "Run 'cmdmenu config example --menu' for the format"},
		})
	} else {
		diagnostics = append(diagnostics, output.DiagnosticInfo{
			Component: "Menu File",
			Status:    output.StatusReady,
			Details:   map[string]any{"path": menuFile, "entries": table.Len()},
		})
	}

	if path, err := osexec.LookPath(cfg.Shell); err != nil {
		diagnostics = append(diagnostics, output.DiagnosticInfo{
			Component:   "Shell",
			Status:      output.StatusFailed,
			Details:     map[string]any{"shell": cfg.Shell},
			Suggestions: []string{"Install the shell or change the shell setting"},
		})
	} else {
		diagnostics = append(diagnostics, output.DiagnosticInfo{
			Component: "Shell",
			Status:    output.StatusReady,
			Details:   map[string]any{"shell": path},
		})
	}

	diagnostics = append(diagnostics, impersonationDiagnostic(cfg))

	f := a.formatter(cfg)
	diagnostics = append(diagnostics, output.DiagnosticInfo{
		Component: "Terminal",
		Status:    output.StatusReady,
		Details: map[string]any{
			"interactive": output.IsTerminal(os.Stdout),
			"color":       f.ColorEnabled(),
			"width":       f.Width(),
		},
	})

	f.RenderDiagnostics(diagnostics)
	fmt.Fprintln(a.stdout)

	healthy := true
	for _, d := range diagnostics {
		healthy = healthy && d.Status != output.StatusFailed
	}
	if healthy {
		f.ScreenReaderText("success", "All checks passed")
	} else {
		f.ScreenReaderText("error", "Some checks failed")
	}
	fmt.Fprintln(a.stdout)

	f.Header("Environment (secure preview)")
	sanitizer := security.NewEnvSanitizer()
	for _, line := range sanitizer.SanitizedEnviron() {
		if strings.HasPrefix(line, "CMDMENU") || strings.HasPrefix(line, "SHELL=") {
			fmt.Fprintf(a.stdout, "  %s\n", line)
		}
	}
	return nil
}

func impersonationDiagnostic(cfg *config.Config) output.DiagnosticInfo {
	d := output.DiagnosticInfo{
		Component: "Impersonation",
		Status:    output.StatusReady,
		Details:   map[string]any{"method": cfg.Impersonation.Method, "sanitize_env": cfg.Impersonation.SanitizeEnv},
	}

	method, err := exec.ParseMethod(cfg.Impersonation.Method)
	if err != nil {
		d.Status = output.StatusFailed
		return d
	}

	var tool string
	switch {
	case method == exec.MethodSudo, method == exec.MethodAuto && os.Geteuid() != 0:
		tool = "sudo"
	case method == exec.MethodSu:
		tool = "su"
	case method == exec.MethodCredential && os.Geteuid() != 0:
		d.Status = output.StatusWarning
		d.Suggestions = []string{"Method 'credential' needs root, use 'sudo' or 'su' instead"}
		return d
	}
	if tool != "" {
		if _, err := osexec.LookPath(tool); err != nil {
			d.Status = output.StatusWarning
			d.Details["missing"] = tool
			d.Suggestions = []string{fmt.Sprintf("Install %s to run \"(user;command)\" entries", tool)}
		}
	}
	return d
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
