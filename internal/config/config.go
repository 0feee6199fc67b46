// Package config loads the menu file and the YAML settings that control how
// cmdmenu runs it.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/johnconnor-sec/cmdmenu/internal/errors"
	"github.com/johnconnor-sec/cmdmenu/internal/exec"
	"github.com/johnconnor-sec/cmdmenu/internal/types"
)

// Config represents the complete cmdmenu settings.
type Config struct {
	// Menu file to load when --config is not given
	MenuFile string `yaml:"menu_file" json:"menu_file" default:"menu.cfg"`

	// Shell used to interpret command text
	Shell string `yaml:"shell" json:"shell" default:"/bin/sh"`

	// Command timeout, 0 waits until the command exits
	Timeout time.Duration `yaml:"timeout" json:"timeout"`

	// Ask before running commands rated medium risk or higher
	ConfirmRisky bool `yaml:"confirm_risky" json:"confirm_risky" default:"true"`

	Impersonation ImpersonationConfig `yaml:"impersonation" json:"impersonation"`
	UI            UIConfig            `yaml:"ui" json:"ui"`
	Log           LogConfig           `yaml:"log" json:"log"`

	// Internal metadata
	ConfigPath string `yaml:"-" json:"-"`
}

// ImpersonationConfig controls how "(user;command)" entries switch users.
type ImpersonationConfig struct {
	Method      string `yaml:"method" json:"method" default:"auto"`
	SanitizeEnv bool   `yaml:"sanitize_env" json:"sanitize_env" default:"true"`
}

// UIConfig selects and tunes the front end.
type UIConfig struct {
	Mode  string `yaml:"mode" json:"mode" default:"text"`
	Color string `yaml:"color" json:"color" default:"auto"`
}

// LogConfig configures the structured logger.
type LogConfig struct {
	Level  string `yaml:"level" json:"level" default:"warn"`
	Format string `yaml:"format" json:"format" default:"text"`
	File   string `yaml:"file" json:"file"`
}

var (
	uiModes    = []string{"text", "tree"}
	colorModes = []string{"auto", "always", "never"}
	logLevels  = []string{"trace", "debug", "info", "warn", "error"}
	logFormats = []string{"text", "json"}
)

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		MenuFile:     "menu.cfg",
		Shell:        getEnvDefault("CMDMENU_SHELL", exec.DefaultShell),
		Timeout:      0,
		ConfirmRisky: true,
		Impersonation: ImpersonationConfig{
			Method:      string(exec.MethodAuto),
			SanitizeEnv: true,
		},
		UI: UIConfig{
			Mode:  "text",
			Color: "auto",
		},
		Log: LogConfig{
			Level:  "warn",
			Format: "text",
		},
	}
}

// getEnvDefault returns environment variable value or default if not set.
func getEnvDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// fileExists checks if a file exists.
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return !os.IsNotExist(err)
}

// FindConfigPath locates the settings file using standard locations.
func FindConfigPath() (string, error) {
	// Priority order:
	// 1. $CMDMENURC environment variable
	// 2. $XDG_CONFIG_HOME/cmdmenu/config.yml
	// 3. $HOME/.config/cmdmenu/config.yml

	if path := os.Getenv("CMDMENURC"); path != "" {
		return path, nil
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "", errors.Wrap(err, errors.ConfigNotFound, "Unable to determine home directory")
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	// Return the preferred path even if it doesn't exist
	return filepath.Join(configDir, "cmdmenu", "config.yml"), nil
}

// Validate checks every setting and reports all problems at once.
func (c *Config) Validate() error {
	var validationErrors []types.ValidationError

	if strings.TrimSpace(c.MenuFile) == "" {
		validationErrors = append(validationErrors, types.ValidationError{
			Field:   "menu_file",
			Value:   c.MenuFile,
			Message: "menu file path is required",
		})
	}

	if strings.TrimSpace(c.Shell) == "" {
		validationErrors = append(validationErrors, types.ValidationError{
			Field:   "shell",
			Value:   c.Shell,
			Message: "shell is required",
		})
	}

	if c.Timeout < 0 {
		validationErrors = append(validationErrors, types.ValidationError{
			Field:   "timeout",
			Value:   c.Timeout.String(),
			Message: "timeout cannot be negative",
		})
	}

	if _, err := exec.ParseMethod(c.Impersonation.Method); err != nil {
		validationErrors = append(validationErrors, types.ValidationError{
			Field:   "impersonation.method",
			Value:   c.Impersonation.Method,
			Message: "must be one of auto, sudo, su, credential",
		})
	}

	validationErrors = appendIfNotOneOf(validationErrors, "ui.mode", c.UI.Mode, uiModes)
	validationErrors = appendIfNotOneOf(validationErrors, "ui.color", c.UI.Color, colorModes)
	validationErrors = appendIfNotOneOf(validationErrors, "log.level", c.Log.Level, logLevels)
	validationErrors = appendIfNotOneOf(validationErrors, "log.format", c.Log.Format, logFormats)

	if len(validationErrors) > 0 {
		return &types.ValidationErrors{Errors: validationErrors}
	}

	return nil
}

func appendIfNotOneOf(errs []types.ValidationError, field, value string, allowed []string) []types.ValidationError {
	if slices.Contains(allowed, value) {
		return errs
	}
	return append(errs, types.ValidationError{
		Field:   field,
		Value:   value,
		Message: fmt.Sprintf("must be one of %s", strings.Join(allowed, ", ")),
	})
}

// ExecutionOptions converts the settings into executor defaults.
func (c *Config) ExecutionOptions() exec.ExecutionOptions {
	method, err := exec.ParseMethod(c.Impersonation.Method)
	if err != nil {
		method = exec.MethodAuto
	}
	return exec.ExecutionOptions{
		Shell:       c.Shell,
		Timeout:     c.Timeout,
		Method:      method,
		SanitizeEnv: c.Impersonation.SanitizeEnv,
	}
}

// ResolveMenuFile returns the menu file path. A relative menu_file is taken
// relative to the settings file that named it.
func (c *Config) ResolveMenuFile() string {
	if c.ConfigPath == "" || filepath.IsAbs(c.MenuFile) || c.MenuFile == DefaultConfig().MenuFile {
		return c.MenuFile
	}
	return filepath.Join(filepath.Dir(c.ConfigPath), c.MenuFile)
}
