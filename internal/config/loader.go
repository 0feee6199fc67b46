package config

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/johnconnor-sec/cmdmenu/internal/errors"
)

// Load reads and parses the settings from the specified path. Fields the
// file leaves out keep their defaults.
func Load(configPath string) (*Config, error) {
	if !fileExists(configPath) {
		return nil, errors.ConfigNotFoundError(configPath).
			WithSuggestion("Run 'cmdmenu config init' to create a settings file")
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, errors.Wrap(err, errors.ConfigNotFound, "Failed to read configuration file").
			WithDetails(fmt.Sprintf("Path: %s", configPath)).
			WithSuggestion("Check file permissions and path")
	}

	config := DefaultConfig()
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(config); err != nil && !stderrors.Is(err, io.EOF) {
		return nil, errors.Wrap(err, errors.ConfigInvalid, "Invalid YAML configuration").
			WithDetails(fmt.Sprintf("Parse error: %v", err)).
			WithSuggestions([]string{
				"Check YAML syntax",
				"Validate indentation",
				"Ensure proper field names",
				"Run 'cmdmenu config example' for a reference file",
			})
	}

	config.ConfigPath = configPath

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ConfigInvalid, "Configuration validation failed").
			WithSuggestions([]string{
				"Check the allowed values with 'cmdmenu config schema'",
				"Run 'cmdmenu config init' to create a new config",
			})
	}

	return config, nil
}

// LoadOrDefault loads the settings at configPath, or returns the defaults
// when no file exists there. An empty path looks the file up first.
func LoadOrDefault(configPath string) (*Config, error) {
	if configPath == "" {
		found, err := FindConfigPath()
		if err != nil {
			return DefaultConfig(), nil
		}
		configPath = found
	}

	config, err := Load(configPath)
	if errors.IsType(err, errors.ConfigNotFound) && !fileExists(configPath) {
		return DefaultConfig(), nil
	}
	return config, err
}

// Save writes the configuration to the specified path.
func Save(config *Config, configPath string) error {
	if err := os.MkdirAll(filepath.Dir(configPath), 0755); err != nil {
		return errors.Wrap(err, errors.PermissionDenied, "Cannot create config directory").
			WithDetails(fmt.Sprintf("Path: %s", filepath.Dir(configPath)))
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return errors.Wrap(err, errors.InternalError, "Failed to serialize configuration")
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return errors.Wrap(err, errors.PermissionDenied, "Cannot write configuration file").
			WithDetails(fmt.Sprintf("Path: %s", configPath))
	}

	return nil
}

// ValidateFile loads a settings file and writes a short summary to w.
func ValidateFile(configPath string, w io.Writer) error {
	config, err := Load(configPath)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "✓ Configuration is valid: %s\n", configPath)
	fmt.Fprintf(w, "  - Menu file: %s\n", config.ResolveMenuFile())
	fmt.Fprintf(w, "  - Shell: %s\n", config.Shell)
	fmt.Fprintf(w, "  - Impersonation: %s\n", config.Impersonation.Method)
	fmt.Fprintf(w, "  - UI mode: %s\n", config.UI.Mode)

	return nil
}
