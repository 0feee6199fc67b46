// Package config - JSON Schema generation for IDE support
package config

import (
	"encoding/json"
	"fmt"
	"os"
)

// GenerateJSONSchema generates a JSON schema for the settings file.
func GenerateJSONSchema() ([]byte, error) {
	schema := map[string]any{
		"$schema":              "http://json-schema.org/draft-07/schema#",
		"title":                "cmdmenu Settings",
		"description":          "Settings for the cmdmenu hierarchical command menu",
		"type":                 "object",
		"additionalProperties": false,

		"properties": map[string]any{
			"menu_file": map[string]any{
				"type":        "string",
				"description": "Menu file to load when --config is not given",
				"default":     "menu.cfg",
				"minLength":   1,
			},

			"shell": map[string]any{
				"type":        "string",
				"description": "Shell that interprets command text with -c",
				"default":     "/bin/sh",
				"examples":    []string{"/bin/sh", "/bin/bash", "/usr/bin/zsh"},
			},

			"timeout": map[string]any{
				"type":        "string",
				"description": "Command timeout as a Go duration; 0s waits until the command exits",
				"default":     "0s",
				"pattern":     `^([0-9]+(\.[0-9]+)?(ns|us|µs|ms|s|m|h))+$|^0$`,
				"examples":    []string{"0s", "30s", "5m"},
			},

			"confirm_risky": map[string]any{
				"type":        "boolean",
				"description": "Ask before running commands that look destructive",
				"default":     true,
			},

			"impersonation": map[string]any{
				"type":                 "object",
				"description":          "How (user;command) entries switch users",
				"additionalProperties": false,

				"properties": map[string]any{
					"method": map[string]any{
						"type":        "string",
						"description": "User switching strategy",
						"enum":        []string{"auto", "sudo", "su", "credential"},
						"default":     "auto",
					},
					"sanitize_env": map[string]any{
						"type":        "boolean",
						"description": "Drop secret-looking environment variables when switching users",
						"default":     true,
					},
				},
			},

			"ui": map[string]any{
				"type":                 "object",
				"description":          "Front end selection",
				"additionalProperties": false,

				"properties": map[string]any{
					"mode": map[string]any{
						"type":        "string",
						"description": "Text prompt or full-screen tree browser",
						"enum":        []string{"text", "tree"},
						"default":     "text",
					},
					"color": map[string]any{
						"type":        "string",
						"description": "When to use colored output",
						"enum":        []string{"auto", "always", "never"},
						"default":     "auto",
					},
				},
			},

			"log": map[string]any{
				"type":                 "object",
				"description":          "Structured logging",
				"additionalProperties": false,

				"properties": map[string]any{
					"level": map[string]any{
						"type":    "string",
						"enum":    []string{"trace", "debug", "info", "warn", "error"},
						"default": "warn",
					},
					"format": map[string]any{
						"type":    "string",
						"enum":    []string{"text", "json"},
						"default": "text",
					},
					"file": map[string]any{
						"type":        "string",
						"description": "Also write log entries to this file",
						"default":     "",
					},
				},
			},
		},
	}

	return json.MarshalIndent(schema, "", "  ")
}

// SaveJSONSchema saves the JSON schema to a file.
func SaveJSONSchema(filePath string) error {
	schema, err := GenerateJSONSchema()
	if err != nil {
		return fmt.Errorf("failed to generate JSON schema: %w", err)
	}

	if err := os.WriteFile(filePath, schema, 0644); err != nil {
		return fmt.Errorf("failed to write JSON schema: %w", err)
	}

	return nil
}

// ExampleSettings is a commented settings file holding the defaults.
const ExampleSettings = `# cmdmenu settings (YAML)
# Looked up at $CMDMENURC, $XDG_CONFIG_HOME/cmdmenu/config.yml
# or ~/.config/cmdmenu/config.yml

menu_file: menu.cfg
shell: /bin/sh
timeout: 0s          # 0s waits until the command exits
confirm_risky: true

impersonation:
  method: auto       # auto | sudo | su | credential
  sanitize_env: true

ui:
  mode: text         # text | tree
  color: auto        # auto | always | never

log:
  level: warn        # trace | debug | info | warn | error
  format: text       # text | json
  file: ""
`

// ExampleMenu shows the menu file format.
const ExampleMenu = `# cmdmenu menu file
# One row per line: the path from the top level down to a command.
# The last field is the shell command; "(user;command)" runs it as user.
# Everything after '#' is ignored, trailing commas are allowed.

deploy, web, restart, (appuser;systemctl restart web)
deploy, web, status,  systemctl status web
deploy, db,  backup,  pg_dump app > /tmp/app.sql
logs, "tail, last 50", tail -n 50 /var/log/syslog
uptime
`
