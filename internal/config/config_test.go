package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/johnconnor-sec/cmdmenu/internal/errors"
	"github.com/johnconnor-sec/cmdmenu/internal/exec"
	"github.com/johnconnor-sec/cmdmenu/internal/types"
)

func TestDefaultConfig_Valid(t *testing.T) {
	t.Setenv("CMDMENU_SHELL", "")
	config := DefaultConfig()

	if err := config.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v; want nil", err)
	}
	if config.Shell != exec.DefaultShell {
		t.Errorf("Shell = %q; want %q", config.Shell, exec.DefaultShell)
	}
	if config.Timeout != 0 {
		t.Errorf("Timeout = %v; want 0", config.Timeout)
	}
}

func TestValidate_ReportsAllErrors(t *testing.T) {
	config := DefaultConfig()
	config.Shell = " "
	config.Timeout = -time.Second
	config.Impersonation.Method = "doas"
	config.UI.Mode = "gui"
	config.Log.Level = "loud"

	err := config.Validate()
	verrs, ok := err.(*types.ValidationErrors)
	if !ok {
		t.Fatalf("Validate() = %T; want *types.ValidationErrors", err)
	}

	want := []string{"shell", "timeout", "impersonation.method", "ui.mode", "log.level"}
	if diff := cmp.Diff(want, verrs.Fields()); diff != "" {
		t.Errorf("Validate() fields mismatch (-want +got):\n%s", diff)
	}
}

func TestFindConfigPath(t *testing.T) {
	t.Run("CMDMENURC wins", func(t *testing.T) {
		t.Setenv("CMDMENURC", "/etc/cmdmenu.yml")
		got, err := FindConfigPath()
		if err != nil || got != "/etc/cmdmenu.yml" {
			t.Errorf("FindConfigPath() = %q, %v; want /etc/cmdmenu.yml", got, err)
		}
	})

	t.Run("XDG config home", func(t *testing.T) {
		t.Setenv("CMDMENURC", "")
		t.Setenv("XDG_CONFIG_HOME", "/xdg")
		got, err := FindConfigPath()
		want := filepath.Join("/xdg", "cmdmenu", "config.yml")
		if err != nil || got != want {
			t.Errorf("FindConfigPath() = %q, %v; want %q", got, err, want)
		}
	})

	t.Run("home fallback", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("CMDMENURC", "")
		t.Setenv("XDG_CONFIG_HOME", "")
		t.Setenv("HOME", home)
		got, err := FindConfigPath()
		want := filepath.Join(home, ".config", "cmdmenu", "config.yml")
		if err != nil || got != want {
			t.Errorf("FindConfigPath() = %q, %v; want %q", got, err, want)
		}
	})
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yml")
	content := `menu_file: menus/ops.cfg
timeout: 30s
impersonation:
  method: sudo
ui:
  mode: tree
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	config, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	if config.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v; want 30s", config.Timeout)
	}
	if config.Impersonation.Method != "sudo" || config.UI.Mode != "tree" {
		t.Errorf("Load() = %+v; want sudo and tree", config)
	}
	if !config.Impersonation.SanitizeEnv || !config.ConfirmRisky {
		t.Error("fields missing from the file should keep their defaults")
	}
	if got := config.ResolveMenuFile(); got != filepath.Join(dir, "menus", "ops.cfg") {
		t.Errorf("ResolveMenuFile() = %q; want it relative to the settings file", got)
	}

	opts := config.ExecutionOptions()
	if opts.Method != exec.MethodSudo || opts.Timeout != 30*time.Second {
		t.Errorf("ExecutionOptions() = %+v; want sudo with 30s timeout", opts)
	}
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		want    errors.ErrorType
	}{
		{"bad yaml", "shell: [unterminated", errors.ConfigInvalid},
		{"unknown field", "editor: vim\n", errors.ConfigInvalid},
		{"invalid value", "ui:\n  mode: gui\n", errors.ConfigInvalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_")+".yml")
			if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
				t.Fatal(err)
			}
			if _, err := Load(path); !errors.IsType(err, tt.want) {
				t.Errorf("Load() error = %v; want %s", err, tt.want)
			}
		})
	}

	if _, err := Load(filepath.Join(dir, "missing.yml")); !errors.IsType(err, errors.ConfigNotFound) {
		t.Errorf("Load(missing) error = %v; want ConfigNotFound", err)
	}
}

func TestLoad_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatal(err)
	}

	config, err := Load(path)
	if err != nil {
		t.Fatalf("Load(empty) unexpected error: %v", err)
	}
	if config.MenuFile != "menu.cfg" {
		t.Errorf("MenuFile = %q; want default", config.MenuFile)
	}
}

func TestLoadOrDefault_Missing(t *testing.T) {
	config, err := LoadOrDefault(filepath.Join(t.TempDir(), "nope.yml"))
	if err != nil {
		t.Fatalf("LoadOrDefault() unexpected error: %v", err)
	}
	if diff := cmp.Diff(DefaultConfig(), config); diff != "" {
		t.Errorf("LoadOrDefault() mismatch (-want +got):\n%s", diff)
	}
}

func TestSaveAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yml")
	config := DefaultConfig()
	config.Timeout = 90 * time.Second
	config.Log.Format = "json"

	if err := Save(config, path); err != nil {
		t.Fatalf("Save() unexpected error: %v", err)
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() unexpected error: %v", err)
	}
	config.ConfigPath = path
	if diff := cmp.Diff(config, loaded); diff != "" {
		t.Errorf("Save/Load mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(ExampleSettings), 0644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	if err := ValidateFile(path, &out); err != nil {
		t.Fatalf("ValidateFile(example) unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "Configuration is valid") {
		t.Errorf("ValidateFile() output = %q", out.String())
	}
}

func TestGenerateJSONSchema(t *testing.T) {
	schema, err := GenerateJSONSchema()
	if err != nil {
		t.Fatalf("GenerateJSONSchema() unexpected error: %v", err)
	}
	for _, field := range []string{`"menu_file"`, `"impersonation"`, `"credential"`, `"sanitize_env"`} {
		if !bytes.Contains(schema, []byte(field)) {
			t.Errorf("schema missing %s", field)
		}
	}
}

func TestGenerateInteractive(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	answers := strings.Join([]string{
		"ops.cfg", // menu file
		"",        // shell
		"1m",      // timeout
		"su",      // method
		"tree",    // ui mode
		"n",       // confirm risky
		"y",       // save
	}, "\n") + "\n"

	var out bytes.Buffer
	config, err := GenerateInteractive(strings.NewReader(answers), &out, path)
	if err != nil {
		t.Fatalf("GenerateInteractive() unexpected error: %v", err)
	}
	if config.MenuFile != "ops.cfg" || config.Timeout != time.Minute || config.Impersonation.Method != "su" ||
		config.UI.Mode != "tree" || config.ConfirmRisky {
		t.Errorf("GenerateInteractive() = %+v", config)
	}
	if _, err := Load(path); err != nil {
		t.Errorf("saved settings do not load: %v", err)
	}
}

func TestGenerateInteractive_Rejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")

	_, err := GenerateInteractive(strings.NewReader("\n\n\n\n\n\nno\n"), &bytes.Buffer{}, path)
	if !errors.IsType(err, errors.ConfigInvalid) {
		t.Errorf("GenerateInteractive() error = %v; want ConfigInvalid", err)
	}
	if fileExists(path) {
		t.Error("rejected configuration was written")
	}
}
