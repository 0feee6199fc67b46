package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestCmdmenuError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *CmdmenuError
		contains []string
	}{
		{
			name: "simple error",
			err: &CmdmenuError{
				Type:    ConfigInvalid,
				Message: "Configuration is invalid",
			},
			contains: []string{"Configuration is invalid"},
		},
		{
			name: "error with details",
			err: &CmdmenuError{
				Type:    ConfigInvalid,
				Message: "Configuration is invalid",
				Details: "Missing required field: shell",
			},
			contains: []string{"Configuration is invalid", "Details: Missing required field: shell"},
		},
		{
			name: "error with suggestions",
			err: &CmdmenuError{
				Type:        ConfigInvalid,
				Message:     "Configuration is invalid",
				Suggestions: []string{"Check syntax", "Verify required fields"},
			},
			contains: []string{"Configuration is invalid", "Suggestions:", "Check syntax", "Verify required fields"},
		},
		{
			name: "comprehensive error",
			err: &CmdmenuError{
				Type:        CommandExecution,
				Message:     "Failed to execute command",
				Details:     "Command not found: missing-command",
				Suggestions: []string{"Install the command", "Check PATH"},
			},
			contains: []string{
				"Failed to execute command",
				"Details: Command not found: missing-command",
				"Suggestions:",
				"Install the command",
				"Check PATH",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errorStr := tt.err.Error()
			for _, expected := range tt.contains {
				if !strings.Contains(errorStr, expected) {
					t.Errorf("Error string %q does not contain expected text %q", errorStr, expected)
				}
			}
		})
	}
}

func TestCmdmenuError_Unwrap(t *testing.T) {
	originalErr := fmt.Errorf("original error")
	wrappedErr := Wrap(originalErr, InternalError, "Wrapped error")

	if wrappedErr.Unwrap() != originalErr {
		t.Errorf("Unwrap() returned %v, want %v", wrappedErr.Unwrap(), originalErr)
	}
}

func TestNew(t *testing.T) {
	err := New(ConfigNotFound, "Config file missing")

	if err.Type != ConfigNotFound {
		t.Errorf("New() type = %v, want %v", err.Type, ConfigNotFound)
	}
	if err.Message != "Config file missing" {
		t.Errorf("New() message = %v, want %v", err.Message, "Config file missing")
	}
	if err.Cause != nil {
		t.Errorf("New() cause = %v, want nil", err.Cause)
	}
}

func TestWithSuggestions(t *testing.T) {
	err := New(ConfigInvalid, "Invalid config").
		WithSuggestion("Check syntax").
		WithSuggestions([]string{"Verify fields", "Run example"})

	want := []string{"Check syntax", "Verify fields", "Run example"}
	if len(err.Suggestions) != len(want) {
		t.Fatalf("suggestions length = %d, want %d", len(err.Suggestions), len(want))
	}
	for i, expected := range want {
		if err.Suggestions[i] != expected {
			t.Errorf("suggestion[%d] = %v, want %v", i, err.Suggestions[i], expected)
		}
	}
}

func TestConfigParseError(t *testing.T) {
	cause := fmt.Errorf(`extraneous or missing " in quoted-field`)
	err := ConfigParseError("menu.cfg", 7, cause)

	if err.Type != ConfigParse {
		t.Errorf("type = %v, want %v", err.Type, ConfigParse)
	}
	if err.Cause != cause {
		t.Errorf("ConfigParseError() should wrap the tokenizer error")
	}
	if !strings.Contains(err.Error(), "menu.cfg:7") {
		t.Errorf("ConfigParseError() should contain file and line, got %q", err.Error())
	}
}

func TestNoSuchPathError(t *testing.T) {
	err := NoSuchPathError([]string{"deploy", "web"})

	if err.Type != NoSuchPath {
		t.Errorf("type = %v, want %v", err.Type, NoSuchPath)
	}
	if !strings.Contains(err.Error(), `"deploy" "web"`) {
		t.Errorf("NoSuchPathError() should quote the path, got %q", err.Error())
	}
}

func TestPatternError(t *testing.T) {
	err := PatternError("[", fmt.Errorf("missing closing ]"))

	if !IsType(err, PatternInvalid) {
		t.Errorf("PatternError() should be of type %v", PatternInvalid)
	}
	if !strings.Contains(err.Error(), `"["`) {
		t.Errorf("PatternError() should contain the pattern, got %q", err.Error())
	}
}

func TestCommandExitError(t *testing.T) {
	err := CommandExitError("false", 1, "  boom \n")

	if err.Type != CommandExecution {
		t.Errorf("type = %v, want %v", err.Type, CommandExecution)
	}
	errorStr := err.Error()
	for _, want := range []string{"status 1", "Command: false", "Stderr: boom"} {
		if !strings.Contains(errorStr, want) {
			t.Errorf("CommandExitError() missing %q in %q", want, errorStr)
		}
	}

	quiet := CommandExitError("false", 2, "")
	if strings.Contains(quiet.Error(), "Stderr:") {
		t.Errorf("empty stderr should not be reported")
	}
}

func TestValidationError(t *testing.T) {
	err := ValidationError("shell", "", "shell is required")

	if err.Type != ValidationFailed {
		t.Errorf("ValidationError() type = %v, want %v", err.Type, ValidationFailed)
	}
	if !strings.Contains(err.Error(), "shell is required") {
		t.Errorf("ValidationError() should contain reason")
	}
}

func TestPermissionDeniedError(t *testing.T) {
	err := PermissionDeniedError("/protected/file", "read")

	errorStr := err.Error()
	if !strings.Contains(errorStr, "/protected/file") || !strings.Contains(errorStr, "read") {
		t.Errorf("PermissionDeniedError() should contain path and operation, got %q", errorStr)
	}
}

func TestIsType(t *testing.T) {
	err := New(ConfigInvalid, "Test error")

	if !IsType(err, ConfigInvalid) {
		t.Errorf("IsType() should return true for matching error type")
	}
	if IsType(err, NoSuchPath) {
		t.Errorf("IsType() should return false for non-matching error type")
	}
	if IsType(fmt.Errorf("generic error"), ConfigInvalid) {
		t.Errorf("IsType() should return false for non-CmdmenuError")
	}

	nested := Wrap(PatternError("(", fmt.Errorf("missing )")), InternalError, "search failed")
	if !IsType(nested, PatternInvalid) {
		t.Errorf("IsType() should find a matching type further down the chain")
	}
	if !IsType(fmt.Errorf("context: %w", nested), PatternInvalid) {
		t.Errorf("IsType() should look through fmt wrapping")
	}
}

func TestGetType(t *testing.T) {
	if GetType(New(ConfigInvalid, "Test error")) != ConfigInvalid {
		t.Errorf("GetType() should return correct type for CmdmenuError")
	}
	if GetType(fmt.Errorf("generic error")) != InternalError {
		t.Errorf("GetType() should return InternalError for non-CmdmenuError")
	}
}
