// Package errors provides structured error handling with user-friendly messages.
package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors for better user experience.
type ErrorType string

const (
	// Configuration errors
	ConfigParse      ErrorType = "config_parse"
	ConfigNotFound   ErrorType = "config_not_found"
	ConfigInvalid    ErrorType = "config_invalid"
	ValidationFailed ErrorType = "validation_failed"

	// Menu model errors
	NoSuchPath     ErrorType = "no_such_path"
	PatternInvalid ErrorType = "pattern_invalid"

	// Execution errors
	CommandExecution ErrorType = "command_execution"
	PermissionDenied ErrorType = "permission_denied"

	// Internal errors
	InternalError ErrorType = "internal_error"
)

// CmdmenuError represents a structured error with user-friendly messaging.
type CmdmenuError struct {
	Type        ErrorType `json:"type"`
	Message     string    `json:"message"`
	Details     string    `json:"details,omitempty"`
	Suggestions []string  `json:"suggestions,omitempty"`
	Cause       error     `json:"-"`
}

func (e *CmdmenuError) Error() string {
	parts := []string{e.Message}

	if e.Details != "" {
		parts = append(parts, fmt.Sprintf("Details: %s", e.Details))
	}

	if len(e.Suggestions) > 0 {
		parts = append(parts, fmt.Sprintf("Suggestions:\n  • %s", strings.Join(e.Suggestions, "\n  • ")))
	}

	return strings.Join(parts, "\n\n")
}

func (e *CmdmenuError) Unwrap() error {
	return e.Cause
}

// New creates a new CmdmenuError with the given type and message.
func New(errorType ErrorType, message string) *CmdmenuError {
	return &CmdmenuError{
		Type:    errorType,
		Message: message,
	}
}

// Wrap creates a new CmdmenuError that wraps an existing error.
func Wrap(err error, errorType ErrorType, message string) *CmdmenuError {
	return &CmdmenuError{
		Type:    errorType,
		Message: message,
		Cause:   err,
	}
}

// WithDetails adds detailed information to an error.
func (e *CmdmenuError) WithDetails(details string) *CmdmenuError {
	e.Details = details
	return e
}

// WithSuggestion adds a helpful suggestion to an error.
func (e *CmdmenuError) WithSuggestion(suggestion string) *CmdmenuError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple helpful suggestions to an error.
func (e *CmdmenuError) WithSuggestions(suggestions []string) *CmdmenuError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// Common error constructors

// ConfigNotFoundError creates an error for a missing menu or settings file.
func ConfigNotFoundError(path string) *CmdmenuError {
	return New(ConfigNotFound, "Configuration file not found").
		WithDetails(fmt.Sprintf("Looking for config at: %s", path)).
		WithSuggestions([]string{
			"Pass the menu file explicitly with --config",
			"Run 'cmdmenu config example' to see the expected format",
			"Check that the file exists and is readable",
		})
}

// ConfigParseError creates an error for a malformed menu file row.
func ConfigParseError(path string, line int, err error) *CmdmenuError {
	return Wrap(err, ConfigParse, "Malformed menu configuration").
		WithDetails(fmt.Sprintf("%s:%d: %v", path, line, err)).
		WithSuggestions([]string{
			"Check for unterminated double quotes",
			"Quote fields that contain commas",
		})
}

// NoSuchPathError reports a cursor that no longer names a menu level.
func NoSuchPathError(path []string) *CmdmenuError {
	return New(NoSuchPath, "Menu position does not exist").
		WithDetails(fmt.Sprintf("Path: %q", path))
}

// PatternError reports a search expression that does not compile.
func PatternError(pattern string, err error) *CmdmenuError {
	return Wrap(err, PatternInvalid, "Invalid search pattern").
		WithDetails(fmt.Sprintf("Pattern %q: %v", pattern, err)).
		WithSuggestion("Escape regular expression metacharacters such as [ ( * with a backslash")
}

// CommandExecutionError creates an error for a command that could not be run.
func CommandExecutionError(command string, err error) *CmdmenuError {
	return Wrap(err, CommandExecution, "Failed to execute command").
		WithDetails(fmt.Sprintf("Command: %s", command)).
		WithSuggestions([]string{
			"Check that the command exists and is executable",
			"Verify that the configured shell is available",
			"Run 'cmdmenu diagnostics' to check user switching support",
		})
}

// CommandExitError reports a command that ran but exited non-zero.
func CommandExitError(command string, exitCode int, stderr string) *CmdmenuError {
	e := New(CommandExecution, fmt.Sprintf("Command exited with status %d", exitCode)).
		WithDetails(fmt.Sprintf("Command: %s", command))
	if s := strings.TrimSpace(stderr); s != "" {
		e.Details += "\nStderr: " + s
	}
	return e
}

// ValidationError creates an error for validation failures.
func ValidationError(field string, value string, reason string) *CmdmenuError {
	return New(ValidationFailed, fmt.Sprintf("Validation failed for '%s'", field)).
		WithDetails(fmt.Sprintf("Value '%s' is invalid: %s", value, reason))
}

// PermissionDeniedError creates an error for permission issues.
func PermissionDeniedError(path string, operation string) *CmdmenuError {
	return New(PermissionDenied, fmt.Sprintf("Permission denied: cannot %s %s", operation, path)).
		WithSuggestions([]string{
			"Check file/directory permissions",
			"Ensure you have the required access rights",
		})
}

// IsType reports whether err, or any error it wraps, is a CmdmenuError of the given type.
func IsType(err error, errorType ErrorType) bool {
	var ce *CmdmenuError
	for err != nil {
		if !stderrors.As(err, &ce) {
			return false
		}
		if ce.Type == errorType {
			return true
		}
		err = ce.Cause
	}
	return false
}

// GetType returns the ErrorType of a CmdmenuError, or InternalError for other errors.
func GetType(err error) ErrorType {
	var ce *CmdmenuError
	if stderrors.As(err, &ce) {
		return ce.Type
	}
	return InternalError
}

// As returns the first CmdmenuError in err's chain.
func As(err error) (*CmdmenuError, bool) {
	var ce *CmdmenuError
	if stderrors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
