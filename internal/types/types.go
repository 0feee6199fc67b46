// Package types provides the data shapes shared by the front ends, the CLI
// and settings validation.
package types

import (
	"fmt"
	"strings"
)

// Option is one selectable label as presented to a user, with everything a
// front end needs to render it.
type Option struct {
	Number  int      `json:"number" yaml:"number"`
	Path    []string `json:"path" yaml:"path"`
	Label   string   `json:"label" yaml:"label"`
	Kind    string   `json:"kind" yaml:"kind"`
	Command string   `json:"command,omitempty" yaml:"command,omitempty"`
	Risk    string   `json:"risk,omitempty" yaml:"risk,omitempty"`
}

// Location renders the option's path for display, "/" at the top level.
func (o Option) Location() string {
	if len(o.Path) == 0 {
		return "/"
	}
	return strings.Join(o.Path, " > ")
}

// ValidationError represents a validation error with context.
type ValidationError struct {
	Field   string `json:"field"`
	Value   string `json:"value"`
	Message string `json:"message"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field '%s' with value '%s': %s", e.Field, e.Value, e.Message)
}

// ValidationErrors holds multiple validation errors.
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

func (e *ValidationErrors) Error() string {
	var messages []string
	for _, err := range e.Errors {
		messages = append(messages, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(messages, "\n  - "))
}

// Fields returns the names of the invalid fields in report order.
func (e *ValidationErrors) Fields() []string {
	fields := make([]string, len(e.Errors))
	for i, err := range e.Errors {
		fields[i] = err.Field
	}
	return fields
}
