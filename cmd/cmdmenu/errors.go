package main

import (
	"io"

	"github.com/johnconnor-sec/cmdmenu/internal/errors"
	"github.com/johnconnor-sec/cmdmenu/internal/output"
)

// exitStatus carries the exit code of a command run through "cmdmenu run"
// so the process exits the same way.
type exitStatus struct {
	code int
	err  error
}

func (e exitStatus) Error() string {
	return e.err.Error()
}

func (e exitStatus) Unwrap() error {
	return e.err
}

func handleError(w io.Writer, err error) {
	formatter := output.NewFormatter(w)

	if es, ok := err.(exitStatus); ok {
		// The command's own stderr has already been written.
		if ce, ok := errors.As(es.err); ok {
			formatter.Error("%s", ce.Message)
		}
		return
	}

	if ce, ok := errors.As(err); ok {
		formatter.Error("%s", ce.Error())
		return
	}
	formatter.Error("%v", err)
}

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	if err == nil {
		return 0
	}
	if es, ok := err.(exitStatus); ok {
		return es.code
	}

	switch errors.GetType(err) {
	case errors.ConfigParse, errors.ConfigNotFound, errors.ConfigInvalid, errors.ValidationFailed:
		return 2
	case errors.NoSuchPath, errors.PatternInvalid:
		return 3
	case errors.PermissionDenied:
		return 126
	default:
		return 1
	}
}
