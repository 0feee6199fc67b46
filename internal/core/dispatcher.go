package core

import (
	"context"

	"github.com/johnconnor-sec/cmdmenu/internal/exec"
)

// dispatcher runs command text for the navigator. It decides whether a
// command gets the terminal, shows progress and logs the outcome with
// secrets masked.
type dispatcher struct {
	session *Session
}

func (d *dispatcher) Run(ctx context.Context, commandText string) (*exec.ExecutionResult, error) {
	s := d.session
	masked := s.sanitizer.MaskCommand(commandText)
	log := s.logger.WithField("command", masked)

	opts := &exec.ExecutionOptions{}
	interactive := s.stdout != nil && exec.IsInteractive(commandText)
	if interactive {
		opts.Interactive = true
		opts.Stdin, opts.Stdout, opts.Stderr = s.stdin, s.stdout, s.stderr
	}

	log.Info("Running command", map[string]any{"interactive": interactive})

	result, err := d.execute(ctx, commandText, opts)

	fields := map[string]any{}
	if result != nil {
		fields["exit_code"] = result.ExitCode
		if result.User != "" {
			fields["user"] = result.User
		}
		if result.TimedOut {
			fields["timed_out"] = true
		}
		log.LogDuration("command", result.Duration, fields)
	}
	if err != nil {
		log.WithError(err).Warn("Command failed", fields)
	}
	return result, err
}

func (d *dispatcher) execute(ctx context.Context, commandText string, opts *exec.ExecutionOptions) (*exec.ExecutionResult, error) {
	s := d.session

	if opts.Interactive {
		if s.suspend != nil {
			if err := s.suspend(); err != nil {
				return nil, err
			}
		}
		if s.resume != nil {
			defer func() {
				if err := s.resume(); err != nil {
					s.logger.WithError(err).Error("Failed to restore the terminal")
				}
			}()
		}
		return s.executor.Execute(ctx, commandText, opts)
	}

	if s.spinner {
		spinner := s.formatter.NewSpinner("Running " + s.sanitizer.MaskCommand(exec.ParseDirective(commandText).Command))
		spinner.Start()
		defer spinner.Stop()
	}
	return s.executor.Execute(ctx, commandText, opts)
}
