// Package core wires a menu table to the navigator, the command dispatcher
// and the logger for one browsing session.
package core

import (
	"context"
	"io"
	"os"
	"sync"

	"github.com/johnconnor-sec/cmdmenu/internal/config"
	"github.com/johnconnor-sec/cmdmenu/internal/errors"
	"github.com/johnconnor-sec/cmdmenu/internal/exec"
	"github.com/johnconnor-sec/cmdmenu/internal/menu"
	"github.com/johnconnor-sec/cmdmenu/internal/output"
	"github.com/johnconnor-sec/cmdmenu/internal/search"
	"github.com/johnconnor-sec/cmdmenu/internal/security"
	"github.com/johnconnor-sec/cmdmenu/internal/types"
)

// suggestionLimit caps the "did you mean" list after an empty search.
const suggestionLimit = 5

// Session is the single navigation state of a running cmdmenu.
type Session struct {
	config    *config.Config
	navigator *menu.Navigator
	executor  *exec.Executor
	formatter *output.Formatter
	logger    *output.Logger
	sanitizer *security.EnvSanitizer
	suggester *search.Suggester

	// Terminal streams handed to editors and pagers; nil disables handoff.
	stdin          io.Reader
	stdout, stderr io.Writer
	suspend        func() error
	resume         func() error
	spinner        bool

	quitOnce  sync.Once
	quitHooks []func()
}

// Option customizes a Session.
type Option func(*Session)

// WithFormatter sets the formatter used for spinners and confirmations.
func WithFormatter(f *output.Formatter) Option {
	return func(s *Session) { s.formatter = f }
}

// WithLogger sets the structured logger.
func WithLogger(l *output.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithTerminal lets commands such as editors and pagers take over the given
// streams instead of having their output captured.
func WithTerminal(stdin io.Reader, stdout, stderr io.Writer) Option {
	return func(s *Session) {
		s.stdin, s.stdout, s.stderr = stdin, stdout, stderr
	}
}

// WithTerminalHandoff registers callbacks run around an interactive command,
// so a full-screen front end can release the terminal.
func WithTerminalHandoff(suspend, resume func() error) Option {
	return func(s *Session) { s.suspend, s.resume = suspend, resume }
}

// WithSpinner shows a spinner while a captured command runs.
func WithSpinner() Option {
	return func(s *Session) { s.spinner = true }
}

// New creates a session over table using the validated settings in cfg.
func New(cfg *config.Config, table *menu.Table, opts ...Option) (*Session, error) {
	if cfg == nil {
		return nil, errors.New(errors.ConfigInvalid, "Configuration is required")
	}
	if table == nil {
		return nil, errors.New(errors.InternalError, "Menu table is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ConfigInvalid, "Invalid configuration")
	}

	s := &Session{
		config:    cfg,
		formatter: output.NewFormatter(os.Stdout),
		logger:    output.NewLogger().SetLevel(output.LogLevelWarn),
		sanitizer: security.NewEnvSanitizer(),
		suggester: search.NewSuggester(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.executor == nil {
		s.executor = exec.New(cfg.ExecutionOptions())
	}

	s.navigator = menu.NewNavigator(table, &dispatcher{session: s})
	s.logger.Debug("Session started", map[string]any{
		"entries": table.Len(),
		"method":  string(s.executor.Options().Method),
	})
	return s, nil
}

// Open loads the menu file named by cfg and starts a session over it.
func Open(cfg *config.Config, opts ...Option) (*Session, error) {
	if cfg == nil {
		return nil, errors.New(errors.ConfigInvalid, "Configuration is required")
	}
	table, err := config.LoadMenu(cfg.ResolveMenuFile())
	if err != nil {
		return nil, err
	}
	return New(cfg, table, opts...)
}

// Config returns the settings the session was created with.
func (s *Session) Config() *config.Config {
	return s.config
}

// Table returns the full menu table.
func (s *Session) Table() *menu.Table {
	return s.navigator.Table()
}

// Formatter returns the formatter front ends should print with.
func (s *Session) Formatter() *output.Formatter {
	return s.formatter
}

// Cursor returns the current menu position.
func (s *Session) Cursor() menu.Path {
	return s.navigator.Cursor()
}

// Options lists the children at the cursor.
func (s *Session) Options() (menu.Listing, error) {
	listing, err := s.navigator.Options()
	if err != nil {
		s.logger.WithError(err).Error("Cursor is not in the menu", map[string]any{"cursor": s.navigator.Cursor().String()})
	}
	return listing, err
}

// Describe numbers the labels of a listing in rendering order and attaches
// their kind and, for commands, the command text and its risk.
func (s *Session) Describe(listing menu.Listing) []types.Option {
	table := s.navigator.Table()
	opts := make([]types.Option, 0, listing.Len())

	for _, entry := range listing {
		for _, label := range entry.Children {
			kind := menu.Classify(table, entry.Path, label)
			opt := types.Option{
				Number: len(opts) + 1,
				Path:   append([]string{}, entry.Path...),
				Label:  label,
				Kind:   kind.String(),
			}
			if command, ok := menu.CommandText(table, entry.Path, label); ok {
				opt.Command = command
				opt.Risk = exec.AssessRisk(command).String()
			}
			opts = append(opts, opt)
		}
	}
	return opts
}

// Choose acts on label at the cursor.
func (s *Session) Choose(ctx context.Context, label string) (menu.Outcome, error) {
	return s.ChooseAt(ctx, s.navigator.Cursor(), label)
}

// ChooseAt acts on label at path and logs what happened.
func (s *Session) ChooseAt(ctx context.Context, path menu.Path, label string) (menu.Outcome, error) {
	outcome, err := s.navigator.ChooseAt(ctx, path, label)
	fields := map[string]any{"path": path.String(), "label": label}

	switch {
	case errors.IsType(err, errors.NoSuchPath):
		s.logger.WithError(err).Error("Choice at a path outside the menu", fields)
	case errors.IsType(err, errors.PatternInvalid):
		s.logger.WithError(err).Info("Invalid search pattern", fields)
	case outcome.Action == menu.Searched:
		fields["matches"] = outcome.Results.Len()
		s.logger.Debug("Searched", fields)
	case outcome.Action == menu.Moved:
		s.suggester.Record(label)
		fields["cursor"] = outcome.Cursor.String()
		s.logger.Debug("Moved", fields)
	case outcome.Action == menu.Executed:
		s.suggester.Record(label)
	}
	return outcome, err
}

// ChooseNumber picks the n-th label of a rendered listing, which may be a
// search result set.
func (s *Session) ChooseNumber(ctx context.Context, listing menu.Listing, n int) (menu.Outcome, error) {
	path, label, ok := listing.At(n)
	if !ok {
		return menu.Outcome{Cursor: s.navigator.Cursor()}, errors.New(errors.NoSuchPath, "No such option").
			WithDetails("Option number out of range").
			WithSuggestion("Pick a number from the list, or 0 to go up")
	}
	return s.ChooseAt(ctx, path, label)
}

// RunPath walks labels from the root and executes the command the last one
// names. Every label must exist; unknown labels are not treated as searches.
func (s *Session) RunPath(ctx context.Context, labels []string) (menu.Outcome, error) {
	if len(labels) == 0 {
		return menu.Outcome{}, errors.New(errors.NoSuchPath, "No command given").
			WithSuggestion("Name the labels leading to a command, e.g. 'cmdmenu run deploy web restart'")
	}

	s.navigator.Reset()
	table := s.navigator.Table()

	for _, label := range labels[:len(labels)-1] {
		cursor := s.navigator.Cursor()
		switch menu.Classify(table, cursor, label) {
		case menu.SubMenu:
		case menu.Invalid, menu.Search:
			return menu.Outcome{Cursor: cursor}, errors.NoSuchPathError(cursor.Child(label))
		default:
			return menu.Outcome{Cursor: cursor}, errors.New(errors.NoSuchPath, "Not a sub-menu: "+cursor.Child(label).String())
		}
		if _, err := s.Choose(ctx, label); err != nil {
			return menu.Outcome{Cursor: s.navigator.Cursor()}, err
		}
	}

	cursor := s.navigator.Cursor()
	last := labels[len(labels)-1]
	switch kind := menu.Classify(table, cursor, last); {
	case kind == menu.Invalid || kind == menu.Search:
		return menu.Outcome{Cursor: cursor}, errors.NoSuchPathError(cursor.Child(last))
	case !kind.Executable():
		return menu.Outcome{Cursor: cursor}, errors.New(errors.NoSuchPath, "Not a command: "+cursor.Child(last).String()).
			WithSuggestion("Use 'cmdmenu list' to see what is below it")
	}
	return s.Choose(ctx, last)
}

// GoUp moves the cursor one level up.
func (s *Session) GoUp() {
	s.navigator.GoUp()
}

// Reset moves the cursor to the root.
func (s *Session) Reset() {
	s.navigator.Reset()
}

// Jump moves the cursor to path.
func (s *Session) Jump(path menu.Path) error {
	return s.navigator.Jump(path)
}

// Preview describes what choosing label at path would run.
type Preview struct {
	Command  string
	User     string
	Risk     exec.Risk
	Warnings []string
}

// Preview returns the command behind label at path, if it is a command.
func (s *Session) Preview(path menu.Path, label string) (Preview, bool) {
	command, ok := menu.CommandText(s.navigator.Table(), path, label)
	if !ok {
		return Preview{}, false
	}
	return Preview{
		Command:  command,
		User:     exec.ParseDirective(command).User,
		Risk:     exec.AssessRisk(command),
		Warnings: exec.Warnings(command),
	}, true
}

// NeedsConfirmation reports whether the settings ask for a prompt before
// running label at path.
func (s *Session) NeedsConfirmation(path menu.Path, label string) bool {
	if !s.config.ConfirmRisky {
		return false
	}
	p, ok := s.Preview(path, label)
	return ok && p.Risk.NeedsConfirmation()
}

// Find searches the whole menu for pattern without moving the cursor. Front
// ends searching as the user types call it for every keystroke.
func (s *Session) Find(pattern string) (*menu.Table, error) {
	results, err := menu.Find(s.navigator.Table(), pattern)
	if err != nil {
		s.logger.Trace("Pattern does not compile", map[string]any{"pattern": pattern})
		return nil, err
	}
	s.logger.Trace("Found", map[string]any{"pattern": pattern, "entries": results.Len()})
	return results, nil
}

// Terminal returns the streams set by WithTerminal. Any of them may be nil.
func (s *Session) Terminal() (stdin io.Reader, stdout, stderr io.Writer) {
	return s.stdin, s.stdout, s.stderr
}

// Suggest lists labels resembling query, for searches that found nothing.
func (s *Session) Suggest(query string) []search.Suggestion {
	return s.suggester.Suggest(s.navigator.Table(), query, suggestionLimit)
}

// OnQuit registers fn to run once when the session closes.
func (s *Session) OnQuit(fn func()) {
	s.quitHooks = append(s.quitHooks, fn)
}

// Close runs the quit hooks in reverse order and closes log files. Calling
// it again does nothing.
func (s *Session) Close() error {
	var err error
	s.quitOnce.Do(func() {
		for i := len(s.quitHooks) - 1; i >= 0; i-- {
			s.quitHooks[i]()
		}
		s.logger.Debug("Session closed")
		err = s.logger.Close()
	})
	return err
}
