// Package ui provides the two interactive front ends: a numbered text prompt
// and a full-screen tree browser.
package ui

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/chzyer/readline"

	"github.com/johnconnor-sec/cmdmenu/internal/core"
	"github.com/johnconnor-sec/cmdmenu/internal/errors"
	"github.com/johnconnor-sec/cmdmenu/internal/menu"
	"github.com/johnconnor-sec/cmdmenu/internal/output"
	"github.com/johnconnor-sec/cmdmenu/internal/search"
	"github.com/johnconnor-sec/cmdmenu/internal/types"
)

const (
	textPrompt    = "Make your choice: "
	confirmPrompt = "Run it anyway? [y/N]: "
)

// Text is the numbered prompt front end. Each cycle prints the options at
// the cursor, or the results of the last search, and reads one line.
type Text struct {
	session     *core.Session
	f           *output.Formatter
	out         io.Writer
	historyFile string

	listing     menu.Listing
	results     menu.Listing
	showResults bool

	confirm func(question string) (bool, error)
}

// NewText creates a text front end printing through the session's formatter.
func NewText(session *core.Session) *Text {
	f := session.Formatter()
	return &Text{
		session: session,
		f:       f,
		out:     f.Writer(),
	}
}

// SetHistoryFile keeps prompt history in path. Empty disables history.
func (t *Text) SetHistoryFile(path string) *Text {
	t.historyFile = path
	return t
}

// SetConfirm replaces the yes/no question asked before risky commands.
func (t *Text) SetConfirm(fn func(question string) (bool, error)) *Text {
	t.confirm = fn
	return t
}

// Run loops until the user quits, input ends or ctx is cancelled.
func (t *Text) Run(ctx context.Context) error {
	rl, err := readline.NewEx(t.readlineConfig())
	if err != nil {
		return errors.Wrap(err, errors.InternalError, "Failed to start the prompt")
	}
	defer rl.Close()

	if t.confirm == nil {
		t.confirm = func(question string) (bool, error) {
			rl.SetPrompt(question)
			defer rl.SetPrompt(textPrompt)
			line, err := rl.Readline()
			if err != nil {
				return false, err
			}
			return isYes(line), nil
		}
	}

	for {
		if ctx.Err() != nil {
			fmt.Fprintln(t.out, "Received Ctrl+C - exiting ...")
			return nil
		}

		t.Render()

		line, err := rl.Readline()
		switch {
		case err == readline.ErrInterrupt:
			fmt.Fprintln(t.out, "Received Ctrl+C - exiting ...")
			return nil
		case err == io.EOF:
			return nil
		case err != nil:
			return errors.Wrap(err, errors.InternalError, "Failed to read input")
		}

		if t.Handle(ctx, line) {
			return nil
		}
	}
}

// readlineConfig reads from the session's terminal streams. Streams that are
// not a terminal get line-at-a-time input with no raw mode.
func (t *Text) readlineConfig() *readline.Config {
	cfg := &readline.Config{
		Prompt:            textPrompt,
		HistoryFile:       t.historyFile,
		HistorySearchFold: true,
		AutoComplete:      newLabelCompleter(t.session),
		InterruptPrompt:   "^C",
		EOFPrompt:         "exit",
	}

	in, out, errOut := t.session.Terminal()
	if out != nil {
		cfg.Stdout = out
	}
	if errOut != nil {
		cfg.Stderr = errOut
	}
	if in == nil || in == io.Reader(os.Stdin) {
		return cfg
	}

	cfg.Stdin = io.NopCloser(in)
	if f, ok := in.(*os.File); !ok || !output.IsTerminal(f) {
		cfg.FuncIsTerminal = func() bool { return false }
		cfg.FuncMakeRaw = func() error { return nil }
		cfg.FuncExitRaw = func() error { return nil }
		cfg.FuncOnWidthChanged = func(func()) {}
	}
	return cfg
}

// Render prints one cycle of the menu and remembers the numbering for the
// next Handle.
func (t *Text) Render() {
	listing := t.results
	if !t.showResults {
		var err error
		if listing, err = t.session.Options(); err != nil {
			t.f.Error("%v", err)
			t.session.Reset()
			listing, _ = t.session.Options()
		}
	}
	t.showResults = false
	t.listing = listing

	fmt.Fprintln(t.out, "\n****** Menu ******")
	fmt.Fprintf(t.out, "0:(%s): %s\n\n", "Parent-menu", "Go back up one level")

	opts := t.session.Describe(listing)
	n := 0
	for _, entry := range listing {
		fmt.Fprintf(t.out, "%s:\n", location(entry.Path))
		for range entry.Children {
			fmt.Fprintln(t.out, t.row(opts[n]))
			n++
		}
		fmt.Fprintln(t.out, "\n-------------------")
	}
}

func (t *Text) row(opt types.Option) string {
	kind := opt.Kind
	switch kind {
	case "sub-menu":
		kind = t.f.Colorize(kind, t.f.Theme().Primary, output.StyleNormal)
	case "command", "actual-command":
		kind = t.f.Colorize(kind, t.f.Theme().Warning, output.StyleNormal)
	}

	line := fmt.Sprintf("%d:(%s):\t%s", opt.Number, kind, opt.Label)
	if opt.Risk != "" && opt.Risk != "SAFE" {
		line += "  " + t.f.Colorize("["+opt.Risk+"]", t.f.Theme().Error, output.StyleBold)
	}
	return line
}

// location renders a path as an indented block, e.g. "Root\n--a\n---->b".
func location(p menu.Path) string {
	var b strings.Builder
	b.WriteString("Root")
	for i, seg := range p {
		b.WriteByte('\n')
		b.WriteString(strings.Repeat("--", i+1))
		if i == len(p)-1 {
			b.WriteByte('>')
		}
		b.WriteString(seg)
	}
	return b.String()
}

// Handle acts on one line of input and reports whether the user asked to
// quit.
func (t *Text) Handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)

	switch {
	case line == "":
	case line == "0":
		t.session.GoUp()
	case line == "quit" || line == "exit":
		return true
	case isNumber(line):
		n, _ := strconv.Atoi(line)
		if path, label, ok := t.listing.At(n); ok && !t.confirmed(path, label) {
			return false
		}
		t.show(t.session.ChooseNumber(ctx, t.listing, n))
	default:
		if !t.confirmed(t.session.Cursor(), line) {
			return false
		}
		t.show(t.session.Choose(ctx, line))
	}
	return false
}

// confirmed asks before risky commands when the settings want that.
func (t *Text) confirmed(path menu.Path, label string) bool {
	if !t.session.NeedsConfirmation(path, label) {
		return true
	}

	p, _ := t.session.Preview(path, label)
	t.f.Warning("%s", p.Risk.Warning())
	fmt.Fprintf(t.out, "  %s\n", p.Command)
	for _, w := range p.Warnings {
		t.f.List("%s", w)
	}

	if t.confirm == nil {
		t.f.Info("Cancelled")
		return false
	}
	ok, err := t.confirm(confirmPrompt)
	if err != nil || !ok {
		t.f.Info("Cancelled")
		return false
	}
	return true
}

func (t *Text) show(outcome menu.Outcome, err error) {
	switch outcome.Action {
	case menu.Searched:
		if err != nil {
			break
		}
		t.results = menu.ListingOf(outcome.Results)
		t.showResults = t.results.Len() > 0
		if !t.showResults {
			t.noMatches(outcome.Pattern)
		}
		return
	case menu.Executed:
		if outcome.Execution != nil {
			t.printExecution(outcome)
			return
		}
	}
	if err != nil {
		t.printError(err)
	}
}

func (t *Text) noMatches(pattern string) {
	t.f.Warning("Nothing matches %q", pattern)
	suggestions := t.session.Suggest(pattern)
	if len(suggestions) == 0 {
		return
	}
	t.f.Info("Did you mean:")
	for _, s := range suggestions {
		label := s.Label
		if t.f.ColorEnabled() {
			label = search.HighlightString(label, s.Match.Highlights, "\033[1m", "\033[22m")
		}
		t.f.List("%s  (%s)", label, s.Path)
	}
}

func (t *Text) printExecution(outcome menu.Outcome) {
	res := outcome.Execution
	fmt.Fprintf(t.out, "Executing following command: %s\n", outcome.Command)

	if res.Stdout != "" {
		fmt.Fprint(t.out, res.Stdout)
		if !strings.HasSuffix(res.Stdout, "\n") {
			fmt.Fprintln(t.out)
		}
	}
	if res.Stderr != "" {
		fmt.Fprint(t.out, t.f.Colorize(strings.TrimRight(res.Stderr, "\n"), t.f.Theme().Error, output.StyleNormal)+"\n")
	}

	switch {
	case res.TimedOut:
		t.f.Error("Timed out after %s", res.Duration.Round(time.Millisecond))
	case res.ExitCode != 0:
		t.f.Error("Exit status %d", res.ExitCode)
	default:
		t.f.Success("Exit status 0 (%s)", res.Duration.Round(time.Millisecond))
	}
}

func (t *Text) printError(err error) {
	if ce, ok := errors.As(err); ok {
		t.f.Error("%s", ce.Message)
		if ce.Details != "" {
			fmt.Fprintf(t.out, "  %s\n", ce.Details)
		}
		for _, s := range ce.Suggestions {
			t.f.List("%s", s)
		}
		return
	}
	t.f.Error("%v", err)
}

func isNumber(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return s != ""
}

func isYes(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "y", "yes":
		return true
	}
	return false
}
