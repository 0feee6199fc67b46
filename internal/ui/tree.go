package ui

import (
	"context"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/johnconnor-sec/cmdmenu/internal/core"
	"github.com/johnconnor-sec/cmdmenu/internal/errors"
	"github.com/johnconnor-sec/cmdmenu/internal/menu"
)

// Rows above the columns: search line, command line, rule.
const treeHeaderRows = 3

var (
	styleLabel      = tcell.StyleDefault.Bold(true)
	styleBadPattern = tcell.StyleDefault.Background(tcell.ColorYellow).Foreground(tcell.ColorBlack)
	styleMuted      = tcell.StyleDefault.Dim(true)
	styleCommand    = tcell.StyleDefault.Foreground(tcell.ColorYellow)
	stylePrimed     = tcell.StyleDefault.Foreground(tcell.ColorRed).Bold(true)
	styleOpened     = tcell.StyleDefault.Foreground(tcell.ColorGray).Bold(true)
	styleError      = tcell.StyleDefault.Foreground(tcell.ColorRed)
)

// item is one selectable label and the path it sits at.
type item struct {
	path  menu.Path
	label string
}

func (it item) key() string {
	return it.path.Child(it.label).String()
}

// Tree is the full-screen front end. While browsing it shows one column per
// opened level. While the search line holds text it shows the matches of
// that pattern in a single column instead.
type Tree struct {
	session *core.Session
	screen  tcell.Screen

	query      []rune
	badPattern bool
	results    []item

	// sel indexes the focused column, or results while searching.
	sel    int
	primed string

	output      []string
	status      string
	interrupted bool
}

// NewTree creates a tree front end drawing on screen. The screen is
// initialized by Run.
func NewTree(session *core.Session, screen tcell.Screen) *Tree {
	return &Tree{session: session, screen: screen}
}

// Run takes over the terminal until the user quits or ctx is cancelled.
func (t *Tree) Run(ctx context.Context) error {
	if err := t.Start(); err != nil {
		return err
	}
	err := t.Loop(ctx)
	t.Stop()

	if t.interrupted {
		fmt.Fprintln(t.session.Formatter().Writer(), "Received Ctrl+C - exiting ...")
	}
	return err
}

// Start initializes the screen.
func (t *Tree) Start() error {
	if err := t.screen.Init(); err != nil {
		return errors.Wrap(err, errors.InternalError, "Failed to initialize the terminal").
			WithSuggestion("Use the text front end instead (drop --tree)")
	}
	t.screen.SetStyle(tcell.StyleDefault)
	return nil
}

// Stop restores the terminal.
func (t *Tree) Stop() {
	t.screen.Fini()
}

// Loop draws and handles events until the user quits.
func (t *Tree) Loop(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		t.screen.PostEvent(tcell.NewEventInterrupt(nil))
	})
	defer stop()

	for {
		if ctx.Err() != nil {
			t.interrupted = true
			return nil
		}
		t.draw()

		ev := t.screen.PollEvent()
		if ev == nil {
			return nil
		}
		if t.handle(ctx, ev) {
			return nil
		}
	}
}

func (t *Tree) handle(ctx context.Context, ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventResize:
		t.screen.Sync()
	case *tcell.EventInterrupt:
		return ctx.Err() != nil
	case *tcell.EventKey:
		return t.handleKey(ctx, ev)
	}
	return false
}

func (t *Tree) handleKey(ctx context.Context, ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyCtrlC:
		t.interrupted = true
		return true
	case tcell.KeyEscape:
		if len(t.query) == 0 {
			return true
		}
		t.setQuery(nil)
	case tcell.KeyRune:
		t.setQuery(append(t.query, ev.Rune()))
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		if len(t.query) > 0 {
			t.setQuery(t.query[:len(t.query)-1])
		}
	case tcell.KeyUp:
		t.move(-1)
	case tcell.KeyDown:
		t.move(1)
	case tcell.KeyHome:
		t.sel = 0
	case tcell.KeyEnd:
		t.sel = len(t.visible()) - 1
	case tcell.KeyLeft:
		t.goUp()
	case tcell.KeyEnter, tcell.KeyRight:
		t.press(ctx)
	}
	return false
}

// setQuery runs the search for every edit of the search line. An empty line
// goes back to browsing from the root; a pattern that does not compile yet
// keeps the previous results and marks the line.
func (t *Tree) setQuery(q []rune) {
	t.query = q
	t.primed = ""

	if len(q) == 0 {
		t.badPattern = false
		t.results = nil
		t.session.Reset()
		t.sel = 0
		return
	}

	found, err := t.session.Find(string(q))
	if err != nil {
		t.badPattern = true
		return
	}
	t.badPattern = false
	t.results = t.results[:0]
	for _, entry := range menu.ListingOf(found) {
		for _, label := range entry.Children {
			t.results = append(t.results, item{path: entry.Path, label: label})
		}
	}
	t.sel = 0
}

func (t *Tree) searching() bool {
	return len(t.query) > 0
}

// columns lists the labels of every opened level, root first.
func (t *Tree) columns() [][]string {
	table := t.session.Table()
	cursor := t.session.Cursor()

	cols := make([][]string, 0, len(cursor)+1)
	for i := 0; i <= len(cursor); i++ {
		labels, _ := table.Sorted(cursor[:i])
		cols = append(cols, labels)
	}
	return cols
}

// visible returns the items of the focused column.
func (t *Tree) visible() []item {
	if t.searching() {
		return t.results
	}
	cursor := t.session.Cursor()
	labels, _ := t.session.Table().Sorted(cursor)
	items := make([]item, len(labels))
	for i, l := range labels {
		items[i] = item{path: cursor, label: l}
	}
	return items
}

func (t *Tree) current() (item, bool) {
	items := t.visible()
	if t.sel < 0 || t.sel >= len(items) {
		return item{}, false
	}
	return items[t.sel], true
}

func (t *Tree) move(delta int) {
	n := len(t.visible())
	if n == 0 {
		return
	}
	t.sel = min(max(t.sel+delta, 0), n-1)
}

func (t *Tree) goUp() {
	if t.searching() {
		return
	}
	cursor := t.session.Cursor()
	if cursor.IsRoot() {
		return
	}
	t.session.GoUp()
	t.primed = ""

	labels, _ := t.session.Table().Sorted(cursor.Parent())
	t.sel = max(0, indexOf(labels, cursor.Last()))
}

// press opens a sub-menu, primes a command, or runs a primed command.
func (t *Tree) press(ctx context.Context) {
	it, ok := t.current()
	if !ok {
		return
	}

	kind := menu.Classify(t.session.Table(), it.path, it.label)
	if !kind.Executable() {
		if _, err := t.session.ChooseAt(ctx, it.path, it.label); err != nil {
			t.status = firstLine(err.Error())
			return
		}
		t.query = nil
		t.badPattern = false
		t.results = nil
		t.sel = 0
		t.primed = ""
		t.status = ""
		return
	}

	if t.primed != it.key() {
		t.primed = it.key()
		p, _ := t.session.Preview(it.path, it.label)
		t.status = fmt.Sprintf("[%s] Press Enter again to run %q", p.Risk, it.label)
		return
	}

	t.primed = ""
	t.status = "Running " + it.label + " ..."
	t.draw()

	outcome, err := t.session.ChooseAt(ctx, it.path, it.label)
	t.output = executionLines(outcome, err)
	t.status = ""
	if err != nil {
		t.status = firstLine(err.Error())
	}
}

func executionLines(outcome menu.Outcome, err error) []string {
	lines := []string{"$ " + outcome.Command}
	res := outcome.Execution
	if res == nil {
		if err != nil {
			lines = append(lines, strings.Split(err.Error(), "\n")...)
		}
		return lines
	}

	lines = append(lines, splitOutput(res.Stdout)...)
	lines = append(lines, splitOutput(res.Stderr)...)
	if res.TimedOut {
		lines = append(lines, "timed out after "+res.Duration.String())
	} else {
		lines = append(lines, fmt.Sprintf("exit status %d", res.ExitCode))
	}
	return lines
}

func splitOutput(s string) []string {
	s = strings.TrimRight(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}

func (t *Tree) draw() {
	s := t.screen
	s.Clear()
	w, h := s.Size()

	x := drawText(s, 0, 0, w, styleLabel, "Search: ")
	queryStyle := tcell.StyleDefault
	if t.badPattern {
		queryStyle = styleBadPattern
		for cx := x; cx < w; cx++ {
			s.SetContent(cx, 0, ' ', nil, queryStyle)
		}
	}
	end := drawText(s, x, 0, w, queryStyle, string(t.query))
	s.ShowCursor(end, 0)

	x = drawText(s, 0, 1, w, styleLabel, "Command: ")
	if it, ok := t.current(); ok {
		if command, ok := menu.CommandText(t.session.Table(), it.path, it.label); ok {
			drawText(s, x, 1, w, styleMuted, command)
		}
	}
	for cx := range w {
		s.SetContent(cx, 2, '─', nil, styleMuted)
	}

	outRows := 0
	if len(t.output) > 0 {
		outRows = min(len(t.output)+1, max(h/3, 2))
	}
	bottom := h - 1 - outRows

	if t.searching() {
		t.drawResults(treeHeaderRows, bottom, w)
	} else {
		t.drawColumns(treeHeaderRows, bottom, w)
	}

	if outRows > 0 {
		for cx := range w {
			s.SetContent(cx, bottom, '─', nil, styleMuted)
		}
		lines := t.output[max(0, len(t.output)-(outRows-1)):]
		for i, line := range lines {
			drawText(s, 0, bottom+1+i, w, tcell.StyleDefault, line)
		}
	}

	status := t.status
	if status == "" {
		status = "↑↓ move  Enter/→ open or run  ← up  Esc clear/quit"
	}
	drawText(s, 0, h-1, w, styleMuted, status)

	s.Show()
}

func (t *Tree) drawColumns(top, bottom, width int) {
	table := t.session.Table()
	cursor := t.session.Cursor()
	cols := t.columns()

	widths := make([]int, len(cols))
	for i, labels := range cols {
		widths[i] = 4
		for _, l := range labels {
			widths[i] = max(widths[i], runewidth.StringWidth(l)+2)
		}
	}

	// Drop leading columns until the focused one fits.
	first, total := 0, 0
	for _, cw := range widths {
		total += cw
	}
	for total > width && first < len(cols)-1 {
		total -= widths[first]
		first++
	}

	x := 0
	for i := first; i < len(cols); i++ {
		path := cursor[:i]
		focused := i == len(cols)-1

		offset := 0
		if focused {
			offset = scrollOffset(t.sel, bottom-top)
		}
		for row, label := range cols[i][offset:] {
			y := top + row
			if y >= bottom {
				break
			}
			it := item{path: path, label: label}
			style := t.itemStyle(table, it)
			switch {
			case focused && row+offset == t.sel:
				style = style.Reverse(true)
			case !focused && label == cursor[i]:
				style = styleOpened
			}
			drawText(t.screen, x, y, x+widths[i]-1, style, label)
		}
		x += widths[i]
	}
}

func (t *Tree) drawResults(top, bottom, width int) {
	table := t.session.Table()
	offset := scrollOffset(t.sel, bottom-top)

	for row, it := range t.results[min(offset, len(t.results)):] {
		y := top + row
		if y >= bottom {
			break
		}
		style := t.itemStyle(table, it)
		if row+offset == t.sel {
			style = style.Reverse(true)
		}
		x := drawText(t.screen, 0, y, width, style, it.label)
		drawText(t.screen, x+2, y, width, styleMuted, "("+it.path.String()+")")
	}
	if len(t.results) == 0 && !t.badPattern {
		drawText(t.screen, 0, top, width, styleError, "No matches")
	}
}

func (t *Tree) itemStyle(table *menu.Table, it item) tcell.Style {
	if !menu.Classify(table, it.path, it.label).Executable() {
		return tcell.StyleDefault
	}
	if t.primed == it.key() {
		return stylePrimed
	}
	return styleCommand
}

func scrollOffset(sel, rows int) int {
	if rows <= 0 || sel < rows {
		return 0
	}
	return sel - rows + 1
}

// drawText writes text from x until maxX and returns the column after it.
func drawText(s tcell.Screen, x, y, maxX int, style tcell.Style, text string) int {
	for _, r := range text {
		rw := runewidth.RuneWidth(r)
		if rw == 0 {
			continue
		}
		if x+rw > maxX {
			break
		}
		s.SetContent(x, y, r, nil, style)
		x += rw
	}
	return x
}

func indexOf(labels []string, label string) int {
	for i, l := range labels {
		if l == label {
			return i
		}
	}
	return -1
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
