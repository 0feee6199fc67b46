package menu

import (
	"context"
	"slices"

	"github.com/johnconnor-sec/cmdmenu/internal/errors"
	"github.com/johnconnor-sec/cmdmenu/internal/exec"
)

// Dispatcher runs the command text attached to a menu entry.
type Dispatcher interface {
	Run(ctx context.Context, commandText string) (*exec.ExecutionResult, error)
}

// Listing is what a front end renders for one cycle: entries sorted by path,
// children sorted for display.
type Listing []Entry

// ListingOf renders a whole table, typically a search result set.
func ListingOf(t *Table) Listing {
	entries := t.Entries()
	for i := range entries {
		slices.Sort(entries[i].Children)
	}
	return entries
}

// Len returns the total number of selectable labels in the listing.
func (l Listing) Len() int {
	n := 0
	for _, e := range l {
		n += len(e.Children)
	}
	return n
}

// At returns the path and label of the n-th selectable label, counting from 1
// in rendering order.
func (l Listing) At(n int) (Path, string, bool) {
	if n < 1 {
		return nil, "", false
	}
	for _, e := range l {
		if n <= len(e.Children) {
			return e.Path, e.Children[n-1], true
		}
		n -= len(e.Children)
	}
	return nil, "", false
}

// Action tells a front end what a choice did.
type Action int

const (
	Moved Action = iota
	Searched
	Executed
)

func (a Action) String() string {
	switch a {
	case Moved:
		return "moved"
	case Searched:
		return "searched"
	case Executed:
		return "executed"
	default:
		return "unknown"
	}
}

// Outcome is the result of a choice. Results is only set for Searched and is
// meant to be rendered once; Execution is only set for Executed.
type Outcome struct {
	Action    Action
	Cursor    Path
	Pattern   string
	Results   *Table
	Command   string
	Execution *exec.ExecutionResult
}

// Navigator owns the cursor over a table.
type Navigator struct {
	table      *Table
	cursor     Path
	dispatcher Dispatcher
}

// NewNavigator creates a navigator positioned at the root.
func NewNavigator(table *Table, dispatcher Dispatcher) *Navigator {
	return &Navigator{
		table:      table,
		cursor:     Path{},
		dispatcher: dispatcher,
	}
}

// Table returns the table being navigated.
func (n *Navigator) Table() *Table {
	return n.table
}

// Cursor returns a copy of the current position.
func (n *Navigator) Cursor() Path {
	return slices.Clone(n.cursor)
}

// Options lists the children at the cursor.
func (n *Navigator) Options() (Listing, error) {
	children, ok := n.table.Sorted(n.cursor)
	if !ok {
		return nil, errors.NoSuchPathError(n.cursor)
	}
	return Listing{{Path: n.Cursor(), Children: children}}, nil
}

// Classify classifies label at path against the navigated table.
func (n *Navigator) Classify(path Path, label string) Kind {
	return Classify(n.table, path, label)
}

// Choose acts on label at the cursor.
func (n *Navigator) Choose(ctx context.Context, label string) (Outcome, error) {
	return n.ChooseAt(ctx, n.cursor, label)
}

// ChooseAt acts on label at path, which may differ from the cursor when the
// label was picked from a search result. Entering a sub-menu moves the cursor
// to path+label; searching and executing leave it where it was.
func (n *Navigator) ChooseAt(ctx context.Context, path Path, label string) (Outcome, error) {
	switch kind := Classify(n.table, path, label); kind {
	case Invalid:
		return Outcome{Cursor: n.Cursor()}, errors.NoSuchPathError(path)

	case Search:
		results, err := Find(n.table, label)
		if err != nil {
			return Outcome{Cursor: n.Cursor()}, err
		}
		return Outcome{Action: Searched, Cursor: n.Cursor(), Pattern: label, Results: results}, nil

	case SubMenu:
		n.cursor = path.Child(label)
		return Outcome{Action: Moved, Cursor: n.Cursor()}, nil

	case Command, ActualCommand:
		command, _ := CommandText(n.table, path, label)
		outcome := Outcome{Action: Executed, Cursor: n.Cursor(), Command: command}
		if n.dispatcher == nil {
			return outcome, errors.New(errors.InternalError, "No command dispatcher configured")
		}
		result, err := n.dispatcher.Run(ctx, command)
		outcome.Execution = result
		return outcome, err

	default:
		return Outcome{Cursor: n.Cursor()}, errors.New(errors.InternalError, "Unhandled entry kind: "+kind.String())
	}
}

// GoUp moves the cursor one level up. At the root it does nothing.
func (n *Navigator) GoUp() {
	if len(n.cursor) > 0 {
		n.cursor = n.cursor.Parent()
	}
}

// Reset moves the cursor back to the root.
func (n *Navigator) Reset() {
	n.cursor = Path{}
}

// Jump moves the cursor to path if it is a key of the table.
func (n *Navigator) Jump(path Path) error {
	if !n.table.Has(path) {
		return errors.NoSuchPathError(path)
	}
	n.cursor = slices.Clone(path)
	return nil
}
