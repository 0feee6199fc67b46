// Package menu implements the menu model: a path-keyed table of options,
// the classification of entries, pattern search and the navigation cursor.
package menu

import (
	"slices"
	"strconv"
	"strings"
)

// Path is the ordered sequence of labels from the root to a menu position.
// The empty path is the root.
type Path []string

// Child returns a new path extended by label. The receiver is not modified.
func (p Path) Child(label string) Path {
	child := make(Path, len(p), len(p)+1)
	copy(child, p)
	return append(child, label)
}

// Parent returns the path one level up. The parent of the root is the root.
func (p Path) Parent() Path {
	if len(p) == 0 {
		return Path{}
	}
	return slices.Clone(p[:len(p)-1])
}

// Last returns the final label of the path, or "" at the root.
func (p Path) Last() string {
	if len(p) == 0 {
		return ""
	}
	return p[len(p)-1]
}

// IsRoot reports whether p is the root path.
func (p Path) IsRoot() bool {
	return len(p) == 0
}

// Equal reports whether both paths hold the same labels.
func (p Path) Equal(other Path) bool {
	return slices.Equal(p, other)
}

func (p Path) String() string {
	if len(p) == 0 {
		return "/"
	}
	return strings.Join(p, " > ")
}

// ComparePaths orders paths segment by segment, shorter prefixes first.
func ComparePaths(a, b Path) int {
	return slices.Compare(a, b)
}

// key encodes a path so that no two distinct paths share a key, whatever
// characters the labels contain.
func key(p Path) string {
	var b strings.Builder
	for _, label := range p {
		b.WriteString(strconv.Itoa(len(label)))
		b.WriteByte(':')
		b.WriteString(label)
	}
	return b.String()
}

// Entry is one row of a table: a path and its children in insertion order.
type Entry struct {
	Path     Path
	Children []string
}

// Table maps a path to the ordered, duplicate-free labels beneath it.
// Structure is permissive: a key's proper prefixes need not list it.
type Table struct {
	children map[string][]string
	paths    map[string]Path
}

// NewTable returns an empty table.
func NewTable() *Table {
	return &Table{
		children: make(map[string][]string),
		paths:    make(map[string]Path),
	}
}

// Build creates a table from full root-to-leaf rows. For every row and every
// i below len(row), row[i] is inserted under the key row[:i].
func Build(rows [][]string) *Table {
	t := NewTable()
	for _, row := range rows {
		for i := range row {
			t.Add(Path(row[:i]), row[i])
		}
	}
	return t
}

// Add inserts label under path, creating the key if needed. Duplicates are
// ignored. It reports whether the label was new for that path.
func (t *Table) Add(path Path, label string) bool {
	k := key(path)
	existing, ok := t.children[k]
	if !ok {
		t.paths[k] = append(Path{}, path...)
	}
	if slices.Contains(existing, label) {
		return false
	}
	t.children[k] = append(existing, label)
	return true
}

// Lookup returns the children of path in insertion order. The boolean is
// false when path is not a key; that is a normal answer, not an error.
func (t *Table) Lookup(path Path) ([]string, bool) {
	children, ok := t.children[key(path)]
	if !ok {
		return nil, false
	}
	return slices.Clone(children), true
}

// Sorted is Lookup with the children sorted for display.
func (t *Table) Sorted(path Path) ([]string, bool) {
	children, ok := t.Lookup(path)
	if ok {
		slices.Sort(children)
	}
	return children, ok
}

// Has reports whether path is a key.
func (t *Table) Has(path Path) bool {
	_, ok := t.children[key(path)]
	return ok
}

// HasChild reports whether label is listed under path.
func (t *Table) HasChild(path Path, label string) bool {
	return slices.Contains(t.children[key(path)], label)
}

// Len returns the number of keys.
func (t *Table) Len() int {
	return len(t.children)
}

// Paths returns every key, sorted.
func (t *Table) Paths() []Path {
	paths := make([]Path, 0, len(t.paths))
	for _, p := range t.paths {
		paths = append(paths, append(Path{}, p...))
	}
	slices.SortFunc(paths, ComparePaths)
	return paths
}

// Entries returns every key with its children in insertion order, sorted by path.
func (t *Table) Entries() []Entry {
	paths := t.Paths()
	entries := make([]Entry, 0, len(paths))
	for _, p := range paths {
		children, _ := t.Lookup(p)
		entries = append(entries, Entry{Path: p, Children: children})
	}
	return entries
}

// Labels returns every distinct label found anywhere in the table, sorted.
func (t *Table) Labels() []string {
	seen := make(map[string]struct{})
	for _, children := range t.children {
		for _, c := range children {
			seen[c] = struct{}{}
		}
	}
	labels := make([]string, 0, len(seen))
	for l := range seen {
		labels = append(labels, l)
	}
	slices.Sort(labels)
	return labels
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	c := NewTable()
	for k, children := range t.children {
		c.children[k] = slices.Clone(children)
		c.paths[k] = slices.Clone(t.paths[k])
	}
	return c
}
