package menu

import (
	"regexp"
	"slices"

	"github.com/johnconnor-sec/cmdmenu/internal/errors"
)

// Find returns a reduced table holding the entries of t that match
// pattern, an unanchored case-sensitive regular expression.
//
// An entry matches when one of its path segments matches (all its children
// are kept) or, failing that, when some of its children match (only those
// are kept). Entries whose first kept child is the literal text of a
// command are then folded into their parent so that results point at the
// command entry rather than at the raw command string.
//
// The result is a fresh table owned by the caller; t is not modified.
func Find(t *Table, pattern string) (*Table, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, errors.PatternError(pattern, err)
	}

	raw := make([]Entry, 0)
	for _, entry := range t.Entries() {
		if slices.ContainsFunc(entry.Path, re.MatchString) {
			raw = append(raw, entry)
			continue
		}
		var hits []string
		for _, child := range entry.Children {
			if re.MatchString(child) {
				hits = append(hits, child)
			}
		}
		if len(hits) > 0 {
			raw = append(raw, Entry{Path: entry.Path, Children: hits})
		}
	}

	result := NewTable()
	var collapsed []Path
	for _, entry := range raw {
		if !entry.Path.IsRoot() && Classify(t, entry.Path, entry.Children[0]) == ActualCommand {
			collapsed = append(collapsed, entry.Path)
			continue
		}
		for _, child := range entry.Children {
			result.Add(entry.Path, child)
		}
	}
	for _, leaf := range collapsed {
		result.Add(leaf.Parent(), leaf.Last())
	}

	return result, nil
}
