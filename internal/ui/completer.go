package ui

import (
	"strings"

	"github.com/chzyer/readline"

	"github.com/johnconnor-sec/cmdmenu/internal/core"
)

// labelCompleter completes the prompt from the labels at the cursor plus
// the quit words.
type labelCompleter struct {
	session *core.Session
}

var _ readline.AutoCompleter = (*labelCompleter)(nil)

func newLabelCompleter(session *core.Session) *labelCompleter {
	return &labelCompleter{session: session}
}

// Do returns the missing suffix of every candidate starting with the text
// before the cursor, and the length of that text in runes.
func (c *labelCompleter) Do(line []rune, pos int) ([][]rune, int) {
	typed := string(line[:pos])

	var out [][]rune
	for _, candidate := range c.candidates() {
		if strings.HasPrefix(candidate, typed) && candidate != typed {
			out = append(out, []rune(candidate[len(typed):]))
		}
	}
	return out, len([]rune(typed))
}

func (c *labelCompleter) candidates() []string {
	var labels []string
	if listing, err := c.session.Options(); err == nil {
		for _, entry := range listing {
			labels = append(labels, entry.Children...)
		}
	}
	return append(labels, "quit", "exit")
}
