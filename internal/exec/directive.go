package exec

import (
	"regexp"
	"strings"
)

// Directive is a command text split into the user it should run as and the
// shell command itself. User is empty when the text names no user.
type Directive struct {
	User    string
	Command string
}

// directivePattern matches "(user;command)". The user may not contain
// whitespace, parentheses or semicolons; the command may contain anything.
var directivePattern = regexp.MustCompile(`(?s)^\(([^;()\s]+);(.+)\)$`)

// ParseDirective splits text of the form "(user;command)". Any other text is
// returned whole as a command for the invoking user.
func ParseDirective(text string) Directive {
	trimmed := strings.TrimSpace(text)
	if m := directivePattern.FindStringSubmatch(trimmed); m != nil {
		return Directive{User: m[1], Command: strings.TrimSpace(m[2])}
	}
	return Directive{Command: trimmed}
}

func (d Directive) String() string {
	if d.User == "" {
		return d.Command
	}
	return "(" + d.User + ";" + d.Command + ")"
}
