package exec

import (
	"path/filepath"
	"strings"
)

var interactiveEditors = map[string]bool{
	"vim": true, "nvim": true, "vi": true, "nano": true, "emacs": true, "pico": true, "joe": true, "micro": true,
	"ne": true, "mg": true, "zile": true, "jed": true, "mcedit": true, "tilde": true, "kakoune": true, "kak": true,
	"helix": true, "hx": true, "ed": true,
	"less": true, "more": true, "man": true, "top": true, "htop": true,
	".vim": true, ".nvim": true, ".nano": true, ".emacs": true,
}

// IsInteractive reports whether the command of a menu entry takes over the
// terminal, judging by its executable name. Such commands are run with the
// caller's standard streams instead of captured pipes.
func IsInteractive(commandText string) bool {
	parts := strings.Fields(ParseDirective(commandText).Command)
	if len(parts) == 0 {
		return false
	}

	// Skip leading VAR=value assignments
	for len(parts) > 1 && strings.Contains(parts[0], "=") && !strings.HasPrefix(parts[0], "-") {
		parts = parts[1:]
	}

	executable := strings.ToLower(filepath.Base(parts[0]))
	executable = strings.TrimSuffix(executable, ".exe")
	return interactiveEditors[executable]
}
