package menu

// Kind is the classification of a label at a menu position.
type Kind int

const (
	// Invalid means the position itself is not in the table.
	Invalid Kind = iota
	// Search means the label is not an option here and is treated as a pattern.
	Search
	// ActualCommand is the literal command text stored beneath a command entry.
	ActualCommand
	// Command is an entry whose only child is its command text.
	Command
	// SubMenu is an entry that can be navigated into.
	SubMenu
)

func (k Kind) String() string {
	switch k {
	case Invalid:
		return "invalid"
	case Search:
		return "search"
	case ActualCommand:
		return "actual-command"
	case Command:
		return "command"
	case SubMenu:
		return "sub-menu"
	default:
		return "unknown"
	}
}

// Executable reports whether choosing a label of this kind runs a command.
func (k Kind) Executable() bool {
	return k == Command || k == ActualCommand
}

// Classify decides what label denotes at path. The first matching rule wins:
// an unknown path is Invalid, an unknown label is Search, a label with no
// entry of its own is ActualCommand, an entry whose single child has no
// entry is Command, and anything else is SubMenu.
func Classify(t *Table, path Path, label string) Kind {
	if !t.Has(path) {
		return Invalid
	}
	if !t.HasChild(path, label) {
		return Search
	}
	node := path.Child(label)
	children, ok := t.Lookup(node)
	if !ok {
		return ActualCommand
	}
	if len(children) == 1 && !t.Has(node.Child(children[0])) {
		return Command
	}
	return SubMenu
}

// CommandText returns the command that choosing label at path would run.
// For a Command entry it is the sole child of path+label; for an
// ActualCommand it is the label itself.
func CommandText(t *Table, path Path, label string) (string, bool) {
	switch Classify(t, path, label) {
	case Command:
		children, _ := t.Lookup(path.Child(label))
		return children[0], true
	case ActualCommand:
		return label, true
	case Invalid, Search, SubMenu:
		return "", false
	default:
		return "", false
	}
}
