package menu

import "testing"

func TestClassify(t *testing.T) {
	table := Build([][]string{
		{"a", "b"},
		{"a", "c", "(root;echo hi)"},
		{"a", "d", "e", "ls"},
		{"a", "d", "f", "pwd"},
		{"x", "y", "z", "w"},
	})

	tests := []struct {
		name  string
		path  Path
		label string
		want  Kind
	}{
		{"top level menu", Path{}, "a", SubMenu},
		{"command with directive", Path{"a"}, "c", Command},
		{"command text itself", Path{"a", "c"}, "(root;echo hi)", ActualCommand},
		{"label without entry", Path{"a"}, "b", ActualCommand},
		{"menu with several children", Path{"a"}, "d", SubMenu},
		{"nested command", Path{"a", "d"}, "e", Command},
		{"single child that is navigable", Path{"x"}, "y", SubMenu},
		{"unknown label", Path{"a"}, "nothing", Search},
		{"unknown label at root", Path{}, "deploy", Search},
		{"unknown path", Path{"missing"}, "a", Invalid},
		{"path below a command text", Path{"a", "c", "(root;echo hi)"}, "x", Invalid},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(table, tt.path, tt.label); got != tt.want {
				t.Errorf("Classify(%v, %q) = %v; want %v", tt.path, tt.label, got, tt.want)
			}
		})
	}
}

func TestClassify_Pure(t *testing.T) {
	table := Build([][]string{{"a", "c", "echo"}})
	before := table.Entries()

	for range 3 {
		if got := Classify(table, Path{"a"}, "c"); got != Command {
			t.Fatalf("Classify() = %v; want %v", got, Command)
		}
	}
	Classify(table, Path{"a"}, "unknown")

	if after := table.Entries(); len(after) != len(before) {
		t.Errorf("Classify() changed the table: %v -> %v", before, after)
	}
}

func TestCommandText(t *testing.T) {
	table := Build([][]string{
		{"a", "c", "(root;echo hi)"},
		{"a", "d", "e", "ls"},
		{"a", "b"},
	})

	tests := []struct {
		name   string
		path   Path
		label  string
		want   string
		wantOK bool
	}{
		{"command resolves to its child", Path{"a"}, "c", "(root;echo hi)", true},
		{"actual command is its own text", Path{"a", "c"}, "(root;echo hi)", "(root;echo hi)", true},
		{"leaf label", Path{"a"}, "b", "b", true},
		{"sub-menu has no command", Path{"a"}, "d", "", false},
		{"search has no command", Path{"a"}, "zzz", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CommandText(table, tt.path, tt.label)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("CommandText(%v, %q) = %q, %v; want %q, %v", tt.path, tt.label, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestKind_String(t *testing.T) {
	tests := map[Kind]string{
		Invalid:       "invalid",
		Search:        "search",
		ActualCommand: "actual-command",
		Command:       "command",
		SubMenu:       "sub-menu",
		Kind(99):      "unknown",
	}
	for kind, want := range tests {
		if got := kind.String(); got != want {
			t.Errorf("Kind(%d).String() = %q; want %q", int(kind), got, want)
		}
	}
}

func TestKind_Executable(t *testing.T) {
	for _, kind := range []Kind{Command, ActualCommand} {
		if !kind.Executable() {
			t.Errorf("%v.Executable() = false; want true", kind)
		}
	}
	for _, kind := range []Kind{Invalid, Search, SubMenu} {
		if kind.Executable() {
			t.Errorf("%v.Executable() = true; want false", kind)
		}
	}
}
