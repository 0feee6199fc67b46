package menu

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

// sampleRows mirrors a small menu file.
var sampleRows = [][]string{
	{"deploy", "web", "restart", "(appuser;systemctl restart web)"},
	{"deploy", "web", "status", "systemctl status web"},
	{"deploy", "db", "backup", "pg_dump app > /tmp/app.sql"},
	{"logs", "tail syslog", "tail -n 50 /var/log/syslog"},
	{"uptime"},
}

func TestBuild_InsertsEveryPrefix(t *testing.T) {
	table := Build(sampleRows)

	want := []Entry{
		{Path: Path{}, Children: []string{"deploy", "logs", "uptime"}},
		{Path: Path{"deploy"}, Children: []string{"web", "db"}},
		{Path: Path{"deploy", "db"}, Children: []string{"backup"}},
		{Path: Path{"deploy", "db", "backup"}, Children: []string{"pg_dump app > /tmp/app.sql"}},
		{Path: Path{"deploy", "web"}, Children: []string{"restart", "status"}},
		{Path: Path{"deploy", "web", "restart"}, Children: []string{"(appuser;systemctl restart web)"}},
		{Path: Path{"deploy", "web", "status"}, Children: []string{"systemctl status web"}},
		{Path: Path{"logs"}, Children: []string{"tail syslog"}},
		{Path: Path{"logs", "tail syslog"}, Children: []string{"tail -n 50 /var/log/syslog"}},
	}

	if diff := cmp.Diff(want, table.Entries()); diff != "" {
		t.Errorf("Build() entries mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_DropsDuplicates(t *testing.T) {
	table := Build([][]string{
		{"a", "b"},
		{"a", "b"},
		{"a", "c"},
		{"a", "b"},
	})

	got, ok := table.Lookup(Path{"a"})
	if !ok {
		t.Fatal("Lookup([a]) absent; want present")
	}
	if diff := cmp.Diff([]string{"b", "c"}, got); diff != "" {
		t.Errorf("Lookup([a]) mismatch (-want +got):\n%s", diff)
	}
}

func TestBuild_Empty(t *testing.T) {
	table := Build(nil)
	if table.Len() != 0 {
		t.Errorf("Build(nil).Len() = %d; want 0", table.Len())
	}
	if table.Has(Path{}) {
		t.Error("empty table should not have a root key")
	}
}

func TestBuild_PrefixesAreKeys(t *testing.T) {
	table := Build(sampleRows)

	for _, row := range sampleRows {
		for i := range row {
			prefix := Path(row[:i])
			if !table.Has(prefix) {
				t.Errorf("proper prefix %v of row %v is not a key", prefix, row)
			}
			if !table.HasChild(prefix, row[i]) {
				t.Errorf("%q not listed under %v", row[i], prefix)
			}
		}
		if table.Has(Path(row)) {
			t.Errorf("full row %v should not be a key", row)
		}
	}
}

func TestTable_LookupAbsent(t *testing.T) {
	table := Build(sampleRows)

	children, ok := table.Lookup(Path{"nope"})
	if ok || children != nil {
		t.Errorf("Lookup([nope]) = %v, %v; want nil, false", children, ok)
	}
}

func TestTable_LookupReturnsCopy(t *testing.T) {
	table := Build(sampleRows)

	children, _ := table.Lookup(Path{})
	children[0] = "mutated"

	again, _ := table.Lookup(Path{})
	if again[0] != "deploy" {
		t.Errorf("mutating a Lookup result changed the table: %v", again)
	}
}

func TestTable_Sorted(t *testing.T) {
	table := Build([][]string{{"zeta"}, {"alpha"}, {"mid"}})

	got, _ := table.Sorted(Path{})
	if diff := cmp.Diff([]string{"alpha", "mid", "zeta"}, got); diff != "" {
		t.Errorf("Sorted([]) mismatch (-want +got):\n%s", diff)
	}

	insertion, _ := table.Lookup(Path{})
	if diff := cmp.Diff([]string{"zeta", "alpha", "mid"}, insertion); diff != "" {
		t.Errorf("Sorted() reordered the stored children (-want +got):\n%s", diff)
	}
}

func TestTable_KeysDoNotCollide(t *testing.T) {
	table := NewTable()
	table.Add(Path{"a", "b"}, "x")
	table.Add(Path{"a b"}, "y")
	table.Add(Path{"a:1", "b"}, "z")

	if table.Len() != 3 {
		t.Fatalf("Len() = %d; want 3 distinct keys", table.Len())
	}
	if got, _ := table.Lookup(Path{"a b"}); !cmp.Equal(got, []string{"y"}) {
		t.Errorf("Lookup([a b]) = %v; want [y]", got)
	}
}

func TestTable_Add(t *testing.T) {
	table := NewTable()

	if !table.Add(Path{"a"}, "b") {
		t.Error("Add() of a new label = false; want true")
	}
	if table.Add(Path{"a"}, "b") {
		t.Error("Add() of a duplicate label = true; want false")
	}
	if table.Has(Path{}) {
		t.Error("Add() should not create implied prefixes")
	}
}

func TestTable_Labels(t *testing.T) {
	table := Build([][]string{{"a", "b"}, {"c", "b"}})

	if diff := cmp.Diff([]string{"a", "b", "c"}, table.Labels()); diff != "" {
		t.Errorf("Labels() mismatch (-want +got):\n%s", diff)
	}
}

func TestTable_Clone(t *testing.T) {
	table := Build(sampleRows)
	clone := table.Clone()
	clone.Add(Path{}, "extra")

	if table.HasChild(Path{}, "extra") {
		t.Error("Clone() shares state with the original")
	}
	if diff := cmp.Diff(table.Entries()[1:], clone.Entries()[1:]); diff != "" {
		t.Errorf("Clone() entries mismatch (-want +got):\n%s", diff)
	}
}

func TestPath(t *testing.T) {
	p := Path{"a", "b"}

	child := p.Child("c")
	if diff := cmp.Diff(Path{"a", "b", "c"}, child); diff != "" {
		t.Errorf("Child() mismatch (-want +got):\n%s", diff)
	}
	if len(p) != 2 {
		t.Errorf("Child() modified the receiver: %v", p)
	}

	tests := []struct {
		path   Path
		parent Path
		last   string
		str    string
	}{
		{Path{}, Path{}, "", "/"},
		{Path{"a"}, Path{}, "a", "a"},
		{Path{"a", "b"}, Path{"a"}, "b", "a > b"},
	}
	for _, tt := range tests {
		t.Run(tt.str, func(t *testing.T) {
			if got := tt.path.Parent(); !got.Equal(tt.parent) {
				t.Errorf("Parent() = %v; want %v", got, tt.parent)
			}
			if got := tt.path.Last(); got != tt.last {
				t.Errorf("Last() = %q; want %q", got, tt.last)
			}
			if got := tt.path.String(); got != tt.str {
				t.Errorf("String() = %q; want %q", got, tt.str)
			}
		})
	}
}
