package menu

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/johnconnor-sec/cmdmenu/internal/errors"
)

func TestFind(t *testing.T) {
	table := Build(sampleRows)

	tests := []struct {
		name    string
		pattern string
		want    []Entry
	}{
		{
			name:    "command label surfaces its entry",
			pattern: "restart",
			want: []Entry{
				{Path: Path{"deploy", "web"}, Children: []string{"restart"}},
			},
		},
		{
			name:    "command text collapses to the command",
			pattern: "systemctl",
			want: []Entry{
				{Path: Path{"deploy", "web"}, Children: []string{"restart", "status"}},
			},
		},
		{
			name:    "collapsed command merges into an existing entry",
			pattern: "status|restart web",
			want: []Entry{
				{Path: Path{"deploy", "web"}, Children: []string{"status", "restart"}},
			},
		},
		{
			name:    "segment match keeps all children",
			pattern: "deploy",
			want: []Entry{
				{Path: Path{}, Children: []string{"deploy"}},
				{Path: Path{"deploy"}, Children: []string{"web", "db"}},
				{Path: Path{"deploy", "db"}, Children: []string{"backup"}},
				{Path: Path{"deploy", "web"}, Children: []string{"restart", "status"}},
			},
		},
		{
			name:    "label with spaces",
			pattern: "syslog",
			want: []Entry{
				{Path: Path{"logs"}, Children: []string{"tail syslog"}},
			},
		},
		{
			name:    "root level command is kept",
			pattern: "^up",
			want: []Entry{
				{Path: Path{}, Children: []string{"uptime"}},
			},
		},
		{
			name:    "case sensitive",
			pattern: "RESTART",
			want:    []Entry{},
		},
		{
			name:    "no match",
			pattern: "zzz",
			want:    []Entry{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Find(table, tt.pattern)
			if err != nil {
				t.Fatalf("Find(%q) unexpected error: %v", tt.pattern, err)
			}
			if diff := cmp.Diff(tt.want, got.Entries()); diff != "" {
				t.Errorf("Find(%q) mismatch (-want +got):\n%s", tt.pattern, diff)
			}
		})
	}
}

func TestFind_InvalidPattern(t *testing.T) {
	table := Build(sampleRows)

	for _, pattern := range []string{"[", "(unclosed", "a{2,1}"} {
		t.Run(pattern, func(t *testing.T) {
			results, err := Find(table, pattern)
			if !errors.IsType(err, errors.PatternInvalid) {
				t.Fatalf("Find(%q) error = %v; want PatternInvalid", pattern, err)
			}
			if results != nil {
				t.Errorf("Find(%q) results = %v; want nil", pattern, results)
			}
		})
	}
}

func TestFind_LeavesTableUntouched(t *testing.T) {
	table := Build(sampleRows)
	before := table.Entries()

	if _, err := Find(table, "web"); err != nil {
		t.Fatalf("Find() unexpected error: %v", err)
	}
	if diff := cmp.Diff(before, table.Entries()); diff != "" {
		t.Errorf("Find() modified the table (-before +after):\n%s", diff)
	}
}

func TestFind_ResultsClassifyAgainstTable(t *testing.T) {
	table := Build(sampleRows)

	results, err := Find(table, "pg_dump")
	if err != nil {
		t.Fatalf("Find() unexpected error: %v", err)
	}
	for _, entry := range results.Entries() {
		for _, label := range entry.Children {
			if kind := Classify(table, entry.Path, label); kind == ActualCommand && !entry.Path.IsRoot() {
				t.Errorf("result %v/%q is raw command text", entry.Path, label)
			}
		}
	}
}

func TestFind_NoMatchIsEmpty(t *testing.T) {
	results, err := Find(Build(sampleRows), "nomatch_xyz")
	if err != nil {
		t.Fatalf("Find() unexpected error: %v", err)
	}
	if results == nil || results.Len() != 0 {
		t.Errorf("Find() = %v; want an empty table", results)
	}
}
