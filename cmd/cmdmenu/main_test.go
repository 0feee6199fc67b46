package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/goleak"

	"github.com/johnconnor-sec/cmdmenu/internal/errors"
	"github.com/johnconnor-sec/cmdmenu/internal/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const testMenu = `# test menu
greet, hello, echo hello
greet, fail, echo oops >&2; exit 3
danger, wipe, echo rm -rf /nothing
true
`

// writeMenu stores testMenu in a temporary directory and points the
// settings lookup at a file that does not exist.
func writeMenu(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	t.Setenv("CMDMENURC", filepath.Join(dir, "missing.yml"))
	t.Setenv("CMDMENU_SHELL", "/bin/sh")

	path := filepath.Join(dir, "test.menu")
	if err := os.WriteFile(path, []byte(testMenu), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func execute(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	cmd := newRootCmd(strings.NewReader(stdin), &stdout, &stderr)
	cmd.SetArgs(append([]string{"--color", "never"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

func TestList(t *testing.T) {
	menu := writeMenu(t)

	out, _, err := execute(t, "", "-c", menu, "list")
	if err != nil {
		t.Fatalf("list unexpected error: %v", err)
	}
	for _, want := range []string{"danger", "greet", "true", "sub-menu", "actual-command"} {
		if !strings.Contains(out, want) {
			t.Errorf("list output missing %q:\n%s", want, out)
		}
	}
}

func TestList_JSON(t *testing.T) {
	menu := writeMenu(t)

	out, _, err := execute(t, "", "-c", menu, "list", "greet", "-o", "json")
	if err != nil {
		t.Fatalf("list unexpected error: %v", err)
	}

	var opts []types.Option
	if err := json.Unmarshal([]byte(out), &opts); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}

	var got []string
	for _, opt := range opts {
		got = append(got, opt.Kind+":"+opt.Label)
	}
	if diff := cmp.Diff([]string{"command:fail", "command:hello"}, got); diff != "" {
		t.Errorf("list greet mismatch (-want +got):\n%s", diff)
	}
	if opts[1].Command != "echo hello" || opts[1].Risk != "SAFE" {
		t.Errorf("hello = %+v; want command and risk filled in", opts[1])
	}
}

func TestList_Errors(t *testing.T) {
	menu := writeMenu(t)

	tests := []struct {
		name string
		args []string
		code int
	}{
		{"unknown path", []string{"-c", menu, "list", "nope"}, 3},
		{"bad format", []string{"-c", menu, "list", "-o", "xml"}, 2},
		{"missing menu", []string{"-c", menu + ".gone", "list"}, 2},
		{"missing settings", []string{"--settings", menu + ".yml", "list"}, 2},
		{"bad color", []string{"-c", menu, "--color", "rainbow", "list"}, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := execute(t, "", tt.args...)
			if got := exitCode(err); got != tt.code {
				t.Errorf("exitCode(%v) = %d; want %d", err, got, tt.code)
			}
		})
	}
}

func TestSearch(t *testing.T) {
	menu := writeMenu(t)

	out, _, err := execute(t, "", "-c", menu, "search", "hel")
	if err != nil {
		t.Fatalf("search unexpected error: %v", err)
	}
	for _, want := range []string{"Location", "greet", "hello", "echo hello"} {
		if !strings.Contains(out, want) {
			t.Errorf("search output missing %q:\n%s", want, out)
		}
	}

	out, _, err = execute(t, "", "-c", menu, "search", "helo")
	if err != nil {
		t.Fatalf("search unexpected error: %v", err)
	}
	if !strings.Contains(out, "Nothing matches") || !strings.Contains(out, "hello") {
		t.Errorf("no-match output = %q; want a suggestion", out)
	}

	_, _, err = execute(t, "", "-c", menu, "search", "(")
	if !errors.IsType(err, errors.PatternInvalid) {
		t.Errorf("search ( error = %v; want pattern_invalid", err)
	}
}

func TestRun(t *testing.T) {
	menu := writeMenu(t)

	out, _, err := execute(t, "", "-c", menu, "run", "greet", "hello")
	if err != nil {
		t.Fatalf("run unexpected error: %v", err)
	}
	if out != "hello\n" {
		t.Errorf("run stdout = %q; want %q", out, "hello\n")
	}

	out, _, err = execute(t, "", "-c", menu, "run", "true")
	if err != nil || out != "" {
		t.Errorf("run true = %q, %v; want no output and no error", out, err)
	}
}

func TestRun_ExitStatus(t *testing.T) {
	menu := writeMenu(t)

	_, stderr, err := execute(t, "", "-c", menu, "run", "greet", "fail")
	if got := exitCode(err); got != 3 {
		t.Errorf("exitCode() = %d; want the command's status 3 (err %v)", got, err)
	}
	if !strings.Contains(stderr, "oops") {
		t.Errorf("stderr = %q; want the command's stderr", stderr)
	}
	if !errors.IsType(err, errors.CommandExecution) {
		t.Errorf("error = %v; want command_execution underneath", err)
	}
}

func TestRun_NotACommand(t *testing.T) {
	menu := writeMenu(t)

	for _, args := range [][]string{{"greet"}, {"greet", "nope"}, {"nope", "hello"}} {
		_, _, err := execute(t, "", append([]string{"-c", menu, "run"}, args...)...)
		if got := exitCode(err); got != 3 {
			t.Errorf("run %v: exitCode() = %d; want 3 (err %v)", args, got, err)
		}
	}
}

func TestRun_ConfirmRisky(t *testing.T) {
	menu := writeMenu(t)

	tests := []struct {
		name  string
		stdin string
		args  []string
		ran   bool
	}{
		{"declined", "n\n", nil, false},
		{"no answer", "", nil, false},
		{"accepted", "y\n", nil, true},
		{"yes flag", "", []string{"--yes"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			args := append([]string{"-c", menu, "run"}, tt.args...)
			out, _, err := execute(t, tt.stdin, append(args, "danger", "wipe")...)
			if err != nil {
				t.Fatalf("run unexpected error: %v", err)
			}
			if got := strings.HasSuffix(out, "rm -rf /nothing\n") && !strings.HasSuffix(out, "echo rm -rf /nothing\n"); got != tt.ran {
				t.Errorf("ran = %v; want %v\n%s", got, tt.ran, out)
			}
			if !tt.ran && !strings.Contains(out, "Cancelled") {
				t.Errorf("declined run not reported:\n%s", out)
			}
		})
	}
}

func TestConfigExample(t *testing.T) {
	out, _, err := execute(t, "", "config", "example")
	if err != nil || !strings.Contains(out, "menu_file:") {
		t.Errorf("config example = %q, %v", out, err)
	}

	out, _, err = execute(t, "", "config", "example", "--menu")
	if err != nil || !strings.Contains(out, "deploy, web, restart") {
		t.Errorf("config example --menu = %q, %v", out, err)
	}
}

func TestConfigValidate(t *testing.T) {
	menu := writeMenu(t)
	dir := filepath.Dir(menu)

	good := filepath.Join(dir, "good.yml")
	if err := os.WriteFile(good, []byte("menu_file: test.menu\nshell: /bin/sh\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	out, _, err := execute(t, "", "config", "validate", good)
	if err != nil {
		t.Fatalf("validate unexpected error: %v", err)
	}
	for _, want := range []string{"Configuration is valid", "Menu is valid", "(6 entries"} {
		if !strings.Contains(out, want) {
			t.Errorf("validate output missing %q:\n%s", want, out)
		}
	}

	bad := filepath.Join(dir, "bad.yml")
	if err := os.WriteFile(bad, []byte("bogus: 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, _, err = execute(t, "", "config", "validate", bad)
	if got := exitCode(err); got != 2 {
		t.Errorf("validate bad settings: exitCode() = %d; want 2 (err %v)", got, err)
	}
}

func TestConfigSchema(t *testing.T) {
	out, _, err := execute(t, "", "config", "schema")
	if err != nil {
		t.Fatalf("schema unexpected error: %v", err)
	}
	var schema map[string]any
	if err := json.Unmarshal([]byte(out), &schema); err != nil {
		t.Errorf("schema is not JSON: %v", err)
	}
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "", "version", "--short")
	if err != nil || out != version+"\n" {
		t.Errorf("version --short = %q, %v; want %q", out, err, version+"\n")
	}

	out, _, _ = execute(t, "", "version")
	if !strings.Contains(out, "Go version") {
		t.Errorf("version table missing Go version:\n%s", out)
	}
}

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, 0},
		{"exit status", exitStatus{code: 7, err: errors.New(errors.CommandExecution, "x")}, 7},
		{"config", errors.New(errors.ConfigNotFound, "x"), 2},
		{"validation", errors.New(errors.ValidationFailed, "x"), 2},
		{"path", errors.NoSuchPathError([]string{"a"}), 3},
		{"pattern", errors.New(errors.PatternInvalid, "x"), 3},
		{"permission", errors.New(errors.PermissionDenied, "x"), 126},
		{"other", os.ErrClosed, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode(%v) = %d; want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestHandleError(t *testing.T) {
	var buf bytes.Buffer
	handleError(&buf, errors.New(errors.NoSuchPath, "No such menu path").WithSuggestion("Try list"))
	if !strings.Contains(buf.String(), "No such menu path") || !strings.Contains(buf.String(), "Try list") {
		t.Errorf("handleError() = %q", buf.String())
	}
}
