// Package exec runs the command text of menu entries through a shell,
// optionally as another user, and captures what the process produced.
package exec

import (
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"os/user"
	"sort"
	"strings"
	"time"

	"github.com/johnconnor-sec/cmdmenu/internal/errors"
	"github.com/johnconnor-sec/cmdmenu/internal/security"
)

// Method selects how a command is run as another user.
type Method string

const (
	// MethodAuto runs directly for the invoking user, sets process
	// credentials when running as root and falls back to sudo otherwise.
	MethodAuto       Method = "auto"
	MethodSudo       Method = "sudo"
	MethodSu         Method = "su"
	MethodCredential Method = "credential"
)

// Methods lists every accepted method name.
var Methods = []Method{MethodAuto, MethodSudo, MethodSu, MethodCredential}

// DefaultShell runs command text when no shell is configured.
const DefaultShell = "/bin/sh"

// ExecutionOptions configures process execution behavior.
type ExecutionOptions struct {
	// Shell interprets the command text with "-c"
	Shell string

	// Timeout for process execution (0 blocks until exit)
	Timeout time.Duration

	// How to switch users for "(user;command)" directives
	Method Method

	// Drop sensitive variables from the environment when switching users
	SanitizeEnv bool

	// Extra environment variables on top of the inherited environment
	Environment map[string]string

	// Working directory (if empty, uses current directory)
	WorkingDir string

	// Interactive commands get the standard streams and no timeout
	Interactive bool

	// Streams for interactive commands (nil means the process's own)
	Stdin  io.Reader
	Stdout io.Writer
	Stderr io.Writer
}

// ExecutionResult holds the result of process execution.
type ExecutionResult struct {
	// User the command ran as (empty for the invoking user)
	User string

	// Command passed to the shell
	Command string

	// Exit code of the process, -1 when killed by a signal
	ExitCode int

	// Captured output, empty for interactive commands
	Stdout string
	Stderr string

	// Execution duration
	Duration time.Duration

	// Whether process was killed due to timeout
	TimedOut bool
}

// Success reports whether the command exited with status zero.
func (r *ExecutionResult) Success() bool {
	return r != nil && r.ExitCode == 0 && !r.TimedOut
}

// Invocation is the concrete process a directive resolves to.
type Invocation struct {
	Path string
	Args []string

	// SwitchUser is the user the process runs as, empty when no switch happens
	SwitchUser string

	// Credential is set when the switch is done by setting process credentials
	Credential bool
}

func (inv Invocation) String() string {
	return inv.Path + " " + strings.Join(inv.Args, " ")
}

// Executor runs menu command text.
type Executor struct {
	defaultOptions ExecutionOptions
	sanitizer      *security.EnvSanitizer

	currentUser func() (string, error)
	euid        func() int
}

// New creates a new Executor with default options.
func New(options ExecutionOptions) *Executor {
	if options.Shell == "" {
		options.Shell = DefaultShell
	}
	if options.Method == "" {
		options.Method = MethodAuto
	}

	return &Executor{
		defaultOptions: options,
		sanitizer:      security.NewEnvSanitizer(),
		currentUser:    currentUsername,
		euid:           os.Geteuid,
	}
}

// Options returns the defaults every execution starts from.
func (e *Executor) Options() ExecutionOptions {
	return e.defaultOptions
}

// Run executes command text with the default options. It satisfies the
// dispatcher interface of the menu package.
func (e *Executor) Run(ctx context.Context, commandText string) (*ExecutionResult, error) {
	return e.Execute(ctx, commandText, nil)
}

// Execute runs command text, which may be a "(user;command)" directive.
// A non-zero exit status is returned as both the result and an error of
// type CommandExecution so callers can show output and decide what is fatal.
func (e *Executor) Execute(ctx context.Context, commandText string, options *ExecutionOptions) (*ExecutionResult, error) {
	finalOptions := e.defaultOptions
	if options != nil {
		finalOptions = e.mergeOptions(finalOptions, *options)
	}

	directive := ParseDirective(commandText)
	if directive.Command == "" {
		return nil, errors.New(errors.CommandExecution, "Empty command").
			WithDetails(fmt.Sprintf("Command text: %q", commandText))
	}

	inv, err := e.Plan(directive, finalOptions)
	if err != nil {
		return nil, err
	}

	return e.executeSingle(ctx, directive, inv, finalOptions)
}

// Plan resolves a directive to the process that would run it.
func (e *Executor) Plan(d Directive, options ExecutionOptions) (Invocation, error) {
	shell := options.Shell
	if shell == "" {
		shell = DefaultShell
	}
	direct := Invocation{Path: shell, Args: []string{"-c", d.Command}}

	if d.User == "" {
		return direct, nil
	}

	method := options.Method
	if method == "" || method == MethodAuto {
		current, err := e.currentUser()
		if err == nil && current == d.User {
			return direct, nil
		}
		if e.euid() == 0 {
			method = MethodCredential
		} else {
			method = MethodSudo
		}
	}

	switch method {
	case MethodSudo:
		return Invocation{
			Path:       "sudo",
			Args:       []string{"-n", "-u", d.User, "--", shell, "-c", d.Command},
			SwitchUser: d.User,
		}, nil
	case MethodSu:
		return Invocation{
			Path:       "su",
			Args:       []string{"-", d.User, "-c", d.Command},
			SwitchUser: d.User,
		}, nil
	case MethodCredential:
		if e.euid() != 0 {
			return Invocation{}, errors.PermissionDeniedError(d.User, "run commands as").
				WithDetails("Setting process credentials requires running as root").
				WithSuggestion("Use impersonation method 'sudo' or 'su' instead")
		}
		direct.SwitchUser = d.User
		direct.Credential = true
		return direct, nil
	default:
		return Invocation{}, errors.New(errors.ConfigInvalid, "Unknown impersonation method").
			WithDetails(fmt.Sprintf("Method: %q", method)).
			WithSuggestion("Use one of: auto, sudo, su, credential")
	}
}

// executeSingle starts the process and waits for it.
func (e *Executor) executeSingle(ctx context.Context, d Directive, inv Invocation, options ExecutionOptions) (*ExecutionResult, error) {
	startTime := time.Now()

	execCtx, cancel := ctx, context.CancelFunc(func() {})
	if options.Timeout > 0 && !options.Interactive {
		execCtx, cancel = context.WithTimeout(ctx, options.Timeout)
	}
	defer cancel()

	cmd := exec.CommandContext(execCtx, inv.Path, inv.Args...)
	cmd.WaitDelay = time.Second

	if options.WorkingDir != "" {
		cmd.Dir = options.WorkingDir
	}
	cmd.Env = e.buildEnvironment(inv, options)

	credentialUser := ""
	if inv.Credential {
		credentialUser = inv.SwitchUser
	}
	if err := configureProcess(cmd, !options.Interactive, credentialUser); err != nil {
		return nil, errors.CommandExecutionError(d.Command, err)
	}

	result := &ExecutionResult{User: inv.SwitchUser, Command: d.Command}

	if options.Interactive {
		cmd.Stdin = orReader(options.Stdin, os.Stdin)
		cmd.Stdout = orWriter(options.Stdout, os.Stdout)
		cmd.Stderr = orWriter(options.Stderr, os.Stderr)

		err := cmd.Run()
		result.Duration = time.Since(startTime)
		return e.handleCommandResult(ctx, execCtx, err, result, options)
	}

	var stdout, stderr strings.Builder
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	result.Stdout = stdout.String()
	result.Stderr = stderr.String()
	result.Duration = time.Since(startTime)

	return e.handleCommandResult(ctx, execCtx, err, result, options)
}

// handleCommandResult processes the result of command execution.
func (e *Executor) handleCommandResult(parent, execCtx context.Context, err error, result *ExecutionResult, options ExecutionOptions) (*ExecutionResult, error) {
	if err == nil {
		result.ExitCode = 0
		return result, nil
	}

	var exitErr *exec.ExitError
	if stderrors.As(err, &exitErr) {
		result.ExitCode = exitErr.ExitCode()
	}

	// Deadline of our own timeout, not of the caller's context
	if execCtx.Err() == context.DeadlineExceeded && parent.Err() == nil {
		result.TimedOut = true
		return result, errors.New(errors.CommandExecution, "Command execution timed out").
			WithDetails(fmt.Sprintf("Command: %s\nTimeout: %v", result.Command, options.Timeout)).
			WithSuggestion("Raise the timeout setting or use 0 to wait until the command exits")
	}
	if parent.Err() != nil {
		return result, errors.Wrap(parent.Err(), errors.CommandExecution, "Command execution cancelled")
	}

	if exitErr != nil {
		return result, errors.CommandExitError(result.Command, result.ExitCode, result.Stderr)
	}
	return result, errors.CommandExecutionError(result.Command, err)
}

// buildEnvironment returns nil (inherit) unless extra variables are set or
// sensitive ones have to be dropped for another user.
func (e *Executor) buildEnvironment(inv Invocation, options ExecutionOptions) []string {
	sanitize := options.SanitizeEnv && inv.SwitchUser != ""
	if options.Environment == nil && !sanitize {
		return nil
	}

	env := os.Environ()
	if len(options.Environment) > 0 {
		keys := make([]string, 0, len(options.Environment))
		for key := range options.Environment {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			env = append(env, key+"="+options.Environment[key])
		}
	}
	if sanitize {
		env = e.sanitizer.FilterEnviron(env)
	}
	return env
}

// mergeOptions merges execution options
func (e *Executor) mergeOptions(base ExecutionOptions, override ExecutionOptions) ExecutionOptions {
	result := base

	if override.Shell != "" {
		result.Shell = override.Shell
	}
	if override.Timeout != 0 {
		result.Timeout = override.Timeout
	}
	if override.Method != "" {
		result.Method = override.Method
	}
	if override.SanitizeEnv {
		result.SanitizeEnv = override.SanitizeEnv
	}
	if override.Environment != nil {
		result.Environment = override.Environment
	}
	if override.WorkingDir != "" {
		result.WorkingDir = override.WorkingDir
	}
	if override.Interactive {
		result.Interactive = override.Interactive
	}
	if override.Stdin != nil {
		result.Stdin = override.Stdin
	}
	if override.Stdout != nil {
		result.Stdout = override.Stdout
	}
	if override.Stderr != nil {
		result.Stderr = override.Stderr
	}

	return result
}

// ParseMethod converts a settings value to a Method.
func ParseMethod(s string) (Method, error) {
	for _, m := range Methods {
		if string(m) == strings.ToLower(strings.TrimSpace(s)) {
			return m, nil
		}
	}
	return "", errors.New(errors.ConfigInvalid, "Unknown impersonation method").
		WithDetails(fmt.Sprintf("Method: %q", s)).
		WithSuggestion("Use one of: auto, sudo, su, credential")
}

func currentUsername() (string, error) {
	u, err := user.Current()
	if err != nil {
		return "", err
	}
	return u.Username, nil
}

func orReader(r io.Reader, fallback io.Reader) io.Reader {
	if r != nil {
		return r
	}
	return fallback
}

func orWriter(w io.Writer, fallback io.Writer) io.Writer {
	if w != nil {
		return w
	}
	return fallback
}
