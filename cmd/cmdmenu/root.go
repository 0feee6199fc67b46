package main

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/spf13/cobra"

	"github.com/johnconnor-sec/cmdmenu/internal/config"
	"github.com/johnconnor-sec/cmdmenu/internal/core"
	"github.com/johnconnor-sec/cmdmenu/internal/errors"
	"github.com/johnconnor-sec/cmdmenu/internal/output"
	"github.com/johnconnor-sec/cmdmenu/internal/ui"
)

// app holds the streams and global flags shared by every subcommand.
type app struct {
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	menuFile     string
	settingsFile string
	tree         bool
	timeout      time.Duration
	logLevel     string
	color        string
}

func newRootCmd(stdin io.Reader, stdout, stderr io.Writer) *cobra.Command {
	a := &app{stdin: stdin, stdout: stdout, stderr: stderr}

	root := &cobra.Command{
		Use:   "cmdmenu",
		Short: "Browse a menu of shell commands and run them",
		Long: `cmdmenu reads a menu file where every line is the path to a command,
e.g. "deploy, web, restart, systemctl restart web", and lets you walk the
resulting tree, search it with regular expressions and run what you find.

Typing a label opens it; typing anything else searches. Numbers pick from
the list on screen and 0 goes up one level.`,
		Example: `  cmdmenu -c ~/menu.cfg
  cmdmenu --tree
  cmdmenu list deploy web
  cmdmenu search 'rest(art)?'
  cmdmenu run deploy web status`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          a.browse,
	}
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	flags := root.PersistentFlags()
	flags.StringVarP(&a.menuFile, "config", "c", "", "menu file to load (default: menu_file from the settings)")
	flags.StringVar(&a.settingsFile, "settings", "", "settings file (default: $CMDMENURC or ~/.config/cmdmenu/config.yml)")
	flags.BoolVar(&a.tree, "tree", false, "use the full-screen tree browser")
	flags.DurationVar(&a.timeout, "timeout", 0, "kill commands running longer than this (0 waits)")
	flags.StringVar(&a.logLevel, "log-level", "", "log level: trace, debug, info, warn or error")
	flags.StringVar(&a.color, "color", "", "color output: auto, always or never")

	root.AddCommand(
		newListCmd(a),
		newSearchCmd(a),
		newRunCmd(a),
		newConfigCmd(a),
		newDiagnosticsCmd(a),
		newVersionCmd(a),
	)
	return root
}

// loadConfig reads the settings and applies the flags the user set.
func (a *app) loadConfig(cmd *cobra.Command) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if a.settingsFile != "" {
		cfg, err = config.Load(a.settingsFile)
	} else {
		cfg, err = config.LoadOrDefault("")
	}
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if a.menuFile != "" {
		abs, err := filepath.Abs(a.menuFile)
		if err != nil {
			return nil, errors.Wrap(err, errors.ConfigNotFound, "Cannot resolve the menu file path")
		}
		cfg.MenuFile = abs
	}
	if flags.Changed("tree") && a.tree {
		cfg.UI.Mode = "tree"
	}
	if flags.Changed("timeout") {
		cfg.Timeout = a.timeout
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = a.logLevel
	}
	if flags.Changed("color") {
		cfg.UI.Color = a.color
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, errors.ValidationFailed, "Invalid settings").
			WithDetails(err.Error())
	}
	return cfg, nil
}

func (a *app) formatter(cfg *config.Config) *output.Formatter {
	f := output.NewFormatter(a.stdout)
	if err := f.SetColorMode(output.ColorMode(cfg.UI.Color)); err != nil {
		f.SetColorOutput(false)
	}
	if mode := os.Getenv("CMDMENU_ACCESSIBILITY"); mode != "" {
		f.SetAccessibilityMode(output.ParseAccessibilityMode(mode))
	}
	return f
}

// session loads the settings and starts a session over the menu file.
func (a *app) session(cmd *cobra.Command, opts ...core.Option) (*core.Session, error) {
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	return a.open(cfg, opts...)
}

func (a *app) open(cfg *config.Config, opts ...core.Option) (*core.Session, error) {
	logger, err := output.NewConfiguredLogger(a.stderr, cfg.Log.Level, cfg.Log.Format, cfg.Log.File)
	if err != nil {
		return nil, err
	}

	opts = append([]core.Option{
		core.WithFormatter(a.formatter(cfg)),
		core.WithLogger(logger),
	}, opts...)

	s, err := core.Open(cfg, opts...)
	if err != nil {
		logger.Close()
		return nil, err
	}
	return s, nil
}

func (a *app) browse(cmd *cobra.Command, _ []string) error {
	cfg, err := a.loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.UI.Mode == "tree" {
		return a.browseTree(cmd, cfg)
	}
	return a.browseText(cmd, cfg)
}

func (a *app) browseText(cmd *cobra.Command, cfg *config.Config) error {
	opts := []core.Option{core.WithTerminal(a.stdin, a.stdout, a.stderr)}
	if f, ok := a.stdout.(*os.File); ok && output.IsTerminal(f) {
		opts = append(opts, core.WithSpinner())
	}

	s, err := a.open(cfg, opts...)
	if err != nil {
		return err
	}
	defer s.Close()

	return ui.NewText(s).SetHistoryFile(historyFile()).Run(cmd.Context())
}

func (a *app) browseTree(cmd *cobra.Command, cfg *config.Config) error {
	screen, err := tcell.NewScreen()
	if err != nil {
		return errors.Wrap(err, errors.InternalError, "Cannot open the terminal").
			WithSuggestion("Run without --tree to use the text prompt")
	}

	s, err := a.open(cfg,
		core.WithTerminal(os.Stdin, os.Stdout, os.Stderr),
		core.WithTerminalHandoff(screen.Suspend, screen.Resume),
	)
	if err != nil {
		return err
	}
	defer s.Close()

	return ui.NewTree(s, screen).Run(cmd.Context())
}

// historyFile returns where prompt history is kept, or "" when there is no
// usable cache directory.
func historyFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	dir = filepath.Join(dir, "cmdmenu")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return ""
	}
	return filepath.Join(dir, "history")
}
