package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/johnconnor-sec/cmdmenu/internal/core"
	"github.com/johnconnor-sec/cmdmenu/internal/errors"
	"github.com/johnconnor-sec/cmdmenu/internal/menu"
	"github.com/johnconnor-sec/cmdmenu/internal/output"
	"github.com/johnconnor-sec/cmdmenu/internal/types"
)

var outputFormats = []string{"table", "json", "yaml"}

func newListCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "list [LABEL...]",
		Short: "List the options below a menu path",
		Example: `  cmdmenu list
  cmdmenu list deploy web --output json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}

			s, err := a.session(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Jump(menu.Path(args)); err != nil {
				return err
			}
			listing, err := s.Options()
			if err != nil {
				return err
			}
			return writeOptions(a.stdout, s.Formatter(), format, s.Describe(listing), false)
		},
	}
	cmd.Flags().StringVarP(&format, "output", "o", "table", "output format: table, json or yaml")
	return cmd
}

func newSearchCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "search PATTERN",
		Short: "Find menu entries matching a regular expression",
		Long: `Search matches PATTERN against every path segment and label in the
menu. The pattern is not anchored: "web" matches "webserver".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}

			s, err := a.session(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			results, err := s.Find(args[0])
			if err != nil {
				return err
			}

			f := s.Formatter()
			if results.Len() == 0 && format == "table" {
				f.Warning("Nothing matches %q", args[0])
				for _, sg := range s.Suggest(args[0]) {
					f.List("%s  (%s)", sg.Label, sg.Path)
				}
				return nil
			}
			return writeOptions(a.stdout, f, format, s.Describe(menu.ListingOf(results)), true)
		},
	}
	cmd.Flags().StringVarP(&format, "output", "o", "table", "output format: table, json or yaml")
	return cmd
}

func newRunCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "run LABEL...",
		Short: "Run the command at a menu path",
		Long: `Run walks the labels from the top of the menu and runs the command the
last one names. Labels must match exactly; nothing is searched.`,
		Example: `  cmdmenu run deploy web status
  cmdmenu run --yes deploy db backup`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.session(cmd, core.WithTerminal(a.stdin, a.stdout, a.stderr))
			if err != nil {
				return err
			}
			defer s.Close()

			path, label := menu.Path(args[:len(args)-1]), args[len(args)-1]
			if !yes && s.NeedsConfirmation(path, label) && !a.confirm(s, path, label) {
				s.Formatter().Info("Cancelled")
				return nil
			}

			outcome, err := s.RunPath(cmd.Context(), args)
			res := outcome.Execution
			if res == nil {
				return err
			}

			io.WriteString(a.stdout, res.Stdout)
			io.WriteString(a.stderr, res.Stderr)
			if err != nil && !res.TimedOut && res.ExitCode > 0 {
				return exitStatus{code: res.ExitCode, err: err}
			}
			return err
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "run risky commands without asking")
	return cmd
}

// confirm shows what a risky command would do and reads a yes/no answer.
func (a *app) confirm(s *core.Session, path menu.Path, label string) bool {
	p, _ := s.Preview(path, label)
	f := s.Formatter()

	f.Warning("%s", p.Risk.Warning())
	fmt.Fprintf(a.stdout, "  %s\n", p.Command)
	for _, w := range p.Warnings {
		f.List("%s", w)
	}
	fmt.Fprint(a.stdout, "Run it anyway? [y/N]: ")

	line, _ := bufio.NewReader(a.stdin).ReadString('\n')
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

func checkFormat(format string) error {
	for _, f := range outputFormats {
		if f == format {
			return nil
		}
	}
	return errors.ValidationError("output", format, "must be one of "+strings.Join(outputFormats, ", "))
}

// writeOptions prints described options in the requested format. withPath
// adds a location column for result sets spanning several entries.
func writeOptions(w io.Writer, f *output.Formatter, format string, opts []types.Option, withPath bool) error {
	switch format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(opts)
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(opts); err != nil {
			return err
		}
		return enc.Close()
	}

	headers := []string{"#", "Label", "Kind", "Command", "Risk"}
	if withPath {
		headers = append([]string{"#", "Location"}, headers[1:]...)
	}
	table := f.Table().Headers(headers...)
	for _, opt := range opts {
		row := []string{strconv.Itoa(opt.Number), opt.Label, opt.Kind, f.Truncate(opt.Command, 50), opt.Risk}
		if withPath {
			row = append([]string{row[0], menu.Path(opt.Path).String()}, row[1:]...)
		}
		table.Row(row...)
	}
	table.Print()
	return nil
}
