package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/johnconnor-sec/cmdmenu/internal/config"
	"github.com/johnconnor-sec/cmdmenu/internal/output"
)

func newConfigCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create, check and document the settings and menu files",
	}
	cmd.AddCommand(
		newConfigInitCmd(a),
		newConfigValidateCmd(a),
		newConfigExampleCmd(a),
		newConfigSchemaCmd(a),
	)
	return cmd
}

// settingsPath returns --settings or the standard settings location.
func (a *app) settingsPath() (string, error) {
	if a.settingsFile != "" {
		return a.settingsFile, nil
	}
	return config.FindConfigPath()
}

func newConfigInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Create the settings file interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := a.settingsPath()
			if err != nil {
				return err
			}
			_, err = config.GenerateInteractive(a.stdin, a.stdout, path)
			return err
		},
	}
}

func newConfigValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [SETTINGS]",
		Short: "Check the settings file and the menu file it names",
		Long: `Validate loads the settings file, then parses the menu file (from
--config or the settings) and reports how many entries it builds.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f := output.NewFormatter(a.stdout)

			path, explicit := a.settingsFile, a.settingsFile != ""
			if len(args) > 0 {
				path, explicit = args[0], true
			}
			if path == "" {
				var err error
				if path, err = config.FindConfigPath(); err != nil {
					return err
				}
			}

			cfg := config.DefaultConfig()
			if _, err := os.Stat(path); err == nil || explicit {
				if err := config.ValidateFile(path, a.stdout); err != nil {
					return err
				}
				loaded, err := config.Load(path)
				if err != nil {
					return err
				}
				cfg = loaded
			} else {
				f.Info("No settings file at %s, using defaults", path)
			}

			menuFile := cfg.ResolveMenuFile()
			if a.menuFile != "" {
				menuFile = a.menuFile
			}
			status := f.NewStatusLine()
			status.Update("Parsing %s ...", menuFile)
			table, err := config.LoadMenu(menuFile)
			if err != nil {
				status.Error("Menu is invalid: %s", menuFile)
				return err
			}
			status.Success("Menu is valid: %s (%d entries, %d labels)", menuFile, table.Len(), len(table.Labels()))
			return nil
		},
	}
}

func newConfigExampleCmd(a *app) *cobra.Command {
	var menuFile bool

	cmd := &cobra.Command{
		Use:   "example",
		Short: "Print an example settings file, or with --menu an example menu file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if menuFile {
				fmt.Fprint(a.stdout, config.ExampleMenu)
				return nil
			}
			fmt.Fprint(a.stdout, config.ExampleSettings)
			return nil
		},
	}
	cmd.Flags().BoolVar(&menuFile, "menu", false, "print an example menu file")
	return cmd
}

func newConfigSchemaCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "schema [FILE]",
		Short: "Print or save the JSON schema of the settings file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				if err := config.SaveJSONSchema(args[0]); err != nil {
					return err
				}
				output.NewFormatter(a.stdout).Success("JSON schema saved to: %s", args[0])
				return nil
			}

			schema, err := config.GenerateJSONSchema()
			if err != nil {
				return err
			}
			fmt.Fprintln(a.stdout, string(schema))
			return nil
		},
	}
}
