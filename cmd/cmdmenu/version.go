package main

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/johnconnor-sec/cmdmenu/internal/output"
)

func newVersionCmd(a *app) *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			if short {
				fmt.Fprintln(a.stdout, version)
				return
			}
			printVersion(output.NewFormatter(a.stdout))
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "print the version number only")
	return cmd
}

func printVersion(formatter *output.Formatter) {
	formatter.Header(fmt.Sprintf("cmdmenu %s", version))

	formatter.Table().
		Headers("Component", "Version").
		Row("cmdmenu", version).
		Row("Git commit", commit).
		Row("Build date", date).
		Row("Go version", runtime.Version()).
		Row("Platform", fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)).
		Print()
}
