// cmdmenu - browse a hierarchical menu of shell commands and run them
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

// Build information - set by linker flags
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := newRootCmd(os.Stdin, os.Stdout, os.Stderr).ExecuteContext(ctx)
	stop()

	if err != nil {
		handleError(os.Stderr, err)
	}
	os.Exit(exitCode(err))
}
