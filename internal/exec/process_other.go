//go:build !unix

package exec

import (
	"fmt"
	"os/exec"
	"runtime"
)

func configureProcess(cmd *exec.Cmd, ownGroup bool, username string) error {
	if username != "" {
		return fmt.Errorf("setting process credentials is not supported on %s", runtime.GOOS)
	}
	return nil
}
