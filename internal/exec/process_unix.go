//go:build unix

package exec

import (
	"fmt"
	"os/exec"
	"os/user"
	"strconv"
	"syscall"
)

// configureProcess puts captured commands in their own process group so a
// timeout kills the whole pipeline, and sets credentials for username when
// it is not empty.
func configureProcess(cmd *exec.Cmd, ownGroup bool, username string) error {
	attr := &syscall.SysProcAttr{}

	if ownGroup {
		attr.Setpgid = true
		cmd.Cancel = func() error {
			return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		}
	}

	if username != "" {
		cred, err := lookupCredential(username)
		if err != nil {
			return err
		}
		attr.Credential = cred
	}

	cmd.SysProcAttr = attr
	return nil
}

func lookupCredential(username string) (*syscall.Credential, error) {
	u, err := user.Lookup(username)
	if err != nil {
		return nil, err
	}
	uid, err := strconv.ParseUint(u.Uid, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("user %s: bad uid %q: %w", username, u.Uid, err)
	}
	gid, err := strconv.ParseUint(u.Gid, 10, 32)
	if err != nil {
		return nil, fmt.Errorf("user %s: bad gid %q: %w", username, u.Gid, err)
	}

	var groups []uint32
	if ids, err := u.GroupIds(); err == nil {
		for _, id := range ids {
			if g, err := strconv.ParseUint(id, 10, 32); err == nil {
				groups = append(groups, uint32(g))
			}
		}
	}

	return &syscall.Credential{Uid: uint32(uid), Gid: uint32(gid), Groups: groups}, nil
}
