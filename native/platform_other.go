//go:build !windows

package native

import (
	"os/exec"
	"path/filepath"
	"syscall"

	"github.com/skratchdot/open-golang/open"

	"github.com/teamstools/teams-cache-clear/purge"
)

// DefaultOpener opens folders with the desktop's file manager.
var DefaultOpener Opener = open.Start

func imagePath(pid int, fallback string) string {
	return fallback
}

func resolveExecutable(c *Catalog, v purge.Variant) string {
	return c.Executable(v)
}

func launchDetached(exePath string) error {
	cmd := exec.Command(exePath)
	cmd.Dir = filepath.Dir(exePath)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}

	err := cmd.Start()
	if err != nil {
		return err
	}
	// reap it whenever it exits, we don't care how
	go cmd.Wait()
	return nil
}
