package native

import (
	"log"
	"os/exec"
	"path/filepath"
	"syscall"

	"golang.org/x/sys/windows"

	"github.com/teamstools/teams-cache-clear/native/nwin"
	"github.com/teamstools/teams-cache-clear/purge"
)

// classicUninstallKey is the per-user uninstall entry the classic app's
// installer writes; its InstallLocation is where `current\Teams.exe` lives.
const classicUninstallKey = "Teams"

// DefaultOpener opens folders in Explorer.
var DefaultOpener Opener = nwin.ShellOpen

// imagePath is the full executable path of pid when we can read it, else fallback.
func imagePath(pid int, fallback string) string {
	p, err := nwin.ProcessImagePath(pid)
	if err != nil {
		return fallback
	}
	return p
}

func resolveExecutable(c *Catalog, v purge.Variant) string {
	exePath := c.Executable(v)
	if v != purge.Classic || fileExists(exePath) {
		return exePath
	}

	installDir, err := nwin.GetRegistryInstallDir(classicUninstallKey)
	if err != nil {
		log.Printf("Could not get registry install dir: %v", err)
		return exePath
	}

	regExePath := filepath.Join(installDir, "current", ImageName(v))
	log.Printf("Default classic exe:  (%s)", exePath)
	log.Printf("Registry classic exe: (%s)", regExePath)
	return regExePath
}

// launchDetached starts exePath in its own process group, without a console
// tied to ours, and forgets about it.
func launchDetached(exePath string) error {
	cmd := exec.Command(exePath)
	cmd.Dir = filepath.Dir(exePath)
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: windows.DETACHED_PROCESS | windows.CREATE_NEW_PROCESS_GROUP,
	}

	err := cmd.Start()
	if err != nil {
		return err
	}
	return cmd.Process.Release()
}
