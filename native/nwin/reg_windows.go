package nwin

import (
	"golang.org/x/sys/windows/registry"
)

const uninstallRegPrefix = "Software\\Microsoft\\Windows\\CurrentVersion\\Uninstall"

// GetRegistryInstallDir reads InstallLocation from the per-user uninstall
// entry named appKey.
func GetRegistryInstallDir(appKey string) (string, error) {
	pk, err := registry.OpenKey(registry.CURRENT_USER, uninstallRegPrefix, registry.ENUMERATE_SUB_KEYS)
	if err != nil {
		return "", err
	}
	defer pk.Close()

	k, err := registry.OpenKey(pk, appKey, registry.READ)
	if err != nil {
		return "", err
	}
	defer k.Close()

	installDir, _, err := k.GetStringValue("InstallLocation")
	if err != nil {
		return "", err
	}

	return installDir, nil
}
