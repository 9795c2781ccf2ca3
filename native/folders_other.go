//go:build !windows

package native

import (
	"os"

	"github.com/pkg/errors"
)

// GetFolders honours %APPDATA% and %LOCALAPPDATA% when set (wine prefixes,
// tests), and falls back to the user config and cache dirs.
func GetFolders() (Folders, error) {
	f := Folders{
		RoamingAppData: os.Getenv("APPDATA"),
		LocalAppData:   os.Getenv("LOCALAPPDATA"),
	}

	if f.RoamingAppData == "" {
		dir, err := os.UserConfigDir()
		if err != nil {
			return f, errors.WithMessage(err, "while locating roaming app data")
		}
		f.RoamingAppData = dir
	}

	if f.LocalAppData == "" {
		dir, err := os.UserCacheDir()
		if err != nil {
			return f, errors.WithMessage(err, "while locating local app data")
		}
		f.LocalAppData = dir
	}

	return f, nil
}
