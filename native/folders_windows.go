package native

import (
	"log"
	"os"

	"github.com/lxn/win"
	"github.com/pkg/errors"

	"github.com/teamstools/teams-cache-clear/native/nwin"
)

// GetFolders honours %APPDATA% and %LOCALAPPDATA% and asks the shell for
// whichever of them is unset.
func GetFolders() (Folders, error) {
	var f Folders

	for _, folder := range []struct {
		env   string
		csidl win.CSIDL
		dst   *string
	}{
		{"APPDATA", nwin.RoamingAppData, &f.RoamingAppData},
		{"LOCALAPPDATA", nwin.LocalAppData, &f.LocalAppData},
	} {
		if v := os.Getenv(folder.env); v != "" {
			*folder.dst = v
			continue
		}

		log.Printf("%%%s%% not set, asking the shell", folder.env)
		dir, err := nwin.SpecialFolder(folder.csidl)
		if err != nil {
			return f, errors.WithMessagef(err, "while locating %%%s%%", folder.env)
		}
		*folder.dst = dir
	}
	return f, nil
}
