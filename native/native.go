// Package native holds everything that depends on where the app lives on
// this machine: its folders, its executables and its processes.
package native

import (
	"path/filepath"

	"github.com/teamstools/teams-cache-clear/purge"
)

// Folders are the per-user roots everything else is derived from.
type Folders struct {
	// %APPDATA%
	RoamingAppData string
	// %LOCALAPPDATA%
	LocalAppData string
}

// Catalog is the fixed knowledge of where each variant keeps its cache,
// what its process is called and how to start it again.
type Catalog struct {
	Folders Folders
}

// ModernPackageName is the package family folder of the new app.
const ModernPackageName = "MSTeams_8wekyb3d8bbwe"

// ModernSubdirs are deleted under the package folder, in this order.
var ModernSubdirs = []string{"LocalCache", "LocalState", "TempState"}

// NewCatalog resolves the user folders for this machine.
func NewCatalog() (*Catalog, error) {
	folders, err := GetFolders()
	if err != nil {
		return nil, err
	}
	return &Catalog{Folders: folders}, nil
}

// ClassicCacheRoot is %APPDATA%\Microsoft\Teams.
func (c *Catalog) ClassicCacheRoot() string {
	return filepath.Join(c.Folders.RoamingAppData, "Microsoft", "Teams")
}

// ModernPackageRoot is %LOCALAPPDATA%\Packages\MSTeams_8wekyb3d8bbwe.
func (c *Catalog) ModernPackageRoot() string {
	return filepath.Join(c.Folders.LocalAppData, "Packages", ModernPackageName)
}

func (c *Catalog) Layout() purge.Layout {
	subdirs := make([]string, len(ModernSubdirs))
	copy(subdirs, ModernSubdirs)

	return purge.Layout{
		ClassicRoot:   c.ClassicCacheRoot(),
		ModernRoot:    c.ModernPackageRoot(),
		ModernSubdirs: subdirs,
	}
}

// Executable is the path used to start a variant again.
func (c *Catalog) Executable(v purge.Variant) string {
	switch v {
	case purge.Classic:
		return filepath.Join(c.Folders.LocalAppData, "Microsoft", "Teams", "current", ImageName(v))
	case purge.Modern:
		// app execution alias, not the real package binary
		return filepath.Join(c.Folders.LocalAppData, "Microsoft", "WindowsApps", ImageName(v))
	}
	return ""
}

// ImageName is the process image a variant runs as.
func ImageName(v purge.Variant) string {
	switch v {
	case purge.Classic:
		return "Teams.exe"
	case purge.Modern:
		return "ms-teams.exe"
	}
	return ""
}
