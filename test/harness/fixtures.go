package harness

import (
	"os"
	"path/filepath"
	"testing"
)

// Fixtures lays out fake %APPDATA% and %LOCALAPPDATA% trees with the
// cache folders of both Teams variants.
type Fixtures struct {
	t       *testing.T
	baseDir string
}

// NewFixtures creates empty Roaming and Local folders under tempDir
func NewFixtures(t *testing.T, tempDir string) *Fixtures {
	t.Helper()

	f := &Fixtures{t: t, baseDir: tempDir}
	for _, dir := range []string{f.RoamingAppData(), f.LocalAppData()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatalf("Failed to create %s: %v", dir, err)
		}
	}
	return f
}

func (f *Fixtures) RoamingAppData() string {
	return filepath.Join(f.baseDir, "AppData", "Roaming")
}

func (f *Fixtures) LocalAppData() string {
	return filepath.Join(f.baseDir, "AppData", "Local")
}

// ClassicRoot returns %APPDATA%\Microsoft\Teams
func (f *Fixtures) ClassicRoot() string {
	return filepath.Join(f.RoamingAppData(), "Microsoft", "Teams")
}

// ModernRoot returns %LOCALAPPDATA%\Packages\MSTeams_8wekyb3d8bbwe
func (f *Fixtures) ModernRoot() string {
	return filepath.Join(f.LocalAppData(), "Packages", "MSTeams_8wekyb3d8bbwe")
}

// AddClassicDir creates a folder (with one file inside) under the classic root
func (f *Fixtures) AddClassicDir(name string) string {
	f.t.Helper()

	dir := filepath.Join(f.ClassicRoot(), name)
	f.writeFile(filepath.Join(dir, "data_0"), "cache")
	return dir
}

// AddClassicFile creates a file directly under the classic root
func (f *Fixtures) AddClassicFile(name string) string {
	f.t.Helper()

	path := filepath.Join(f.ClassicRoot(), name)
	f.writeFile(path, "{}")
	return path
}

// AddModernDir creates one of the package sub-folders, with a file inside
func (f *Fixtures) AddModernDir(name string) string {
	f.t.Helper()

	dir := filepath.Join(f.ModernRoot(), name)
	f.writeFile(filepath.Join(dir, "Microsoft", "MSTeams", "cache.db"), "cache")
	return dir
}

// Exists reports whether path is still on disk
func (f *Fixtures) Exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}

func (f *Fixtures) writeFile(path string, contents string) {
	f.t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		f.t.Fatalf("Failed to create dir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		f.t.Fatalf("Failed to write %s: %v", path, err)
	}
}
