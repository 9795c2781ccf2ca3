package native

import (
	"log"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
)

// Opener hands a folder to the OS shell.
type Opener func(dir string) error

// OpenContainingFolder opens the parent of path, which is usually gone by
// now. Returns false (and does nothing) if the parent doesn't exist either.
func OpenContainingFolder(path string, opener Opener) (bool, error) {
	if opener == nil {
		opener = DefaultOpener
	}

	parent := filepath.Dir(filepath.Clean(path))
	info, err := os.Stat(parent)
	if err != nil || !info.IsDir() {
		log.Printf("Not opening (%s), it doesn't exist", parent)
		return false, nil
	}

	log.Printf("Opening (%s)", parent)
	err = opener(parent)
	if err != nil {
		return false, errors.WithMessage(err, "while opening containing folder")
	}
	return true, nil
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
