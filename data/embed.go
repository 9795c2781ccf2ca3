// Package data holds the assets compiled into the binary.
package data

import (
	"embed"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/pkg/errors"
)

//go:embed locales/*.json
var assets embed.FS

// Asset returns an embedded file. The leading "data/" is optional.
func Asset(name string) ([]byte, error) {
	bs, err := assets.ReadFile(strings.TrimPrefix(name, "data/"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Errorf("%s: not found", name)
	}
	return bs, err
}

// Locales lists the languages that have a strings file, sorted.
func Locales() []string {
	matches, err := fs.Glob(assets, "locales/*.json")
	if err != nil {
		// the pattern is constant
		panic(err)
	}

	langs := make([]string, 0, len(matches))
	for _, m := range matches {
		langs = append(langs, strings.TrimSuffix(path.Base(m), ".json"))
	}
	sort.Strings(langs)
	return langs
}
