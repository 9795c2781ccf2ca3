package purge

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
)

// Layout is where each variant keeps its cache. See native.Catalog.
type Layout struct {
	// every immediate child of ClassicRoot is a target
	ClassicRoot string
	// ModernRoot is the package folder, ModernSubdirs are joined onto it
	ModernRoot    string
	ModernSubdirs []string
}

const (
	classicDisplayName = "Classic Teams"
	modernDisplayName  = "New Teams"
)

// Enumerate lists this run's rows in discovery order: the classic root's
// children (or one not-found row for the root), then the modern sub-targets,
// each pending or not-found. Variants outside the filter are skipped; a nil
// filter means all of them.
func Enumerate(layout Layout, variants VariantSet) []Outcome {
	var res []Outcome

	if variants == nil || variants.Has(Classic) {
		res = append(res, enumerateClassic(layout.ClassicRoot)...)
	}
	if variants == nil || variants.Has(Modern) {
		res = append(res, enumerateModern(layout.ModernRoot, layout.ModernSubdirs)...)
	}
	return res
}

func enumerateClassic(root string) []Outcome {
	rootTarget := Target{DisplayName: classicDisplayName, Path: root, Variant: Classic}

	info, err := os.Stat(root)
	if err != nil || !info.IsDir() {
		log.Printf("classic cache root (%s) not found", root)
		return []Outcome{{Target: rootTarget, Status: StatusNotFound}}
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		log.Printf("could not list classic cache root (%s): %v", root, err)
		return []Outcome{{
			Target: rootTarget,
			Status: StatusFailed,
			Reason: fmt.Sprintf("cannot list folder: %s", failureReason(err)),
		}}
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var res []Outcome
	for _, name := range names {
		res = append(res, Outcome{
			Target: Target{
				DisplayName: classicDisplayName,
				Path:        filepath.Join(root, name),
				Variant:     Classic,
			},
			Status: StatusPending,
		})
	}
	return res
}

func enumerateModern(root string, subdirs []string) []Outcome {
	var res []Outcome
	for _, sub := range subdirs {
		t := Target{
			DisplayName: fmt.Sprintf("%s - %s", modernDisplayName, sub),
			Path:        filepath.Join(root, sub),
			Variant:     Modern,
		}

		status := StatusPending
		if _, err := os.Lstat(t.Path); err != nil {
			status = StatusNotFound
		}
		res = append(res, Outcome{Target: t, Status: status})
	}
	return res
}
