package purge

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnumerate_NothingInstalled(t *testing.T) {
	layout := testLayout(t)

	rows := Enumerate(layout, nil)

	require.Len(t, rows, 4)
	assert.Equal(t, layout.ClassicRoot, rows[0].Target.Path)
	assert.Equal(t, "Classic Teams", rows[0].Target.DisplayName)
	for _, o := range rows {
		assert.Equal(t, StatusNotFound, o.Status, o.Target.Path)
	}
	assert.Equal(t, "New Teams - LocalCache", rows[1].Target.DisplayName)
	assert.Equal(t, "New Teams - LocalState", rows[2].Target.DisplayName)
	assert.Equal(t, "New Teams - TempState", rows[3].Target.DisplayName)
}

func TestEnumerate_ClassicChildrenSortedByName(t *testing.T) {
	layout := testLayout(t)
	mkdirWithFile(t, filepath.Join(layout.ClassicRoot, "IndexedDB"))
	mkdirWithFile(t, filepath.Join(layout.ClassicRoot, "Cache"))
	writeFile(t, filepath.Join(layout.ClassicRoot, "Preferences"))

	rows := Enumerate(layout, NewVariantSet(Classic))

	require.Len(t, rows, 3)
	var names []string
	for _, o := range rows {
		names = append(names, filepath.Base(o.Target.Path))
		assert.Equal(t, StatusPending, o.Status)
		assert.Equal(t, Classic, o.Target.Variant)
	}
	assert.Equal(t, []string{"Cache", "IndexedDB", "Preferences"}, names)
}

func TestEnumerate_EmptyClassicRootHasNoRows(t *testing.T) {
	layout := testLayout(t)
	require.NoError(t, os.MkdirAll(layout.ClassicRoot, 0755))

	assert.Empty(t, Enumerate(layout, NewVariantSet(Classic)))
}

func TestEnumerate_ModernSubdirs(t *testing.T) {
	layout := testLayout(t)
	mkdirWithFile(t, filepath.Join(layout.ModernRoot, "LocalCache"))

	rows := Enumerate(layout, NewVariantSet(Modern))

	require.Len(t, rows, 3)
	assert.Equal(t, StatusPending, rows[0].Status)
	assert.Equal(t, StatusNotFound, rows[1].Status)
	assert.Equal(t, StatusNotFound, rows[2].Status)
	for _, o := range rows {
		assert.Equal(t, Modern, o.Target.Variant)
	}
}

func TestEnumerate_UnreadableClassicRootFails(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits don't apply on windows")
	}
	if os.Geteuid() == 0 {
		t.Skip("root ignores permission bits")
	}

	layout := testLayout(t)
	mkdirWithFile(t, filepath.Join(layout.ClassicRoot, "Cache"))
	require.NoError(t, os.Chmod(layout.ClassicRoot, 0))
	defer os.Chmod(layout.ClassicRoot, 0755)

	rows := Enumerate(layout, NewVariantSet(Classic))

	require.Len(t, rows, 1)
	assert.Equal(t, StatusFailed, rows[0].Status)
	assert.Equal(t, "cannot list folder: access denied", rows[0].Reason)
}
