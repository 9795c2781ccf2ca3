package purge

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// recordingSink keeps every transition per path.
type recordingSink struct {
	mu   sync.Mutex
	seen map[string][]Status
	last map[string]string
}

func newRecordingSink() *recordingSink {
	return &recordingSink{
		seen: make(map[string][]Status),
		last: make(map[string]string),
	}
}

func (rs *recordingSink) SetStatus(path string, status Status, reason string) bool {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	rs.seen[path] = append(rs.seen[path], status)
	rs.last[path] = reason
	return true
}

func (rs *recordingSink) statuses(path string) []Status {
	rs.mu.Lock()
	defer rs.mu.Unlock()
	return append([]Status(nil), rs.seen[path]...)
}

// gatedRemover wraps the real filesystem, but blocks removals of the paths
// in gates until the gate is closed, and fails the paths in failures.
type gatedRemover struct {
	OSRemover

	mu       sync.Mutex
	gates    map[string]chan struct{}
	failures map[string]error
}

func newGatedRemover() *gatedRemover {
	return &gatedRemover{
		gates:    make(map[string]chan struct{}),
		failures: make(map[string]error),
	}
}

func (gr *gatedRemover) gate(path string) chan struct{} {
	gr.mu.Lock()
	defer gr.mu.Unlock()
	ch := make(chan struct{})
	gr.gates[path] = ch
	return ch
}

func (gr *gatedRemover) fail(path string, err error) {
	gr.mu.Lock()
	defer gr.mu.Unlock()
	if err == nil {
		delete(gr.failures, path)
		return
	}
	gr.failures[path] = err
}

func (gr *gatedRemover) wait(path string) error {
	gr.mu.Lock()
	ch := gr.gates[path]
	err := gr.failures[path]
	gr.mu.Unlock()

	if ch != nil {
		<-ch
	}
	return err
}

func (gr *gatedRemover) RemoveTree(path string) error {
	if err := gr.wait(path); err != nil {
		return err
	}
	return gr.OSRemover.RemoveTree(path)
}

func (gr *gatedRemover) RemoveFile(path string) error {
	if err := gr.wait(path); err != nil {
		return err
	}
	return gr.OSRemover.RemoveFile(path)
}

// fakeProcesses is a ProcessController over an in-memory running set.
type fakeProcesses struct {
	mu         sync.Mutex
	running    VariantSet
	terminated []VariantSet
	relaunched []VariantSet
}

func newFakeProcesses(running ...Variant) *fakeProcesses {
	return &fakeProcesses{running: NewVariantSet(running...)}
}

func (fp *fakeProcesses) Detect() VariantSet {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	return NewVariantSet(fp.running.Sorted()...)
}

func (fp *fakeProcesses) Terminate(variants VariantSet) VariantSet {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	fp.terminated = append(fp.terminated, variants)
	killed := NewVariantSet()
	for _, v := range variants.Sorted() {
		if fp.running.Has(v) {
			killed.Add(v)
			delete(fp.running, v)
		}
	}
	return killed
}

func (fp *fakeProcesses) Relaunch(variants VariantSet) VariantSet {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	fp.relaunched = append(fp.relaunched, variants)
	for _, v := range variants.Sorted() {
		fp.running.Add(v)
	}
	return NewVariantSet(variants.Sorted()...)
}

// testLayout is a fake app-data tree under a temp dir, with nothing in it.
func testLayout(t *testing.T) Layout {
	t.Helper()
	base := t.TempDir()
	return Layout{
		ClassicRoot:   filepath.Join(base, "Roaming", "Microsoft", "Teams"),
		ModernRoot:    filepath.Join(base, "Local", "Packages", "MSTeams_8wekyb3d8bbwe"),
		ModernSubdirs: []string{"LocalCache", "LocalState", "TempState"},
	}
}

func mkdirWithFile(t *testing.T, dir string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "data_0"), []byte("cache"), 0644))
	return dir
}

func writeFile(t *testing.T, path string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0644))
	return path
}

func exists(path string) bool {
	_, err := os.Lstat(path)
	return err == nil
}
