package test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teamstools/teams-cache-clear/test/harness"
)

func logResult(t *testing.T, result *harness.Result) {
	t.Helper()
	t.Logf("Exit code: %d", result.ExitCode)
	t.Logf("Stderr:\n%s", result.Stderr)
	for i, msg := range result.Messages {
		t.Logf("  [%d] type=%s", i, msg.Type)
	}
}

func TestRun_NothingInstalled(t *testing.T) {
	h := harness.New(t)
	defer h.Cleanup()

	result := h.Run()
	logResult(t, result)

	assert.Equal(t, 0, result.ExitCode)

	rc, ok := result.RunComplete()
	require.True(t, ok, "expected a run-complete message")

	// one marker for the classic root, three for the package sub-folders
	require.Len(t, rc.Outcomes, 4)
	for _, o := range rc.Outcomes {
		assert.Equal(t, "not-found", o.Status, o.Target.Path)
	}
	assert.Equal(t, 4, rc.Summary.NotFound)
	assert.Equal(t, 0, rc.Summary.Pending)
}

func TestRun_OnlyModernLocalCache(t *testing.T) {
	h := harness.New(t)
	defer h.Cleanup()

	fx := h.Fixtures()
	localCache := fx.AddModernDir("LocalCache")

	result := h.Run()
	logResult(t, result)

	assert.Equal(t, 0, result.ExitCode)
	assert.False(t, fx.Exists(localCache), "LocalCache should be gone")

	rc, ok := result.RunComplete()
	require.True(t, ok)
	require.Len(t, rc.Outcomes, 4)

	assert.Equal(t, fx.ClassicRoot(), rc.Outcomes[0].Target.Path)
	assert.Equal(t, "not-found", rc.Outcomes[0].Status)

	assert.Equal(t, localCache, rc.Outcomes[1].Target.Path)
	assert.Equal(t, "success", rc.Outcomes[1].Status)
	assert.Equal(t, "New Teams - LocalCache", rc.Outcomes[1].Target.DisplayName)

	assert.Equal(t, "not-found", rc.Outcomes[2].Status)
	assert.Equal(t, "not-found", rc.Outcomes[3].Status)
}

func TestRun_ClassicChildrenInOrder(t *testing.T) {
	h := harness.New(t)
	defer h.Cleanup()

	fx := h.Fixtures()
	gpu := fx.AddClassicDir("GPUCache")
	cache := fx.AddClassicDir("Cache")
	settings := fx.AddClassicFile("desktop-config.json")

	result := h.Run("--variant", "classic")
	logResult(t, result)

	assert.Equal(t, 0, result.ExitCode)

	rc, ok := result.RunComplete()
	require.True(t, ok)
	require.Len(t, rc.Outcomes, 3)

	var paths []string
	for _, o := range rc.Outcomes {
		paths = append(paths, o.Target.Path)
		assert.Equal(t, "success", o.Status)
		assert.Equal(t, "classic", o.Target.Variant)
	}
	assert.Equal(t, []string{cache, gpu, settings}, paths)

	for _, p := range paths {
		assert.False(t, fx.Exists(p), "%s should be gone", p)
	}
	assert.True(t, fx.Exists(fx.ClassicRoot()), "the root itself stays")
}

func TestRun_StateSequence(t *testing.T) {
	h := harness.New(t)
	defer h.Cleanup()

	result := h.Run()
	logResult(t, result)

	assert.Equal(t, []string{
		"detecting-processes",
		"terminating",
		"enumerating",
		"deleting",
		"relaunching",
		"idle",
	}, result.States())

	// nothing named like the app runs on a test machine
	assert.False(t, result.HasMessageType(harness.TypeProcessKilled))
	assert.False(t, result.HasMessageType(harness.TypeProcessRestarted))
}

func TestRun_StatusEventsFollowDiscovery(t *testing.T) {
	h := harness.New(t)
	defer h.Cleanup()

	fx := h.Fixtures()
	localState := fx.AddModernDir("LocalState")

	result := h.Run("--variant", "new")
	logResult(t, result)

	discovered := result.GetAllMessagesOfType(harness.TypeTargetDiscovered)
	require.Len(t, discovered, 3)

	rc, ok := result.RunComplete()
	require.True(t, ok)

	var statuses []string
	for _, msg := range result.GetAllMessagesOfType(harness.TypeStatusChanged) {
		p, ok := msg.GetStatusChangedPayload()
		require.True(t, ok)
		assert.Equal(t, rc.ID, p.RunID)
		if p.Path == localState {
			statuses = append(statuses, p.Status)
		}
	}
	assert.Equal(t, []string{"in-progress", "success"}, statuses)
}

func TestRun_FailureExitsNonZero(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits don't lock files on windows")
	}
	if os.Geteuid() == 0 {
		t.Skip("root ignores permission bits")
	}

	h := harness.New(t)
	defer h.Cleanup()

	fx := h.Fixtures()
	settings := fx.AddClassicFile("settings.json")

	// a file can't be unlinked from a read-only folder
	require.NoError(t, os.Chmod(fx.ClassicRoot(), 0555))
	defer os.Chmod(fx.ClassicRoot(), 0755)

	result := h.Run("--variant", "classic")
	logResult(t, result)

	assert.Equal(t, 1, result.ExitCode)

	rc, ok := result.RunComplete()
	require.True(t, ok)
	require.Len(t, rc.Outcomes, 1)
	assert.Equal(t, settings, rc.Outcomes[0].Target.Path)
	assert.Equal(t, "failed", rc.Outcomes[0].Status)
	assert.Equal(t, "access denied", rc.Outcomes[0].Reason)
	assert.True(t, fx.Exists(settings))
}

func TestRun_WritesReport(t *testing.T) {
	h := harness.New(t)
	defer h.Cleanup()

	fx := h.Fixtures()
	fx.AddModernDir("TempState")

	reportPath := filepath.Join(h.TempDir(), "reports", "last-run.json")
	result := h.Run("--report", reportPath)
	logResult(t, result)
	require.Equal(t, 0, result.ExitCode)

	bs, err := os.ReadFile(reportPath)
	require.NoError(t, err)

	var report struct {
		ID       string                   `json:"id"`
		Outcomes []harness.OutcomePayload `json:"outcomes"`
		Summary  harness.SummaryPayload   `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(bs, &report))

	rc, ok := result.RunComplete()
	require.True(t, ok)
	assert.Equal(t, rc.ID, report.ID)
	assert.Len(t, report.Outcomes, 4)
	assert.Equal(t, 1, report.Summary.Success)
	assert.Equal(t, 3, report.Summary.NotFound)
}

func TestRun_LogsAreMirrored(t *testing.T) {
	h := harness.New(t)
	defer h.Cleanup()

	result := h.Run()
	logResult(t, result)

	assert.True(t, result.HasMessageType(harness.TypeLog))

	_, err := os.Stat(h.LogPath())
	assert.NoError(t, err, "log file should exist")
}
