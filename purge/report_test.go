package purge

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteReport(t *testing.T) {
	rr := NewRunResult()
	rr.Add(row("/a", StatusPending))
	rr.SetStatus("/a", StatusTimeout, "")
	rr.finish()

	path := filepath.Join(t.TempDir(), "reports", "run.json")
	require.NoError(t, WriteReport(path, rr))

	bs, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded struct {
		ID       string    `json:"id"`
		Outcomes []Outcome `json:"outcomes"`
	}
	require.NoError(t, json.Unmarshal(bs, &decoded))
	assert.Equal(t, rr.ID, decoded.ID)
	require.Len(t, decoded.Outcomes, 1)
	assert.Equal(t, StatusTimeout, decoded.Outcomes[0].Status)

	// a second write replaces the first one whole
	rr.SetStatus("/a", StatusSuccess, "")
	require.NoError(t, WriteReport(path, rr))
	bs, err = os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(bs, &decoded))
	assert.Equal(t, StatusSuccess, decoded.Outcomes[0].Status)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "no temp files left behind")
}
