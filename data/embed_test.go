package data

import (
	"encoding/json"
	"sort"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keysOf(t *testing.T, path string) []string {
	t.Helper()
	bs, err := Asset(path)
	require.NoError(t, err)

	var strs map[string]string
	require.NoError(t, json.Unmarshal(bs, &strs), path)

	var keys []string
	for k := range strs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func TestAsset_PrefixIsOptional(t *testing.T) {
	a, err := Asset("data/locales/en.json")
	require.NoError(t, err)
	b, err := Asset("locales/en.json")
	require.NoError(t, err)
	assert.Equal(t, a, b)

	_, err = Asset("data/locales/zz.json")
	assert.EqualError(t, err, "data/locales/zz.json: not found")
}

func TestLocales_SameKeys(t *testing.T) {
	en := keysOf(t, "locales/en.json")
	assert.Equal(t, en, keysOf(t, "locales/ja.json"))
}

func TestLocales(t *testing.T) {
	assert.Equal(t, []string{"en", "ja"}, Locales())
}
