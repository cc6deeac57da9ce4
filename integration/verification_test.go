//go:build basic

package integration

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/huangsam/hirecast/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sqliteEnv points every store at files in a fresh temp directory.
func sqliteEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("HIRECAST_RECORDS_BACKEND", "sqlite")
	t.Setenv("HIRECAST_RECORDS_DB_CONNECT", filepath.Join(dir, "records.db"))
	t.Setenv("HIRECAST_CACHE_BACKEND", "sqlite")
	t.Setenv("HIRECAST_CACHE_DB_CONNECT", filepath.Join(dir, "cache.db"))
	t.Setenv("HIRECAST_HISTORY_BACKEND", "sqlite")
	t.Setenv("HIRECAST_HISTORY_DB_CONNECT", filepath.Join(dir, "history.db"))
}

// TestVolumeMatchesSeededCount checks that the daily counts add up to every seeded application.
func TestVolumeMatchesSeededCount(t *testing.T) {
	sqliteEnv(t)

	_, err := runCommand(t, "seed", "--count", "300", "--months", "2", "--seed", "7")
	require.NoError(t, err)

	out, err := runCommand(t, "volume", "--output", "json", "--volume-days", "120")
	require.NoError(t, err)

	var result schema.ApplicationForecastResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))

	total := 0
	for _, p := range result.Data {
		if !p.IsForecast {
			total += p.Count
		}
	}
	assert.Equal(t, 300, total)
}

// TestPipelinesRecordHistory runs every pipeline twice and checks cache and history bookkeeping.
func TestPipelinesRecordHistory(t *testing.T) {
	sqliteEnv(t)

	_, err := runCommand(t, "seed", "--count", "200")
	require.NoError(t, err)

	for _, pipeline := range []string{"skill-gap", "quality", "volume", "skill-demand"} {
		first, err := runCommand(t, pipeline, "--output", "json")
		require.NoError(t, err, pipeline)
		second, err := runCommand(t, pipeline, "--output", "json")
		require.NoError(t, err, pipeline)
		assert.JSONEq(t, first, second, pipeline)
	}

	out, err := runCommand(t, "history", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Total Runs: 4")

	out, err = runCommand(t, "cache", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Total Entries: 4")

	out, err = runCommand(t, "records", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Applications: 200")
}
