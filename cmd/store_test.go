package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/demographics-cli/internal/config"
)

func TestOpenStatsStore_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stats.json")
	require.NoError(t, os.WriteFile(path, []byte(`[{"area_code":"E01000001"}]`), 0o644))

	cfg = &config.Config{Stats: config.StatsConfig{Driver: "json", Path: path}}

	store, cleanup, err := openStatsStore(context.Background())
	require.NoError(t, err)
	defer cleanup()

	records, err := store.AllAreaStatistics(context.Background())
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestOpenStatsStore_SQLite(t *testing.T) {
	cfg = &config.Config{Stats: config.StatsConfig{
		Driver: "sqlite",
		Path:   filepath.Join(t.TempDir(), "stats.db"),
	}}

	store, cleanup, err := openStatsStore(context.Background())
	require.NoError(t, err)
	cleanup()
	assert.NotNil(t, store)
}

func TestOpenStatsStore_PostgresNoURL(t *testing.T) {
	cfg = &config.Config{Stats: config.StatsConfig{Driver: "postgres"}}

	_, _, err := openStatsStore(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "database_url")
}

func TestOpenStatsStore_UnknownDriver(t *testing.T) {
	cfg = &config.Config{Stats: config.StatsConfig{Driver: "cassandra"}}

	_, _, err := openStatsStore(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown driver")
}
