package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.Stats.Driver)
	assert.Equal(t, "data/area_statistics.json", cfg.Stats.Path)
	assert.Equal(t, "/tmp/boundaries", cfg.Boundary.TempDir)
	assert.InDelta(t, 2.0, cfg.Boundary.RateLimit, 0.001)
	assert.InDelta(t, 0.1, cfg.Adjacency.CellSizeDeg, 0.0001)
	assert.InDelta(t, 50.0, cfg.Adjacency.ToleranceM, 0.001)
	assert.True(t, cfg.Adjacency.Symmetrize)
	assert.Equal(t, "data/adjacency.json", cfg.Adjacency.OutputPath)
	assert.Equal(t, 1000, cfg.Adjacency.ProgressInterval)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, []string{"*"}, cfg.Server.AllowedOrigins)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
stats:
  driver: sqlite
  path: /var/lib/demographics/stats.db
adjacency:
  cell_size_deg: 0.05
  tolerance_m: 25
  symmetrize: false
log:
  level: debug
  format: console
server:
  port: 9090
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Stats.Driver)
	assert.Equal(t, "/var/lib/demographics/stats.db", cfg.Stats.Path)
	assert.InDelta(t, 0.05, cfg.Adjacency.CellSizeDeg, 0.0001)
	assert.InDelta(t, 25.0, cfg.Adjacency.ToleranceM, 0.001)
	assert.False(t, cfg.Adjacency.Symmetrize)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
}

func TestInitLogger(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())

	err = InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
}

func TestInitLoggerBadLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "shouty", Format: "json"})
	assert.Error(t, err)
}
