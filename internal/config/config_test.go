package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "warn", cfg.Log.LevelOrDefault())
	assert.Equal(t, 5, cfg.View.ContextLinesOrDefault())
	assert.Equal(t, 10, cfg.View.LinesAboveOrDefault())
	assert.Equal(t, 10, cfg.View.LinesBelowOrDefault())
	assert.Equal(t, 100, cfg.Search.MaxResultsOrDefault())
	assert.Equal(t, int64(10*1024*1024), cfg.Search.MaxFileSizeOrDefault())
	assert.Equal(t, 512, cfg.Cache.LRUSizeOrDefault())
	assert.Equal(t, 24, cfg.Cache.CacheTTLOrDefault())
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lens.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[log]
level = "debug"

[view]
context_lines = 8

[search]
max_results = 25

[cache]
ttl_hours = 48
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 8, cfg.View.ContextLinesOrDefault())
	assert.Equal(t, 25, cfg.Search.MaxResultsOrDefault())
	assert.Equal(t, 48, cfg.Cache.CacheTTLOrDefault())
	// unset values keep their defaults
	assert.Equal(t, 10, cfg.View.LinesAboveOrDefault())
}

func TestLoadMissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	assert.ErrorContains(t, err, "config file not found")
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("log = {{"), 0644))
	_, err := Load(path)
	assert.ErrorContains(t, err, "failed to parse config")
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LENS_LOG_LEVEL", "trace")
	t.Setenv("LENS_CACHE_PATH", "/tmp/custom.db")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "trace", cfg.Log.Level)
	assert.Equal(t, "/tmp/custom.db", cfg.Cache.Path)

	path, err := cfg.CachePath()
	require.NoError(t, err)
	assert.Equal(t, "/tmp/custom.db", path)
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := &Config{}
	cfg.Log.Level = "loud"
	cfg.View.ContextLines = -1
	err := cfg.Validate()
	require.Error(t, err)
	assert.ErrorContains(t, err, "log.level")
	assert.ErrorContains(t, err, "view.context_lines")
}
