package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaths(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/cfg")
	t.Setenv("XDG_DATA_HOME", "/tmp/data")

	assert.Equal(t, "/tmp/cfg/mousetracks/config.toml", DefaultConfigPath())
	assert.Equal(t, "/tmp/data/mousetracks", DefaultDataDir())
	assert.Equal(t, "/tmp/data/mousetracks/profiles", ProfilesDir(DefaultDataDir()))
	assert.Equal(t, "/tmp/data/mousetracks/history.db", HistoryPath(DefaultDataDir()))
}

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "none.toml"))
	require.NoError(t, err)
	assert.Equal(t, FileConfig{}, cfg)

	_, err = LoadConfig("")
	assert.Error(t, err)
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[tracking]
updates-per-second = 120
retry-backoff = 0.25
multi-monitor = false
compression = "lz4"

[storage]
data-dir = "/srv/tracks"
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	require.NotNil(t, cfg.Tracking.UpdatesPerSecond)
	assert.Equal(t, 120, *cfg.Tracking.UpdatesPerSecond)
	assert.Equal(t, 0.25, *cfg.Tracking.RetryBackoff)
	assert.False(t, *cfg.Tracking.MultiMonitor)
	assert.Equal(t, "lz4", *cfg.Tracking.Compression)
	assert.Equal(t, "/srv/tracks", *cfg.Storage.DataDir)
	assert.Nil(t, cfg.Tracking.SaveRetries)
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[tracking]\nupdate-rate = 5\n"), 0o644))

	_, err := LoadConfig(path)
	assert.ErrorContains(t, err, "tracking.update-rate")
}

func TestBuildDefaults(t *testing.T) {
	tracking := DefaultTracking()
	tracking.DataDir = "/data"

	cfg, err := tracking.Build()
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.UpdatesPerSecond)
	assert.Equal(t, time.Minute, cfg.SaveInterval)
	assert.Equal(t, 500*time.Millisecond, cfg.RetryBackoff)
	assert.Equal(t, uint64(425000), cfg.CompressCeiling)
	assert.Equal(t, uint64(120), cfg.KeyIntervalLimit)
	assert.True(t, cfg.MultiMonitor)
	assert.Equal(t, "zstd", cfg.Compression)
}

func TestBuildExplicitIntervalLimit(t *testing.T) {
	tracking := DefaultTracking()
	tracking.KeyIntervalLimit = 0
	cfg, err := tracking.Build()
	require.NoError(t, err)
	assert.Equal(t, uint64(0), cfg.KeyIntervalLimit)
}

func TestBuildValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Tracking)
	}{
		{"updates", func(tr *Tracking) { tr.UpdatesPerSecond = 0 }},
		{"save frequency", func(tr *Tracking) { tr.SaveFrequency = 0 }},
		{"save retries", func(tr *Tracking) { tr.SaveRetries = 0 }},
		{"switch retries", func(tr *Tracking) { tr.SwitchRetries = -1 }},
		{"backoff", func(tr *Tracking) { tr.RetryBackoff = -1 }},
		{"ceiling", func(tr *Tracking) { tr.CompressCeiling = -5 }},
		{"factor", func(tr *Tracking) { tr.CompressFactor = 1 }},
		{"interval", func(tr *Tracking) { tr.KeyIntervalLimit = -2 }},
		{"compression", func(tr *Tracking) { tr.Compression = "gzip" }},
		{"data dir", func(tr *Tracking) { tr.DataDir = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tracking := DefaultTracking()
			tracking.DataDir = "/data"
			tt.mutate(&tracking)
			_, err := tracking.Build()
			assert.Error(t, err)
		})
	}
}

func TestBuildCompactionDisabledIgnoresFactor(t *testing.T) {
	tracking := DefaultTracking()
	tracking.CompressCeiling = 0
	tracking.CompressFactor = 0
	_, err := tracking.Build()
	assert.NoError(t, err)
}

func TestDefaultTemplateDecodes(t *testing.T) {
	var cfg FileConfig
	meta, err := toml.Decode(DefaultTemplate(), &cfg)
	require.NoError(t, err)
	assert.Empty(t, meta.Undecoded())
	assert.Equal(t, FileConfig{}, cfg)
}
