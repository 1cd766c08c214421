package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileGivesDefaults(t *testing.T) {
	store, err := NewStore(filepath.Join(t.TempDir(), "config.json"))
	require.NoError(t, err)

	cfg, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, 2500*time.Millisecond, cfg.FastInterval())
	assert.Equal(t, 10*time.Second, cfg.SlowInterval())
}

func TestLoad_PartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"slowIntervalMs": 30000, "ignoredPorts": [9229]}`), 0644))

	store, err := NewStore(path)
	require.NoError(t, err)
	cfg, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, 2500, cfg.FastIntervalMs)
	assert.Equal(t, 30*time.Second, cfg.SlowInterval())
	assert.Equal(t, []int{9229}, cfg.IgnoredPorts)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_InvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0644))

	store, err := NewStore(path)
	require.NoError(t, err)
	_, err = store.Load()
	assert.ErrorContains(t, err, "parsing config")
}

func TestSave_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "config.json")
	store, err := NewStore(path)
	require.NoError(t, err)

	cfg := Default()
	cfg.LogLevel = "debug"
	cfg.AddIgnored(4000)
	require.NoError(t, store.Save(cfg))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestIgnoredPorts(t *testing.T) {
	cfg := Default()

	cfg.AddIgnored(9229)
	cfg.AddIgnored(9229)
	cfg.AddIgnored(70000)
	assert.Equal(t, []int{9229, 70000}, cfg.IgnoredPorts)
	assert.True(t, cfg.IsIgnored(9229))
	assert.Equal(t, []int{9229}, cfg.validIgnoredPorts(), "out of range ports are dropped")

	cfg.RemoveIgnored(9229)
	assert.False(t, cfg.IsIgnored(9229))
	assert.Equal(t, []int{70000}, cfg.IgnoredPorts)
}

func TestIntervals_NonPositiveMeansUnset(t *testing.T) {
	cfg := &Config{FastIntervalMs: -5}
	assert.Zero(t, cfg.FastInterval())
	assert.Zero(t, cfg.SlowInterval())
	assert.Len(t, cfg.MonitorOptions(), 2)
}

func TestFallbackStore(t *testing.T) {
	var store Store = &fallbackStore{}
	cfg, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.NoError(t, store.Save(cfg))
}

func TestMigrate(t *testing.T) {
	plistCfg := func() *Config {
		cfg := Default()
		cfg.AddIgnored(5432)
		return cfg
	}

	t.Run("writes missing file", func(t *testing.T) {
		store, err := newSharedStore(filepath.Join(t.TempDir(), "config.json"))
		require.NoError(t, err)

		require.NoError(t, migrate(store, plistCfg))
		loaded, err := store.Load()
		require.NoError(t, err)
		assert.Equal(t, []int{5432}, loaded.IgnoredPorts)
	})

	t.Run("keeps existing file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.json")
		require.NoError(t, os.WriteFile(path, []byte(`{"ignoredPorts": [9229]}`), 0644))
		store, err := newSharedStore(path)
		require.NoError(t, err)

		require.NoError(t, migrate(store, plistCfg))
		loaded, err := store.Load()
		require.NoError(t, err)
		assert.Equal(t, []int{9229}, loaded.IgnoredPorts)
	})

	t.Run("nothing to migrate", func(t *testing.T) {
		store, err := newSharedStore(filepath.Join(t.TempDir(), "config.json"))
		require.NoError(t, err)

		require.NoError(t, migrate(store, func() *Config { return nil }))
		assert.False(t, store.exists())
	})

	t.Run("reports save failure", func(t *testing.T) {
		// The parent "directory" is a regular file, so the save cannot succeed.
		blocker := filepath.Join(t.TempDir(), "blocker")
		require.NoError(t, os.WriteFile(blocker, nil, 0644))
		store, err := newSharedStore(filepath.Join(blocker, "config.json"))
		require.NoError(t, err)

		err = migrate(store, plistCfg)
		assert.ErrorContains(t, err, "migrating plist settings")
	})
}
