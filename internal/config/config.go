package config

import (
	"fmt"
	"time"

	"github.com/productdevbook/portwatch/internal/monitor"
)

// Config holds scan settings shared by the CLI and the desktop app
type Config struct {
	FastIntervalMs int    `json:"fastIntervalMs" plist:"fastIntervalMs"`
	SlowIntervalMs int    `json:"slowIntervalMs" plist:"slowIntervalMs"`
	IgnoredPorts   []int  `json:"ignoredPorts" plist:"ignoredPorts"`
	LogLevel       string `json:"logLevel" plist:"logLevel"`
}

// Store interface for config persistence
type Store interface {
	Load() (*Config, error)
	Save(cfg *Config) error
}

// Default returns the built-in settings.
func Default() *Config {
	return &Config{
		FastIntervalMs: int(monitor.DefaultFastInterval / time.Millisecond),
		SlowIntervalMs: int(monitor.DefaultSlowInterval / time.Millisecond),
		IgnoredPorts:   []int{},
		LogLevel:       "info",
	}
}

// NewStore returns the shared config store at path, or at
// ~/.portwatch/config.json when path is empty. A non-nil error means the
// plist migration failed; the returned store is still usable.
func NewStore(path string) (Store, error) {
	store, err := newSharedStore(path)
	if err != nil {
		// Fallback: return a store that will return default config
		return &fallbackStore{}, nil
	}

	// Migrate from plist if the default config does not exist yet
	if path == "" {
		if err := migrate(store, loadFromPlist); err != nil {
			return store, err
		}
	}

	return store, nil
}

// migrate saves the settings returned by load when store has no file yet.
func migrate(store *sharedStore, load func() *Config) error {
	if store.exists() {
		return nil
	}
	cfg := load()
	if cfg == nil {
		return nil
	}
	if err := store.Save(cfg); err != nil {
		return fmt.Errorf("migrating plist settings: %w", err)
	}
	return nil
}

type fallbackStore struct{}

func (f *fallbackStore) Load() (*Config, error) {
	return Default(), nil
}

func (f *fallbackStore) Save(cfg *Config) error {
	return nil
}

// FastInterval returns the active-mode interval, or 0 when unset.
func (c *Config) FastInterval() time.Duration {
	return millis(c.FastIntervalMs)
}

// SlowInterval returns the background-mode interval, or 0 when unset.
func (c *Config) SlowInterval() time.Duration {
	return millis(c.SlowIntervalMs)
}

// MonitorOptions translates the settings into monitor options.
func (c *Config) MonitorOptions() []monitor.Option {
	return []monitor.Option{
		monitor.WithIntervals(c.FastInterval(), c.SlowInterval()),
		monitor.WithIgnoredPorts(c.validIgnoredPorts()...),
	}
}

// IsIgnored checks if a port is in the user's ignore list
func (c *Config) IsIgnored(port int) bool {
	for _, p := range c.IgnoredPorts {
		if p == port {
			return true
		}
	}
	return false
}

// AddIgnored adds a port to the ignore list
func (c *Config) AddIgnored(port int) {
	if !c.IsIgnored(port) {
		c.IgnoredPorts = append(c.IgnoredPorts, port)
	}
}

// RemoveIgnored removes a port from the ignore list
func (c *Config) RemoveIgnored(port int) {
	filtered := []int{}
	for _, p := range c.IgnoredPorts {
		if p != port {
			filtered = append(filtered, p)
		}
	}
	c.IgnoredPorts = filtered
}

func (c *Config) validIgnoredPorts() []int {
	var ports []int
	for _, p := range c.IgnoredPorts {
		if p > 0 && p <= 65535 {
			ports = append(ports, p)
		}
	}
	return ports
}

func millis(ms int) time.Duration {
	if ms <= 0 {
		return 0
	}
	return time.Duration(ms) * time.Millisecond
}
