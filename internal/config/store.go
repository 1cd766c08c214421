package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

const (
	configDir  = ".portwatch"
	configFile = "config.json"
)

type sharedStore struct {
	path string
	mu   sync.RWMutex
}

// newSharedStore creates a JSON store at path, defaulting to
// ~/.portwatch/config.json
func newSharedStore(path string) (*sharedStore, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, err
		}
		path = filepath.Join(home, configDir, configFile)
	}

	return &sharedStore{path: path}, nil
}

func (s *sharedStore) exists() bool {
	_, err := os.Stat(s.path)
	return err == nil
}

// Load reads the config, filling unset fields with defaults. A missing file
// yields the defaults.
func (s *sharedStore) Load() (*Config, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	cfg := Default()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config %s: %w", s.path, err)
	}

	var stored Config
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", s.path, err)
	}

	if stored.FastIntervalMs > 0 {
		cfg.FastIntervalMs = stored.FastIntervalMs
	}
	if stored.SlowIntervalMs > 0 {
		cfg.SlowIntervalMs = stored.SlowIntervalMs
	}
	if stored.IgnoredPorts != nil {
		cfg.IgnoredPorts = stored.IgnoredPorts
	}
	if stored.LogLevel != "" {
		cfg.LogLevel = stored.LogLevel
	}

	return cfg, nil
}

func (s *sharedStore) Save(cfg *Config) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := *cfg
	// Ensure non-nil slices for clean JSON
	if out.IgnoredPorts == nil {
		out.IgnoredPorts = []int{}
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	return os.WriteFile(s.path, data, 0644)
}
