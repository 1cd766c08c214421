//go:build darwin

package config

import (
	"os"
	"path/filepath"

	"howett.net/plist"
)

const plistPath = "Library/Preferences/com.portwatch.app.plist"

// plistConfig represents the scan settings the desktop app keeps in its plist
type plistConfig struct {
	ScanIntervalActive     float64 `plist:"scanIntervalActive"`
	ScanIntervalBackground float64 `plist:"scanIntervalBackground"`
	IgnoredPorts           []int   `plist:"ignoredPorts"`
}

// loadFromPlist migrates settings from the app's plist, or returns nil when
// there is nothing to migrate
func loadFromPlist() *Config {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil
	}

	data, err := os.ReadFile(filepath.Join(home, plistPath))
	if err != nil {
		return nil
	}

	return parsePlist(data)
}

func parsePlist(data []byte) *Config {
	var pc plistConfig
	if _, err := plist.Unmarshal(data, &pc); err != nil {
		return nil
	}

	cfg := Default()
	migrated := false
	// The app stores intervals in seconds
	if pc.ScanIntervalActive > 0 {
		cfg.FastIntervalMs = int(pc.ScanIntervalActive * 1000)
		migrated = true
	}
	if pc.ScanIntervalBackground > 0 {
		cfg.SlowIntervalMs = int(pc.ScanIntervalBackground * 1000)
		migrated = true
	}
	if len(pc.IgnoredPorts) > 0 {
		cfg.IgnoredPorts = pc.IgnoredPorts
		migrated = true
	}

	if !migrated {
		return nil
	}
	return cfg
}
