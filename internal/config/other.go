//go:build !darwin

package config

// loadFromPlist is a no-op on non-darwin platforms
func loadFromPlist() *Config {
	return nil
}
