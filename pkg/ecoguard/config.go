package ecoguard

import "github.com/ghalamif/EcoGuard/internal/app/config"

// Config re-exports the root configuration struct so downstream projects can
// construct or modify it programmatically.
type Config = config.Config

type (
	// StreamConfig controls the sampling interval, window size and channels.
	StreamConfig = config.StreamConfig
	// MapConfig holds the host element, initial camera and tile layer.
	MapConfig = config.MapConfig
	// HTTPConfig configures the dashboard HTTP shell.
	HTTPConfig = config.HTTPConfig
	// LogConfig enables a rotated log file.
	LogConfig = config.LogConfig
)

// LoadConfig loads YAML from disk using the internal config reader.
func LoadConfig(path string) (*Config, error) {
	return config.Load(path)
}

// DefaultConfig returns the built-in Chennai dashboard configuration.
func DefaultConfig() *Config {
	return config.Default()
}

// ChennaiFacilities returns a fresh copy of the built-in facility catalog.
func ChennaiFacilities() []Facility {
	return config.ChennaiFacilities()
}
