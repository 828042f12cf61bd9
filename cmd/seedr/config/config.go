// Package config provides configuration structures for the seeding CLI.
package config

import (
	"fmt"
)

// Driver names accepted by the --driver flag.
const (
	DriverSQLite = "sqlite3"
	DriverDuckDB = "duckdb"
)

// Config represents the CLI configuration.
type Config struct {
	// Database is the path of the backing store file.
	Database string `yaml:"database" json:"database"`
	// Driver selects the embedded engine: sqlite3 or duckdb.
	Driver   string `yaml:"driver" json:"driver"`
	LogLevel string `yaml:"log_level" json:"log_level"`

	// Insert settings
	Workers    int    `yaml:"workers" json:"workers"`
	Count      int    `yaml:"count" json:"count"`
	NameSource string `yaml:"name_source" json:"name_source"`

	// Metrics configuration
	Metrics MetricsConfig `yaml:"metrics" json:"metrics"`
}

// MetricsConfig represents metrics configuration.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled" json:"enabled"`
	Address string `yaml:"address" json:"address"`
}

// Validate validates the configuration and applies defaults.
func (c *Config) Validate() error {
	if c.Database == "" {
		c.Database = "test.db"
	}

	if c.Driver == "" {
		c.Driver = DriverSQLite
	}
	switch c.Driver {
	case DriverSQLite, DriverDuckDB:
	default:
		return fmt.Errorf("unsupported driver: %s", c.Driver)
	}

	if c.Workers == 0 {
		c.Workers = 4
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}

	if c.Count == 0 {
		c.Count = 10000
	}
	if c.Count < 1 {
		return fmt.Errorf("count must be at least 1, got %d", c.Count)
	}

	if c.NameSource == "" {
		c.NameSource = "random"
	}
	switch c.NameSource {
	case "random", "fake":
	default:
		return fmt.Errorf("unsupported name source: %s", c.NameSource)
	}

	if c.Metrics.Enabled && c.Metrics.Address == "" {
		c.Metrics.Address = ":9090"
	}

	return nil
}

// DefaultConfig returns a default configuration.
func DefaultConfig() *Config {
	return &Config{
		Database:   "test.db",
		Driver:     DriverSQLite,
		LogLevel:   "info",
		Workers:    4,
		Count:      10000,
		NameSource: "random",
		Metrics: MetricsConfig{
			Enabled: false,
			Address: ":9090",
		},
	}
}
