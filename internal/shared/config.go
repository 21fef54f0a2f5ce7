package shared

import (
	_ "embed"
	"fmt"
	"os"
	"slices"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Formats lists the export formats understood by the formatter package.
var Formats = []string{"txt", "csv", "markdown", "json"}

// Modes lists the accepted scheduler modes.
var Modes = []string{"strict", "randomized", "random"}

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Scheduler SchedulerConfig `toml:"scheduler"`
	Database  DatabaseConfig  `toml:"database"`
	Output    OutputConfig    `toml:"output"`
	Batch     BatchConfig     `toml:"batch"`
}

// SchedulerConfig contains spacing engine settings.
type SchedulerConfig struct {
	PreferredGap int    `toml:"preferred_gap"`
	FallbackGap  int    `toml:"fallback_gap"`
	Mode         string `toml:"mode"`
	Seed         int64  `toml:"seed"`
	RoundsFactor int    `toml:"rounds_factor"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// OutputConfig contains export defaults.
type OutputConfig struct {
	Format    string `toml:"format"`
	Directory string `toml:"directory"`
}

// BatchConfig contains settings for scheduling many plans at once.
type BatchConfig struct {
	Workers int `toml:"workers"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys missing from the file keep their defaults.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	s := c.Scheduler
	if s.FallbackGap < 2 {
		return fmt.Errorf("%w: fallback_gap must be at least 2, got %d", ErrInvalidConfig, s.FallbackGap)
	}
	if s.PreferredGap < s.FallbackGap {
		return fmt.Errorf("%w: preferred_gap (%d) must not be below fallback_gap (%d)", ErrInvalidConfig, s.PreferredGap, s.FallbackGap)
	}
	if !slices.Contains(Modes, s.Mode) {
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, s.Mode)
	}
	if s.RoundsFactor < 0 {
		return fmt.Errorf("%w: rounds_factor must not be negative", ErrInvalidConfig)
	}
	if !slices.Contains(Formats, c.Output.Format) {
		return fmt.Errorf("%w: unknown output format %q", ErrInvalidConfig, c.Output.Format)
	}
	if c.Batch.Workers < 1 {
		return fmt.Errorf("%w: batch workers must be at least 1", ErrInvalidConfig)
	}
	return nil
}
