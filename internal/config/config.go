// Package config handles configuration loading from TOML files and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config is the root configuration structure.
type Config struct {
	Log    LogConfig    `toml:"log"`
	View   ViewConfig   `toml:"view"`
	Search SearchConfig `toml:"search"`
	Cache  CacheConfig  `toml:"cache"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// LevelOrDefault returns the configured log level or "warn" if unset.
func (l LogConfig) LevelOrDefault() string {
	if l.Level == "" {
		return "warn"
	}
	return l.Level
}

// ViewConfig holds file view settings.
type ViewConfig struct {
	// ContextLines is the number of context lines attached before and after
	// an extracted target. Defaults to 5.
	ContextLines int `toml:"context_lines"`
	// LinesAbove and LinesBelow bound the window in lines mode. Both
	// default to 10.
	LinesAbove int `toml:"lines_above"`
	LinesBelow int `toml:"lines_below"`
}

// ContextLinesOrDefault returns the configured context size or 5 if unset.
func (v ViewConfig) ContextLinesOrDefault() int {
	if v.ContextLines <= 0 {
		return 5
	}
	return v.ContextLines
}

// LinesAboveOrDefault returns the configured window size above or 10 if unset.
func (v ViewConfig) LinesAboveOrDefault() int {
	if v.LinesAbove <= 0 {
		return 10
	}
	return v.LinesAbove
}

// LinesBelowOrDefault returns the configured window size below or 10 if unset.
func (v ViewConfig) LinesBelowOrDefault() int {
	if v.LinesBelow <= 0 {
		return 10
	}
	return v.LinesBelow
}

// SearchConfig holds structural search settings.
type SearchConfig struct {
	MaxResults  int   `toml:"max_results"`
	MaxFileSize int64 `toml:"max_file_size"`
}

// MaxResultsOrDefault returns the configured result cap or 100 if unset.
func (s SearchConfig) MaxResultsOrDefault() int {
	if s.MaxResults <= 0 {
		return 100
	}
	return s.MaxResults
}

// MaxFileSizeOrDefault returns the configured file size cap or 10MB if unset.
func (s SearchConfig) MaxFileSizeOrDefault() int64 {
	if s.MaxFileSize <= 0 {
		return 10 * 1024 * 1024
	}
	return s.MaxFileSize
}

// CacheConfig holds outline cache settings.
type CacheConfig struct {
	Path     string `toml:"path"`
	LRUSize  int    `toml:"lru_size"`
	TTLHours int    `toml:"ttl_hours"`
}

// LRUSizeOrDefault returns the configured in-memory cache size or 512 if unset.
func (c CacheConfig) LRUSizeOrDefault() int {
	if c.LRUSize <= 0 {
		return 512
	}
	return c.LRUSize
}

// CacheTTLOrDefault returns the configured TTL or 24 hours if unset.
func (c CacheConfig) CacheTTLOrDefault() int {
	if c.TTLHours <= 0 {
		return 24
	}
	return c.TTLHours
}

// Load reads configuration from a TOML file and applies environment
// variable overrides. An empty path yields defaults; a non-empty path must
// name an existing file.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file not found: %s", path)
		}
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate returns an error if the configuration is invalid.
func (c *Config) Validate() error {
	var errs []error

	switch c.Log.Level {
	case "", "trace", "debug", "info", "warn", "error":
	default:
		errs = append(errs, fmt.Errorf("log.level=%q must be one of trace, debug, info, warn, error", c.Log.Level))
	}

	if c.View.ContextLines < 0 {
		errs = append(errs, fmt.Errorf("view.context_lines=%d must not be negative", c.View.ContextLines))
	}
	if c.View.LinesAbove < 0 {
		errs = append(errs, fmt.Errorf("view.lines_above=%d must not be negative", c.View.LinesAbove))
	}
	if c.View.LinesBelow < 0 {
		errs = append(errs, fmt.Errorf("view.lines_below=%d must not be negative", c.View.LinesBelow))
	}
	if c.Search.MaxResults < 0 {
		errs = append(errs, fmt.Errorf("search.max_results=%d must not be negative", c.Search.MaxResults))
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
func applyEnvOverrides(cfg *Config) {
	for _, setter := range []struct {
		env   string
		apply func(string)
	}{
		{"LENS_LOG_LEVEL", func(v string) {
			if v != "" {
				cfg.Log.Level = v
			}
		}},
		{"LENS_CACHE_PATH", func(v string) {
			if v != "" {
				cfg.Cache.Path = v
			}
		}},
	} {
		setter.apply(os.Getenv(setter.env))
	}
}

// DataDir returns the path to the Lens data directory (~/.config/lens).
func DataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "lens"), nil
}

// EnsureDataDir creates the data directory if it doesn't exist.
func EnsureDataDir() (string, error) {
	dir, err := DataDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0750); err != nil {
		return "", err
	}
	return dir, nil
}

// CachePath returns the SQLite cache path, defaulting under the data dir.
func (c *Config) CachePath() (string, error) {
	if c.Cache.Path != "" {
		return c.Cache.Path, nil
	}
	dir, err := EnsureDataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "outline.db"), nil
}
