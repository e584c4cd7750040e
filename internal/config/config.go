// Package config provides configuration file parsing for basketmine.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cast"
	"gopkg.in/yaml.v3"

	"github.com/blackwell-systems/basketmine/internal/mining"
)

// FileName is the config file looked up inside the config directory.
const FileName = "config.yaml"

// Environment variables that override the config file.
const (
	EnvMinSupport    = "BASKETMINE_MIN_SUPPORT"
	EnvMinConfidence = "BASKETMINE_MIN_CONFIDENCE"
	EnvAlgorithm     = "BASKETMINE_ALGORITHM"
	EnvDataDir       = "BASKETMINE_DATA_DIR"
	EnvMaxItems      = "BASKETMINE_MAX_ITEMS"
)

// Config holds user defaults for mining and file locations.
type Config struct {
	DataDir     string `yaml:"data_dir"`
	SnapshotDir string `yaml:"snapshot_dir"`

	// MinSupport is either a fraction (0.4) or an absolute count (3).
	MinSupport    any     `yaml:"min_support"`
	MinConfidence float64 `yaml:"min_confidence"`
	Algorithm     string  `yaml:"algorithm"`
	MaxItems      int     `yaml:"max_items"`
	Tolerance     float64 `yaml:"tolerance"`
	Transactions  int     `yaml:"transactions"`
}

// Dir returns the basketmine config directory, respecting XDG_CONFIG_HOME.
// Defaults to ~/.config/basketmine if XDG_CONFIG_HOME is not set.
func Dir() (string, error) {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "basketmine"), nil
}

// HomeDir returns ~/.basketmine, where the database, datasets and snapshots
// live by default.
func HomeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".basketmine"), nil
}

// DefaultDBPath returns ~/.basketmine/basketmine.db.
func DefaultDBPath() (string, error) {
	dir, err := HomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "basketmine.db"), nil
}

// Default returns the built-in configuration.
func Default() *Config {
	cfg := &Config{
		MinSupport:    "0.2",
		MinConfidence: 0.6,
		Algorithm:     mining.AlgorithmBruteForce,
		MaxItems:      20,
		Tolerance:     1e-6,
		Transactions:  25,
	}
	if dir, err := HomeDir(); err == nil {
		cfg.DataDir = filepath.Join(dir, "data")
		cfg.SnapshotDir = filepath.Join(dir, "snapshots")
	}
	return cfg
}

// Load reads {dir}/config.yaml over the defaults. If the file does not
// exist, the defaults are returned without an error.
func Load(dir string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(filepath.Join(dir, FileName))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", FileName, err)
	}
	return cfg, nil
}

// Save writes cfg to {dir}/config.yaml, creating dir if needed.
func Save(dir string, cfg *Config) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return os.WriteFile(filepath.Join(dir, FileName), data, 0644)
}

// ApplyEnv overrides cfg from BASKETMINE_* environment variables.
func (c *Config) ApplyEnv() error {
	if v, ok := os.LookupEnv(EnvMinSupport); ok {
		c.MinSupport = v
	}
	if v, ok := os.LookupEnv(EnvMinConfidence); ok {
		f, err := cast.ToFloat64E(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMinConfidence, err)
		}
		c.MinConfidence = f
	}
	if v, ok := os.LookupEnv(EnvMaxItems); ok {
		n, err := cast.ToIntE(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMaxItems, err)
		}
		c.MaxItems = n
	}
	if v, ok := os.LookupEnv(EnvAlgorithm); ok && v != "" {
		c.Algorithm = strings.ToLower(strings.TrimSpace(v))
	}
	if v, ok := os.LookupEnv(EnvDataDir); ok && v != "" {
		c.DataDir = v
	}
	return c.Validate()
}

// Validate checks the mining thresholds and limits.
func (c *Config) Validate() error {
	if _, err := c.Params(); err != nil {
		return err
	}
	if c.MaxItems < 0 {
		return fmt.Errorf("%w: max_items %d is negative", mining.ErrInvalidParameter, c.MaxItems)
	}
	if c.Tolerance < 0 {
		return fmt.Errorf("%w: tolerance %v is negative", mining.ErrInvalidParameter, c.Tolerance)
	}
	if c.Transactions < 0 {
		return fmt.Errorf("%w: transactions %d is negative", mining.ErrInvalidParameter, c.Transactions)
	}
	return nil
}

// Params returns the configured mining thresholds.
func (c *Config) Params() (mining.Params, error) {
	t, err := ParseThreshold(c.MinSupport)
	if err != nil {
		return mining.Params{}, err
	}
	p := mining.Params{MinSupport: t, MinConfidence: c.MinConfidence}
	return p, p.Validate()
}

// ParseThreshold converts a YAML or flag value into a support threshold.
// Strings follow mining.ParseThreshold. Floats are fractions and integers
// of at least 1 are counts, so YAML "1.0" and "1" stay distinct.
func ParseThreshold(v any) (mining.Threshold, error) {
	switch x := v.(type) {
	case nil:
		return mining.Threshold{}, fmt.Errorf("%w: min support is not set", mining.ErrInvalidParameter)
	case string:
		return mining.ParseThreshold(x)
	case float32, float64:
		f, err := cast.ToFloat64E(x)
		if err != nil {
			return mining.Threshold{}, fmt.Errorf("%w: %v", mining.ErrInvalidParameter, err)
		}
		t := mining.SupportFraction(f)
		return t, t.Validate()
	default:
		n, err := cast.ToIntE(v)
		if err != nil {
			return mining.Threshold{}, fmt.Errorf("%w: min support %v is not a number", mining.ErrInvalidParameter, v)
		}
		t := mining.SupportCount(n)
		if n < 1 {
			t = mining.SupportFraction(float64(n))
		}
		return t, t.Validate()
	}
}
