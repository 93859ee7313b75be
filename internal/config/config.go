// Package config loads the filesort command line configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	sorterrors "github.com/bglogos/FileSort/errors"
	"github.com/bglogos/FileSort/internal/lineio"
)

// Environment variables that override the file.
const (
	EnvThreshold = "FILESORT_THRESHOLD"
	EnvWorkspace = "FILESORT_WORKSPACE"
	EnvCodec     = "FILESORT_CODEC"
	EnvLogLevel  = "FILESORT_LOG_LEVEL"
)

// Config holds all filesort configuration.
type Config struct {
	Sort    SortConfig    `yaml:"sort"`
	Logging LoggingConfig `yaml:"logging"`
}

// SortConfig configures sorting.
type SortConfig struct {
	Threshold    string `yaml:"threshold"`     // human size, e.g. "100MiB"
	WorkspaceDir string `yaml:"workspace_dir"` // empty: beside each input
	Codec        string `yaml:"codec"`         // none, lz4, zstd
	Jobs         int    `yaml:"jobs"`          // concurrent sorts, 0 = GOMAXPROCS
	Mmap         bool   `yaml:"mmap"`
	Verify       bool   `yaml:"verify"` // check the output after sorting
}

// LoggingConfig configures logging.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, console
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Sort: SortConfig{
			Threshold: "100MiB",
			Codec:     "none",
			Mmap:      true,
			Verify:    true,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults. Environment overrides are applied in both cases.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case os.IsNotExist(err):
		case err != nil:
			return nil, fmt.Errorf("failed to read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// YAML returns the configuration as YAML.
func (c *Config) YAML() (string, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("failed to marshal config: %w", err)
	}
	return string(data), nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(EnvThreshold); v != "" {
		c.Sort.Threshold = v
	}
	if v := os.Getenv(EnvWorkspace); v != "" {
		c.Sort.WorkspaceDir = v
	}
	if v := os.Getenv(EnvCodec); v != "" {
		c.Sort.Codec = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.Logging.Level = v
	}
}

// ThresholdBytes parses the threshold as a byte count ("64MiB", "1GB", "4096").
func (c *Config) ThresholdBytes() (int64, error) {
	n, err := humanize.ParseBytes(c.Sort.Threshold)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", sorterrors.ErrInvalidThreshold, c.Sort.Threshold, err)
	}
	if n == 0 || n > 1<<62 {
		return 0, fmt.Errorf("%w: %q", sorterrors.ErrInvalidThreshold, c.Sort.Threshold)
	}
	return int64(n), nil
}

// ValidLevels lists the accepted log levels.
var ValidLevels = []string{"debug", "info", "warn", "error"}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if _, err := c.ThresholdBytes(); err != nil {
		return err
	}
	if _, err := lineio.ParseCodec(c.Sort.Codec); err != nil {
		return err
	}
	if c.Sort.Jobs < 0 {
		return fmt.Errorf("%w: %d", sorterrors.ErrInvalidJobs, c.Sort.Jobs)
	}

	level := strings.ToLower(c.Logging.Level)
	validLevel := false
	for _, l := range ValidLevels {
		if level == l {
			validLevel = true
			break
		}
	}
	if !validLevel {
		return fmt.Errorf("invalid log level: %s (valid: %v)", c.Logging.Level, ValidLevels)
	}

	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("invalid log format: %s (valid: json, console)", c.Logging.Format)
	}
	return nil
}
