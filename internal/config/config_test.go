package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	sorterrors "github.com/bglogos/FileSort/errors"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())

	n, err := cfg.ThresholdBytes()
	require.NoError(t, err)
	assert.Equal(t, int64(100<<20), n)
	assert.True(t, cfg.Sort.Mmap)
	assert.True(t, cfg.Sort.Verify)
}

func TestLoad_MissingFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "filesort.yaml")
	data := "sort:\n  threshold: 8MiB\n  codec: zstd\n  jobs: 3\nlogging:\n  level: debug\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	n, err := cfg.ThresholdBytes()
	require.NoError(t, err)
	assert.Equal(t, int64(8<<20), n)
	assert.Equal(t, "zstd", cfg.Sort.Codec)
	assert.Equal(t, 3, cfg.Sort.Jobs)
	assert.Equal(t, "debug", cfg.Logging.Level)
	// Unset keys keep their defaults.
	assert.Equal(t, "console", cfg.Logging.Format)
}

func TestLoad_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("sort: [unclosed"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "filesort.yaml")
	cfg := DefaultConfig()
	cfg.Sort.Threshold = "1GiB"
	cfg.Sort.WorkspaceDir = "/scratch"
	require.NoError(t, cfg.Save(path))

	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, got)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv(EnvThreshold, "2MB")
	t.Setenv(EnvWorkspace, "/tmp/ws")
	t.Setenv(EnvCodec, "lz4")
	t.Setenv(EnvLogLevel, "warn")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "2MB", cfg.Sort.Threshold)
	assert.Equal(t, "/tmp/ws", cfg.Sort.WorkspaceDir)
	assert.Equal(t, "lz4", cfg.Sort.Codec)
	assert.Equal(t, "warn", cfg.Logging.Level)

	n, err := cfg.ThresholdBytes()
	require.NoError(t, err)
	assert.Equal(t, int64(2_000_000), n)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		target error
	}{
		{"zero threshold", func(c *Config) { c.Sort.Threshold = "0" }, sorterrors.ErrInvalidThreshold},
		{"garbage threshold", func(c *Config) { c.Sort.Threshold = "lots" }, sorterrors.ErrInvalidThreshold},
		{"unknown codec", func(c *Config) { c.Sort.Codec = "gzip" }, sorterrors.ErrUnknownCodec},
		{"negative jobs", func(c *Config) { c.Sort.Jobs = -1 }, sorterrors.ErrInvalidJobs},
		{"bad level", func(c *Config) { c.Logging.Level = "loud" }, nil},
		{"bad format", func(c *Config) { c.Logging.Format = "xml" }, nil},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tc.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			if tc.target != nil {
				assert.ErrorIs(t, err, tc.target)
			}
		})
	}
}
