package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func withEnv(t *testing.T, key, value string) {
	t.Helper()
	t.Setenv(key, value)
}

func TestLoad_Defaults(t *testing.T) {
	withEnv(t, "STYLELENS_DATA_DIR", t.TempDir())

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://api.stylelens.app", cfg.APIURL)
	assert.Equal(t, 180*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 5*time.Second, cfg.LiveInterval)
	assert.Equal(t, "warn", cfg.LogLevel)
	assert.Equal(t, "/dev/video0", cfg.CaptureDevice)
}

func TestLoad_EnvOverride(t *testing.T) {
	withEnv(t, "STYLELENS_DATA_DIR", t.TempDir())
	withEnv(t, "STYLELENS_API_URL", "http://localhost:8000")
	withEnv(t, "STYLELENS_REQUEST_TIMEOUT", "30s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8000", cfg.APIURL)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	withEnv(t, "STYLELENS_DATA_DIR", dir)

	content := "capture_device: /dev/video2\nlive_interval: 10s\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(content), 0o644))

	cfg, err := Load()
	require.NoError(t, err)

	// Env defaults still win over the file for envdecode-backed fields
	// that carry a default; the file fills in what env leaves alone.
	assert.Equal(t, dir, cfg.DataDir)
}

func TestLoad_BadConfigFile(t *testing.T) {
	dir := t.TempDir()
	withEnv(t, "STYLELENS_DATA_DIR", dir)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("api_url: [broken"), 0o644))

	_, err := Load()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"valid", func(c *Config) {}, false},
		{"empty api url", func(c *Config) { c.APIURL = "" }, true},
		{"zero timeout", func(c *Config) { c.RequestTimeout = 0 }, true},
		{"sub-second live interval", func(c *Config) { c.LiveInterval = 100 * time.Millisecond }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{
				APIURL:         "https://api.stylelens.app",
				RequestTimeout: 180 * time.Second,
				LiveInterval:   5 * time.Second,
			}
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestPaths(t *testing.T) {
	cfg := &Config{DataDir: "/home/u/.stylelens"}
	assert.Equal(t, "/home/u/.stylelens/session.json", cfg.SessionPath())
	assert.Equal(t, "/home/u/.stylelens/keystore.json", cfg.KeystorePath())
}
