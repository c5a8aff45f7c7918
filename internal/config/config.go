package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/stylelens/stylelens/internal/errors"
)

// Config holds the client configuration.
//
// Values are resolved in order: defaults, then the optional YAML config
// file, then environment variables. Environment wins so a single run can
// be pointed at a different backend without touching the config file.
type Config struct {
	// APIURL is the base URL of the StyleLens backend
	APIURL string `yaml:"api_url" env:"STYLELENS_API_URL,default=https://api.stylelens.app"`

	// RequestTimeout bounds every backend call
	RequestTimeout time.Duration `yaml:"request_timeout" env:"STYLELENS_REQUEST_TIMEOUT,default=180s"`

	// DataDir is where the session and keystore files live
	DataDir string `yaml:"data_dir" env:"STYLELENS_DATA_DIR"`

	// LogLevel is the minimum log level (debug, info, warn, error)
	LogLevel string `yaml:"log_level" env:"STYLELENS_LOG_LEVEL,default=warn"`

	// LogFormat is the log output format (text, json)
	LogFormat string `yaml:"log_format" env:"STYLELENS_LOG_FORMAT,default=text"`

	// CaptureDevice is the default camera device for live analysis
	CaptureDevice string `yaml:"capture_device" env:"STYLELENS_CAPTURE_DEVICE,default=/dev/video0"`

	// LiveInterval is the delay between live analysis frames
	LiveInterval time.Duration `yaml:"live_interval" env:"STYLELENS_LIVE_INTERVAL,default=5s"`
}

// Load resolves the configuration from the config file and environment.
//
// A .env file in the working directory is honored when present. The YAML
// file lives at <data dir>/config.yaml and is optional.
func Load() (*Config, error) {
	// Missing .env is the normal case, not an error.
	_ = godotenv.Load()

	cfg := &Config{}

	dataDir, err := defaultDataDir()
	if err != nil {
		return nil, err
	}

	if err := loadFile(filepath.Join(dataDir, "config.yaml"), cfg); err != nil {
		return nil, err
	}

	if err := envdecode.Decode(cfg); err != nil {
		return nil, errors.Wrap(errors.ErrCodeConfigEnv, "failed to decode environment", err).
			WithSuggestion("Check STYLELENS_* environment variables for malformed values")
	}

	if cfg.DataDir == "" {
		cfg.DataDir = dataDir
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks the configuration for values that cannot work.
func (c *Config) Validate() error {
	if c.APIURL == "" {
		return errors.New(errors.ErrCodeConfigInvalid, "api_url cannot be empty").
			WithSuggestion("Set STYLELENS_API_URL or api_url in config.yaml")
	}
	if c.RequestTimeout <= 0 {
		return errors.New(errors.ErrCodeConfigInvalid,
			fmt.Sprintf("request_timeout must be positive, got %v", c.RequestTimeout))
	}
	if c.LiveInterval < time.Second {
		return errors.New(errors.ErrCodeConfigInvalid,
			fmt.Sprintf("live_interval must be at least 1s, got %v", c.LiveInterval)).
			WithSuggestion("Intervals below 1s would hammer the analysis endpoint")
	}
	return nil
}

// SessionPath returns the path of the persisted session file.
func (c *Config) SessionPath() string {
	return filepath.Join(c.DataDir, "session.json")
}

// KeystorePath returns the path of the encrypted key/value store.
func (c *Config) KeystorePath() string {
	return filepath.Join(c.DataDir, "keystore.json")
}

// loadFile merges a YAML config file into cfg. A missing file is fine.
func loadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return errors.Wrap(errors.ErrCodeFileReadFailed, fmt.Sprintf("failed to read config file: %s", path), err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return errors.Wrap(errors.ErrCodeConfigInvalid, fmt.Sprintf("failed to parse config file: %s", path), err).
			WithSuggestion("Check the YAML syntax of the config file")
	}

	return nil
}

func defaultDataDir() (string, error) {
	if dir := os.Getenv("STYLELENS_DATA_DIR"); dir != "" {
		return dir, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeConfigInvalid, "cannot resolve home directory", err).
			WithSuggestion("Set STYLELENS_DATA_DIR explicitly")
	}
	return filepath.Join(home, ".stylelens"), nil
}
