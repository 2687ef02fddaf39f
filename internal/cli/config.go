package cli

import (
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/forcegraph/pkg/errors"
	"github.com/matzehuels/forcegraph/pkg/pipeline"
)

// Config holds CLI defaults loaded from the TOML config file. Flags always
// override config values; config values override built-in defaults.
type Config struct {
	// Layout defaults
	Iterations int     `toml:"iterations"`
	Optimal    float64 `toml:"optimal"`
	Seed       uint64  `toml:"seed"`

	// Render defaults
	Scale  float64 `toml:"scale"`
	Labels bool    `toml:"labels"`

	// Cache backend. RedisURL takes precedence over CacheDir.
	CacheDir string `toml:"cache_dir"`
	RedisURL string `toml:"redis_url"`

	// Server defaults
	Addr string `toml:"addr"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		Iterations: pipeline.DefaultIterations,
		Seed:       pipeline.DefaultSeed,
		Addr:       ":8080",
	}
}

// LoadConfig reads a TOML config file and merges it over the defaults.
// A missing file is not an error; the defaults are returned.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return cfg, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if cfg.Iterations <= 0 {
		cfg.Iterations = pipeline.DefaultIterations
	}
	if cfg.Seed == 0 {
		cfg.Seed = pipeline.DefaultSeed
	}
	if cfg.Addr == "" {
		cfg.Addr = ":8080"
	}
	return cfg, nil
}

// configPath returns the config file path using XDG standard
// (~/.config/forcegraph/config.toml).
func configPath() string {
	if configHome := os.Getenv("XDG_CONFIG_HOME"); configHome != "" {
		return filepath.Join(configHome, appName, "config.toml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", appName, "config.toml")
}
