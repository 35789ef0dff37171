// Package config centralises runtime configuration for strydcmd.
//
// Values resolve in three layers: struct defaults, then an optional YAML file,
// then STRYD_* environment variables. Command-line flags are applied on top by
// the CLI after loading.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists where the config file is searched, first hit wins.
var DefaultConfigPaths = []string{
	"strydcmd.yaml",
	"strydcmd.yml",
}

// ConfigPathEnvVar overrides the config file location when set.
const ConfigPathEnvVar = "STRYD_CONFIG"

// APIConfig holds vendor API settings. Credentials are environment-only and
// never read from the config file.
type APIConfig struct {
	BaseURL        string        `koanf:"base_url"`
	Email          string        `koanf:"-"`
	Password       string        `koanf:"-"`
	RequestTimeout time.Duration `koanf:"request_timeout"`
	RatePerSecond  float64       `koanf:"rate_per_second"`
	RateBurst      int           `koanf:"rate_burst"`
}

// DatabaseConfig locates the local activity mirror.
type DatabaseConfig struct {
	Path string `koanf:"path"`
}

// SyncConfig carries the sync run defaults.
type SyncConfig struct {
	Days      int  `koanf:"days"`
	BatchSize int  `koanf:"batch_size"`
	Force     bool `koanf:"force"`
}

// FITConfig locates the FIT binary output directory.
type FITConfig struct {
	OutputDir string `koanf:"output_dir"`
}

// LogConfig tunes console logging.
type LogConfig struct {
	Level string `koanf:"level"`
}

// MetricsConfig enables the optional Prometheus listener for long runs.
// Empty address disables it.
type MetricsConfig struct {
	Address string `koanf:"address"`
}

// Config is the root configuration document.
type Config struct {
	API      APIConfig      `koanf:"api"`
	Database DatabaseConfig `koanf:"database"`
	Sync     SyncConfig     `koanf:"sync"`
	FIT      FITConfig      `koanf:"fit"`
	Log      LogConfig      `koanf:"log"`
	Metrics  MetricsConfig  `koanf:"metrics"`
}

func defaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        "https://www.stryd.com/b",
			RequestTimeout: 30 * time.Second,
			RatePerSecond:  4,
			RateBurst:      2,
		},
		Database: DatabaseConfig{Path: "stryd_activities.db"},
		Sync:     SyncConfig{Days: 30, BatchSize: 10},
		FIT:      FITConfig{OutputDir: "fit_files"},
		Log:      LogConfig{Level: "info"},
	}
}

// Load resolves the configuration from defaults, config file, and environment.
func Load() (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("load defaults: %w", err)
	}

	if path := findConfigFile(); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	// STRYD_SYNC_BATCH_SIZE -> sync.batch_size
	if err := k.Load(env.Provider("STRYD_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "STRYD_")), "_", ".", 1)
	}), nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	cfg.API.Email = os.Getenv("STRYD_EMAIL")
	cfg.API.Password = os.Getenv("STRYD_PASSWORD")

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the sync engine cannot run with.
func (c *Config) Validate() error {
	if c.Sync.BatchSize < 1 {
		return fmt.Errorf("sync.batch_size must be >= 1, got %d", c.Sync.BatchSize)
	}
	if c.Sync.Days < 1 {
		return fmt.Errorf("sync.days must be >= 1, got %d", c.Sync.Days)
	}
	if c.Database.Path == "" {
		return fmt.Errorf("database.path must not be empty")
	}
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url must not be empty")
	}
	if c.API.RequestTimeout <= 0 {
		return fmt.Errorf("api.request_timeout must be positive")
	}
	return nil
}

// RequireCredentials fails when the vendor credentials are absent. Commands
// that only read the local mirror skip this check.
func (c *Config) RequireCredentials() error {
	if c.API.Email == "" || c.API.Password == "" {
		return fmt.Errorf("STRYD_EMAIL and STRYD_PASSWORD must be set")
	}
	return nil
}

func findConfigFile() string {
	if path := os.Getenv(ConfigPathEnvVar); path != "" {
		return path
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
