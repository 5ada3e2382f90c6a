// Package config loads dotametrics settings from ~/.dotametrics/config.toml,
// optional .env files and the process environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Environment variables that override the config file.
const (
	EnvAPIKey = "OPENDOTA_API_KEY"
	EnvDBPath = "DOTAMETRICS_DB"
)

// DirName is the per-user settings directory under $HOME.
const DirName = ".dotametrics"

// Config holds all settings.
type Config struct {
	Store    StoreConfig    `toml:"store"`
	OpenDota OpenDotaConfig `toml:"opendota"`
	Analysis AnalysisConfig `toml:"analysis"`
}

type StoreConfig struct {
	DBPath string `toml:"db_path"`
}

type OpenDotaConfig struct {
	BaseURL           string `toml:"base_url"`
	APIKey            string `toml:"api_key"`
	RequestsPerMinute int    `toml:"requests_per_minute"`
	Timeout           string `toml:"timeout"` // e.g. "30s"
}

type AnalysisConfig struct {
	// AllModes disables the All Pick filter in every view.
	AllModes bool `toml:"all_modes"`
}

// Dir returns ~/.dotametrics, or ".dotametrics" when $HOME is unknown.
func Dir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DirName
	}
	return filepath.Join(home, DirName)
}

// DefaultPath is the config file location.
func DefaultPath() string {
	return filepath.Join(Dir(), "config.toml")
}

// DefaultConfig returns the settings used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			DBPath: filepath.Join(Dir(), "matches.db"),
		},
		OpenDota: OpenDotaConfig{
			BaseURL:           "https://api.opendota.com/api",
			RequestsPerMinute: 60,
			Timeout:           "30s",
		},
	}
}

// Load reads the config file at path over the defaults. A missing file is not
// an error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config as TOML, creating the parent directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate checks value ranges and formats.
func (c *Config) Validate() error {
	if _, err := time.ParseDuration(c.OpenDota.Timeout); err != nil {
		return fmt.Errorf("invalid opendota timeout %q: %w", c.OpenDota.Timeout, err)
	}
	if c.OpenDota.RequestsPerMinute < 0 {
		return fmt.Errorf("requests_per_minute cannot be negative: %d", c.OpenDota.RequestsPerMinute)
	}
	return nil
}

// RequestTimeout returns the parsed OpenDota timeout.
func (c *Config) RequestTimeout() time.Duration {
	d, err := time.ParseDuration(c.OpenDota.Timeout)
	if err != nil {
		return 30 * time.Second
	}
	return d
}

// ReadEnv merges the given .env files (missing ones are skipped) with the
// process environment, which wins. The process environment is not modified.
func ReadEnv(paths ...string) (map[string]string, error) {
	env := make(map[string]string)
	for _, p := range paths {
		vals, err := godotenv.Read(p)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		for k, v := range vals {
			env[k] = v
		}
	}
	for _, k := range []string{EnvAPIKey, EnvDBPath} {
		if v, ok := os.LookupEnv(k); ok && v != "" {
			env[k] = v
		}
	}
	return env, nil
}

// ApplyEnv overrides settings with non-empty environment values.
func (c *Config) ApplyEnv(env map[string]string) {
	if v := env[EnvAPIKey]; v != "" {
		c.OpenDota.APIKey = v
	}
	if v := env[EnvDBPath]; v != "" {
		c.Store.DBPath = v
	}
}

// LoadAPIKeyFile fills an empty API key from <dir>/opendota_api_key.
func (c *Config) LoadAPIKeyFile(dir string) {
	if c.OpenDota.APIKey != "" {
		return
	}
	data, err := os.ReadFile(filepath.Join(dir, "opendota_api_key"))
	if err != nil {
		return
	}
	c.OpenDota.APIKey = strings.TrimSpace(string(data))
}

// Resolve loads path, then the .env files in envPaths, then the key file in
// Dir(). The result is what commands run with.
func Resolve(path string, envPaths ...string) (*Config, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}
	env, err := ReadEnv(envPaths...)
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(env)
	cfg.LoadAPIKeyFile(Dir())
	return cfg, nil
}
