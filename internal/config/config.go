// Package config handles configuration file loading and parsing.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Default configuration values.
const (
	DefaultReloadTimeout = "5s"
	DefaultBaseURL       = "https://github.com/"
	DefaultGit           = "git"
	DefaultDebounce      = "250ms"
	DefaultHistoryLimit  = 20
)

// Config represents the themey configuration.
type Config struct {
	Apply   ApplyConfig   `toml:"apply"`
	Pull    PullConfig    `toml:"pull"`
	History HistoryConfig `toml:"history"`
	Watch   WatchConfig   `toml:"watch"`
}

// ApplyConfig holds options for `themey use`.
type ApplyConfig struct {
	Reload        bool   `toml:"reload"`         // Run reload actions after writing
	ReloadTimeout string `toml:"reload_timeout"` // Per-action timeout
	Atomic        bool   `toml:"atomic"`         // Roll back all targets if one write fails
}

// PullConfig holds options for `themey pull`.
type PullConfig struct {
	BaseURL string `toml:"base_url"` // Prepended to owner/repo slugs
	Git     string `toml:"git"`      // git binary
}

// HistoryConfig holds apply history options.
type HistoryConfig struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`  // Empty = DataPath(home)/history.jsonl
	Limit   int    `toml:"limit"` // Default entries shown by `themey history`
}

// WatchConfig holds options for `themey watch`.
type WatchConfig struct {
	Debounce string `toml:"debounce"`
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Apply: ApplyConfig{
			Reload:        true,
			ReloadTimeout: DefaultReloadTimeout,
			Atomic:        false,
		},
		Pull: PullConfig{
			BaseURL: DefaultBaseURL,
			Git:     DefaultGit,
		},
		History: HistoryConfig{
			Enabled: true,
			Limit:   DefaultHistoryLimit,
		},
		Watch: WatchConfig{
			Debounce: DefaultDebounce,
		},
	}
}

// ConfigPath returns the path to the config file.
// Uses XDG_CONFIG_HOME if set, otherwise ~/.config.
func ConfigPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, AppName, "config.toml")
}

// DataPath returns the data directory for homeDir.
// XDG_DATA_HOME is honoured only when homeDir is the user's own home,
// so an overridden home keeps all state beneath it.
func DataPath(homeDir string) string {
	if homeDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		homeDir = home
	}
	dataHome := filepath.Join(homeDir, ".local", "share")
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" && isUserHome(homeDir) {
		dataHome = xdg
	}
	return filepath.Join(dataHome, AppName)
}

func isUserHome(dir string) bool {
	home, err := os.UserHomeDir()
	return err == nil && filepath.Clean(home) == filepath.Clean(dir)
}

// HistoryPath returns the apply history file for homeDir.
func (c *Config) HistoryPath(homeDir string) string {
	if c.History.Path != "" {
		return c.History.Path
	}
	return filepath.Join(DataPath(homeDir), "history.jsonl")
}

// LoadConfig loads configuration from the specified path.
// If path is empty, uses the default config path.
// Returns default config if file doesn't exist.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = ConfigPath()
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return nil, err
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks duration fields parse.
func (c *Config) Validate() error {
	if _, err := time.ParseDuration(c.Apply.ReloadTimeout); err != nil {
		return fmt.Errorf("apply.reload_timeout: %w", err)
	}
	if _, err := time.ParseDuration(c.Watch.Debounce); err != nil {
		return fmt.Errorf("watch.debounce: %w", err)
	}
	if c.History.Limit < 0 {
		return errors.New("history.limit must not be negative")
	}
	return nil
}

// ReloadTimeout returns the parsed apply.reload_timeout.
func (c *Config) ReloadTimeout() time.Duration {
	d, err := time.ParseDuration(c.Apply.ReloadTimeout)
	if err != nil {
		d, _ = time.ParseDuration(DefaultReloadTimeout)
	}
	return d
}

// Debounce returns the parsed watch.debounce.
func (c *Config) Debounce() time.Duration {
	d, err := time.ParseDuration(c.Watch.Debounce)
	if err != nil {
		d, _ = time.ParseDuration(DefaultDebounce)
	}
	return d
}

// Save writes the configuration to the specified path.
// Creates parent directories if needed.
func (c *Config) Save(path string) error {
	if path == "" {
		path = ConfigPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0644)
}

// EnsureThemesDir creates the themes directory if it doesn't exist.
func EnsureThemesDir(homeDir string) error {
	if homeDir == "" {
		return errors.New("unable to determine home directory")
	}
	return os.MkdirAll(ThemesDir(homeDir), 0755)
}
