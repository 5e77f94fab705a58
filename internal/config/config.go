// Package config handles configuration loading from files, defaults, and environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Holiday providers.
const (
	ProviderNone         = "none"
	ProviderCalendarific = "calendarific"
	ProviderFile         = "file"
)

// Start pages.
const (
	PageMonth = "month"
	PageWeek  = "week"
)

// Config holds the application configuration.
type Config struct {
	Storage  StorageConfig  `toml:"storage"`
	Holidays HolidaysConfig `toml:"holidays"`
	UI       UIConfig       `toml:"ui"`
	Log      LogConfig      `toml:"log"`
	Server   ServerConfig   `toml:"server"`
}

// StorageConfig holds database settings.
type StorageConfig struct {
	DBPath string `toml:"db_path"`
}

// HolidaysConfig holds holiday feed settings.
type HolidaysConfig struct {
	Provider string `toml:"provider"` // "none", "calendarific", "file"
	APIKey   string `toml:"api_key"`
	BaseURL  string `toml:"base_url"`
	Country  string `toml:"country"`   // e.g., "US"
	Region   string `toml:"region"`    // e.g., "us-ca"
	Timeout  string `toml:"timeout"`   // e.g., "10s"
	CacheTTL string `toml:"cache_ttl"` // e.g., "24h"
	File     string `toml:"file"`      // local list used by the "file" provider or as fallback
}

// UIConfig holds TUI settings.
type UIConfig struct {
	Theme     string `toml:"theme"`      // "mocha", "macchiato", "frappe", "latte", "light"
	StartPage string `toml:"start_page"` // "month" or "week"
}

// LogConfig holds logger settings.
type LogConfig struct {
	File  string `toml:"file"`
	Level string `toml:"level"` // "debug", "info", "warn", "error"
}

// ServerConfig holds local API settings.
type ServerConfig struct {
	Addr string `toml:"addr"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		Storage: StorageConfig{
			DBPath: defaultDataPath("calendo.db"),
		},
		Holidays: HolidaysConfig{
			Provider: ProviderNone,
			BaseURL:  "https://calendarific.com/api/v2/holidays",
			Country:  "US",
			Region:   "us-ca",
			Timeout:  "10s",
			CacheTTL: "24h",
		},
		UI: UIConfig{
			Theme:     "frappe",
			StartPage: PageMonth,
		},
		Log: LogConfig{
			File:  defaultDataPath("calendo.log"),
			Level: "info",
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:8089",
		},
	}
}

// defaultDataPath returns a path under the user's data directory.
func defaultDataPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return name
	}
	return filepath.Join(home, ".local", "share", "calendo", name)
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "config.toml"
	}
	return filepath.Join(home, ".config", "calendo", "config.toml")
}

// Load loads configuration from the default path, merging with defaults and env vars.
func Load() (*Config, error) {
	return LoadFrom(DefaultConfigPath())
}

// LoadFrom loads configuration from the specified path.
// It starts with defaults, overlays file config if it exists, then applies env overrides.
func LoadFrom(path string) (*Config, error) {
	cfg := Default()

	// Try to load from file (not an error if it doesn't exist)
	if err := loadFromFile(path, cfg); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	cfg.Storage.DBPath = expandPath(cfg.Storage.DBPath)
	cfg.Holidays.File = expandPath(cfg.Holidays.File)
	cfg.Log.File = expandPath(cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// loadFromFile loads config from a file if it exists.
func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File doesn't exist, use defaults
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config.
// Environment variables take precedence over file config.
func applyEnvOverrides(cfg *Config) {
	overrides := []struct {
		env    string
		target *string
	}{
		{"CALENDO_DB_PATH", &cfg.Storage.DBPath},
		{"CALENDO_UI_THEME", &cfg.UI.Theme},
		{"CALENDO_UI_START_PAGE", &cfg.UI.StartPage},
		{"CALENDO_HOLIDAYS_PROVIDER", &cfg.Holidays.Provider},
		{"CALENDO_HOLIDAYS_API_KEY", &cfg.Holidays.APIKey},
		{"CALENDO_HOLIDAYS_COUNTRY", &cfg.Holidays.Country},
		{"CALENDO_HOLIDAYS_REGION", &cfg.Holidays.Region},
		{"CALENDO_LOG_LEVEL", &cfg.Log.Level},
		{"CALENDO_LOG_FILE", &cfg.Log.File},
	}
	for _, o := range overrides {
		if v := os.Getenv(o.env); v != "" {
			*o.target = v
		}
	}
}

// expandPath expands ~ to the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Storage.DBPath == "" {
		return errors.New("db_path must be set")
	}

	switch c.Holidays.Provider {
	case ProviderNone:
	case ProviderCalendarific:
		if c.Holidays.APIKey == "" {
			return errors.New("holidays.api_key must be set for the calendarific provider")
		}
		if c.Holidays.BaseURL == "" {
			return errors.New("holidays.base_url must be set for the calendarific provider")
		}
	case ProviderFile:
		if c.Holidays.File == "" {
			return errors.New("holidays.file must be set for the file provider")
		}
	default:
		return fmt.Errorf("invalid holidays provider: %q", c.Holidays.Provider)
	}
	if _, err := parseDuration(c.Holidays.Timeout, "holidays.timeout"); err != nil {
		return err
	}
	if _, err := parseDuration(c.Holidays.CacheTTL, "holidays.cache_ttl"); err != nil {
		return err
	}

	switch c.UI.StartPage {
	case PageMonth, PageWeek:
	default:
		return fmt.Errorf("invalid start_page: %q", c.UI.StartPage)
	}

	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level: %q", c.Log.Level)
	}

	return nil
}

// HolidayTimeout returns the HTTP timeout for holiday requests.
func (c *Config) HolidayTimeout() time.Duration {
	d, _ := parseDuration(c.Holidays.Timeout, "holidays.timeout")
	return d
}

// HolidayCacheTTL returns how long fetched holidays are reused.
func (c *Config) HolidayCacheTTL() time.Duration {
	d, _ := parseDuration(c.Holidays.CacheTTL, "holidays.cache_ttl")
	return d
}

// HolidaysEnabled returns true if a holiday provider is configured.
func (c *Config) HolidaysEnabled() bool {
	return c.Holidays.Provider != "" && c.Holidays.Provider != ProviderNone
}

// parseDuration accepts Go duration strings; empty means zero.
func parseDuration(s, field string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d < 0 {
		return 0, fmt.Errorf("%s must be a duration like 10s, got %q", field, s)
	}
	return d, nil
}

// Save writes the configuration to the default path.
func (c *Config) Save() error {
	return c.SaveTo(DefaultConfigPath())
}

// SaveTo writes the configuration to the specified path.
func (c *Config) SaveTo(path string) error {
	// Ensure directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}

	return nil
}
