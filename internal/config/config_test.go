package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Holidays.Provider != ProviderNone {
		t.Errorf("expected provider none, got %s", cfg.Holidays.Provider)
	}
	if cfg.Holidays.Country != "US" {
		t.Errorf("expected country US, got %s", cfg.Holidays.Country)
	}
	if cfg.UI.StartPage != PageMonth {
		t.Errorf("expected start_page month, got %s", cfg.UI.StartPage)
	}
	if cfg.HolidayTimeout() != 10*time.Second {
		t.Errorf("expected timeout 10s, got %s", cfg.HolidayTimeout())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config is invalid: %v", err)
	}
}

func TestLoadFrom_FileNotExists(t *testing.T) {
	cfg, err := LoadFrom("/nonexistent/path/config.toml")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Should return defaults
	if cfg.UI.Theme != "frappe" {
		t.Errorf("expected default theme, got %s", cfg.UI.Theme)
	}
}

func TestLoadFrom_ValidFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[storage]
db_path = "/tmp/test.db"

[holidays]
provider = "calendarific"
api_key = "secret"
country = "GB"
region = ""
timeout = "3s"

[ui]
theme = "latte"
start_page = "week"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Storage.DBPath != "/tmp/test.db" {
		t.Errorf("expected db_path /tmp/test.db, got %s", cfg.Storage.DBPath)
	}
	if cfg.Holidays.Country != "GB" || cfg.Holidays.Region != "" {
		t.Errorf("unexpected location %s/%s", cfg.Holidays.Country, cfg.Holidays.Region)
	}
	if cfg.HolidayTimeout() != 3*time.Second {
		t.Errorf("expected timeout 3s, got %s", cfg.HolidayTimeout())
	}
	// Unset keys keep their defaults
	if cfg.HolidayCacheTTL() != 24*time.Hour {
		t.Errorf("expected default cache_ttl, got %s", cfg.HolidayCacheTTL())
	}
	if cfg.UI.StartPage != PageWeek {
		t.Errorf("expected start_page week, got %s", cfg.UI.StartPage)
	}
	if !cfg.HolidaysEnabled() {
		t.Error("expected holidays to be enabled")
	}
}

func TestLoadFrom_InvalidToml(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, []byte("[ui\ntheme ="), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	if _, err := LoadFrom(configPath); err == nil {
		t.Error("expected error for invalid toml")
	}
}

func TestLoadFrom_EnvOverrides(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.toml")

	content := `
[storage]
db_path = "/tmp/test.db"

[ui]
theme = "latte"
`
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	t.Setenv("CALENDO_DB_PATH", "/tmp/env.db")
	t.Setenv("CALENDO_HOLIDAYS_PROVIDER", "calendarific")
	t.Setenv("CALENDO_HOLIDAYS_API_KEY", "from-env")
	t.Setenv("CALENDO_LOG_LEVEL", "debug")

	cfg, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Env should override file
	if cfg.Storage.DBPath != "/tmp/env.db" {
		t.Errorf("expected db_path from env, got %s", cfg.Storage.DBPath)
	}
	// File value should be kept when no env override
	if cfg.UI.Theme != "latte" {
		t.Errorf("expected theme latte from file, got %s", cfg.UI.Theme)
	}
	// Env should override default
	if cfg.Holidays.APIKey != "from-env" {
		t.Errorf("expected api_key from env, got %s", cfg.Holidays.APIKey)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("expected log level debug, got %s", cfg.Log.Level)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty db path", func(c *Config) { c.Storage.DBPath = "" }},
		{"unknown provider", func(c *Config) { c.Holidays.Provider = "google" }},
		{"calendarific without key", func(c *Config) { c.Holidays.Provider = ProviderCalendarific }},
		{"file provider without file", func(c *Config) { c.Holidays.Provider = ProviderFile }},
		{"bad timeout", func(c *Config) { c.Holidays.Timeout = "ten seconds" }},
		{"negative cache ttl", func(c *Config) { c.Holidays.CacheTTL = "-1h" }},
		{"bad start page", func(c *Config) { c.UI.StartPage = "year" }},
		{"bad log level", func(c *Config) { c.Log.Level = "loud" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestValidate_FileProvider(t *testing.T) {
	cfg := Default()
	cfg.Holidays.Provider = ProviderFile
	cfg.Holidays.File = "/tmp/holidays.txt"
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestExpandPath(t *testing.T) {
	home, _ := os.UserHomeDir()

	tests := []struct {
		input string
		want  string
	}{
		{"~/test.db", filepath.Join(home, "test.db")},
		{"/absolute/path.db", "/absolute/path.db"},
		{"relative/path.db", "relative/path.db"},
		{"", ""},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			got := expandPath(tc.input)
			if got != tc.want {
				t.Errorf("expandPath(%q) = %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestSaveAndLoad(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "nested", "config.toml")

	cfg := Default()
	cfg.UI.Theme = "mocha"
	cfg.Holidays.Provider = ProviderFile
	cfg.Holidays.File = "/tmp/holidays.txt"
	cfg.Server.Addr = "127.0.0.1:9999"

	if err := cfg.SaveTo(configPath); err != nil {
		t.Fatalf("failed to save config: %v", err)
	}

	loaded, err := LoadFrom(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if loaded.UI.Theme != "mocha" {
		t.Errorf("expected theme mocha, got %s", loaded.UI.Theme)
	}
	if loaded.Holidays.File != "/tmp/holidays.txt" {
		t.Errorf("expected holidays file, got %s", loaded.Holidays.File)
	}
	if loaded.Server.Addr != "127.0.0.1:9999" {
		t.Errorf("expected server addr, got %s", loaded.Server.Addr)
	}
}
