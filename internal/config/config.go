package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the service configuration.
type Config struct {
	Server    ServerConfig    `toml:"server"`
	Database  DatabaseConfig  `toml:"database"`
	Log       LogConfig       `toml:"log"`
	Auth      AuthConfig      `toml:"auth"`
	Generator GeneratorConfig `toml:"generator"`
	Catalog   CatalogConfig   `toml:"catalog"`
	Events    EventsConfig    `toml:"events"`
}

// ServerConfig contains HTTP listener settings.
type ServerConfig struct {
	Port           int      `toml:"port"`
	RequestTimeout string   `toml:"request_timeout"` // e.g. "60s"
	AllowedOrigins []string `toml:"allowed_origins"`
	CookieSecure   bool     `toml:"cookie_secure"`
}

// DatabaseConfig contains SQLite settings.
type DatabaseConfig struct {
	Path           string `toml:"path"`            // empty = ~/.obyyo/obyyo.db
	AutoMigrate    bool   `toml:"auto_migrate"`    // run migrations on startup
	BackupDir      string `toml:"backup_dir"`      // empty = <database dir>/backups
	BackupInterval string `toml:"backup_interval"` // "0s" disables scheduled backups
	BackupKeep     int    `toml:"backup_keep"`     // 0 keeps every backup
}

// LogConfig contains logging settings.
type LogConfig struct {
	Level   string `toml:"level"` // debug, info, warn, error
	NoColor bool   `toml:"no_color"`
}

// AuthConfig contains account and session settings.
type AuthConfig struct {
	SessionTTL        string  `toml:"session_ttl"`        // e.g. "168h"
	TrialPeriod       string  `toml:"trial_period"`       // e.g. "72h"
	LoginRatePerMin   float64 `toml:"login_rate_per_min"` // attempts per minute per IP
	LoginBurst        int     `toml:"login_burst"`
	MinPasswordLength int     `toml:"min_password_length"`
}

// GeneratorConfig contains number generator settings.
type GeneratorConfig struct {
	MaxCombinations int    `toml:"max_combinations"`
	DefaultCount    int    `toml:"default_count"`
	SimulatedDelay  string `toml:"simulated_delay"` // "0s" disables
}

// CatalogConfig selects where non-viable tables come from.
type CatalogConfig struct {
	Source          string  `toml:"source"` // static, file, remote
	FilePath        string  `toml:"file_path"`
	Watch           bool    `toml:"watch"`
	RemoteURL       string  `toml:"remote_url"`
	RefreshInterval string  `toml:"refresh_interval"`
	RemoteRatePerS  float64 `toml:"remote_rate_per_s"`
}

// EventsConfig contains event forwarding settings.
type EventsConfig struct {
	NATSURL       string `toml:"nats_url"` // empty disables NATS forwarding
	SubjectPrefix string `toml:"subject_prefix"`
}

// Catalog sources.
const (
	CatalogStatic = "static"
	CatalogFile   = "file"
	CatalogRemote = "remote"
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Port:           8080,
			RequestTimeout: "60s",
			AllowedOrigins: []string{"http://localhost:*", "http://127.0.0.1:*", "https://localhost:*"},
		},
		Database: DatabaseConfig{
			Path:           "",
			AutoMigrate:    true,
			BackupInterval: "0s",
			BackupKeep:     7,
		},
		Log: LogConfig{
			Level: "info",
		},
		Auth: AuthConfig{
			SessionTTL:        "168h",
			TrialPeriod:       "72h",
			LoginRatePerMin:   10,
			LoginBurst:        5,
			MinPasswordLength: 8,
		},
		Generator: GeneratorConfig{
			MaxCombinations: 100,
			DefaultCount:    5,
			SimulatedDelay:  "0s",
		},
		Catalog: CatalogConfig{
			Source:          CatalogStatic,
			Watch:           true,
			RefreshInterval: "15m",
			RemoteRatePerS:  1,
		},
		Events: EventsConfig{
			SubjectPrefix: "obyyo.events",
		},
	}
}

// Dir returns the service's home directory, creating it if needed.
func Dir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}

	dir := filepath.Join(homeDir, ".obyyo")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create config directory: %w", err)
	}
	return dir, nil
}

// DefaultPath returns ~/.obyyo/config.toml.
func DefaultPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the configuration at path, or the default path when empty.
// A missing file yields the default config. Keys absent from the file keep their defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration to path.
func (c *Config) Save(path string) error {
	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}
	return nil
}

// Validate validates the configuration values.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	durations := map[string]string{
		"server.request_timeout":    c.Server.RequestTimeout,
		"auth.session_ttl":          c.Auth.SessionTTL,
		"auth.trial_period":         c.Auth.TrialPeriod,
		"generator.simulated_delay": c.Generator.SimulatedDelay,
		"catalog.refresh_interval":  c.Catalog.RefreshInterval,
		"database.backup_interval":  c.Database.BackupInterval,
	}
	for key, value := range durations {
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", key, value, err)
		}
		if d < 0 {
			return fmt.Errorf("%s cannot be negative: %s", key, value)
		}
	}

	delay, timeout := c.GetSimulatedDelay(), c.GetRequestTimeout()
	if delay > 0 && timeout > 0 && delay >= timeout {
		return fmt.Errorf("generator.simulated_delay %s must be shorter than server.request_timeout %s", delay, timeout)
	}

	if c.Generator.MaxCombinations < 1 {
		return fmt.Errorf("generator max combinations must be positive: %d", c.Generator.MaxCombinations)
	}
	if c.Generator.DefaultCount < 1 || c.Generator.DefaultCount > c.Generator.MaxCombinations {
		return fmt.Errorf("generator default count %d outside 1-%d", c.Generator.DefaultCount, c.Generator.MaxCombinations)
	}

	if c.Database.BackupKeep < 0 {
		return fmt.Errorf("database backup_keep cannot be negative: %d", c.Database.BackupKeep)
	}

	if c.Auth.MinPasswordLength < 1 {
		return fmt.Errorf("auth min password length must be positive: %d", c.Auth.MinPasswordLength)
	}
	if c.Auth.LoginRatePerMin <= 0 || c.Auth.LoginBurst < 1 {
		return fmt.Errorf("auth login rate must be positive")
	}

	switch c.Catalog.Source {
	case CatalogStatic:
	case CatalogFile:
		if c.Catalog.FilePath == "" {
			return fmt.Errorf("catalog file_path is required for source %q", CatalogFile)
		}
	case CatalogRemote:
		if c.Catalog.RemoteURL == "" {
			return fmt.Errorf("catalog remote_url is required for source %q", CatalogRemote)
		}
		if c.Catalog.RemoteRatePerS <= 0 {
			return fmt.Errorf("catalog remote_rate_per_s must be positive")
		}
	default:
		return fmt.Errorf("unknown catalog source %q", c.Catalog.Source)
	}

	return nil
}

// DatabasePath returns the configured database path or ~/.obyyo/obyyo.db.
func (c *Config) DatabasePath() (string, error) {
	if c.Database.Path != "" {
		return c.Database.Path, nil
	}
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "obyyo.db"), nil
}

// GetRequestTimeout returns the HTTP request timeout.
func (c *Config) GetRequestTimeout() time.Duration {
	return mustDuration(c.Server.RequestTimeout)
}

// GetSessionTTL returns how long a session stays valid.
func (c *Config) GetSessionTTL() time.Duration {
	return mustDuration(c.Auth.SessionTTL)
}

// GetTrialPeriod returns the free trial length of a new account.
func (c *Config) GetTrialPeriod() time.Duration {
	return mustDuration(c.Auth.TrialPeriod)
}

// GetSimulatedDelay returns the artificial generation delay.
func (c *Config) GetSimulatedDelay() time.Duration {
	return mustDuration(c.Generator.SimulatedDelay)
}

// GetRefreshInterval returns the remote catalog refresh interval.
func (c *Config) GetRefreshInterval() time.Duration {
	return mustDuration(c.Catalog.RefreshInterval)
}

// GetBackupInterval returns the scheduled backup interval, zero when disabled.
func (c *Config) GetBackupInterval() time.Duration {
	return mustDuration(c.Database.BackupInterval)
}

// mustDuration parses a duration already checked by Validate. Invalid input yields zero.
func mustDuration(s string) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0
	}
	return d
}
