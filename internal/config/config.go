// Package config loads server settings from defaults, an optional TOML file
// and the environment, in that order.
package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

const (
	DefaultPort          = "3000"
	DefaultDriver        = "postgres"
	DefaultCacheTTL      = 5 * time.Minute
	DefaultAuditInterval = 10 * time.Minute
	DefaultLogLevel      = "info"
	DefaultConfigFile    = "taskboard.toml"
)

// Config holds the server configuration.
type Config struct {
	Port           string `toml:"port"`
	DBDriver       string `toml:"db_driver"` // postgres or sqlite
	DatabaseURL    string `toml:"database_url"`
	JWTSecret      string `toml:"jwt_secret"`
	RedisURL       string `toml:"redis_url"`
	LogLevel       string `toml:"log_level"`
	ClientURL      string `toml:"client_url"`
	AllowedOrigins string `toml:"allowed_origins"`
	Domain         string `toml:"domain"`

	BoardCacheTTL Duration `toml:"board_cache_ttl"`
	AuditInterval Duration `toml:"audit_interval"`
}

// Duration decodes TOML strings such as "30s" or "5m".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = parsed
	return nil
}

// Load builds the configuration. path may be empty, in which case
// CONFIG_FILE or taskboard.toml in the working directory is used if present.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	setDefaults(cfg)

	if path == "" {
		path = findConfigFile()
	}
	if path != "" {
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}

	if err := loadFromEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(cfg *Config) {
	cfg.Port = DefaultPort
	cfg.DBDriver = DefaultDriver
	cfg.LogLevel = DefaultLogLevel
	cfg.BoardCacheTTL = Duration{DefaultCacheTTL}
	cfg.AuditInterval = Duration{DefaultAuditInterval}
}

func findConfigFile() string {
	if v := os.Getenv("CONFIG_FILE"); v != "" {
		return v
	}
	if _, err := os.Stat(DefaultConfigFile); err == nil {
		return DefaultConfigFile
	}
	return ""
}

func loadFromEnv(cfg *Config) error {
	strs := map[string]*string{
		"PORT":            &cfg.Port,
		"DB_DRIVER":       &cfg.DBDriver,
		"DATABASE_URL":    &cfg.DatabaseURL,
		"JWT_SECRET":      &cfg.JWTSecret,
		"REDIS_URL":       &cfg.RedisURL,
		"LOG_LEVEL":       &cfg.LogLevel,
		"CLIENT_URL":      &cfg.ClientURL,
		"ALLOWED_ORIGINS": &cfg.AllowedOrigins,
		"DOMAIN":          &cfg.Domain,
	}
	for key, dst := range strs {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	durations := map[string]*Duration{
		"BOARD_CACHE_TTL": &cfg.BoardCacheTTL,
		"AUDIT_INTERVAL":  &cfg.AuditInterval,
	}
	for key, dst := range durations {
		v := os.Getenv(key)
		if v == "" {
			continue
		}
		if err := dst.UnmarshalText([]byte(v)); err != nil {
			return fmt.Errorf("parsing %s: %w", key, err)
		}
	}
	return nil
}

// Validate reports settings the server cannot start without.
func (c *Config) Validate() error {
	c.DBDriver = strings.ToLower(strings.TrimSpace(c.DBDriver))

	switch c.DBDriver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("unsupported db_driver %q", c.DBDriver)
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if c.BoardCacheTTL.Duration <= 0 {
		return fmt.Errorf("board_cache_ttl must be positive")
	}
	if c.AuditInterval.Duration < 0 {
		return fmt.Errorf("audit_interval must not be negative")
	}
	return nil
}
