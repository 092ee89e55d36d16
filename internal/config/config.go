// Package config loads the momentumx configuration file and environment overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/momentumx/momentumx/internal/constants"
)

// Config represents the config.toml file after defaults and overrides are applied.
type Config struct {
	// Database is a SQLite file path or a PostgreSQL connection string.
	Database string `toml:"database"`
	// DBConnection is a PostgreSQL connection string taken from the environment.
	// Unlike Database it may carry a password, and it wins over Database.
	DBConnection string  `toml:"-"`
	Debug        bool    `toml:"debug"`
	Timezone     string  `toml:"timezone"`
	License      License `toml:"license"`
	Export       Export  `toml:"export"`
	Log          Log     `toml:"log"`
}

// Log configures the rotating log file.
type Log struct {
	Level      string `toml:"level"`
	MaxSizeMB  int    `toml:"max_size_mb"`
	MaxBackups int    `toml:"max_backups"`
	MaxAgeDays int    `toml:"max_age_days"`
}

// License configures the license verification collaborator.
type License struct {
	Endpoint  string `toml:"endpoint"`
	ProductID string `toml:"product_id"`
	// CacheTTL is how long a resolved tier is trusted before re-validation.
	CacheTTL time.Duration `toml:"cache_ttl"`
	// GracePeriod is how long after CacheTTL a tier that cannot be re-validated is kept.
	GracePeriod   time.Duration `toml:"grace_period"`
	MaxAttempts   int           `toml:"max_attempts"`
	AttemptWindow time.Duration `toml:"attempt_window"`
	Timeout       time.Duration `toml:"timeout"`
}

// Export configures data export.
type Export struct {
	Dir string `toml:"dir"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Database: constants.DefaultConfigPath,
		Timezone: constants.DefaultTimezone,
		License: License{
			Endpoint:      constants.DefaultLicenseEndpoint,
			CacheTTL:      constants.DefaultLicenseCacheTTL,
			GracePeriod:   constants.DefaultLicenseGrace,
			MaxAttempts:   constants.DefaultLicenseAttempts,
			AttemptWindow: constants.DefaultLicenseWindow,
			Timeout:       constants.DefaultLicenseHTTPTimeout,
		},
		Export: Export{Dir: "."},
		Log:    Log{Level: "warn", MaxSizeMB: 10, MaxBackups: 3, MaxAgeDays: 28},
	}
}

// DefaultPath returns the location of the global config file.
func DefaultPath() (string, error) {
	return ExpandPath(filepath.Join(constants.DefaultConfigDir, constants.ConfigFileName))
}

// Load reads the config file at path on top of the defaults, then applies
// MOMENTUMX_* environment overrides. A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
	case err != nil:
		return Config{}, fmt.Errorf("read config file %s: %w", path, err)
	default:
		meta, err := toml.Decode(string(data), &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return Config{}, fmt.Errorf("parse config file %s: unknown key %q", path, undecoded[0].String())
		}
	}

	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	cfg.normalize()
	return cfg, nil
}

// ApplyEnv overrides fields from environment variables resolved through lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookup("MOMENTUMX_DATABASE"); ok && v != "" {
		c.Database = v
	}
	if v, ok := lookup(constants.EnvDBConnection); ok && v != "" {
		c.DBConnection = strings.TrimSpace(v)
	}
	if v, ok := lookup("MOMENTUMX_DEBUG"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("MOMENTUMX_DEBUG: %w", err)
		}
		c.Debug = b
	}
	if v, ok := lookup("MOMENTUMX_LOG_LEVEL"); ok && v != "" {
		c.Log.Level = v
	}
	if v, ok := lookup("MOMENTUMX_TIMEZONE"); ok && v != "" {
		c.Timezone = v
	}
	if v, ok := lookup("MOMENTUMX_LICENSE_ENDPOINT"); ok && v != "" {
		c.License.Endpoint = v
	}
	if v, ok := lookup("MOMENTUMX_LICENSE_PRODUCT_ID"); ok && v != "" {
		c.License.ProductID = v
	}
	if v, ok := lookup("MOMENTUMX_LICENSE_CACHE_TTL"); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("MOMENTUMX_LICENSE_CACHE_TTL: %w", err)
		}
		c.License.CacheTTL = d
	}
	return nil
}

// normalize replaces unusable values with defaults.
func (c *Config) normalize() {
	def := Default()
	c.Database = strings.TrimSpace(c.Database)
	if c.Database == "" {
		c.Database = def.Database
	}
	if c.Timezone == "" {
		c.Timezone = def.Timezone
	}
	if c.License.Endpoint == "" {
		c.License.Endpoint = def.License.Endpoint
	}
	if c.License.CacheTTL <= 0 {
		c.License.CacheTTL = def.License.CacheTTL
	}
	if c.License.GracePeriod <= 0 {
		c.License.GracePeriod = def.License.GracePeriod
	}
	if c.License.MaxAttempts <= 0 {
		c.License.MaxAttempts = def.License.MaxAttempts
	}
	if c.License.AttemptWindow <= 0 {
		c.License.AttemptWindow = def.License.AttemptWindow
	}
	if c.License.Timeout <= 0 {
		c.License.Timeout = def.License.Timeout
	}
	if c.Export.Dir == "" {
		c.Export.Dir = def.Export.Dir
	}
	if strings.TrimSpace(c.Log.Level) == "" {
		c.Log.Level = def.Log.Level
	}
}

// IsPostgres reports whether the database setting is a PostgreSQL connection string.
func (c Config) IsPostgres() bool {
	return IsPostgresDSN(c.Database)
}

// IsPostgresDSN reports whether dsn looks like a PostgreSQL URL.
func IsPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// ExpandPath expands a leading ~ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path != "~" && !strings.HasPrefix(path, "~/") {
		return path, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
}
