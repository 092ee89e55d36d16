package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/momentumx/momentumx/internal/constants"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Database != constants.DefaultConfigPath {
		t.Errorf("Database = %q, want %q", cfg.Database, constants.DefaultConfigPath)
	}
	if cfg.License.CacheTTL != constants.DefaultLicenseCacheTTL {
		t.Errorf("CacheTTL = %v, want %v", cfg.License.CacheTTL, constants.DefaultLicenseCacheTTL)
	}
	if cfg.License.MaxAttempts != constants.DefaultLicenseAttempts {
		t.Errorf("MaxAttempts = %d, want %d", cfg.License.MaxAttempts, constants.DefaultLicenseAttempts)
	}
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
database = "/tmp/mx.db"
debug = true

[license]
endpoint = "https://licenses.example.com/verify"
product_id = "mx-pro"
cache_ttl = "6h"
max_attempts = 3
attempt_window = "30s"
grace_period = "72h"

[export]
dir = "/tmp/exports"

[log]
level = "info"
max_backups = 5
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Database != "/tmp/mx.db" {
		t.Errorf("Database = %q", cfg.Database)
	}
	if !cfg.Debug {
		t.Error("Debug = false, want true")
	}
	if cfg.License.ProductID != "mx-pro" {
		t.Errorf("ProductID = %q", cfg.License.ProductID)
	}
	if cfg.License.CacheTTL != 6*time.Hour {
		t.Errorf("CacheTTL = %v, want 6h", cfg.License.CacheTTL)
	}
	if cfg.License.AttemptWindow != 30*time.Second {
		t.Errorf("AttemptWindow = %v, want 30s", cfg.License.AttemptWindow)
	}
	if cfg.License.MaxAttempts != 3 {
		t.Errorf("MaxAttempts = %d, want 3", cfg.License.MaxAttempts)
	}
	if cfg.License.Timeout != constants.DefaultLicenseHTTPTimeout {
		t.Errorf("Timeout = %v, want default", cfg.License.Timeout)
	}
	if cfg.Export.Dir != "/tmp/exports" {
		t.Errorf("Export.Dir = %q", cfg.Export.Dir)
	}
	if cfg.License.GracePeriod != 72*time.Hour {
		t.Errorf("GracePeriod = %v, want 72h", cfg.License.GracePeriod)
	}
	if cfg.Log.Level != "info" || cfg.Log.MaxBackups != 5 || cfg.Log.MaxSizeMB != 10 {
		t.Errorf("Log = %+v", cfg.Log)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	path := writeConfig(t, `databse = "/tmp/typo.db"`)

	_, err := Load(path)
	if err == nil {
		t.Fatal("expected error for unknown key")
	}
	if !strings.Contains(err.Error(), "databse") {
		t.Errorf("error %q should name the unknown key", err)
	}
}

func TestLoadRejectsMalformedFile(t *testing.T) {
	path := writeConfig(t, `database = `)
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"MOMENTUMX_DATABASE":          "/from/env.db",
		constants.EnvDBConnection:     "postgresql://mx@localhost:5432/mx",
		"MOMENTUMX_DEBUG":             "true",
		"MOMENTUMX_LICENSE_CACHE_TTL": "2h",
		"MOMENTUMX_LOG_LEVEL":         "debug",
	}
	lookup := func(k string) (string, bool) {
		v, ok := env[k]
		return v, ok
	}

	cfg := Default()
	if err := cfg.ApplyEnv(lookup); err != nil {
		t.Fatalf("ApplyEnv failed: %v", err)
	}
	if cfg.Database != "/from/env.db" {
		t.Errorf("Database = %q, want /from/env.db", cfg.Database)
	}
	if cfg.DBConnection != "postgresql://mx@localhost:5432/mx" {
		t.Errorf("DBConnection = %q", cfg.DBConnection)
	}
	if cfg.IsPostgres() {
		t.Error("IsPostgres() = true for a file database")
	}
	if !cfg.Debug {
		t.Error("Debug = false, want true")
	}
	if cfg.License.CacheTTL != 2*time.Hour {
		t.Errorf("CacheTTL = %v, want 2h", cfg.License.CacheTTL)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", cfg.Log.Level)
	}
}

func TestApplyEnvInvalidValues(t *testing.T) {
	for _, key := range []string{"MOMENTUMX_DEBUG", "MOMENTUMX_LICENSE_CACHE_TTL"} {
		t.Run(key, func(t *testing.T) {
			lookup := func(k string) (string, bool) {
				if k == key {
					return "not-valid", true
				}
				return "", false
			}
			cfg := Default()
			if err := cfg.ApplyEnv(lookup); err == nil {
				t.Errorf("expected error for invalid %s", key)
			}
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}

	got, err := ExpandPath("~/.config/momentumx/momentumx.db")
	if err != nil {
		t.Fatalf("ExpandPath failed: %v", err)
	}
	if want := filepath.Join(home, ".config/momentumx/momentumx.db"); got != want {
		t.Errorf("ExpandPath = %q, want %q", got, want)
	}

	if got, _ := ExpandPath("/abs/path.db"); got != "/abs/path.db" {
		t.Errorf("absolute path changed to %q", got)
	}
}
