package config

import (
	"strings"
	"testing"
	"time"
)

func validConfig() Config {
	cfg := Config{
		HTTP:     HTTPConfig{Port: 8080},
		Database: DatabaseConfig{DSN: "postgres://localhost/cookfind"},
	}
	cfg.ApplyDefaults()
	return cfg
}

func TestValidate_Valid(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_Driver(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"postgres without dsn", func(c *Config) { c.Database.DSN = "" }, "database.dsn"},
		{"fixtures without path", func(c *Config) { c.Source.Driver = DriverFixtures }, "source.fixtures"},
		{"unknown driver", func(c *Config) { c.Source.Driver = "mongo" }, "source.driver"},
		{"cache without addrs", func(c *Config) { c.Cache.Enabled = true }, "cache.addrs"},
		{"page size above 100", func(c *Config) { c.Search.MaxPageSize = 500 }, "max_page_size"},
		{"default above max", func(c *Config) { c.Search.DefaultPageSize = 80; c.Search.MaxPageSize = 50 }, "default_page_size"},
		{"limit above 50", func(c *Config) { c.Autocomplete.MaxLimit = 51 }, "max_limit"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := validConfig()
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error %q does not mention %q", err, tc.wantErr)
			}
		})
	}
}

func TestValidate_FixturesDriver(t *testing.T) {
	cfg := validConfig()
	cfg.Source = SourceConfig{Driver: DriverFixtures, Fixtures: "fixtures/sample.yaml"}
	cfg.Database.DSN = ""

	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Source.Driver != DriverPostgres {
		t.Errorf("expected driver=%q, got %q", DriverPostgres, cfg.Source.Driver)
	}
	if cfg.Cache.KeyPrefix != "cookfind:" {
		t.Errorf("expected KeyPrefix='cookfind:', got %q", cfg.Cache.KeyPrefix)
	}
	if cfg.Search.DefaultPageSize != 20 {
		t.Errorf("expected DefaultPageSize=20, got %d", cfg.Search.DefaultPageSize)
	}
	if cfg.Search.FetchTimeout() != 2*time.Second {
		t.Errorf("expected FetchTimeout=2s, got %s", cfg.Search.FetchTimeout())
	}
	if cfg.Search.PoolSize != 64 {
		t.Errorf("expected PoolSize=64, got %d", cfg.Search.PoolSize)
	}
	if cfg.Autocomplete.DefaultLimit != 10 || cfg.Autocomplete.MaxLimit != 50 {
		t.Errorf("unexpected autocomplete limits: %+v", cfg.Autocomplete)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:   HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Cache:  CacheConfig{KeyPrefix: "custom:", PageTTLSec: 5},
		Search: SearchConfig{DefaultPageSize: 50, FetchTimeoutMs: 250},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("expected WriteTimeoutSec=60, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Cache.KeyPrefix != "custom:" || cfg.Cache.PageTTLSec != 5 {
		t.Errorf("cache overridden: %+v", cfg.Cache)
	}
	if cfg.Search.FetchTimeout() != 250*time.Millisecond {
		t.Errorf("expected 250ms, got %s", cfg.Search.FetchTimeout())
	}
}

func TestParse_ExpandsEnv(t *testing.T) {
	t.Setenv("COOKFIND_TEST_DSN", "postgres://db/cookfind")
	data := []byte(`
http:
  port: ${COOKFIND_TEST_PORT:-9090}
database:
  dsn: ${COOKFIND_TEST_DSN}
search:
  cursor_secret: ${COOKFIND_TEST_SECRET:-dev-secret}
`)
	cfg, err := Parse(data)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.HTTP.Port != 9090 {
		t.Errorf("expected default port 9090, got %d", cfg.HTTP.Port)
	}
	if cfg.Database.DSN != "postgres://db/cookfind" {
		t.Errorf("unexpected dsn %q", cfg.Database.DSN)
	}
	if cfg.Search.CursorSecret != "dev-secret" {
		t.Errorf("unexpected secret %q", cfg.Search.CursorSecret)
	}
}

func TestLoad_Local(t *testing.T) {
	t.Setenv("COOKFIND_FIXTURES", "fixtures/sample.yaml")
	cfg, err := Load("local")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Source.Driver != DriverFixtures {
		t.Errorf("expected local config to use fixtures, got %q", cfg.Source.Driver)
	}
}
