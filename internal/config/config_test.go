package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

const testSecret = "this-is-a-very-long-jwt-secret-for-testing-32+"

// validEnv sets the minimum required env vars for a valid config.
func validEnv(t *testing.T) {
	t.Helper()
	t.Setenv("AUTH_JWT_SECRET", testSecret)
}

func writeYAML(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write yaml: %v", err)
	}
	return path
}

func validConfig() *Config {
	return &Config{
		Store:      StoreConfig{Driver: StoreDriverSQLite, SQLitePath: "test.db"},
		Auth:       AuthConfig{JWTSecret: testSecret, JWTIssuer: "myenglish", TokenTTL: time.Hour},
		Capture:    CaptureConfig{MinEnglishRatio: 0.6, RatePerMinute: 30},
		Export:     ExportConfig{Driver: ExportDriverFS, Dir: "./exports"},
		Enrichment: EnrichmentConfig{Timeout: time.Minute},
	}
}

const validYAML = `
server:
  host: "127.0.0.1"
  port: 9090
  read_timeout: "5s"
  shutdown_timeout: "5s"

store:
  driver: "postgres"

database:
  dsn: "postgres://u:p@localhost:5432/testdb"
  max_conns: 4

enrichment:
  api_key: "sk-test"
  model: "claude-test"
  timeout: "30s"

parser:
  base_url: "http://localhost:8001"

auth:
  jwt_secret: "this-is-a-very-long-jwt-secret-for-testing-32+"

capture:
  rate_per_minute: 12

export:
  driver: "s3"
  bucket: "snapshots"
  path_style: true

log:
  level: "debug"
  format: "text"
`

func TestLoad_ValidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Addr() != "127.0.0.1:9090" {
		t.Errorf("server addr = %q", cfg.Server.Addr())
	}
	if cfg.Server.ReadTimeout != 5*time.Second {
		t.Errorf("server.read_timeout = %v, want %v", cfg.Server.ReadTimeout, 5*time.Second)
	}

	if cfg.Store.Driver != StoreDriverPostgres {
		t.Errorf("store.driver = %q", cfg.Store.Driver)
	}
	if cfg.Database.MaxConns != 4 {
		t.Errorf("database.max_conns = %d, want 4", cfg.Database.MaxConns)
	}

	if cfg.Enrichment.Model != "claude-test" {
		t.Errorf("enrichment.model = %q", cfg.Enrichment.Model)
	}
	if cfg.Enrichment.Timeout != 30*time.Second {
		t.Errorf("enrichment.timeout = %v", cfg.Enrichment.Timeout)
	}
	if cfg.Enrichment.Temperature != 0.2 {
		t.Errorf("enrichment.temperature = %v, want default 0.2", cfg.Enrichment.Temperature)
	}

	if cfg.Parser.BaseURL != "http://localhost:8001" {
		t.Errorf("parser.base_url = %q", cfg.Parser.BaseURL)
	}

	if cfg.Capture.RatePerMinute != 12 {
		t.Errorf("capture.rate_per_minute = %d, want 12", cfg.Capture.RatePerMinute)
	}
	if cfg.Capture.MinEnglishRatio != 0.6 {
		t.Errorf("capture.min_english_ratio = %v, want default 0.6", cfg.Capture.MinEnglishRatio)
	}

	if cfg.Export.Driver != ExportDriverS3 || !cfg.Export.PathStyle {
		t.Errorf("export = %+v", cfg.Export)
	}

	if cfg.Log.Level != "debug" {
		t.Errorf("log.level = %q, want %q", cfg.Log.Level, "debug")
	}
}

func TestLoad_ENVOverridesYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, validYAML)
	t.Setenv("CONFIG_PATH", path)
	t.Setenv("SERVER_PORT", "3000")
	t.Setenv("LOG_LEVEL", "warn")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 3000 {
		t.Errorf("server.port = %d, want 3000 (ENV override)", cfg.Server.Port)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("log.level = %q, want %q (ENV override)", cfg.Log.Level, "warn")
	}
}

func TestLoad_NoFile_ENVOnly(t *testing.T) {
	validEnv(t)
	t.Setenv("CONFIG_PATH", "")

	origDir, _ := os.Getwd()
	t.Cleanup(func() { _ = os.Chdir(origDir) })
	_ = os.Chdir(t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.Port != 8080 {
		t.Errorf("server.port = %d, want 8080 (default)", cfg.Server.Port)
	}
	if cfg.Store.Driver != StoreDriverSQLite {
		t.Errorf("store.driver = %q, want sqlite (default)", cfg.Store.Driver)
	}
	if cfg.Export.Driver != ExportDriverFS {
		t.Errorf("export.driver = %q, want fs (default)", cfg.Export.Driver)
	}
}

func TestLoadFrom_ExplicitPathNotFound(t *testing.T) {
	_, err := LoadFrom("/nonexistent/config.yaml")
	if err == nil {
		t.Fatal("expected error for missing explicit config path")
	}
}

func TestLoad_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	path := writeYAML(t, dir, `{{{invalid yaml`)
	t.Setenv("CONFIG_PATH", path)

	_, err := Load()
	if err == nil {
		t.Fatal("expected error for invalid YAML")
	}
}

func TestValidate_Valid(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestValidate_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{name: "short jwt secret", mutate: func(c *Config) { c.Auth.JWTSecret = "short" }},
		{name: "unknown store driver", mutate: func(c *Config) { c.Store.Driver = "mysql" }},
		{name: "postgres without dsn", mutate: func(c *Config) { c.Store.Driver = StoreDriverPostgres }},
		{name: "sqlite without path", mutate: func(c *Config) { c.Store.SQLitePath = "" }},
		{name: "s3 without bucket", mutate: func(c *Config) { c.Export.Driver = ExportDriverS3 }},
		{name: "unknown export driver", mutate: func(c *Config) { c.Export.Driver = "ftp" }},
		{name: "fs without dir", mutate: func(c *Config) { c.Export.Dir = "" }},
		{name: "zero ratio", mutate: func(c *Config) { c.Capture.MinEnglishRatio = 0 }},
		{name: "ratio above one", mutate: func(c *Config) { c.Capture.MinEnglishRatio = 1.5 }},
		{name: "zero rate", mutate: func(c *Config) { c.Capture.RatePerMinute = 0 }},
		{name: "zero enrichment timeout", mutate: func(c *Config) { c.Enrichment.Timeout = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestValidate_NormalizesDriverCase(t *testing.T) {
	cfg := validConfig()
	cfg.Store.Driver = " SQLite "

	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Store.Driver != StoreDriverSQLite {
		t.Errorf("store.driver = %q, want %q", cfg.Store.Driver, StoreDriverSQLite)
	}
}

func TestCORSConfig_AllowedOriginList(t *testing.T) {
	cfg := CORSConfig{AllowedOrigins: " https://a.example, ,https://b.example "}
	got := cfg.AllowedOriginList()
	if len(got) != 2 || got[0] != "https://a.example" || got[1] != "https://b.example" {
		t.Errorf("AllowedOriginList() = %v", got)
	}
}
