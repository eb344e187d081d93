package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
}

func TestLoadFromDirAppliesDefaultsAndExpansion(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", `
app:
  name: reader-test
database:
  driver: ${TEST_DB_DRIVER:sqlite}
  sqlite_path: ":memory:"
reading:
  recent_limit: ${TEST_RECENT_LIMIT:7}
`)
	t.Setenv("APP_ENV", "unit")
	t.Setenv("TEST_RECENT_LIMIT", "3")

	cfg, err := LoadFromDir(dir)
	if err != nil {
		t.Fatalf("LoadFromDir() error = %v", err)
	}

	if cfg.App.Name != "reader-test" {
		t.Fatalf("app.name = %q", cfg.App.Name)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Fatalf("database.driver = %q, want default from placeholder", cfg.Database.Driver)
	}
	if cfg.Reading.RecentLimit != 3 {
		t.Fatalf("reading.recent_limit = %d, want 3 from env", cfg.Reading.RecentLimit)
	}
	if cfg.Reading.FanoutLimit != 16 {
		t.Fatalf("reading.fanout_limit = %d, want default 16", cfg.Reading.FanoutLimit)
	}
	if cfg.Cache.TTL != 720*time.Hour {
		t.Fatalf("cache.ttl = %v", cfg.Cache.TTL)
	}
	if cfg.Server.HTTP.Port != 8080 {
		t.Fatalf("server.http.port = %d", cfg.Server.HTTP.Port)
	}
}

func TestLoadFromDirMergesEnvironmentFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "config.yaml", `
cache:
  driver: redis
observability:
  logging:
    level: info
`)
	writeFile(t, dir, "config.staging.yaml", `
cache:
  driver: memory
`)
	t.Setenv("APP_ENV", "staging")

	cfg, err := LoadFromDir(dir)
	if err != nil {
		t.Fatalf("LoadFromDir() error = %v", err)
	}
	if cfg.Cache.Driver != "memory" {
		t.Fatalf("cache.driver = %q, want override from staging file", cfg.Cache.Driver)
	}
	if cfg.Observability.Logging.Level != "info" {
		t.Fatalf("logging.level = %q", cfg.Observability.Logging.Level)
	}
}

func TestLoadFromDirMissingBaseFile(t *testing.T) {
	if _, err := LoadFromDir(t.TempDir()); err == nil {
		t.Fatal("expected error for missing config.yaml")
	}
}

func TestExpandEnv(t *testing.T) {
	t.Setenv("EXPAND_SET", "value")

	cases := map[string]string{
		"${EXPAND_SET}":          "value",
		"${EXPAND_SET:fallback}": "value",
		"${EXPAND_UNSET:dflt}":   "dflt",
		"${EXPAND_UNSET:}":       "",
		"${EXPAND_UNSET}":        "${EXPAND_UNSET}",
	}
	for in, want := range cases {
		if got := expandEnv(in); got != want {
			t.Fatalf("expandEnv(%q) = %q, want %q", in, got, want)
		}
	}
}
