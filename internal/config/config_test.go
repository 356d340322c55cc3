package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"themerr/internal/config"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.toml")
	cfg, resolved, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if resolved != path {
		t.Fatalf("expected resolved path %q, got %q", path, resolved)
	}
	if cfg.Updater.Workers != 10 {
		t.Fatalf("expected default workers 10, got %d", cfg.Updater.Workers)
	}
	if cfg.IGDB.RequestsPerSecond != 4 {
		t.Fatalf("expected default igdb rate 4, got %v", cfg.IGDB.RequestsPerSecond)
	}
	if cfg.TMDB.RequestsPerSecond != 40 {
		t.Fatalf("expected default tmdb rate 40, got %v", cfg.TMDB.RequestsPerSecond)
	}
	if cfg.YouTube.MinDurationSeconds != 30 || cfg.YouTube.MaxDurationSeconds != 300 {
		t.Fatalf("unexpected duration bounds: %d..%d", cfg.YouTube.MinDurationSeconds, cfg.YouTube.MaxDurationSeconds)
	}
}

func TestLoadParsesAndExpandsPaths(t *testing.T) {
	path := writeConfig(t, `
[paths]
database_dir = "db"

[updater]
workers = 3
`)
	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists=true")
	}
	if !filepath.IsAbs(cfg.Paths.DatabaseDir) {
		t.Fatalf("expected absolute database dir, got %q", cfg.Paths.DatabaseDir)
	}
	if cfg.Updater.Workers != 3 {
		t.Fatalf("expected workers 3, got %d", cfg.Updater.Workers)
	}
}

func TestLoadRejectsNonPositiveRate(t *testing.T) {
	path := writeConfig(t, `
[tmdb]
requests_per_second = -1.0
`)
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected error for negative rate")
	}
}

func TestLoadRejectsInvertedDurationBounds(t *testing.T) {
	path := writeConfig(t, `
[youtube]
min_duration_seconds = 120
max_duration_seconds = 60
`)
	_, _, _, err := config.Load(path)
	if err == nil {
		t.Fatal("expected error for inverted bounds")
	}
	if !strings.Contains(err.Error(), "max_duration_seconds") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestLoadRejectsUnknownLogFormat(t *testing.T) {
	path := writeConfig(t, `
[logging]
format = "xml"
`)
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected error for unknown log format")
	}
}

func TestEnvCredentialFallback(t *testing.T) {
	t.Setenv("TMDB_API_KEY", "env-key")
	t.Setenv("THEMERR_CONTRIBUTOR", "12345")

	path := filepath.Join(t.TempDir(), "missing.toml")
	cfg, _, _, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.TMDB.APIKey != "env-key" {
		t.Fatalf("expected env fallback for tmdb key, got %q", cfg.TMDB.APIKey)
	}
	if cfg.Updater.Contributor != "12345" {
		t.Fatalf("expected env fallback for contributor, got %q", cfg.Updater.Contributor)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(data), "[updater]") {
		t.Fatal("sample config missing updater section")
	}
}
