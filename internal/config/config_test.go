package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.RegistryPath != "configs/feeds.yaml" {
		t.Errorf("RegistryPath = %q", cfg.RegistryPath)
	}
	if cfg.SnapshotPath != "data/news.json" {
		t.Errorf("SnapshotPath = %q", cfg.SnapshotPath)
	}
	if cfg.CategoryCap != 50 || cfg.TickerSize != 15 {
		t.Errorf("caps = %d/%d, want 50/15", cfg.CategoryCap, cfg.TickerSize)
	}
	if cfg.FetchTimeout() != 20*time.Second {
		t.Errorf("FetchTimeout = %v", cfg.FetchTimeout())
	}
	if cfg.RunTimeout() != 300*time.Second {
		t.Errorf("RunTimeout = %v", cfg.RunTimeout())
	}
	if cfg.FetchWorkers != 10 {
		t.Errorf("FetchWorkers = %d", cfg.FetchWorkers)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
registry_path: /etc/news/feeds.yaml
snapshot_path: /var/lib/news/news.json
fetch_workers: 4
category_cap: 25
log_level: debug
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.RegistryPath != "/etc/news/feeds.yaml" {
		t.Errorf("RegistryPath = %q", cfg.RegistryPath)
	}
	if cfg.FetchWorkers != 4 {
		t.Errorf("FetchWorkers = %d", cfg.FetchWorkers)
	}
	if cfg.CategoryCap != 25 {
		t.Errorf("CategoryCap = %d", cfg.CategoryCap)
	}
	// Unset keys still get defaults.
	if cfg.TickerSize != 15 {
		t.Errorf("TickerSize = %d", cfg.TickerSize)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("NEWS_SNAPSHOT_PATH", "/tmp/override.json")
	t.Setenv("NEWS_LOG_LEVEL", "debug")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.SnapshotPath != "/tmp/override.json" {
		t.Errorf("SnapshotPath = %q", cfg.SnapshotPath)
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q", cfg.LogLevel)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	cases := []struct {
		name    string
		content string
	}{
		{"empty registry path", "registry_path: \"\"\n"},
		{"empty snapshot path", "snapshot_path: \"\"\n"},
		{"negative workers", "fetch_workers: -1\n"},
		{"zero rps", "requests_per_second: 0\n"},
		{"negative cap", "category_cap: -5\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.yaml")
			if err := os.WriteFile(path, []byte(tc.content), 0o644); err != nil {
				t.Fatalf("write config: %v", err)
			}
			if _, err := Load(path); err == nil {
				t.Error("Load accepted invalid config")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Load accepted a missing config file")
	}
}
