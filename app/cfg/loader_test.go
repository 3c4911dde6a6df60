package cfg

import (
	"testing"
	"time"
)

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}

	version := GetVersion()
	if version != "dev" && version != "unknown" {
		// This is fine, version could be set at build time
		t.Logf("Version: %s", version)
	}
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load([]string{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if cfg.Port != "8080" {
		t.Errorf("Expected port '8080', got '%s'", cfg.Port)
	}
	if cfg.Timezone != "America/Chicago" {
		t.Errorf("Expected timezone 'America/Chicago', got '%s'", cfg.Timezone)
	}
	if cfg.FetchTimeout != 10*time.Second {
		t.Errorf("Expected fetch timeout 10s, got %v", cfg.FetchTimeout)
	}
	if cfg.OGTimeout != 2500*time.Millisecond {
		t.Errorf("Expected og timeout 2.5s, got %v", cfg.OGTimeout)
	}
	if cfg.CacheTTL != 5*time.Minute || cfg.LocalTTL != 5*time.Minute {
		t.Errorf("Expected 5m cache TTLs, got %v/%v", cfg.CacheTTL, cfg.LocalTTL)
	}
	if cfg.OGTTL != 6*time.Hour {
		t.Errorf("Expected og TTL 6h, got %v", cfg.OGTTL)
	}
	if !cfg.TimeWindow || !cfg.StripFluff || !cfg.Summaries {
		t.Error("Expected time window, fluff stripping and summaries to be on by default")
	}
	if cfg.OGImages {
		t.Error("Expected page image lookups to be off by default")
	}
	if cfg.WarmInterval != 0 {
		t.Errorf("Expected warm-up disabled by default, got %v", cfg.WarmInterval)
	}
	if cfg.WorkerCount != 3 {
		t.Errorf("Expected worker count 3, got %d", cfg.WorkerCount)
	}
	if cfg.SearchURL != "https://news.google.com/rss/search" {
		t.Errorf("Unexpected search URL %s", cfg.SearchURL)
	}
	if cfg.Version == "" {
		t.Error("Expected version to be set")
	}
}

func TestLoad_Flags(t *testing.T) {
	cfg, err := load([]string{
		"--port", "9090",
		"--timezone", "UTC",
		"--no-time-window",
		"--keep-fluff",
		"--no-summaries",
		"--og-images",
		"--og-rate", "2.5",
		"--warm-interval", "120",
		"--db-path", "/tmp/images.db",
		"--api-key", "secret",
		"--debug",
	})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if cfg.Port != "9090" || cfg.Timezone != "UTC" {
		t.Errorf("Unexpected port/timezone: %s/%s", cfg.Port, cfg.Timezone)
	}
	if cfg.TimeWindow || cfg.StripFluff || cfg.Summaries {
		t.Error("Expected toggles to be switched off")
	}
	if !cfg.OGImages || cfg.OGRate != 2.5 {
		t.Errorf("Unexpected og settings: %v %v", cfg.OGImages, cfg.OGRate)
	}
	if cfg.WarmInterval != 2*time.Minute {
		t.Errorf("Expected warm interval 2m, got %v", cfg.WarmInterval)
	}
	if cfg.APIAccessKey != "secret" {
		t.Errorf("Expected API key 'secret', got '%s'", cfg.APIAccessKey)
	}
	if cfg.DBPath != "/tmp/images.db" || !cfg.Debug {
		t.Errorf("Unexpected db path/debug: %s/%v", cfg.DBPath, cfg.Debug)
	}
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("CACHE_TTL", "60")
	t.Setenv("FEEDS_FILE", "/etc/headlines/feeds.yml")

	cfg, err := load([]string{})
	if err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if cfg.CacheTTL != time.Minute {
		t.Errorf("Expected cache TTL 1m, got %v", cfg.CacheTTL)
	}
	if cfg.FeedsFile != "/etc/headlines/feeds.yml" {
		t.Errorf("Expected feeds file from env, got %s", cfg.FeedsFile)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := [][]string{
		{"--timezone", "Mars/Olympus_Mons"},
		{"--cache-ttl", "0"},
		{"--fetch-timeout", "-1"},
		{"--warm-interval", "-5"},
		{"--og-rate", "-1"},
		{"--unknown-flag"},
	}

	for _, args := range tests {
		if _, err := load(args); err == nil {
			t.Errorf("Expected error for %v", args)
		}
	}
}

func TestLoad_Help(t *testing.T) {
	cfg, err := load([]string{"--help"})
	if err != nil || cfg != nil {
		t.Errorf("Expected (nil, nil) for help, got (%v, %v)", cfg, err)
	}
}
