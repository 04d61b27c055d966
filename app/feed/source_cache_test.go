package feed

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSourceConfig(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+".yml"), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
}

func TestSourceCache_LoadAndDefaults(t *testing.T) {
	dir := t.TempDir()
	writeSourceConfig(t, dir, "bloomberg-markets", `
url: https://feeds.bloomberg.com/markets/news.rss
settings:
  enabled: true
`)

	cache := NewSourceCache(dir)
	if err := cache.Run(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	config, err := cache.GetConfig("bloomberg-markets")
	if err != nil {
		t.Fatalf("Config should be cached: %v", err)
	}

	if config.Format != FormatRSS {
		t.Errorf("Format should default to rss, got: %s", config.Format)
	}
	if config.Settings.Timeout != 30 {
		t.Errorf("Timeout should default to 30, got: %d", config.Settings.Timeout)
	}
	if config.Settings.MaxItems != 100 {
		t.Errorf("MaxItems should default to 100, got: %d", config.Settings.MaxItems)
	}
	if cache.GetConfigCount() != 1 {
		t.Errorf("Expected 1 cached config, got %d", cache.GetConfigCount())
	}
}

func TestSourceCache_EnabledConfigs(t *testing.T) {
	dir := t.TempDir()
	writeSourceConfig(t, dir, "enabled-source", `
url: https://example.com/feed.rss
settings:
  enabled: true
`)
	writeSourceConfig(t, dir, "disabled-source", `
url: https://example.com/other.rss
settings:
  enabled: false
`)

	cache := NewSourceCache(dir)
	if err := cache.Run(); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	enabled := cache.GetEnabledConfigs()
	if len(enabled) != 1 {
		t.Fatalf("Expected 1 enabled config, got %d", len(enabled))
	}
	if _, ok := enabled["enabled-source"]; !ok {
		t.Error("enabled-source should be in the enabled set")
	}
}

func TestSourceCache_InvalidFormat(t *testing.T) {
	dir := t.TempDir()
	writeSourceConfig(t, dir, "bad-format", `
url: https://example.com/feed
format: csv
`)

	cache := NewSourceCache(dir)
	if err := cache.Run(); err == nil {
		t.Error("Expected error for unsupported format")
	}
}

func TestSourceCache_MissingURL(t *testing.T) {
	dir := t.TempDir()
	writeSourceConfig(t, dir, "no-url", `
settings:
  enabled: true
`)

	cache := NewSourceCache(dir)
	if err := cache.Run(); err == nil {
		t.Error("Expected error for missing URL")
	}
}

func TestSourceCache_InvalidFilterField(t *testing.T) {
	dir := t.TempDir()
	writeSourceConfig(t, dir, "bad-filter", `
url: https://example.com/feed
filters:
  - field: author
    excludes: [spam]
`)

	cache := NewSourceCache(dir)
	if err := cache.Run(); err == nil {
		t.Error("Expected error for invalid filter field")
	}
}

func TestSourceCache_MissingDir(t *testing.T) {
	cache := NewSourceCache("/nonexistent/sources")
	if err := cache.Run(); err != nil {
		t.Errorf("Missing sources dir should not be an error: %v", err)
	}
	if cache.GetConfigCount() != 0 {
		t.Errorf("Expected empty cache, got %d", cache.GetConfigCount())
	}
}
