package news

import (
	"os"
	"path/filepath"
	"testing"
)

func writeSourceConfig(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name+".yml"), []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config fixture: %v", err)
	}
}

func TestConfigCache_Run_LoadsSources(t *testing.T) {
	dir := t.TempDir()

	writeSourceConfig(t, dir, "wanderer", `
url: "https://wanderer.example.com/news"
selectors:
  entry: "div.card"
  title: "h3"
settings:
  enabled: true
  extract_content: true
`)
	writeSourceConfig(t, dir, "skyfeed", `
url: "https://skyfeed.example.com/rss"
kind: "feed"
settings:
  enabled: false
`)

	cache := NewConfigCache(dir)
	if err := cache.Run(); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	if cache.GetConfigCount() != 2 {
		t.Fatalf("Expected 2 configs, got %d", cache.GetConfigCount())
	}

	config, err := cache.GetConfig("wanderer")
	if err != nil {
		t.Fatalf("Expected wanderer config, got: %v", err)
	}
	if config.Kind != SourceKindHTML {
		t.Errorf("Expected default kind html, got %q", config.Kind)
	}
	if config.Selectors.Entry != "div.card" {
		t.Errorf("Unexpected entry selector: %q", config.Selectors.Entry)
	}
	if config.Settings.RefreshInterval != 1800 {
		t.Errorf("Expected default refresh interval 1800, got %d", config.Settings.RefreshInterval)
	}
	if config.Settings.MaxItems != 50 {
		t.Errorf("Expected default max items 50, got %d", config.Settings.MaxItems)
	}

	enabled := cache.GetEnabledConfigs()
	if len(enabled) != 1 {
		t.Errorf("Expected 1 enabled config, got %d", len(enabled))
	}
	if _, ok := enabled["wanderer"]; !ok {
		t.Errorf("Expected wanderer to be enabled")
	}
}

func TestConfigCache_Run_MissingDirectory(t *testing.T) {
	cache := NewConfigCache("/nonexistent/sources")
	if err := cache.Run(); err != nil {
		t.Errorf("Expected missing directory to be tolerated, got: %v", err)
	}
}

func TestConfigCache_LoadConfig_InvalidKind(t *testing.T) {
	dir := t.TempDir()
	writeSourceConfig(t, dir, "broken", `
url: "https://example.com"
kind: "carrier-pigeon"
`)

	cache := NewConfigCache(dir)
	if _, err := cache.LoadConfig("broken"); err == nil {
		t.Errorf("Expected error for invalid source kind")
	}
}

func TestConfigCache_LoadConfig_MissingURL(t *testing.T) {
	dir := t.TempDir()
	writeSourceConfig(t, dir, "nourl", `
settings:
  enabled: true
`)

	cache := NewConfigCache(dir)
	if _, err := cache.LoadConfig("nourl"); err == nil {
		t.Errorf("Expected error for missing URL")
	}
}

func TestConfigCache_LoadConfig_InvalidFilterField(t *testing.T) {
	dir := t.TempDir()
	writeSourceConfig(t, dir, "badfilter", `
url: "https://example.com"
filters:
  - field: "rating"
    excludes: ["bad"]
`)

	cache := NewConfigCache(dir)
	if _, err := cache.LoadConfig("badfilter"); err == nil {
		t.Errorf("Expected error for invalid filter field")
	}
}

func TestConfigCache_SetAndRemoveConfig(t *testing.T) {
	cache := NewConfigCache(t.TempDir())

	config := &Config{
		Name: "userdefined",
		URL:  "https://user.example.com/news",
	}
	if err := cache.SetConfig(config); err != nil {
		t.Fatalf("Expected no error, got: %v", err)
	}

	stored, err := cache.GetConfig("userdefined")
	if err != nil {
		t.Fatalf("Expected stored config, got: %v", err)
	}
	if stored.Settings.Timeout != 30 {
		t.Errorf("Expected defaults to apply to user-defined source, got timeout %d", stored.Settings.Timeout)
	}

	cache.RemoveConfig("userdefined")
	if _, err := cache.GetConfig("userdefined"); err == nil {
		t.Errorf("Expected config to be removed")
	}
}

func TestEncodeDecodeConfigRoundTrip(t *testing.T) {
	config := &Config{
		Name: "userdefined",
		URL:  "https://user.example.com/news",
		Kind: SourceKindHTML,
		Selectors: ConfigSelectors{
			Entry: "article.post",
			Time:  "time",
		},
		Settings: ConfigSettings{
			Enabled:        true,
			ExtractContent: true,
			Render:         true,
			MaxItems:       10,
		},
		Filters: []ConfigFilter{
			{Field: "link", Excludes: []string{"/deals/"}},
		},
	}

	encoded, err := EncodeConfig(config)
	if err != nil {
		t.Fatalf("EncodeConfig failed: %v", err)
	}

	decoded, err := DecodeConfig("userdefined", encoded)
	if err != nil {
		t.Fatalf("DecodeConfig failed: %v", err)
	}
	if !decoded.UserDefined {
		t.Error("Expected decoded config to be marked user-defined")
	}
	if decoded.Selectors != config.Selectors {
		t.Errorf("Expected selectors to round-trip, got %+v", decoded.Selectors)
	}
	if decoded.Settings != config.Settings {
		t.Errorf("Expected settings to round-trip, got %+v", decoded.Settings)
	}
	if len(decoded.Filters) != 1 || decoded.Filters[0].Field != "link" {
		t.Errorf("Expected filters to round-trip, got %+v", decoded.Filters)
	}
}
