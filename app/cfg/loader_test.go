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

func TestGetPanicsBeforeLoad(t *testing.T) {
	original := globalCfg
	globalCfg = nil
	defer func() {
		globalCfg = original
		if recover() == nil {
			t.Error("Expected Get to panic before Load")
		}
	}()

	Get()
}

func TestGetReturnsLoadedConfig(t *testing.T) {
	original := globalCfg
	defer func() { globalCfg = original }()

	globalCfg = &Cfg{Port: "9090", WorkerCount: 3}

	cfg := Get()
	if cfg.Port != "9090" {
		t.Errorf("Expected port '9090', got '%s'", cfg.Port)
	}
	if cfg.WorkerCount != 3 {
		t.Errorf("Expected worker count 3, got %d", cfg.WorkerCount)
	}
}

func TestApplyTimezone(t *testing.T) {
	originalLocal := time.Local
	defer func() { time.Local = originalLocal }()

	if err := applyTimezone("UTC"); err != nil {
		t.Errorf("Expected UTC to be valid: %v", err)
	}
	if time.Local.String() != "UTC" {
		t.Errorf("Expected local timezone UTC, got %s", time.Local)
	}

	if err := applyTimezone("Not/AZone"); err == nil {
		t.Error("Expected error for invalid timezone")
	}
}

func TestConfigFields(t *testing.T) {
	cfg := &Cfg{
		DBPath:            "./test.db",
		SourcesDir:        "./sources",
		Port:              "8080",
		BaseUrl:           "https://news.example.com",
		WorkerCount:       5,
		SchedulerInterval: 30,
		FetchDelay:        2,
		APIAccessKey:      "test-key",
		RedisAddr:         "localhost:6379",
		RenderingEnabled:  true,
		UserAgent:         "Test Agent",
		Timezone:          "UTC",
		Debug:             true,
		Version:           "test-version",
	}

	if cfg.DBPath != "./test.db" {
		t.Errorf("Expected DB path './test.db', got '%s'", cfg.DBPath)
	}
	if cfg.SourcesDir != "./sources" {
		t.Errorf("Expected sources dir './sources', got '%s'", cfg.SourcesDir)
	}
	if cfg.Port != "8080" {
		t.Errorf("Expected port '8080', got '%s'", cfg.Port)
	}
	if cfg.WorkerCount != 5 {
		t.Errorf("Expected worker count 5, got %d", cfg.WorkerCount)
	}
	if cfg.FetchDelay != 2 {
		t.Errorf("Expected fetch delay 2, got %d", cfg.FetchDelay)
	}
	if cfg.RedisAddr != "localhost:6379" {
		t.Errorf("Expected redis addr 'localhost:6379', got '%s'", cfg.RedisAddr)
	}
	if !cfg.RenderingEnabled {
		t.Error("Expected rendering to be enabled")
	}
	if !cfg.Debug {
		t.Error("Expected debug to be enabled")
	}
}
