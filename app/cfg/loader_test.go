package cfg

import (
	"testing"
)

func TestGetVersion(t *testing.T) {
	if GetVersion() == "" {
		t.Error("GetVersion should never return empty string")
	}
}

func TestConfigFields(t *testing.T) {
	cfg := &Cfg{
		Port:            "8080",
		APIAccessKey:    "test-key",
		SourcesFile:     "./sources.yml",
		CachePath:       "./data/cache.db",
		ExaAPIKey:       "exa-key",
		JinaAPIKey:      "jina-key",
		WikipediaTTL:    168,
		RSSTTL:          6,
		ExternalTTL:     12,
		RefreshInterval: 300,
		WorkerCount:     3,
		UserAgent:       "Test Agent",
		Timezone:        "UTC",
		Debug:           true,
		Version:         "test-version",
	}

	if cfg.Port != "8080" {
		t.Errorf("Expected port '8080', got '%s'", cfg.Port)
	}
	if cfg.APIAccessKey != "test-key" {
		t.Errorf("Expected API key 'test-key', got '%s'", cfg.APIAccessKey)
	}
	if cfg.SourcesFile != "./sources.yml" {
		t.Errorf("Expected sources file './sources.yml', got '%s'", cfg.SourcesFile)
	}
	if cfg.WikipediaTTL != 168 {
		t.Errorf("Expected wikipedia TTL 168, got %d", cfg.WikipediaTTL)
	}
	if cfg.RSSTTL != 6 {
		t.Errorf("Expected RSS TTL 6, got %d", cfg.RSSTTL)
	}
	if cfg.ExternalTTL != 12 {
		t.Errorf("Expected external TTL 12, got %d", cfg.ExternalTTL)
	}
	if cfg.RefreshInterval != 300 {
		t.Errorf("Expected refresh interval 300, got %d", cfg.RefreshInterval)
	}
	if cfg.WorkerCount != 3 {
		t.Errorf("Expected worker count 3, got %d", cfg.WorkerCount)
	}
	if cfg.UserAgent != "Test Agent" {
		t.Errorf("Expected user agent 'Test Agent', got '%s'", cfg.UserAgent)
	}
	if cfg.Timezone != "UTC" {
		t.Errorf("Expected timezone 'UTC', got '%s'", cfg.Timezone)
	}
	if !cfg.Debug {
		t.Error("Expected debug to be enabled")
	}
	if cfg.Version != "test-version" {
		t.Errorf("Expected version 'test-version', got '%s'", cfg.Version)
	}
}

func TestApplyTimezone(t *testing.T) {
	if err := applyTimezone("UTC"); err != nil {
		t.Errorf("UTC should be a valid timezone: %v", err)
	}
	if err := applyTimezone("Not/AZone"); err == nil {
		t.Error("Expected error for unknown timezone")
	}
}
