package config

import (
	"testing"
	"time"
)

func TestValidateRequiresToken(t *testing.T) {
	cfg := &Config{}
	if err := cfg.Validate(); err == nil {
		t.Error("expected error when RD_TOKEN is missing")
	}
}

func TestValidateFillsDefaults(t *testing.T) {
	cfg := &Config{RDToken: "token"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if cfg.Port == "" {
		t.Error("default port not set")
	}
	if cfg.CacheSize <= 0 {
		t.Error("default cache size not set")
	}
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("RD_TOKEN", "env-token")
	t.Setenv("PORT", "8080")
	t.Setenv("CONFIG_FILE", "/nonexistent/config.json")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.RDToken != "env-token" {
		t.Errorf("RDToken = %q", cfg.RDToken)
	}
	if cfg.Port != "8080" {
		t.Errorf("Port = %q", cfg.Port)
	}
	if cfg.SyncInterval != 15*time.Minute {
		t.Errorf("SyncInterval = %v, expected 15m", cfg.SyncInterval)
	}
}
