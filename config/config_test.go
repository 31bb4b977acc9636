package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("CASEFLOW_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Port != 8080 {
		t.Errorf("unexpected port default: %d", cfg.Port)
	}
	if cfg.DBPath != "./caseflow.db" {
		t.Errorf("unexpected db path default: %q", cfg.DBPath)
	}
	if cfg.CacheTTL() != time.Minute {
		t.Errorf("unexpected cache TTL default: %v", cfg.CacheTTL())
	}
	if cfg.RefreshSchedule != "@every 5m" {
		t.Errorf("unexpected refresh schedule default: %q", cfg.RefreshSchedule)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Errorf("unexpected CORS default: %v", cfg.CORSOrigins)
	}
}

func TestLoad_YAMLAndEnvOverride(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	content := `
port: 9000
db_path: "/tmp/yaml.db"
cache_ttl_seconds: 30
refresh_schedule: "@every 1m"
cors_origins:
  - "https://reports.example.com"
`
	if err := os.WriteFile(cfgPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("CASEFLOW_DB_PATH", "/tmp/env.db")
	t.Setenv("CASEFLOW_CACHE_TTL_SECONDS", "120")

	cfg, err := Load(cfgPath)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	// YAML value survives where no env override exists
	if cfg.Port != 9000 {
		t.Errorf("expected YAML port 9000, got %d", cfg.Port)
	}
	if cfg.RefreshSchedule != "@every 1m" {
		t.Errorf("expected YAML schedule, got %q", cfg.RefreshSchedule)
	}
	// Env wins over YAML
	if cfg.DBPath != "/tmp/env.db" {
		t.Errorf("expected env db path, got %q", cfg.DBPath)
	}
	if cfg.CacheTTLSeconds != 120 {
		t.Errorf("expected env TTL 120, got %d", cfg.CacheTTLSeconds)
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "https://reports.example.com" {
		t.Errorf("unexpected CORS origins: %v", cfg.CORSOrigins)
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	t.Setenv("CASEFLOW_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	t.Setenv("CASEFLOW_PORT", "70000")
	if _, err := Load(""); err == nil {
		t.Error("expected error for out-of-range port")
	}

	t.Setenv("CASEFLOW_PORT", "not-a-number")
	if _, err := Load(""); err == nil {
		t.Error("expected error for non-numeric port")
	}
}
