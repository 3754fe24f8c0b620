package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"mercator-hq/callisto/pkg/control"
)

// ============================================================================
// Loading Tests
// ============================================================================

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad_EmptyFileGetsDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.ListenAddress != DefaultListenAddress {
		t.Errorf("expected default listen address, got %q", cfg.Server.ListenAddress)
	}
	if cfg.Scheduler.Schedule != DefaultSchedule {
		t.Errorf("expected default schedule, got %q", cfg.Scheduler.Schedule)
	}
	if !cfg.Engine.Rails.Enabled {
		t.Error("expected engine rails enabled by default")
	}
	if len(cfg.Engine.Domains) != len(control.Domains()) {
		t.Errorf("expected all domains configured, got %d", len(cfg.Engine.Domains))
	}
	if cfg.Telemetry.Metrics.Namespace != DefaultMetricsNamespace {
		t.Errorf("expected default namespace, got %q", cfg.Telemetry.Metrics.Namespace)
	}
}

func TestLoad_OverridesFromFile(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
server:
  listen_address: "0.0.0.0:9000"
scheduler:
  schedule: "*/5 * * * *"
  auto_apply: true
store:
  backend: sqlite
  path: /tmp/audit.db
telemetry:
  logging:
    level: debug
    format: text
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.ListenAddress != "0.0.0.0:9000" {
		t.Errorf("expected file value, got %q", cfg.Server.ListenAddress)
	}
	if !cfg.Scheduler.AutoApply {
		t.Error("expected auto_apply true")
	}
	if cfg.Store.Backend != "sqlite" {
		t.Errorf("expected sqlite backend, got %q", cfg.Store.Backend)
	}
	if cfg.Telemetry.Logging.Level != "debug" || cfg.Telemetry.Logging.Format != "text" {
		t.Errorf("expected debug/text logging, got %+v", cfg.Telemetry.Logging)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestLoad_MalformedYAML(t *testing.T) {
	if _, err := Load(writeConfig(t, "server: [not a map")); err == nil {
		t.Fatal("expected error for malformed YAML")
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	t.Setenv("CALLISTO_SERVER_LISTEN_ADDRESS", "127.0.0.1:7001")
	t.Setenv("CALLISTO_SCHEDULER_AUTO_APPLY", "true")
	t.Setenv("CALLISTO_PROVIDER_TIMEOUT", "2s")
	t.Setenv("CALLISTO_ENGINE_HUMAN_OVERRIDE", "true")

	cfg, err := LoadWithEnvOverrides(writeConfig(t, `
server:
  listen_address: "0.0.0.0:9000"
`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Server.ListenAddress != "127.0.0.1:7001" {
		t.Errorf("expected env override, got %q", cfg.Server.ListenAddress)
	}
	if !cfg.Scheduler.AutoApply {
		t.Error("expected auto_apply from env")
	}
	if cfg.Provider.Timeout != 2*time.Second {
		t.Errorf("expected 2s timeout, got %v", cfg.Provider.Timeout)
	}
	if !cfg.Engine.Rails.HumanOverride {
		t.Error("expected human override from env")
	}
}

func TestDefault_Validates(t *testing.T) {
	if err := Validate(Default()); err != nil {
		t.Fatalf("default config must validate: %v", err)
	}
}
