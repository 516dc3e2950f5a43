// ABOUTME: Tests for configuration loading
// ABOUTME: Verifies defaults, YAML layering, and validation failures

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	return path
}

func TestLoadEmptyPathReturnsDefaults(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 8080 || cfg.Server.ObservabilityPort != 9090 {
		t.Errorf("Unexpected default ports: %+v", cfg.Server)
	}
	if cfg.Log.Level != "info" {
		t.Errorf("Expected default log level info, got %s", cfg.Log.Level)
	}
}

func TestLoadLayersOverDefaults(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9000
data:
  dir: /data/exports
query:
  max_nodes: 5000
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Server.Port != 9000 {
		t.Errorf("Expected port 9000, got %d", cfg.Server.Port)
	}
	if cfg.Server.ObservabilityPort != 9090 {
		t.Errorf("Expected default observability port to survive, got %d", cfg.Server.ObservabilityPort)
	}
	if cfg.Data.Dir != "/data/exports" {
		t.Errorf("Expected data dir /data/exports, got %s", cfg.Data.Dir)
	}
	if cfg.Query.MaxNodes != 5000 {
		t.Errorf("Expected max_nodes 5000, got %d", cfg.Query.MaxNodes)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Error("Expected an error for a missing file")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		body string
	}{
		{"bad port", "server:\n  port: -1\n"},
		{"same ports", "server:\n  port: 9090\n"},
		{"negative max_nodes", "query:\n  max_nodes: -5\n"},
		{"bad log level", "log:\n  level: verbose\n"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			path := writeConfig(t, tc.body)
			if _, err := Load(path); err == nil {
				t.Errorf("Expected validation to fail for %s", tc.name)
			}
		})
	}
}
