package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/tinytelemetry/variantscope/internal/model"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	cfg, err := loadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}

	if cfg.DefaultMetric != string(model.DefaultMetric) {
		t.Fatalf("default-metric = %q, want %q", cfg.DefaultMetric, model.DefaultMetric)
	}
	if cfg.BarLimit != model.DefaultBarLimit {
		t.Fatalf("bar-limit = %d, want %d", cfg.BarLimit, model.DefaultBarLimit)
	}
	if cfg.APIAddr != "127.0.0.1:3000" {
		t.Fatalf("api-addr = %q, want 127.0.0.1:3000", cfg.APIAddr)
	}
	if !cfg.APIEnabled {
		t.Fatal("api should be enabled by default")
	}
	if cfg.ConfigPath != "" {
		t.Fatalf("config path = %q for a missing file", cfg.ConfigPath)
	}
}

func TestLoadConfig_FileValues(t *testing.T) {
	path := writeConfig(t, `
default-country: Brazil
default-metric: total_cases
bar-limit: 5
api-port: 8081
`)
	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}

	if cfg.DefaultCountry != "Brazil" || cfg.DefaultMetric != "total_cases" || cfg.BarLimit != 5 {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.APIAddr != "127.0.0.1:8081" {
		t.Fatalf("api-addr = %q, want 127.0.0.1:8081", cfg.APIAddr)
	}
	if cfg.ConfigPath != path {
		t.Fatalf("config path = %q, want %q", cfg.ConfigPath, path)
	}
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	path := writeConfig(t, "default-country: Brazil\n")
	t.Setenv("VARIANTSCOPE_DEFAULT_COUNTRY", "Chad")

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig: %v", err)
	}
	if cfg.DefaultCountry != "Chad" {
		t.Fatalf("default-country = %q, want Chad", cfg.DefaultCountry)
	}
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{"port out of range", "api-port: 70000\n", "invalid api-port"},
		{"unknown metric", "default-metric: vibes\n", "invalid default-metric"},
		{"zero bar limit", "bar-limit: 0\n", "invalid bar-limit"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadConfig(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Fatalf("loadConfig error = %v, want %q", err, tt.wantErr)
			}
		})
	}
}
