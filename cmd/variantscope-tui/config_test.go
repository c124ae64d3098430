package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tinytelemetry/variantscope/internal/model"
)

func TestLoadCLIConfig_Defaults(t *testing.T) {
	cfg, err := loadCLIConfig(filepath.Join(t.TempDir(), "missing.yml"))
	if err != nil {
		t.Fatalf("loadCLIConfig: %v", err)
	}
	if cfg.Skin != model.DefaultSkin {
		t.Fatalf("skin = %q, want %q", cfg.Skin, model.DefaultSkin)
	}
	if cfg.SocketPath == "" {
		t.Fatal("socket path should default to the service socket")
	}
}

func TestLoadCLIConfig_RejectsUnknownMetric(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	if err := os.WriteFile(path, []byte("default-metric: vibes\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := loadCLIConfig(path); err == nil {
		t.Fatal("expected an error for an unknown default metric")
	}
}

func TestOpenLocalStore_BundledSample(t *testing.T) {
	store, err := openLocalStore(cliConfig{QueryTimeout: model.DefaultQueryTimeout})
	if err != nil {
		t.Fatalf("openLocalStore: %v", err)
	}
	defer store.Close()

	countries, err := store.ListCountries()
	if err != nil || len(countries) == 0 {
		t.Fatalf("ListCountries = %v, %v", countries, err)
	}
}
