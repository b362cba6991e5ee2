package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	home := t.TempDir()
	cfg, err := Load(home)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	want := DefaultConfig()
	if cfg != want {
		t.Fatalf("Load() = %+v, want defaults %+v", cfg, want)
	}
}

func TestLoadOverlaysUserFile(t *testing.T) {
	home := t.TempDir()
	dir := filepath.Join(home, ".sentinel")
	if err := os.MkdirAll(dir, 0700); err != nil {
		t.Fatal(err)
	}
	yamlContent := "salt: rotated-salt\nwindow_seconds: 3600\n"
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yamlContent), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(home)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Salt != "rotated-salt" {
		t.Fatalf("Salt = %q, want rotated-salt", cfg.Salt)
	}
	if cfg.WindowSeconds != 3600 {
		t.Fatalf("WindowSeconds = %d, want 3600", cfg.WindowSeconds)
	}
}

func TestValidateRejectsEmptySalt(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Salt = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for empty salt")
	}
}

func TestValidateRejectsNonPositiveWindow(t *testing.T) {
	cfg := DefaultConfig()
	cfg.WindowSeconds = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for non-positive window")
	}
}
