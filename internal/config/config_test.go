package config

import (
	"path/filepath"
	"testing"
)

func TestDefault(t *testing.T) {
	cfg := Default("/tmp/store")
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.GraphLogPath != filepath.Join("/tmp/store", DefaultGraphLogFile) {
		t.Fatalf("unexpected graph log path: %s", cfg.GraphLogPath)
	}
}

func TestLoadMissingFallsBackToDefault(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.RootPath != dir {
		t.Fatalf("RootPath = %q, want %q", cfg.RootPath, dir)
	}
	if cfg.DefaultAuthor != DefaultAuthor {
		t.Fatalf("DefaultAuthor = %q, want %q", cfg.DefaultAuthor, DefaultAuthor)
	}
}

func TestSaveAndLoadLocal(t *testing.T) {
	dir := t.TempDir()
	cfg := Default(dir)
	cfg.scope = ScopeLocal
	cfg.DefaultAuthor = "alice"
	if err := cfg.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if loaded.DefaultAuthor != "alice" {
		t.Fatalf("DefaultAuthor = %q, want alice", loaded.DefaultAuthor)
	}
}
