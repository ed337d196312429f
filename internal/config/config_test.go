package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	c, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatalf("missing file should not be fatal: %v", err)
	}
	if c.Addr != ":8080" || c.SessionStore != "json" {
		t.Fatalf("unexpected defaults: %+v", c)
	}
	if c.AnalyzeMaxBytes != DefaultAnalyzeMaxBytes || c.MutationMaxBytes != DefaultMutationMaxBytes {
		t.Fatalf("unexpected ceilings: %+v", c)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{"addr": ":9090", "session_store": "sqlite", "session_path": "x.db", "seed": 42, "mutation_max_bytes": 1024}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if c.Addr != ":9090" || c.SessionStore != "sqlite" || c.SessionPath != "x.db" {
		t.Fatalf("overrides not applied: %+v", c)
	}
	if c.Seed != 42 || c.MutationMaxBytes != 1024 {
		t.Fatalf("numeric overrides not applied: %+v", c)
	}
	// untouched fields keep defaults
	if c.AnalyzeMaxBytes != DefaultAnalyzeMaxBytes {
		t.Fatalf("default lost: %+v", c)
	}
}

func TestLoadMalformedFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected error for malformed config")
	}
}
