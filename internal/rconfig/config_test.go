package rconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFileMissingReturnsProjectError(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), FileName))
	if err == nil {
		t.Fatal("expected an error for a missing config file")
	}
}

func TestLoadFileAppliesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, FileName)
	if err := os.WriteFile(path, []byte(`{"name":"demo"}`), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if cfg.Dev.Port != DefaultPort {
		t.Fatalf("expected default dev port, got %d", cfg.Dev.Port)
	}
	if len(cfg.Template.Delimiters) != 2 {
		t.Fatalf("expected default delimiters, got %v", cfg.Template.Delimiters)
	}
}

func TestLoadFileYAMLManifestParsesComponents(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ManifestFileName)
	yaml := "components:\n  card:\n    template: card.html\n    script: card.go\n"
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	entry, ok := cfg.Components["card"]
	if !ok {
		t.Fatal("expected a \"card\" component entry")
	}
	if entry.Template != "card.html" || entry.Script != "card.go" {
		t.Fatalf("unexpected entry: %+v", entry)
	}
}

func TestSaveToRoundTrips(t *testing.T) {
	dir := t.TempDir()
	cfg := New()
	path := filepath.Join(dir, FileName)
	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	reloaded, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if reloaded.Dev.Port != cfg.Dev.Port {
		t.Fatalf("expected port to round-trip, got %d", reloaded.Dev.Port)
	}
}

func TestValidateRejectsOutOfRangePort(t *testing.T) {
	cfg := New()
	cfg.Dev.Port = 70000
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected an error for an out-of-range port")
	}
}

func TestFindProjectRootWalksUpward(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, FileName), []byte(`{"name":"demo"}`), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	nested := filepath.Join(root, "a", "b")
	if err := os.MkdirAll(nested, 0755); err != nil {
		t.Fatalf("MkdirAll: %v", err)
	}

	found, err := FindProjectRoot(nested)
	if err != nil {
		t.Fatalf("FindProjectRoot: %v", err)
	}
	if found != root {
		t.Fatalf("expected %q, got %q", root, found)
	}
}
