package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRunCompileWritesJSONForValidTemplate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "card.html")
	if err := os.WriteFile(path, []byte(`<div class="card">{{ title }}</div>`), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if err := runCompile(path, true, false); err != nil {
		t.Fatalf("runCompile: %v", err)
	}
}

func TestRunCompileRejectsEmptyTemplate(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.html")
	if err := os.WriteFile(path, []byte(""), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	if err := runCompile(path, true, false); err == nil {
		t.Fatal("expected an error for a template with no root element")
	}
}

func TestRunCompileMissingFileErrors(t *testing.T) {
	if err := runCompile(filepath.Join(t.TempDir(), "missing.html"), true, false); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestFirstNonEmptyPrefersFirstArgument(t *testing.T) {
	if got := firstNonEmpty("a", "b"); got != "a" {
		t.Fatalf("firstNonEmpty(a, b) = %q, want a", got)
	}
	if got := firstNonEmpty("", "b"); got != "b" {
		t.Fatalf("firstNonEmpty(\"\", b) = %q, want b", got)
	}
}
