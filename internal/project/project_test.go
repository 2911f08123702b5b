package project

import (
	"os"
	"path/filepath"
	"testing"
)

func writeManifest(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultManifest)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write manifest: %v", err)
	}
	return path
}

func TestLoad(t *testing.T) {
	path := writeManifest(t, `name: demo
require: "^0.1"
debug: true
sources:
  - input: src/main.cz
  - input: src/util.cz
    output: build/util.c
`)

	m, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}

	if m.Name != "demo" {
		t.Fatalf("name wrong: %q", m.Name)
	}
	if !m.Debug {
		t.Fatal("debug flag lost")
	}
	if len(m.Sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(m.Sources))
	}

	dir := filepath.Dir(path)
	if got := m.ResolveInput(m.Sources[0]); got != filepath.Join(dir, "src/main.cz") {
		t.Fatalf("input resolution wrong: %q", got)
	}
	if got := m.ResolveOutput(m.Sources[0]); got != filepath.Join(dir, "src/main.c") {
		t.Fatalf("default output resolution wrong: %q", got)
	}
	if got := m.ResolveOutput(m.Sources[1]); got != filepath.Join(dir, "build/util.c") {
		t.Fatalf("explicit output resolution wrong: %q", got)
	}
}

func TestLoadRejectsUnknownFields(t *testing.T) {
	path := writeManifest(t, `sources:
  - input: a.cz
typo_field: true
`)

	if _, err := Load(path); err == nil {
		t.Fatal("unknown manifest fields should be rejected")
	}
}

func TestLoadRejectsEmptySources(t *testing.T) {
	path := writeManifest(t, "name: empty\n")

	if _, err := Load(path); err == nil {
		t.Fatal("manifest without sources should be rejected")
	}
}

func TestLoadRejectsMissingInput(t *testing.T) {
	path := writeManifest(t, `sources:
  - output: out.c
`)

	if _, err := Load(path); err == nil {
		t.Fatal("source without input should be rejected")
	}
}

func TestCheckVersion(t *testing.T) {
	m := &Manifest{Require: "^0.1"}

	if err := m.CheckVersion("0.1.5"); err != nil {
		t.Fatalf("0.1.5 should satisfy ^0.1: %v", err)
	}
	if err := m.CheckVersion("0.2.0"); err == nil {
		t.Fatal("0.2.0 should not satisfy ^0.1")
	}

	empty := &Manifest{}
	if err := empty.CheckVersion("0.0.1"); err != nil {
		t.Fatalf("missing constraint should always pass: %v", err)
	}
}
