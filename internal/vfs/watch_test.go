package vfs

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherSeesWrites(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "main.cz")
	if err := os.WriteFile(file, []byte("int x;\n"), 0o644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}

	w, err := NewWatcher(file)
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(file, []byte("int y;\n"), 0o644); err != nil {
		t.Fatalf("failed to rewrite file: %v", err)
	}

	select {
	case p := <-w.Events():
		abs, _ := filepath.Abs(file)
		if p != abs {
			t.Fatalf("event path wrong. expected=%q, got=%q", abs, p)
		}
	case err := <-w.Errors():
		t.Fatalf("watcher error: %v", err)
	case <-time.After(3 * time.Second):
		t.Fatal("no event within 3s")
	}
}

func TestWatcherIgnoresSiblings(t *testing.T) {
	dir := t.TempDir()
	watchedFile := filepath.Join(dir, "main.cz")
	sibling := filepath.Join(dir, "other.cz")
	if err := os.WriteFile(watchedFile, []byte("int x;\n"), 0o644); err != nil {
		t.Fatalf("failed to create file: %v", err)
	}

	w, err := NewWatcher(watchedFile)
	if err != nil {
		t.Fatalf("failed to create watcher: %v", err)
	}
	defer w.Close()

	if err := os.WriteFile(sibling, []byte("int z;\n"), 0o644); err != nil {
		t.Fatalf("failed to write sibling: %v", err)
	}

	select {
	case p := <-w.Events():
		t.Fatalf("unexpected event for %q", p)
	case <-time.After(500 * time.Millisecond):
		// expected: sibling writes are filtered out
	}
}
