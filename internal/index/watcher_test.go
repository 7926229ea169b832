package index

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type change struct {
	path    string
	removed bool
}

func TestWatcher(t *testing.T) {
	root := t.TempDir()

	changes := make(chan change, 10)
	handler := func(path string, removed bool) error {
		changes <- change{path, removed}
		return nil
	}

	w, err := NewWatcher(root, handler, nil)
	if err != nil {
		t.Fatal(err)
	}
	w.Debounce = 20 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	path := filepath.Join(root, "RS1.md")
	if err := os.WriteFile(path, []byte("---\nexpid: RS1\n---\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "notes.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case c := <-changes:
		if c.path != path || c.removed {
			t.Errorf("got %+v", c)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}

	if err := os.Remove(path); err != nil {
		t.Fatal(err)
	}
	select {
	case c := <-changes:
		if c.path != path || !c.removed {
			t.Errorf("got %+v", c)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no removal reported")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return")
	}
	if err := w.Stop(); err != nil {
		t.Errorf("second Stop: %v", err)
	}
}
