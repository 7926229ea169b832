package session

import (
	"os"
	"path/filepath"
	"testing"
)

func TestStore_RoundTrip(t *testing.T) {
	root := t.TempDir()
	s := NewStore(root)

	state, err := s.Load()
	if err != nil {
		t.Fatal(err)
	}
	if state != (State{}) {
		t.Errorf("missing file: got %+v", state)
	}

	want := State{Filter: "status:started", Selected: "2024/RS1.md"}
	if err := s.Save(want); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(root, ".eln", "browse.json")); err != nil {
		t.Fatal(err)
	}

	got, err := NewStore(root).Load()
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("got %+v, want %+v", got, want)
	}
}

func TestStore_Corrupt(t *testing.T) {
	root := t.TempDir()
	path := filepath.Join(root, ".eln", "browse.json")
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}

	state, err := NewStore(root).Load()
	if err == nil {
		t.Error("expected a decode error")
	}
	if state != (State{}) {
		t.Errorf("got %+v, want empty state", state)
	}
}
