package session

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// Store handles session state persistence.
type Store struct {
	path string
}

// NewStore creates a store that persists inside the given journal.
func NewStore(journalPath string) *Store {
	return &Store{
		path: filepath.Join(journalPath, ".eln", "browse.json"),
	}
}

// Load reads the session state from disk. A missing file is an empty state.
func (s *Store) Load() (State, error) {
	var state State

	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return state, nil
		}
		return state, err
	}

	if err := json.Unmarshal(data, &state); err != nil {
		return State{}, err
	}
	return state, nil
}

// Save writes the session state to disk.
func (s *Store) Save(state State) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.path, data, 0644)
}
