// Package session remembers the journal browser's filter and selection
// between runs.
package session

// State represents persisted browser state.
type State struct {
	Filter   string `json:"filter,omitempty"`
	Selected string `json:"selected,omitempty"`
}
