package strfmt

import (
	"errors"
	"testing"
)

func TestFormat(t *testing.T) {
	vars := map[string]any{
		"status": "started",
		"expid":  "RS1",
		"n":      3,
		"none":   nil,
	}

	tests := []struct {
		format string
		want   string
	}{
		{"{expid}", "RS1"},
		{"{expid:<6}|", "RS1   |"},
		{"{expid:>6}|", "   RS1|"},
		{"{status:^10}|", " started  |"},
		{"{expid:*^7}", "**RS1**"},
		{"{expid:6}|", "RS1   |"},
		{"{expid:<2}", "RS1"},
		{"n={n} {none}.", "n=3 ."},
		{"{{literal}} }}", "{literal} }"},
		{"{missing:<4}|", "    |"},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			got, err := Format(tt.format, Map(vars), false)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormat_Errors(t *testing.T) {
	vars := Map(map[string]any{"a": "x"})

	if _, err := Format("{missing}", vars, true); !errors.Is(err, ErrMissingField) {
		t.Errorf("expected ErrMissingField, got %v", err)
	}
	if _, err := Format("{a", vars, false); !errors.Is(err, ErrBadFormat) {
		t.Errorf("expected ErrBadFormat, got %v", err)
	}
	if _, err := Format("{a:<x}", vars, false); !errors.Is(err, ErrBadFormat) {
		t.Errorf("expected ErrBadFormat, got %v", err)
	}
}
