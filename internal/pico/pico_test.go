package pico

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/zepto-eln/eln/internal/document"
)

type recordingLogger struct {
	msgs []string
}

func (r *recordingLogger) Warn(msg any, keyvals ...any) {
	r.msgs = append(r.msgs, fmt.Sprint(append([]any{msg}, keyvals...)...))
}

func TestFindPlaceholders(t *testing.T) {
	got := FindPlaceholders("%b% and %a.x% then %b% again, 50% off %")
	want := []string{"%a.x%", "%b%"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if got := FindPlaceholders("nothing here"); got != nil {
		t.Errorf("got %v, want nil", got)
	}
}

func TestLookup(t *testing.T) {
	vars := map[string]any{
		"title": "PCR",
		"meta": map[string]any{
			"author": "rs",
			"sample": map[string]any{"id": 7},
		},
	}

	tests := []struct {
		name string
		want any
	}{
		{"title", "PCR"},
		{"meta.author", "rs"},
		{"meta.sample.id", 7},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Lookup(vars, tt.name)
			if err != nil {
				t.Fatal(err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}

	for _, name := range []string{"missing", "meta.missing", "title.sub", "meta.sample.id.x"} {
		if _, err := Lookup(vars, name); !errors.Is(err, ErrMissingKey) {
			t.Errorf("Lookup(%q): expected ErrMissingKey, got %v", name, err)
		}
	}
}

func TestSubstitute(t *testing.T) {
	vars := map[string]any{
		"expid": "RS1",
		"meta":  map[string]any{"tags": []any{"pcr", "dna"}, "n": 3},
	}
	content := "# %expid%\n\nTags: %meta.tags% (%meta.n%) %unknown%\n"

	got, err := Substitute(content, vars, ModePass, nil)
	if err != nil {
		t.Fatal(err)
	}
	want := "# RS1\n\nTags: pcr, dna (3) %unknown%\n"
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	log := &recordingLogger{}
	if _, err := Substitute(content, vars, ModePrint, log); err != nil {
		t.Fatal(err)
	}
	if len(log.msgs) != 1 {
		t.Errorf("expected one warning, got %v", log.msgs)
	}

	if _, err := Substitute(content, vars, ModeRaise, nil); !errors.Is(err, ErrMissingKey) {
		t.Errorf("expected ErrMissingKey, got %v", err)
	}
}

func TestParseMode(t *testing.T) {
	for in, want := range map[string]Mode{"pass": ModePass, "Print": ModePrint, "raise": ModeRaise} {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Errorf("ParseMode(%q) = %v, %v", in, got, err)
		}
	}
	if _, err := ParseMode("explode"); err == nil {
		t.Error("expected error")
	}
}

func TestSubstituteDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "RS9 gel.md")
	raw := "---\nexpid: RS9\nauthor: {name: Ada}\n---\n# %meta.expid% in %basename% by %meta.author.name%\n"
	if err := os.WriteFile(path, []byte(raw), 0644); err != nil {
		t.Fatal(err)
	}

	doc, err := document.Load(path, document.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if err := SubstituteDocument(doc, ModeRaise, nil); err != nil {
		t.Fatal(err)
	}
	want := "# RS9 in RS9 gel.md by Ada\n"
	if doc.Content != want {
		t.Errorf("got %q, want %q", doc.Content, want)
	}
}
