package markdown

import (
	"strings"
	"testing"
)

func TestConvert_Defaults(t *testing.T) {
	c, err := NewConverter(nil)
	if err != nil {
		t.Fatal(err)
	}

	src := "# Results {#results .wide}\n\n| a | b |\n|---|---|\n| 1 | 2 |\n\n```python\nprint(1)\n```\n\n<div class=\"raw\">kept</div>\n"
	got, err := c.Convert(src)
	if err != nil {
		t.Fatal(err)
	}

	for _, want := range []string{
		`id="results"`,
		`class="wide"`,
		"<table>",
		`<code class="language-python">`,
		`<div class="raw">kept</div>`,
	} {
		if !strings.Contains(got, want) {
			t.Errorf("output missing %q:\n%s", want, got)
		}
	}
}

func TestConvert_AutoHeadingID(t *testing.T) {
	c, err := NewConverter([]string{"tables"})
	if err != nil {
		t.Fatal(err)
	}
	got, err := c.Convert("## Gel image\n")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(got, `<h2 id="gel-image">`) {
		t.Errorf("got %q", got)
	}
}

func TestNewConverter_Extensions(t *testing.T) {
	tests := []struct {
		name       string
		extensions []string
		src        string
		want       string
	}{
		{"strikethrough", []string{"strikethrough"}, "~~old~~", "<del>old</del>"},
		{"python prefix", []string{"markdown.extensions.tables"}, "| a |\n|---|\n| 1 |\n", "<table>"},
		{"tasklist", []string{"gfm"}, "- [x] done\n", `type="checkbox"`},
		{"nl2br", []string{"nl2br"}, "a\nb\n", "<br>"},
		{"footnote", []string{"extra"}, "x[^1]\n\n[^1]: note\n", "footnote"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewConverter(tt.extensions)
			if err != nil {
				t.Fatal(err)
			}
			got, err := c.Convert(tt.src)
			if err != nil {
				t.Fatal(err)
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("output missing %q:\n%s", tt.want, got)
			}
		})
	}
}

func TestNewConverter_UnknownExtension(t *testing.T) {
	_, err := NewConverter([]string{"tables", "mermaid"})
	if err == nil || !strings.Contains(err.Error(), "mermaid") {
		t.Errorf("expected error naming the extension, got %v", err)
	}
}

func TestExtensions(t *testing.T) {
	names := Extensions()
	for _, want := range DefaultExtensions {
		found := false
		for _, n := range names {
			if n == want {
				found = true
			}
		}
		if !found {
			t.Errorf("default extension %q not registered", want)
		}
	}
}
