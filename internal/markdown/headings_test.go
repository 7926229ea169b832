package markdown

import "testing"

func TestExtractHeadings(t *testing.T) {
	input := `# Heading 1

Some text.

## Heading 2 ##

### Heading *3* with ` + "`code`" + `

Setext title
------------

    # not a heading (indented code)
`
	headings := ExtractHeadings([]byte(input))

	tests := []struct {
		level int
		text  string
		line  int
	}{
		{1, "Heading 1", 1},
		{2, "Heading 2", 5},
		{3, "Heading 3 with code", 7},
		{2, "Setext title", 9},
	}

	if len(headings) != len(tests) {
		t.Fatalf("got %d headings (%+v), want %d", len(headings), headings, len(tests))
	}
	for i, tt := range tests {
		if headings[i].Level != tt.level {
			t.Errorf("[%d] level: got %d, want %d", i, headings[i].Level, tt.level)
		}
		if headings[i].Text != tt.text {
			t.Errorf("[%d] text: got %q, want %q", i, headings[i].Text, tt.text)
		}
		if headings[i].Line != tt.line {
			t.Errorf("[%d] line: got %d, want %d", i, headings[i].Line, tt.line)
		}
	}

	if got := HeadingText(headings[:2]); got != "Heading 1\nHeading 2" {
		t.Errorf("HeadingText: got %q", got)
	}
}

func TestExtractHeadings_Empty(t *testing.T) {
	if got := ExtractHeadings([]byte("just text\n")); len(got) != 0 {
		t.Errorf("got %+v", got)
	}
}
