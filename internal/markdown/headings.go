package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

// Heading represents a markdown heading.
type Heading struct {
	Level int
	Text  string
	Line  int // 1-based line number
}

var headingParser = goldmark.New().Parser()

// ExtractHeadings returns the ATX and setext headings of a document body.
// Front matter must already be stripped.
func ExtractHeadings(content []byte) []Heading {
	doc := headingParser.Parse(text.NewReader(content))

	var headings []Heading
	_ = ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		h, ok := n.(*ast.Heading)
		if !ok {
			return ast.WalkContinue, nil
		}

		title := strings.TrimSpace(plainText(h, content))
		if title == "" {
			return ast.WalkSkipChildren, nil
		}
		line := 0
		if lines := h.Lines(); lines.Len() > 0 {
			line = bytes.Count(content[:lines.At(0).Start], []byte("\n")) + 1
		}
		headings = append(headings, Heading{Level: h.Level, Text: title, Line: line})
		return ast.WalkSkipChildren, nil
	})

	return headings
}

// HeadingText joins heading texts with newlines.
func HeadingText(headings []Heading) string {
	texts := make([]string, len(headings))
	for i, h := range headings {
		texts[i] = h.Text
	}
	return strings.Join(texts, "\n")
}

func plainText(n ast.Node, source []byte) string {
	var b strings.Builder
	for c := n.FirstChild(); c != nil; c = c.NextSibling() {
		switch v := c.(type) {
		case *ast.Text:
			b.Write(v.Segment.Value(source))
			if v.SoftLineBreak() || v.HardLineBreak() {
				b.WriteByte(' ')
			}
		case *ast.String:
			b.Write(v.Value)
		default:
			b.WriteString(plainText(c, source))
		}
	}
	return b.String()
}
