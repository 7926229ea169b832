// Package markdown converts notebook document bodies to HTML with goldmark.
package markdown

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
)

// DefaultExtensions are enabled when no extension is named.
var DefaultExtensions = []string{"fenced_code", "attr_list", "tables", "sane_lists"}

// Converter renders markdown to HTML.
type Converter struct {
	md goldmark.Markdown
}

type features struct {
	extenders  []goldmark.Extender
	attributes bool
	hardWraps  bool
}

type feature func(*features)

func extender(e goldmark.Extender) feature {
	return func(f *features) { f.extenders = append(f.extenders, e) }
}

func noop(*features) {}

var registry = map[string]feature{
	"gfm":           extender(extension.GFM),
	"table":         extender(extension.Table),
	"tables":        extender(extension.Table),
	"strikethrough": extender(extension.Strikethrough),
	"linkify":       extender(extension.Linkify),
	"autolink":      extender(extension.Linkify),
	"tasklist":      extender(extension.TaskList),
	"definition":    extender(extension.DefinitionList),
	"def_list":      extender(extension.DefinitionList),
	"footnote":      extender(extension.Footnote),
	"footnotes":     extender(extension.Footnote),
	"typographer":   extender(extension.Typographer),
	"smarty":        extender(extension.Typographer),
	"attr_list":     func(f *features) { f.attributes = true },
	"nl2br":         func(f *features) { f.hardWraps = true },
	"extra": func(f *features) {
		f.attributes = true
		f.extenders = append(f.extenders, extension.Table, extension.Footnote, extension.DefinitionList)
	},
	// Handled by the CommonMark core.
	"fenced_code": noop,
	"sane_lists":  noop,
	"toc":         noop,
}

// Extensions lists the extension names NewConverter accepts.
func Extensions() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewConverter builds a converter with the named extensions. Names may carry
// a "markdown.extensions." prefix. An empty list selects DefaultExtensions.
func NewConverter(extensions []string) (*Converter, error) {
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}

	var f features
	seen := map[string]bool{}
	for _, name := range extensions {
		key := strings.ToLower(strings.TrimSpace(name))
		key = strings.TrimPrefix(key, "markdown.extensions.")
		if key == "" || seen[key] {
			continue
		}
		apply, ok := registry[key]
		if !ok {
			return nil, fmt.Errorf("unknown markdown extension %q", name)
		}
		apply(&f)
		seen[key] = true
	}

	parserOptions := []parser.Option{parser.WithAutoHeadingID()}
	if f.attributes {
		parserOptions = append(parserOptions, parser.WithAttribute())
	}
	rendererOptions := []renderer.Option{html.WithUnsafe()}
	if f.hardWraps {
		rendererOptions = append(rendererOptions, html.WithHardWraps())
	}

	return &Converter{
		md: goldmark.New(
			goldmark.WithExtensions(f.extenders...),
			goldmark.WithParserOptions(parserOptions...),
			goldmark.WithRendererOptions(rendererOptions...),
		),
	}, nil
}

// Convert renders src as HTML.
func (c *Converter) Convert(src string) (string, error) {
	var buf bytes.Buffer
	if err := c.md.Convert([]byte(src), &buf); err != nil {
		return "", fmt.Errorf("convert markdown: %w", err)
	}
	return buf.String(), nil
}

// Parse returns the document AST of src.
func (c *Converter) Parse(src []byte) ast.Node {
	return c.md.Parser().Parse(text.NewReader(src))
}
