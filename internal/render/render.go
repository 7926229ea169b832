// Package render compiles notebook documents to HTML: placeholder
// substitution, markdown conversion, an optional page template and the
// output file.
package render

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/flosch/pongo2/v6"

	"github.com/zepto-eln/eln/internal/document"
	"github.com/zepto-eln/eln/internal/markdown"
	"github.com/zepto-eln/eln/internal/pico"
	"github.com/zepto-eln/eln/internal/strfmt"
)

// Stdout as OutputFn writes the HTML to Options.Stdout.
const Stdout = "-"

// ErrUnsupportedParser is returned for markdown parsers other than the
// built-in one.
var ErrUnsupportedParser = errors.New("unsupported markdown parser")

// Options controls Compile.
type Options struct {
	// OutputFn is the output file name format, filled from the document's
	// file info and metadata. Empty disables writing.
	OutputFn string
	// Parser names the markdown parser. Only the built-in goldmark parser
	// is available ("", "goldmark", "python-markdown").
	Parser     string
	Extensions []string

	PicoSubstitution bool
	PicoMode         pico.Mode

	ApplyTemplate       bool
	Template            string
	TemplateDir         string
	DefaultTemplateName string
	// TemplateVars are extra template variables. Document variables take
	// precedence.
	TemplateVars map[string]any

	Document document.Options
	Stdout   io.Writer
}

// DefaultOptions returns the compile defaults.
func DefaultOptions() Options {
	return Options{
		OutputFn:            "{filepath_noext}.html",
		PicoSubstitution:    true,
		PicoMode:            pico.ModePrint,
		ApplyTemplate:       true,
		DefaultTemplateName: "index",
		Document:            document.DefaultOptions(),
	}
}

// Result is a compiled document.
type Result struct {
	Document *document.Document
	// BodyHTML is the converted markdown body.
	BodyHTML string
	// HTML is the final page, equal to BodyHTML when no template applies.
	HTML string
	// OutputPath is where HTML was written: a file path, Stdout or "".
	OutputPath string
	Template   string
}

// Compile loads the document at path and converts it to HTML.
func Compile(path string, opts Options) (*Result, error) {
	conv, err := opts.converter()
	if err != nil {
		return nil, err
	}
	return compile(path, conv, opts)
}

// CompileAll compiles paths in order and stops at the first failure.
func CompileAll(paths []string, opts Options) ([]*Result, error) {
	conv, err := opts.converter()
	if err != nil {
		return nil, err
	}

	results := make([]*Result, 0, len(paths))
	for _, path := range paths {
		res, err := compile(path, conv, opts)
		if err != nil {
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

func (o Options) converter() (*markdown.Converter, error) {
	switch strings.ToLower(o.Parser) {
	case "", "goldmark", "python-markdown":
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedParser, o.Parser)
	}
	return markdown.NewConverter(o.Extensions)
}

func compile(path string, conv *markdown.Converter, opts Options) (*Result, error) {
	doc, err := document.Load(path, opts.Document)
	if err != nil {
		return nil, err
	}

	if opts.PicoSubstitution {
		if err := pico.SubstituteDocument(doc, opts.PicoMode, opts.Document.Logger); err != nil {
			return nil, err
		}
	}

	body, err := conv.Convert(doc.Content)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	res := &Result{Document: doc, BodyHTML: body, HTML: body}

	if opts.ApplyTemplate {
		tpl, err := ResolveTemplate(opts.Template, opts.TemplateDir, opts.DefaultTemplateName, doc.Meta.String("template"))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		html, err := ExecuteTemplate(tpl, TemplateVars(doc, body, opts.TemplateVars))
		if err != nil {
			return nil, err
		}
		res.HTML = html
		res.Template = tpl
	}

	if err := res.write(opts); err != nil {
		return nil, err
	}
	return res, nil
}

// TemplateVars builds the template context for a converted document. The
// body is available as content, html_body and html_content and is not
// escaped.
func TemplateVars(doc *document.Document, body string, extra map[string]any) map[string]any {
	vars := make(map[string]any, len(extra)+16)
	for k, v := range extra {
		vars[k] = v
	}
	for k, v := range pico.DocumentVars(doc) {
		vars[k] = v
	}
	safe := pongo2.AsSafeValue(body)
	vars["content"] = safe
	vars["html_body"] = safe
	vars["html_content"] = safe
	vars["html_content_raw"] = safe
	vars["markdown"] = doc.Content
	return vars
}

func (r *Result) write(opts Options) error {
	switch opts.OutputFn {
	case "":
		return nil
	case Stdout:
		w := opts.Stdout
		if w == nil {
			w = os.Stdout
		}
		if _, err := io.WriteString(w, r.HTML); err != nil {
			return fmt.Errorf("write html: %w", err)
		}
		r.OutputPath = Stdout
		return nil
	}

	out, err := FormatOutputName(opts.OutputFn, r.Document)
	if err != nil {
		return fmt.Errorf("%s: %w", r.Document.Path, err)
	}
	if err := os.MkdirAll(filepath.Dir(out), 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}
	if err := os.WriteFile(out, []byte(r.HTML), 0644); err != nil {
		return fmt.Errorf("write html: %w", err)
	}
	r.OutputPath = out
	return nil
}

// FormatOutputName fills outputfn from the document's file info overlaid
// with its metadata, e.g. "{filepath_noext}.html" or "out/{expid}.html".
func FormatOutputName(outputfn string, doc *document.Document) (string, error) {
	params := make(map[string]any)
	for k, v := range doc.FileInfo.Fields() {
		params[k] = v
	}
	for k, v := range doc.Meta {
		params[k] = v
	}
	name, err := strfmt.Format(outputfn, strfmt.Map(params), true)
	if err != nil {
		return "", fmt.Errorf("output file name: %w", err)
	}
	return name, nil
}
