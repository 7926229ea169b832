// Package document loads a single notebook document: its raw text, the body
// after the front matter, the decoded metadata and the file path parts.
package document

import (
	"fmt"
	"os"
	"unicode/utf8"

	"github.com/zepto-eln/eln/internal/yfm"
)

// Document is one loaded file.
type Document struct {
	Path       string
	FileInfo   FileInfo
	RawContent string
	// Content is the body after the front matter, or RawContent when no
	// front matter was parsed.
	Content string
	// Meta is nil when the document has no usable metadata.
	Meta yfm.Metadata
}

// Logger receives load diagnostics. *log.Logger from charmbracelet/log
// satisfies it.
type Logger interface {
	Warn(msg any, keyvals ...any)
}

// Options controls Load.
type Options struct {
	// AddFileInfoToMeta merges FileInfo.Fields into non-nil metadata. File
	// info wins over front matter keys of the same name.
	AddFileInfoToMeta bool
	// ParseYFM enables front matter extraction.
	ParseYFM bool
	// ErrorPolicy is applied to split and decode failures.
	ErrorPolicy Policy
	// DefaultMeta substitutes the metadata of a document whose front matter
	// failed under PolicyWarn or PolicyIgnore. It is copied per document.
	DefaultMeta yfm.Metadata
	Split       yfm.SplitOptions
	// Logger is optional; nil disables diagnostics.
	Logger Logger
}

// DefaultOptions returns the single-document defaults: strict parsing with
// file info merged into the metadata.
func DefaultOptions() Options {
	return Options{
		AddFileInfoToMeta: true,
		ParseYFM:          true,
		ErrorPolicy:       PolicyRaise,
		Split:             yfm.DefaultSplitOptions(),
	}
}

// Load reads the document at path. Read errors, including invalid UTF-8,
// are returned as they are. Front matter failures go through
// opts.ErrorPolicy.
func Load(path string, opts Options) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	if !utf8.Valid(data) {
		return nil, fmt.Errorf("read %s: %w", path, ErrInvalidUTF8)
	}

	raw := string(data)
	doc := &Document{
		Path:       path,
		FileInfo:   NewFileInfo(path),
		RawContent: raw,
		Content:    raw,
	}

	if opts.ParseYFM {
		meta, body, parts, err := yfm.ParseDocument(raw, opts.Split)
		if parts.MissingLeadingMarker && opts.Split.LeadingMarker == yfm.RequireWarn {
			opts.warn("only one front matter boundary marker", "path", path)
		}
		if err != nil {
			meta, body, err = opts.fallback(path, raw, err)
			if err != nil {
				return nil, err
			}
		}
		doc.Meta = meta
		doc.Content = body
	}

	if opts.AddFileInfoToMeta && doc.Meta != nil {
		for k, v := range doc.FileInfo.Fields() {
			doc.Meta[k] = v
		}
	}

	return doc, nil
}

func (o Options) fallback(path, raw string, cause error) (yfm.Metadata, string, error) {
	switch o.ErrorPolicy {
	case PolicyRaise, PolicySkipFile:
		return nil, "", &YFMError{Path: path, Cause: cause}
	case PolicyWarn:
		o.warn("front matter error", "path", path, "err", cause)
		return o.DefaultMeta.Clone(), raw, nil
	case PolicyIgnore:
		return o.DefaultMeta.Clone(), raw, nil
	default:
		return nil, "", fmt.Errorf("%w: %v", ErrUnknownPolicy, o.ErrorPolicy)
	}
}

func (o Options) warn(msg string, keyvals ...any) {
	if o.Logger != nil {
		o.Logger.Warn(msg, keyvals...)
	}
}
