// Package journal discovers and loads the notebook documents under a base
// directory.
package journal

import (
	"errors"
	"io/fs"
	"path/filepath"
	"sort"
	"strings"

	"github.com/zepto-eln/eln/internal/document"
	"github.com/zepto-eln/eln/internal/yfm"
)

// Ext is the extension of notebook documents.
const Ext = ".md"

// Journal is a notebook directory.
type Journal struct {
	Root string
}

func New(root string) *Journal {
	return &Journal{Root: root}
}

// Options controls corpus loads.
type Options struct {
	// Document is passed to every document.Load. With ErrorPolicy set to
	// document.PolicySkipFile each file is loaded strictly and files with
	// front matter errors are dropped.
	Document document.Options
	// ExcludeIfMissingYFM drops loaded documents whose metadata is nil.
	ExcludeIfMissingYFM bool
}

// DefaultOptions returns the corpus defaults: skip files with broken front
// matter and leave out documents without metadata.
func DefaultOptions() Options {
	doc := document.DefaultOptions()
	doc.ErrorPolicy = document.PolicySkipFile
	return Options{
		Document:            doc,
		ExcludeIfMissingYFM: true,
	}
}

// Discover returns the paths of all markdown files under basedir, sorted.
// Hidden directories are skipped.
func Discover(basedir string) ([]string, error) {
	var paths []string

	err := filepath.WalkDir(basedir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		name := d.Name()
		if d.IsDir() {
			if path != basedir && strings.HasPrefix(name, ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") || filepath.Ext(name) != Ext {
			return nil
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(paths)
	return paths, nil
}

// LoadAll loads every document under basedir. Read errors abort the load.
func LoadAll(basedir string, opts Options) ([]*document.Document, error) {
	paths, err := Discover(basedir)
	if err != nil {
		return nil, err
	}

	skipFailed := opts.Document.ErrorPolicy == document.PolicySkipFile
	docOpts := opts.Document
	if skipFailed {
		docOpts.ErrorPolicy = document.PolicyRaise
	}

	var docs []*document.Document
	for _, path := range paths {
		doc, err := document.Load(path, docOpts)
		if err != nil {
			var yerr *document.YFMError
			if skipFailed && errors.As(err, &yerr) {
				continue
			}
			return nil, err
		}
		if opts.ExcludeIfMissingYFM && doc.Meta == nil {
			continue
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// LoadAllMetadata returns the metadata of the documents LoadAll keeps, in
// the same order.
func LoadAllMetadata(basedir string, opts Options) ([]yfm.Metadata, error) {
	docs, err := LoadAll(basedir, opts)
	if err != nil {
		return nil, err
	}

	metas := make([]yfm.Metadata, len(docs))
	for i, doc := range docs {
		metas[i] = doc.Meta
	}
	return metas, nil
}

// Discover lists the journal's markdown files.
func (j *Journal) Discover() ([]string, error) {
	return Discover(j.Root)
}

// LoadAll loads the journal's documents.
func (j *Journal) LoadAll(opts Options) ([]*document.Document, error) {
	return LoadAll(j.Root, opts)
}

// LoadAllMetadata loads the journal's document metadata.
func (j *Journal) LoadAllMetadata(opts Options) ([]yfm.Metadata, error) {
	return LoadAllMetadata(j.Root, opts)
}
