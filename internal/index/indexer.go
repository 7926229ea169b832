package index

import (
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/zepto-eln/eln/internal/document"
	"github.com/zepto-eln/eln/internal/journal"
	"github.com/zepto-eln/eln/internal/markdown"
	"github.com/zepto-eln/eln/internal/yfm"
)

// Indexer manages the document indexing pipeline.
type Indexer struct {
	db   *DB
	root string
	opts document.Options
}

// NewIndexer returns an indexer for the journal at root. Documents are
// loaded with opts under the raise policy so front matter errors can be
// recorded.
func NewIndexer(db *DB, root string, opts document.Options) *Indexer {
	opts.ErrorPolicy = document.PolicyRaise
	opts.ParseYFM = true
	opts.AddFileInfoToMeta = false
	return &Indexer{db: db, root: root, opts: opts}
}

// Stats counts the outcome of IndexAll.
type Stats struct {
	Indexed   int
	Unchanged int
	Removed   int
	Issues    int
}

// IndexAll indexes every journal document and drops records of files that
// no longer exist.
func (idx *Indexer) IndexAll() (Stats, error) {
	var st Stats

	paths, err := journal.Discover(idx.root)
	if err != nil {
		return st, err
	}

	present := make(map[string]bool, len(paths))
	for _, path := range paths {
		present[idx.rel(path)] = true

		changed, yfmErr, err := idx.indexFile(path)
		if err != nil {
			return st, err
		}
		if changed {
			st.Indexed++
		} else {
			st.Unchanged++
		}
		if yfmErr {
			st.Issues++
		}
	}

	indexed, err := idx.db.Paths()
	if err != nil {
		return st, fmt.Errorf("list indexed: %w", err)
	}
	for _, p := range indexed {
		if present[p] {
			continue
		}
		if err := idx.db.DeleteDocument(p); err != nil {
			return st, fmt.Errorf("remove %s: %w", p, err)
		}
		st.Removed++
	}

	return st, nil
}

// IndexFile indexes a single markdown file.
func (idx *Indexer) IndexFile(absPath string) error {
	_, _, err := idx.indexFile(absPath)
	return err
}

func (idx *Indexer) indexFile(absPath string) (changed, hasYFMError bool, err error) {
	content, err := os.ReadFile(absPath)
	if err != nil {
		return false, false, fmt.Errorf("read %s: %w", absPath, err)
	}

	info, err := os.Stat(absPath)
	if err != nil {
		return false, false, fmt.Errorf("stat %s: %w", absPath, err)
	}

	relPath := idx.rel(absPath)

	// Check if file has changed
	hash := fmt.Sprintf("%x", sha256.Sum256(content))
	existingHash, _ := idx.db.GetDocumentHash(relPath)
	if hash == existingHash {
		return false, false, nil
	}

	rec := Record{
		Path:    relPath,
		Title:   titleFromPath(relPath),
		ModTime: info.ModTime().Unix(),
		Size:    info.Size(),
		Hash:    hash,
	}

	doc, err := document.Load(absPath, idx.opts)
	var body string
	var meta yfm.Metadata
	var yerr *document.YFMError
	switch {
	case errors.As(err, &yerr):
		rec.YFMError = yerr.Cause.Error()
		body = string(content)
	case err != nil:
		return false, false, err
	default:
		meta = doc.Meta
		body = doc.Content
	}

	if meta != nil {
		if t := meta.String("title"); t != "" {
			rec.Title = t
		}
		rec.ExpID = meta.String("expid")
		rec.Status = meta.String("status")
		rec.StartDate = meta.String("startdate")
		rec.EndDate = meta.String("enddate")
		data, err := json.Marshal(meta)
		if err != nil {
			return false, false, fmt.Errorf("encode metadata of %s: %w", relPath, err)
		}
		rec.MetaJSON = string(data)
	}
	tags := Tags(meta)

	docID, err := idx.db.UpsertDocument(rec)
	if err != nil {
		return false, false, fmt.Errorf("upsert document: %w", err)
	}

	headings := markdown.ExtractHeadings([]byte(body))
	if err := idx.db.UpdateFTS(docID, rec.Title, body, strings.Join(tags, " "), markdown.HeadingText(headings)); err != nil {
		return false, false, fmt.Errorf("update FTS: %w", err)
	}

	if err := idx.db.ClearDocumentTags(docID); err != nil {
		return false, false, fmt.Errorf("clear document tags: %w", err)
	}
	for _, tag := range tags {
		tagID, err := idx.db.UpsertTag(tag)
		if err != nil {
			return false, false, fmt.Errorf("upsert tag %q: %w", tag, err)
		}
		if err := idx.db.LinkDocumentTag(docID, tagID); err != nil {
			return false, false, fmt.Errorf("link document tag %q: %w", tag, err)
		}
	}

	if err := idx.db.ClearDocumentHeadings(docID); err != nil {
		return false, false, fmt.Errorf("clear document headings: %w", err)
	}
	for _, h := range headings {
		if err := idx.db.InsertHeading(docID, h.Level, h.Text, h.Line); err != nil {
			return false, false, fmt.Errorf("insert heading %q: %w", h.Text, err)
		}
	}

	return true, rec.YFMError != "", nil
}

// RemoveFile removes a file from the index.
func (idx *Indexer) RemoveFile(absPath string) error {
	return idx.db.DeleteDocument(idx.rel(absPath))
}

// Handle indexes or removes path; it matches the Watcher callback.
func (idx *Indexer) Handle(path string, removed bool) error {
	if removed {
		return idx.RemoveFile(path)
	}
	return idx.IndexFile(path)
}

func (idx *Indexer) rel(absPath string) string {
	relPath, err := filepath.Rel(idx.root, absPath)
	if err != nil {
		return absPath
	}
	return filepath.ToSlash(relPath)
}

// Tags reads the "tags" metadata as a list. A string value is split on
// commas and whitespace.
func Tags(meta yfm.Metadata) []string {
	var raw []string
	switch v := meta["tags"].(type) {
	case []any:
		for _, item := range v {
			if item != nil {
				raw = append(raw, fmt.Sprint(item))
			}
		}
	case string:
		raw = strings.FieldsFunc(v, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
	}

	var tags []string
	seen := map[string]bool{}
	for _, t := range raw {
		t = strings.TrimSpace(t)
		if t != "" && !seen[t] {
			seen[t] = true
			tags = append(tags, t)
		}
	}
	return tags
}

func titleFromPath(path string) string {
	base := filepath.Base(path)
	name := strings.TrimSuffix(base, filepath.Ext(base))
	name = strings.ReplaceAll(name, "-", " ")
	name = strings.ReplaceAll(name, "_", " ")
	return name
}
