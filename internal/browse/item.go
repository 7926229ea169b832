// Package browse is an interactive journal browser: a filter box over the
// loaded experiments and a detail pane with the selected document's
// metadata and first body lines.
package browse

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/zepto-eln/eln/internal/document"
	"github.com/zepto-eln/eln/internal/yfm"
)

// previewLines is how many body lines the detail pane shows.
const previewLines = 12

// Item is one experiment in the browser.
type Item struct {
	Path    string
	ExpID   string
	Title   string
	Status  string
	Meta    yfm.Metadata
	Preview []string
}

// ItemsFromDocuments converts loaded documents. Paths are shown relative to
// root when possible.
func ItemsFromDocuments(docs []*document.Document, root string) []Item {
	fileKeys := document.FileInfo{}.Fields()

	items := make([]Item, 0, len(docs))
	for _, doc := range docs {
		path := doc.Path
		if rel, err := filepath.Rel(root, doc.Path); err == nil {
			path = rel
		}

		meta := make(yfm.Metadata, len(doc.Meta))
		for k, v := range doc.Meta {
			if _, ok := fileKeys[k]; !ok {
				meta[k] = v
			}
		}

		items = append(items, Item{
			Path:    path,
			ExpID:   doc.Meta.String("expid"),
			Title:   doc.Meta.String("title"),
			Status:  doc.Meta.String("status"),
			Meta:    meta,
			Preview: preview(doc.Content),
		})
	}
	return items
}

func preview(content string) []string {
	lines := strings.Split(strings.TrimLeft(content, "\n"), "\n")
	if len(lines) > previewLines {
		lines = lines[:previewLines]
	}
	return lines
}

// Filter returns the items matching every term of query. A term of the form
// "status:x" matches the status exactly; other terms match expid, title,
// status or path as case-insensitive substrings. Items keep their order.
func Filter(items []Item, query string) []Item {
	terms := strings.Fields(strings.ToLower(query))
	if len(terms) == 0 {
		return items
	}

	var out []Item
	for _, it := range items {
		if matches(it, terms) {
			out = append(out, it)
		}
	}
	return out
}

func matches(it Item, terms []string) bool {
	hay := strings.ToLower(strings.Join([]string{it.ExpID, it.Title, it.Status, it.Path}, "\x00"))
	for _, term := range terms {
		if status, ok := strings.CutPrefix(term, "status:"); ok {
			if strings.ToLower(it.Status) != status {
				return false
			}
			continue
		}
		if !strings.Contains(hay, term) {
			return false
		}
	}
	return true
}

// Statuses returns the distinct statuses among items, sorted.
func Statuses(items []Item) []string {
	seen := map[string]bool{}
	var out []string
	for _, it := range items {
		s := strings.ToLower(it.Status)
		if s != "" && !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	sort.Strings(out)
	return out
}
