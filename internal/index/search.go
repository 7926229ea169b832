package index

import (
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/zepto-eln/eln/internal/yfm"
)

// Entry is an indexed document.
type Entry struct {
	ID        int64
	Path      string
	ExpID     string
	Title     string
	Status    string
	StartDate string
	EndDate   string
	YFMError  string
}

// SearchResult represents a single search result.
type SearchResult struct {
	Entry
	Rank float64
}

// HeadingResult represents a heading in a document.
type HeadingResult struct {
	DocumentID int64
	Path       string
	Level      int
	Text       string
	Line       int
}

const entryColumns = "d.id, d.path, d.expid, d.title, d.status, d.startdate, d.enddate, d.yfm_error"

func scanEntry(rows *sql.Rows) (Entry, error) {
	var e Entry
	err := rows.Scan(&e.ID, &e.Path, &e.ExpID, &e.Title, &e.Status, &e.StartDate, &e.EndDate, &e.YFMError)
	return e, err
}

// Search performs a full-text search across documents.
func (db *DB) Search(query string, limit int) ([]SearchResult, error) {
	if limit <= 0 {
		limit = 50
	}

	return queryAll(db.conn, func(rows *sql.Rows) (SearchResult, error) {
		var r SearchResult
		err := rows.Scan(&r.ID, &r.Path, &r.ExpID, &r.Title, &r.Status, &r.StartDate, &r.EndDate, &r.YFMError, &r.Rank)
		return r, err
	}, `
		SELECT `+entryColumns+`, rank
		FROM documents_fts
		JOIN documents d ON d.id = documents_fts.rowid
		WHERE documents_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, query, limit)
}

// ListAll returns all indexed documents, sorted by path.
func (db *DB) ListAll() ([]Entry, error) {
	return queryAll(db.conn, scanEntry, "SELECT "+entryColumns+" FROM documents d ORDER BY d.path")
}

// ListByStatus returns documents with the given status, compared
// case-insensitively.
func (db *DB) ListByStatus(status string) ([]Entry, error) {
	return queryAll(db.conn, scanEntry, `
		SELECT `+entryColumns+`
		FROM documents d
		WHERE d.status = ? COLLATE NOCASE
		ORDER BY d.path
	`, status)
}

// ListByTag returns documents carrying tag.
func (db *DB) ListByTag(tag string) ([]Entry, error) {
	return queryAll(db.conn, scanEntry, `
		SELECT `+entryColumns+`
		FROM documents d
		JOIN document_tags dt ON dt.document_id = d.id
		JOIN tags t ON t.id = dt.tag_id
		WHERE t.name = ?
		ORDER BY d.path
	`, tag)
}

// ListIssues returns documents whose front matter failed to load.
func (db *DB) ListIssues() ([]Entry, error) {
	return queryAll(db.conn, scanEntry, `
		SELECT `+entryColumns+`
		FROM documents d
		WHERE d.yfm_error != ''
		ORDER BY d.path
	`)
}

// FindByExpID returns the documents with the given experiment ID.
func (db *DB) FindByExpID(expid string) ([]Entry, error) {
	return queryAll(db.conn, scanEntry, `
		SELECT `+entryColumns+`
		FROM documents d
		WHERE d.expid = ?
		ORDER BY d.path
	`, expid)
}

// Metadata returns the stored front matter of the document at path. It is
// nil when the document has none.
func (db *DB) Metadata(path string) (yfm.Metadata, error) {
	var raw string
	err := db.conn.QueryRow("SELECT meta_json FROM documents WHERE path = ?", path).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%s: not indexed", path)
	}
	if err != nil {
		return nil, err
	}
	if raw == "" {
		return nil, nil
	}

	var meta yfm.Metadata
	if err := json.Unmarshal([]byte(raw), &meta); err != nil {
		return nil, fmt.Errorf("decode metadata of %s: %w", path, err)
	}
	return meta, nil
}

// SearchHeadings searches headings across all documents.
func (db *DB) SearchHeadings(query string, limit int) ([]HeadingResult, error) {
	if limit <= 0 {
		limit = 50
	}

	return queryAll(db.conn, func(rows *sql.Rows) (HeadingResult, error) {
		var r HeadingResult
		err := rows.Scan(&r.DocumentID, &r.Path, &r.Level, &r.Text, &r.Line)
		return r, err
	}, `
		SELECT h.document_id, d.path, h.level, h.text, h.line
		FROM headings h
		JOIN documents d ON d.id = h.document_id
		WHERE h.text LIKE ?
		ORDER BY d.path, h.line
		LIMIT ?
	`, "%"+query+"%", limit)
}
