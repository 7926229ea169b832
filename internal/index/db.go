// Package index keeps a sqlite index of the journal: one row per document
// with its key metadata, full-text search over bodies and headings, and the
// front matter errors found while indexing.
package index

import (
	"database/sql"
	"fmt"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS documents (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    path TEXT NOT NULL UNIQUE,
    expid TEXT NOT NULL DEFAULT '',
    title TEXT NOT NULL DEFAULT '',
    status TEXT NOT NULL DEFAULT '',
    startdate TEXT NOT NULL DEFAULT '',
    enddate TEXT NOT NULL DEFAULT '',
    meta_json TEXT NOT NULL DEFAULT '',
    yfm_error TEXT NOT NULL DEFAULT '',
    mod_time INTEGER NOT NULL,
    size INTEGER NOT NULL DEFAULT 0,
    hash TEXT NOT NULL DEFAULT ''
);

CREATE INDEX IF NOT EXISTS idx_documents_expid ON documents(expid);
CREATE INDEX IF NOT EXISTS idx_documents_status ON documents(status COLLATE NOCASE);

CREATE VIRTUAL TABLE IF NOT EXISTS documents_fts USING fts5(
    title, content, tags, headings,
    tokenize='porter unicode61 remove_diacritics 2'
);

CREATE TABLE IF NOT EXISTS tags (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS document_tags (
    document_id INTEGER REFERENCES documents(id) ON DELETE CASCADE,
    tag_id INTEGER REFERENCES tags(id) ON DELETE CASCADE,
    PRIMARY KEY (document_id, tag_id)
);

CREATE TABLE IF NOT EXISTS headings (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    document_id INTEGER NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
    level INTEGER NOT NULL,
    text TEXT NOT NULL,
    line INTEGER NOT NULL
);
`

// DefaultPath returns the index location inside a journal.
func DefaultPath(root string) string {
	return filepath.Join(root, ".eln", "index.db")
}

// DB wraps the SQLite database connection.
type DB struct {
	conn *sql.DB
}

// Open opens or creates the database at the given path.
func Open(path string) (*DB, error) {
	return open(path + "?_pragma=journal_mode(wal)&_pragma=foreign_keys(on)")
}

// OpenMemory opens an in-memory database (for testing).
func OpenMemory() (*DB, error) {
	return open(":memory:?_pragma=foreign_keys(on)")
}

func open(dsn string) (*DB, error) {
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	// A second pooled connection to :memory: would see an empty database.
	conn.SetMaxOpenConns(1)

	if _, err := conn.Exec(schema); err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			return nil, fmt.Errorf("init schema: %w (close: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("init schema: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			return nil, fmt.Errorf("migrate db: %w (close: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("migrate db: %w", err)
	}
	return db, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Record is the indexed form of one document.
type Record struct {
	Path      string
	ExpID     string
	Title     string
	Status    string
	StartDate string
	EndDate   string
	MetaJSON  string
	// YFMError holds the front matter error message, empty when the
	// document loaded cleanly.
	YFMError string
	ModTime  int64
	Size     int64
	Hash     string
}

// UpsertDocument inserts or updates a document and returns its ID.
func (db *DB) UpsertDocument(r Record) (int64, error) {
	_, err := db.conn.Exec(`
		INSERT INTO documents (path, expid, title, status, startdate, enddate, meta_json, yfm_error, mod_time, size, hash)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			expid = excluded.expid,
			title = excluded.title,
			status = excluded.status,
			startdate = excluded.startdate,
			enddate = excluded.enddate,
			meta_json = excluded.meta_json,
			yfm_error = excluded.yfm_error,
			mod_time = excluded.mod_time,
			size = excluded.size,
			hash = excluded.hash
	`, r.Path, r.ExpID, r.Title, r.Status, r.StartDate, r.EndDate, r.MetaJSON, r.YFMError, r.ModTime, r.Size, r.Hash)
	if err != nil {
		return 0, err
	}

	var id int64
	err = db.conn.QueryRow("SELECT id FROM documents WHERE path = ?", r.Path).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

// UpdateFTS replaces the full-text entry of a document.
func (db *DB) UpdateFTS(docID int64, title, content, tags, headings string) error {
	if _, err := db.conn.Exec("DELETE FROM documents_fts WHERE rowid = ?", docID); err != nil {
		return err
	}
	_, err := db.conn.Exec("INSERT INTO documents_fts(rowid, title, content, tags, headings) VALUES(?, ?, ?, ?, ?)",
		docID, title, content, tags, headings)
	return err
}

// UpsertTag ensures a tag exists and returns its ID.
func (db *DB) UpsertTag(name string) (int64, error) {
	_, err := db.conn.Exec("INSERT OR IGNORE INTO tags (name) VALUES (?)", name)
	if err != nil {
		return 0, err
	}
	var id int64
	err = db.conn.QueryRow("SELECT id FROM tags WHERE name = ?", name).Scan(&id)
	return id, err
}

// LinkDocumentTag associates a tag with a document.
func (db *DB) LinkDocumentTag(docID, tagID int64) error {
	_, err := db.conn.Exec("INSERT OR IGNORE INTO document_tags (document_id, tag_id) VALUES (?, ?)", docID, tagID)
	return err
}

// ClearDocumentTags removes all tag associations for a document.
func (db *DB) ClearDocumentTags(docID int64) error {
	_, err := db.conn.Exec("DELETE FROM document_tags WHERE document_id = ?", docID)
	return err
}

// InsertHeading adds a heading record.
func (db *DB) InsertHeading(docID int64, level int, text string, line int) error {
	_, err := db.conn.Exec("INSERT INTO headings (document_id, level, text, line) VALUES (?, ?, ?, ?)",
		docID, level, text, line)
	return err
}

// ClearDocumentHeadings removes all headings for a document.
func (db *DB) ClearDocumentHeadings(docID int64) error {
	_, err := db.conn.Exec("DELETE FROM headings WHERE document_id = ?", docID)
	return err
}

// GetDocumentHash returns the stored hash for a document path.
func (db *DB) GetDocumentHash(path string) (string, error) {
	var hash string
	err := db.conn.QueryRow("SELECT hash FROM documents WHERE path = ?", path).Scan(&hash)
	if err == sql.ErrNoRows {
		return "", nil
	}
	return hash, err
}

// DeleteDocument removes a document and all its related data.
func (db *DB) DeleteDocument(path string) error {
	var id int64
	err := db.conn.QueryRow("SELECT id FROM documents WHERE path = ?", path).Scan(&id)
	if err == sql.ErrNoRows {
		return nil
	}
	if err != nil {
		return err
	}
	if _, err := db.conn.Exec("DELETE FROM documents_fts WHERE rowid = ?", id); err != nil {
		return err
	}
	_, err = db.conn.Exec("DELETE FROM documents WHERE id = ?", id)
	return err
}

// Paths returns every indexed document path.
func (db *DB) Paths() ([]string, error) {
	return queryAll(db.conn, func(rows *sql.Rows) (string, error) {
		var p string
		err := rows.Scan(&p)
		return p, err
	}, "SELECT path FROM documents ORDER BY path")
}

// migrate adds columns introduced after the first schema version.
func (db *DB) migrate() error {
	for _, col := range []string{"startdate", "enddate", "meta_json", "yfm_error"} {
		ok, err := db.hasColumn("documents", col)
		if err != nil {
			return err
		}
		if ok {
			continue
		}
		if _, err := db.conn.Exec("ALTER TABLE documents ADD COLUMN " + col + " TEXT NOT NULL DEFAULT ''"); err != nil {
			return fmt.Errorf("add documents.%s: %w", col, err)
		}
		// Rows indexed without the column must be indexed again.
		if _, err := db.conn.Exec("UPDATE documents SET hash = ''"); err != nil {
			return fmt.Errorf("reset hashes: %w", err)
		}
	}
	return nil
}

func (db *DB) hasColumn(table, col string) (bool, error) {
	rows, err := db.conn.Query("PRAGMA table_info(" + table + ")")
	if err != nil {
		return false, err
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var cid int
		var name, ctype string
		var notnull int
		var dflt sql.NullString
		var pk int
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return false, err
		}
		if name == col {
			return true, nil
		}
	}
	return false, rows.Err()
}

func queryAll[T any](conn *sql.DB, scan func(*sql.Rows) (T, error), query string, args ...any) ([]T, error) {
	rows, err := conn.Query(query, args...)
	if err != nil {
		return nil, err
	}

	var results []T
	for rows.Next() {
		r, err := scan(rows)
		if err != nil {
			_ = rows.Close()
			return nil, err
		}
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	return results, nil
}
