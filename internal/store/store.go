// Package store is the embedded transactional index store: SQLite with an
// external-content FTS5 shadow table over chunk bodies, grounded on the
// teacher repo's internal/store/sqlite_bm25.go (WAL pragmas, pure-Go
// driver, single-writer connection pool, trigger-synced FTS).
package store

import (
	"database/sql"
	"os"
	"path/filepath"
	"strings"
	"sync"

	_ "modernc.org/sqlite"

	apperr "github.com/macward/vibemcp/internal/errors"
)

// Store owns the single long-lived database connection. Reads are
// lock-free; writes serialize through mu, matching the concurrency model's
// "store-internal write mutex, lock-free reads" rule.
type Store struct {
	mu sync.Mutex
	db *sql.DB
}

// Open opens (creating if absent) the SQLite database at path and applies
// the WAL/busy-timeout pragmas. An empty path opens a private in-memory
// database, used by tests.
func Open(path string) (*Store, error) {
	dsn := ":memory:"
	if path != "" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, apperr.Wrap(apperr.KindFatalInit, "create database directory", err)
			}
		}
		dsn = path
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindFatalInit, "open database", err)
	}

	// A single connection avoids modernc.org/sqlite's per-connection
	// isolation surprises and matches the spec's single-writer model.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA foreign_keys = ON",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, apperr.Wrap(apperr.KindFatalInit, "set pragma", err)
		}
	}

	return &Store{db: db}, nil
}

// Initialize creates the schema if it does not already exist.
func (s *Store) Initialize() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(schema); err != nil {
		return apperr.Wrap(apperr.KindFatalInit, "apply schema", err)
	}
	return nil
}

// Clear deletes every project, document, and chunk row (the FTS shadow
// follows via triggers). Webhook subscriptions and delivery logs are
// untouched — a reindex rebuilds the content index, not admin config.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec("DELETE FROM projects")
	if err != nil {
		return apperr.Wrap(apperr.KindIOTransient, "clear index", err)
	}
	return nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// UpsertProject creates the project if absent, or touches updated_at if
// present, returning its id.
func (s *Store) UpsertProject(name, path, now string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO projects (name, path, created_at, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET updated_at = excluded.updated_at
	`, name, path, now, now)
	if err != nil {
		return 0, apperr.Wrap(apperr.KindIOTransient, "upsert project", err)
	}

	// LastInsertId is not reset when the upsert takes the DO UPDATE path, so
	// the id is always read back by name.
	var existing int64
	if err := s.db.QueryRow(`SELECT id FROM projects WHERE name = ?`, name).Scan(&existing); err != nil {
		return 0, apperr.Wrap(apperr.KindIOTransient, "lookup project id", err)
	}
	return existing, nil
}

// GetProjectByName returns the project, or nil if none exists.
func (s *Store) GetProjectByName(name string) (*Project, error) {
	row := s.db.QueryRow(`SELECT id, name, path, created_at, updated_at FROM projects WHERE name = ?`, name)
	var p Project
	if err := row.Scan(&p.ID, &p.Name, &p.Path, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, apperr.Wrap(apperr.KindIOTransient, "fetch project", err)
	}
	return &p, nil
}

// ListProjects returns every project ordered by name.
func (s *Store) ListProjects() ([]Project, error) {
	rows, err := s.db.Query(`SELECT id, name, path, created_at, updated_at FROM projects ORDER BY name`)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindIOTransient, "list projects", err)
	}
	defer rows.Close()

	var out []Project
	for rows.Next() {
		var p Project
		if err := rows.Scan(&p.ID, &p.Name, &p.Path, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, apperr.Wrap(apperr.KindIOTransient, "scan project", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// UpsertDocument inserts or replaces the document identified by its unique
// path, returning its id.
func (s *Store) UpsertDocument(d Document) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tags := strings.Join(d.Tags, ",")

	_, err := s.db.Exec(`
		INSERT INTO documents (project_id, path, folder, filename, type, status, owner, feature, tags, updated, content_hash, mtime)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			project_id = excluded.project_id,
			folder = excluded.folder,
			filename = excluded.filename,
			type = excluded.type,
			status = excluded.status,
			owner = excluded.owner,
			feature = excluded.feature,
			tags = excluded.tags,
			updated = excluded.updated,
			content_hash = excluded.content_hash,
			mtime = excluded.mtime
	`, d.ProjectID, d.Path, d.Folder, d.Filename, d.Type, d.Status, d.Owner, d.Feature, tags, d.Updated, d.ContentHash, d.MTime)
	if err != nil {
		return 0, apperr.Wrap(apperr.KindIOTransient, "upsert document", err)
	}

	// As in UpsertProject, the id is read back by path rather than trusted
	// from LastInsertId, which a DO UPDATE leaves unchanged.
	var existing int64
	if err := s.db.QueryRow(`SELECT id FROM documents WHERE path = ?`, d.Path).Scan(&existing); err != nil {
		return 0, apperr.Wrap(apperr.KindIOTransient, "lookup document id", err)
	}
	return existing, nil
}

const documentColumns = `d.id, p.name, d.project_id, d.path, d.folder, d.filename, d.type, d.status, d.owner, d.feature, d.tags, d.updated, d.content_hash, d.mtime`

func scanDocument(row interface{ Scan(...any) error }) (Document, error) {
	var d Document
	var tags string
	err := row.Scan(&d.ID, &d.ProjectName, &d.ProjectID, &d.Path, &d.Folder, &d.Filename, &d.Type, &d.Status, &d.Owner, &d.Feature, &tags, &d.Updated, &d.ContentHash, &d.MTime)
	if err != nil {
		return Document{}, err
	}
	if tags != "" {
		d.Tags = strings.Split(tags, ",")
	}
	return d, nil
}

// GetDocument fetches the full record for a document by its workspace path.
func (s *Store) GetDocument(path string) (*Document, error) {
	row := s.db.QueryRow(`SELECT `+documentColumns+` FROM documents d JOIN projects p ON p.id = d.project_id WHERE d.path = ?`, path)
	d, err := scanDocument(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, apperr.Wrap(apperr.KindIOTransient, "fetch document", err)
	}
	return &d, nil
}

// GetDocumentHash returns the stored content hash, or ok=false if absent.
func (s *Store) GetDocumentHash(path string) (hash string, ok bool, err error) {
	row := s.db.QueryRow(`SELECT content_hash FROM documents WHERE path = ?`, path)
	if scanErr := row.Scan(&hash); scanErr != nil {
		if scanErr == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, apperr.Wrap(apperr.KindIOTransient, "fetch document hash", scanErr)
	}
	return hash, true, nil
}

// GetDocumentMTime returns the stored modification time, or ok=false if absent.
func (s *Store) GetDocumentMTime(path string) (mtime float64, ok bool, err error) {
	row := s.db.QueryRow(`SELECT mtime FROM documents WHERE path = ?`, path)
	if scanErr := row.Scan(&mtime); scanErr != nil {
		if scanErr == sql.ErrNoRows {
			return 0, false, nil
		}
		return 0, false, apperr.Wrap(apperr.KindIOTransient, "fetch document mtime", scanErr)
	}
	return mtime, true, nil
}

// DeleteDocument removes a document by path, cascading its chunks and FTS rows.
func (s *Store) DeleteDocument(path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM documents WHERE path = ?`, path); err != nil {
		return apperr.Wrap(apperr.KindIOTransient, "delete document", err)
	}
	return nil
}

// ListDocuments returns documents matching the optional project/folder/status filters.
func (s *Store) ListDocuments(f DocumentFilter) ([]Document, error) {
	q := `SELECT ` + documentColumns + ` FROM documents d JOIN projects p ON p.id = d.project_id WHERE 1=1`
	var args []any
	if f.Project != "" {
		q += ` AND p.name = ?`
		args = append(args, f.Project)
	}
	if f.Folder != "" {
		q += ` AND d.folder = ?`
		args = append(args, f.Folder)
	}
	if f.Status != "" {
		q += ` AND d.status = ?`
		args = append(args, f.Status)
	}
	q += ` ORDER BY d.path`

	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindIOTransient, "list documents", err)
	}
	defer rows.Close()

	var out []Document
	for rows.Next() {
		d, err := scanDocument(rows)
		if err != nil {
			return nil, apperr.Wrap(apperr.KindIOTransient, "scan document", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// ListIndexedPaths returns every document path owned by a project, used by
// the indexer's sync pass to find documents whose backing file vanished.
func (s *Store) ListIndexedPaths(projectName string) ([]string, error) {
	rows, err := s.db.Query(`
		SELECT d.path FROM documents d JOIN projects p ON p.id = d.project_id WHERE p.name = ?
	`, projectName)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindIOTransient, "list indexed paths", err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var path string
		if err := rows.Scan(&path); err != nil {
			return nil, apperr.Wrap(apperr.KindIOTransient, "scan indexed path", err)
		}
		out = append(out, path)
	}
	return out, rows.Err()
}

// InsertChunks writes a document's chunks in chunk_order.
func (s *Store) InsertChunks(documentID int64, chunks []Chunk) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.Begin()
	if err != nil {
		return apperr.Wrap(apperr.KindIOTransient, "begin chunk insert", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(`
		INSERT INTO chunks (document_id, heading, heading_level, body, chunk_order, offset, priority_heading)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return apperr.Wrap(apperr.KindIOTransient, "prepare chunk insert", err)
	}
	defer stmt.Close()

	for _, c := range chunks {
		priority := 0
		if c.PriorityHeading {
			priority = 1
		}
		if _, err := stmt.Exec(documentID, c.Heading, c.HeadingLevel, c.Body, c.Order, c.Offset, priority); err != nil {
			return apperr.Wrap(apperr.KindIOTransient, "insert chunk", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperr.Wrap(apperr.KindIOTransient, "commit chunk insert", err)
	}
	return nil
}

// DeleteChunks removes every chunk owned by a document.
func (s *Store) DeleteChunks(documentID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.Exec(`DELETE FROM chunks WHERE document_id = ?`, documentID); err != nil {
		return apperr.Wrap(apperr.KindIOTransient, "delete chunks", err)
	}
	return nil
}

// GetChunks returns a document's chunks ordered by chunk_order.
func (s *Store) GetChunks(documentID int64) ([]Chunk, error) {
	rows, err := s.db.Query(`
		SELECT id, document_id, heading, heading_level, body, chunk_order, offset, priority_heading
		FROM chunks WHERE document_id = ? ORDER BY chunk_order
	`, documentID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindIOTransient, "fetch chunks", err)
	}
	defer rows.Close()

	var out []Chunk
	for rows.Next() {
		var c Chunk
		var priority int
		if err := rows.Scan(&c.ID, &c.DocumentID, &c.Heading, &c.HeadingLevel, &c.Body, &c.Order, &c.Offset, &priority); err != nil {
			return nil, apperr.Wrap(apperr.KindIOTransient, "scan chunk", err)
		}
		c.PriorityHeading = priority != 0
		out = append(out, c)
	}
	return out, rows.Err()
}
