package content

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLiteStore keeps article documents in a SQLite database. The read methods
// implement Store; Sync is used by the import command to mirror a directory.
type SQLiteStore struct {
	db *sql.DB
}

// OpenSQLiteStore opens (or creates) the database at path, ensures the data
// directory exists, and runs schema migrations.
func OpenSQLiteStore(path string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("content: create data dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("content: open sqlite: %w", err)
	}
	// WAL lets page renders read while an import is writing; busy_timeout
	// makes writers wait instead of failing with SQLITE_BUSY.
	if _, err := db.Exec(`
		PRAGMA journal_mode=WAL;
		PRAGMA busy_timeout=5000;
		PRAGMA synchronous=NORMAL;
	`); err != nil {
		db.Close()
		return nil, fmt.Errorf("content: configure sqlite: %w", err)
	}
	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(4)
	s := &SQLiteStore{db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) ensureSchema() error {
	_, err := s.db.Exec(`
CREATE TABLE IF NOT EXISTS articles (
    slug TEXT PRIMARY KEY,
    source TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS meta (
    key TEXT PRIMARY KEY,
    value TEXT NOT NULL
);
`)
	if err != nil {
		return fmt.Errorf("content: ensure schema: %w", err)
	}
	return nil
}

// ListSlugs returns every stored slug in ascending order.
func (s *SQLiteStore) ListSlugs() ([]string, error) {
	rows, err := s.db.Query(`SELECT slug FROM articles ORDER BY slug ASC`)
	if err != nil {
		return nil, fmt.Errorf("content: list slugs: %w", err)
	}
	defer rows.Close()

	var slugs []string
	for rows.Next() {
		var slug string
		if err := rows.Scan(&slug); err != nil {
			return nil, err
		}
		slugs = append(slugs, slug)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return slugs, nil
}

// ReadSource returns the stored document for slug.
func (s *SQLiteStore) ReadSource(slug string) ([]byte, error) {
	var source string
	err := s.db.QueryRow(`SELECT source FROM articles WHERE slug = ?`, slug).Scan(&source)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &NotFoundError{Slug: slug}
	}
	if err != nil {
		return nil, fmt.Errorf("content: read %s: %w", slug, err)
	}
	return []byte(source), nil
}

// Version returns the revision counter bumped by every write.
func (s *SQLiteStore) Version() (string, error) {
	var rev string
	err := s.db.QueryRow(`SELECT value FROM meta WHERE key = 'revision'`).Scan(&rev)
	if errors.Is(err, sql.ErrNoRows) {
		return "0", nil
	}
	if err != nil {
		return "", fmt.Errorf("content: read revision: %w", err)
	}
	return rev, nil
}

// SyncResult counts the changes applied by Sync.
type SyncResult struct {
	Written int
	Deleted int
}

// Sync makes the database mirror src: every document in src is upserted and
// slugs absent from src are removed, all in one transaction.
func (s *SQLiteStore) Sync(src Store) (SyncResult, error) {
	var res SyncResult
	slugs, err := src.ListSlugs()
	if err != nil {
		return res, err
	}
	existing, err := s.ListSlugs()
	if err != nil {
		return res, err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return res, fmt.Errorf("content: begin sync: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().UTC().Format(time.RFC3339)
	keep := make(map[string]struct{}, len(slugs))
	for _, slug := range slugs {
		doc, err := src.ReadSource(slug)
		if err != nil {
			return res, err
		}
		var current string
		err = tx.QueryRow(`SELECT source FROM articles WHERE slug = ?`, slug).Scan(&current)
		if err != nil && !errors.Is(err, sql.ErrNoRows) {
			return res, fmt.Errorf("content: read %s: %w", slug, err)
		}
		keep[slug] = struct{}{}
		if err == nil && current == string(doc) {
			continue
		}
		if _, err := tx.Exec(`INSERT OR REPLACE INTO articles (slug, source, updated_at) VALUES (?, ?, ?)`,
			slug, string(doc), now); err != nil {
			return res, fmt.Errorf("content: write %s: %w", slug, err)
		}
		res.Written++
	}
	for _, slug := range existing {
		if _, ok := keep[slug]; ok {
			continue
		}
		if _, err := tx.Exec(`DELETE FROM articles WHERE slug = ?`, slug); err != nil {
			return res, fmt.Errorf("content: delete %s: %w", slug, err)
		}
		res.Deleted++
	}
	if res.Written+res.Deleted > 0 {
		if _, err := tx.Exec(`INSERT INTO meta (key, value) VALUES ('revision', '1')
			ON CONFLICT(key) DO UPDATE SET value = CAST(value AS INTEGER) + 1`); err != nil {
			return res, fmt.Errorf("content: bump revision: %w", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return res, fmt.Errorf("content: commit sync: %w", err)
	}
	return res, nil
}
