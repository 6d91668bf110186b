// Package store caches a fetched population snapshot in SQLite so
// repeated sampling runs can reuse one catalog fetch.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"github.com/EBB2675/nomad-curator/internal/catalog"
)

// Snapshot holds at most one cached population. Save replaces the whole
// snapshot; Load returns it in its original fetch order, which keeps
// sampling runs over the cache byte-identical to runs over a fresh fetch.
type Snapshot struct {
	db   *sql.DB
	path string
}

// Open initializes (or reopens) the snapshot database at the given path.
func Open(path string) (*Snapshot, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("store: create directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open database: %w", err)
	}

	s := &Snapshot{db: db, path: path}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Snapshot) initialize() error {
	schema := `
	CREATE TABLE IF NOT EXISTS entries (
		entry_id TEXT PRIMARY KEY,
		upload_id TEXT,
		mainfile TEXT,
		main_author TEXT,
		system TEXT NOT NULL,
		structural_type TEXT,
		position INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_entries_system ON entries(system);

	CREATE TABLE IF NOT EXISTS snapshot_meta (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		saved_at TEXT NOT NULL,
		fetched INTEGER NOT NULL,
		skipped INTEGER NOT NULL
	);`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("store: initialize schema: %w", err)
	}
	return nil
}

// Save replaces the cached population. skipped records how many malformed
// hits the fetch dropped, kept for later diagnostics.
func (s *Snapshot) Save(entries []catalog.Entry, skipped int) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("store: begin save: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM entries`); err != nil {
		return fmt.Errorf("store: clear entries: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO entries (entry_id, upload_id, mainfile, main_author, system, structural_type, position)
		VALUES (?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("store: prepare insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range entries {
		if _, err := stmt.Exec(e.EntryID, e.UploadID, e.Mainfile, e.MainAuthor, e.System, e.StructuralType, i); err != nil {
			return fmt.Errorf("store: insert entry %s: %w", e.EntryID, err)
		}
	}

	savedAt := time.Now().UTC().Format(time.RFC3339)
	if _, err := tx.Exec(`
		INSERT INTO snapshot_meta (id, saved_at, fetched, skipped) VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET saved_at = excluded.saved_at, fetched = excluded.fetched, skipped = excluded.skipped`,
		savedAt, len(entries), skipped); err != nil {
		return fmt.Errorf("store: update meta: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: commit save: %w", err)
	}
	return nil
}

// Load returns the cached population in its original fetch order.
func (s *Snapshot) Load() ([]catalog.Entry, error) {
	rows, err := s.db.Query(`
		SELECT entry_id, upload_id, mainfile, main_author, system, structural_type
		FROM entries ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("store: load entries: %w", err)
	}
	defer rows.Close()

	var entries []catalog.Entry
	for rows.Next() {
		var e catalog.Entry
		if err := rows.Scan(&e.EntryID, &e.UploadID, &e.Mainfile, &e.MainAuthor, &e.System, &e.StructuralType); err != nil {
			return nil, fmt.Errorf("store: scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: load entries: %w", err)
	}
	return entries, nil
}

// Info reports the cached population size and when it was saved.
// A zero time means no snapshot has been saved yet.
func (s *Snapshot) Info() (int, time.Time, error) {
	var (
		count   int
		savedAt string
	)
	err := s.db.QueryRow(`SELECT fetched, saved_at FROM snapshot_meta WHERE id = 1`).Scan(&count, &savedAt)
	if err == sql.ErrNoRows {
		return 0, time.Time{}, nil
	}
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("store: read meta: %w", err)
	}

	ts, err := time.Parse(time.RFC3339, savedAt)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("store: parse saved_at: %w", err)
	}
	return count, ts, nil
}

// Close releases the underlying database handle.
func (s *Snapshot) Close() error {
	return s.db.Close()
}
