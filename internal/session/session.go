// Package session tags each driver invocation with a UUID and records it to
// a sqlite-backed run history, queryable via `stratum history`. This is
// reference-driver bookkeeping, not core elaborator state — the elaborator
// itself persists nothing (§5's "no persisted state by design" still holds).
package session

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

// Run is one recorded elaboration invocation.
type Run struct {
	ID              string
	SourcePath      string
	SourceHash      string
	StartedAt       time.Time
	DiagnosticCount int
	Iterations      int
}

// NewID mints a fresh session UUID.
func NewID() string {
	return uuid.NewString()
}

// Store is a thin wrapper around a sqlite database recording run history.
type Store struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	id               TEXT PRIMARY KEY,
	source_path      TEXT NOT NULL,
	source_hash      TEXT NOT NULL,
	started_at       DATETIME NOT NULL,
	diagnostic_count INTEGER NOT NULL,
	iterations       INTEGER NOT NULL
);
`

// Open opens (creating if necessary) the sqlite history database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening history db %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing history schema: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Record inserts one completed run.
func (s *Store) Record(r Run) error {
	_, err := s.db.Exec(
		`INSERT INTO runs (id, source_path, source_hash, started_at, diagnostic_count, iterations) VALUES (?, ?, ?, ?, ?, ?)`,
		r.ID, r.SourcePath, r.SourceHash, r.StartedAt, r.DiagnosticCount, r.Iterations,
	)
	if err != nil {
		return fmt.Errorf("recording run: %w", err)
	}
	return nil
}

// Recent returns the limit most recent runs, newest first.
func (s *Store) Recent(limit int) ([]Run, error) {
	rows, err := s.db.Query(
		`SELECT id, source_path, source_hash, started_at, diagnostic_count, iterations FROM runs ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying run history: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.ID, &r.SourcePath, &r.SourceHash, &r.StartedAt, &r.DiagnosticCount, &r.Iterations); err != nil {
			return nil, fmt.Errorf("scanning run row: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}
