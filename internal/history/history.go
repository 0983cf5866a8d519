// Package history provides a SQLite-backed store remembering the last cursor
// position per file, so reopening a file jumps back to where editing left
// off.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite" // register sqlite driver
)

const schema = `
CREATE TABLE IF NOT EXISTS positions (
	path     TEXT PRIMARY KEY,
	line     INTEGER NOT NULL,
	col      INTEGER NOT NULL,
	updated  INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_positions_updated ON positions(updated);
`

// Store holds per-file cursor positions.
type Store struct {
	db *sql.DB
}

// Open creates or opens the position database at the given path, creating
// parent directories as needed.
func Open(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open history db: %w", err)
	}

	// SQLite pragmas for performance.
	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database. Safe on a nil receiver.
func (s *Store) Close() error {
	if s == nil {
		return nil
	}
	return s.db.Close()
}

// Get returns the recorded cursor position for path. ok is false when the
// file has no recorded position. Safe on a nil receiver.
func (s *Store) Get(path string) (line, col int, ok bool) {
	if s == nil {
		return 0, 0, false
	}
	key, err := filepath.Abs(path)
	if err != nil {
		return 0, 0, false
	}
	err = s.db.QueryRow(
		"SELECT line, col FROM positions WHERE path = ?", key,
	).Scan(&line, &col)
	if err != nil {
		return 0, 0, false
	}
	return line, col, true
}

// Put records the cursor position for path. Failures are logged, never
// surfaced: position restore is a convenience, not document state. No-op on
// a nil receiver.
func (s *Store) Put(path string, line, col int) {
	if s == nil {
		return
	}
	key, err := filepath.Abs(path)
	if err != nil {
		return
	}
	_, err = s.db.Exec(
		"INSERT OR REPLACE INTO positions (path, line, col, updated) VALUES (?, ?, ?, ?)",
		key, line, col, time.Now().Unix(),
	)
	if err != nil {
		log.Warn().Err(err).Str("path", key).Msg("failed to record cursor position")
	}
}
