package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	// Pure Go SQLite driver (no CGO).
	_ "modernc.org/sqlite"
)

// Store owns the SQLite connection and provides access to repositories.
type Store struct {
	db *sql.DB
}

// schema is applied on every Open; statements must be idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS sessions (
		id             TEXT PRIMARY KEY,
		learner        TEXT NOT NULL,
		mode           TEXT NOT NULL,
		question_count INTEGER NOT NULL,
		total          INTEGER NOT NULL,
		correct        INTEGER NOT NULL,
		accuracy       REAL NOT NULL,
		synthetic      INTEGER NOT NULL DEFAULT 0,
		finished_at    INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS sessions_finished_at ON sessions (finished_at)`,
	`CREATE TABLE IF NOT EXISTS outcomes (
		session_id          TEXT NOT NULL REFERENCES sessions (id) ON DELETE CASCADE,
		seq                 INTEGER NOT NULL,
		category            TEXT NOT NULL,
		item_id             INTEGER NOT NULL,
		submitted_grade     INTEGER NOT NULL DEFAULT 0,
		correct_grade       INTEGER NOT NULL DEFAULT 0,
		submitted_content   INTEGER NOT NULL DEFAULT 0,
		submitted_org       INTEGER NOT NULL DEFAULT 0,
		submitted_expr      INTEGER NOT NULL DEFAULT 0,
		correct_content     INTEGER NOT NULL DEFAULT 0,
		correct_org         INTEGER NOT NULL DEFAULT 0,
		correct_expr        INTEGER NOT NULL DEFAULT 0,
		is_correct          INTEGER NOT NULL,
		PRIMARY KEY (session_id, seq)
	)`,
}

// Open creates a new Store connected to the SQLite database at dsn.
// It applies recommended pragmas and creates missing tables.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := migrate(context.Background(), db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return &Store{db: db}, nil
}

// DB returns the underlying *sql.DB for raw queries.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// ResultRepo returns a ResultRepo backed by this store.
func (s *Store) ResultRepo() ResultRepo {
	return &resultRepo{db: s.db}
}

func migrate(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}

// applyPragmas configures SQLite for single-user use.
func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("%s: %w", p, err)
		}
	}
	return nil
}

// DefaultDBPath resolves the database file path in priority order:
// 1. SEPME_DB environment variable
// 2. $XDG_DATA_HOME/sepme/sepme.db
// 3. ~/.local/share/sepme/sepme.db
func DefaultDBPath() (string, error) {
	if p := os.Getenv("SEPME_DB"); p != "" {
		return p, EnsureDir(p)
	}

	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dataHome = filepath.Join(home, ".local", "share")
	}

	p := filepath.Join(dataHome, "sepme", "sepme.db")
	return p, EnsureDir(p)
}

// EnsureDir creates the parent directory of path if it doesn't exist.
func EnsureDir(path string) error {
	return os.MkdirAll(filepath.Dir(path), 0o755)
}
