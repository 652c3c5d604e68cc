package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Store is the SQLite help index: documentation links keyed by help
// identifier, the import sources they came from, and free-form metadata.
type Store struct {
	db *sql.DB
}

// NewStore opens a SQLite database at dbPath with WAL mode enabled.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use in transactions.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Migrate creates the tables and indexes. Idempotent.
func (s *Store) Migrate() error {
	_, err := s.db.Exec(schemaDDL)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS help_sources (
  id              INTEGER PRIMARY KEY,
  path            TEXT NOT NULL UNIQUE,
  hash            TEXT,
  imported_at     TIMESTAMP
);

CREATE TABLE IF NOT EXISTS help_links (
  id              INTEGER PRIMARY KEY,
  source_id       INTEGER REFERENCES help_sources(id),
  identifier      TEXT NOT NULL,
  title           TEXT NOT NULL,
  url             TEXT NOT NULL,
  UNIQUE (source_id, identifier, title)
);

CREATE TABLE IF NOT EXISTS metadata (
  key             TEXT PRIMARY KEY,
  value           TEXT
);

CREATE INDEX IF NOT EXISTS idx_help_links_identifier ON help_links(identifier);
CREATE INDEX IF NOT EXISTS idx_help_links_source ON help_links(source_id);
`

// DeleteSource removes an import source and every link it contributed.
func (s *Store) DeleteSource(sourceID int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := deleteSourceTx(tx, sourceID); err != nil {
		return err
	}
	return tx.Commit()
}

func deleteSourceTx(tx *sql.Tx, sourceID int64) error {
	if _, err := tx.Exec("DELETE FROM help_links WHERE source_id = ?", sourceID); err != nil {
		return fmt.Errorf("delete source links: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM help_sources WHERE id = ?", sourceID); err != nil {
		return fmt.Errorf("delete source: %w", err)
	}
	return nil
}

// DeleteIdentifiers removes every link for the given identifiers and
// returns the number of links removed.
func (s *Store) DeleteIdentifiers(ids ...string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	res, err := s.db.Exec(
		"DELETE FROM help_links WHERE identifier IN ("+placeholderList(len(ids))+")",
		stringsToArgs(ids)...,
	)
	if err != nil {
		return 0, fmt.Errorf("delete identifiers: %w", err)
	}
	return res.RowsAffected()
}

// --- Metadata ---

// SetMetadata stores value under key, replacing any previous value.
func (s *Store) SetMetadata(key, value string) error {
	_, err := s.db.Exec(
		"INSERT INTO metadata (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set metadata %s: %w", key, err)
	}
	return nil
}

// Metadata returns the value stored under key, or "" when unset.
func (s *Store) Metadata(key string) (string, error) {
	var value sql.NullString
	err := s.db.QueryRow("SELECT value FROM metadata WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("metadata %s: %w", key, err)
	}
	return value.String, nil
}
