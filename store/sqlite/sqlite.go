/*
Package sqlite provides the SQLite-backed state store.

PURPOSE:
  Durable implementation of shift.Store. The engine reads and writes the
  whole state as one unit (last write wins), so the schema is a single
  document table, not a relational model: there is nothing to join and a
  partial row update could never be valid.

KEY TABLE:
  state: one row (fixed id) holding the JSON payload plus updated_at.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) so the read path never
  blocks behind the single writer.

USAGE:
  store, err := sqlite.New("./data/shift.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - shift/store.go: Interface definition
  - store/memory: In-memory implementation for testing
  - store/redis: Shared-cache implementation
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/grindhub/shift-engine/shift"
)

const stateID = "singleton"

// Store implements shift.Store using a single-document SQLite table.
type Store struct {
	db *sql.DB
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS state (
		id TEXT PRIMARY KEY,
		payload TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);`
	_, err := s.db.Exec(schema)
	return err
}

// Load reads and decodes the state document.
func (s *Store) Load(ctx context.Context) (shift.State, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM state WHERE id = ?`, stateID).Scan(&payload)
	if err == sql.ErrNoRows {
		return shift.State{}, shift.ErrStateNotFound
	}
	if err != nil {
		return shift.State{}, fmt.Errorf("load state: %w", err)
	}

	var st shift.State
	if err := json.Unmarshal([]byte(payload), &st); err != nil {
		return shift.State{}, fmt.Errorf("decode state: %w", err)
	}
	return st, nil
}

// Save encodes and upserts the whole document in one statement, so a
// concurrent Load sees either the old or the new payload, never a mix.
func (s *Store) Save(ctx context.Context, st shift.State) error {
	payload, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO state (id, payload, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		stateID, string(payload), time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}
