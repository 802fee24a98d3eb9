package kv

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Dialect selects the SQL flavour used by SQLStore
type Dialect string

const (
	DialectPostgres Dialect = "postgres"
	DialectSQLite   Dialect = "sqlite"
)

type queries struct {
	get string
	set string
}

var dialectQueries = map[Dialect]queries{
	DialectPostgres: {
		get: `SELECT value FROM kv_store WHERE key = $1`,
		set: `
			INSERT INTO kv_store (key, value, updated_at)
			VALUES ($1, $2, NOW())
			ON CONFLICT (key) DO UPDATE SET
				value = EXCLUDED.value,
				updated_at = NOW()`,
	},
	DialectSQLite: {
		get: `SELECT value FROM kv_store WHERE key = ?`,
		set: `
			INSERT INTO kv_store (key, value, updated_at)
			VALUES (?, ?, CURRENT_TIMESTAMP)
			ON CONFLICT (key) DO UPDATE SET
				value = excluded.value,
				updated_at = CURRENT_TIMESTAMP`,
	},
}

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS kv_store (
	key TEXT NOT NULL PRIMARY KEY,
	value TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);`

// SQLStore keeps values in a kv_store table.
// For Postgres the table is created by the database migrations.
type SQLStore struct {
	db *sql.DB
	q  queries
}

// NewSQLStore wraps an open database handle
func NewSQLStore(db *sql.DB, dialect Dialect) (*SQLStore, error) {
	q, ok := dialectQueries[dialect]
	if !ok {
		return nil, fmt.Errorf("unsupported kv dialect: %q", dialect)
	}
	return &SQLStore{db: db, q: q}, nil
}

// OpenSQLite opens (creating if needed) a SQLite database file and its kv_store table
func OpenSQLite(path string) (*SQLStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create kv directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// a single writer avoids SQLITE_BUSY under concurrent handlers
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}
	if _, err := db.Exec(sqliteSchema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create kv_store table: %w", err)
	}

	return NewSQLStore(db, DialectSQLite)
}

func (s *SQLStore) Get(ctx context.Context, key string) (json.RawMessage, bool, error) {
	var value string
	err := s.db.QueryRowContext(ctx, s.q.get, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get key: %w", err)
	}
	return json.RawMessage(value), true, nil
}

func (s *SQLStore) Set(ctx context.Context, key string, value json.RawMessage) error {
	if _, err := s.db.ExecContext(ctx, s.q.set, key, string(value)); err != nil {
		return fmt.Errorf("failed to set key: %w", err)
	}
	return nil
}

// Close closes the underlying database handle
func (s *SQLStore) Close() error {
	return s.db.Close()
}
