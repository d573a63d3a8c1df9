// Package configstore provides the durable key-value store that holds feed
// resumption state and validation allow-lists across runs.
package configstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// ErrKeyNotFound is returned by GetConfig when the key has never been set.
var ErrKeyNotFound = errors.New("config key not found")

// Store is a SQLite-backed config store.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the config database at path and applies
// pending migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config database: %w", err)
	}

	// modernc sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY under the sequential access pattern used here.
	db.SetMaxOpenConns(1)

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// GetConfig returns the stored value for key, or ErrKeyNotFound.
func (s *Store) GetConfig(ctx context.Context, key string) (string, error) {
	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM config WHERE key = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("missing config key %q: %w", key, ErrKeyNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read config key %q: %w", key, err)
	}
	return value, nil
}

// SetConfig stores value under key, replacing any previous value.
func (s *Store) SetConfig(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO config (key, value, updated_at) VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP
	`, key, value)
	if err != nil {
		return fmt.Errorf("failed to write config key %q: %w", key, err)
	}
	return nil
}
