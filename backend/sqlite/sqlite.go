package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"flowdo/backend"
	_ "modernc.org/sqlite"
)

func init() {
	backend.Register("sqlite", func(location string) (backend.Slot, error) {
		return New(location)
	})
}

// Backend implements backend.Slot using SQLite
type Backend struct {
	db   *sql.DB
	path string
}

// New creates a new SQLite backend and initializes the database schema
func New(path string) (*Backend, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	// A single connection keeps :memory: databases alive across calls.
	db.SetMaxOpenConns(1)

	b := &Backend{db: db, path: path}
	if err := b.initSchema(); err != nil {
		_ = db.Close()
		return nil, err
	}

	return b, nil
}

// initSchema creates the slots table if it doesn't exist
func (b *Backend) initSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS slots (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL,
			modified TEXT NOT NULL
		);
	`

	_, err := b.db.Exec(schema)
	return err
}

// Load returns the value stored under key
func (b *Backend) Load(ctx context.Context, key string) ([]byte, error) {
	var value string
	err := b.db.QueryRowContext(ctx, "SELECT value FROM slots WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, backend.ErrSlotEmpty
	}
	if err != nil {
		return nil, err
	}
	return []byte(value), nil
}

// Save replaces the value stored under key
func (b *Backend) Save(ctx context.Context, key string, data []byte) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := b.db.ExecContext(ctx, `
		INSERT INTO slots (key, value, modified) VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, modified = excluded.modified`,
		key, string(data), now,
	)
	return err
}

// Delete removes key
func (b *Backend) Delete(ctx context.Context, key string) error {
	_, err := b.db.ExecContext(ctx, "DELETE FROM slots WHERE key = ?", key)
	return err
}

// Modified returns when key was last saved, or nil if it was never saved.
func (b *Backend) Modified(ctx context.Context, key string) (*time.Time, error) {
	var modifiedStr string
	err := b.db.QueryRowContext(ctx, "SELECT modified FROM slots WHERE key = ?", key).Scan(&modifiedStr)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	t, err := time.Parse(time.RFC3339Nano, modifiedStr)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// WatchPaths returns the database file, or nothing for in-memory databases.
// All keys share the one file.
func (b *Backend) WatchPaths(string) []string {
	if b.path == ":memory:" || b.path == "" {
		return nil
	}
	return []string{b.path}
}

// Close closes the database connection
func (b *Backend) Close() error {
	return b.db.Close()
}
