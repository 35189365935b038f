// Package sqlitestore is an optional, durable domain.SnapshotStore adapter
// backed by modernc.org/sqlite (pure Go, no CGO). It is the one place in
// this module that knows SQL exists; the core never imports it.
package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/tutu-network/amas/internal/domain"
)

// migrations are applied in order, each wrapped in "IF NOT EXISTS" so
// reopening an existing database file is always safe.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS user_snapshots (
		user_id    TEXT PRIMARY KEY,
		snapshot   BLOB NOT NULL,
		updated_at TEXT NOT NULL DEFAULT (datetime('now'))
	)`,
}

// Store is a sqlite-backed domain.SnapshotStore.
type Store struct {
	db *sql.DB
}

// Open opens (creating if necessary) the sqlite database at path and
// applies every migration. An empty path opens an in-process ":memory:"
// database, useful for tests that want real SQL semantics without a file.
func Open(path string) (*Store, error) {
	if path == "" {
		path = ":memory:"
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	// A single-writer pure-Go sqlite driver serializes better under one
	// connection than under the pool defaults.
	db.SetMaxOpenConns(1)

	for _, stmt := range migrations {
		if _, err := db.Exec(stmt); err != nil {
			db.Close()
			return nil, fmt.Errorf("migrate sqlite store: %w", err)
		}
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// LoadState returns userID's most recently saved snapshot blob, or
// domain.ErrSnapshotNotFound if no row exists for it.
func (s *Store) LoadState(ctx context.Context, userID string) ([]byte, error) {
	var blob []byte
	err := s.db.QueryRowContext(ctx, `SELECT snapshot FROM user_snapshots WHERE user_id = ?`, userID).Scan(&blob)
	if err == sql.ErrNoRows {
		return nil, domain.ErrSnapshotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load snapshot for %s: %w", userID, err)
	}
	return blob, nil
}

// SaveState upserts userID's snapshot blob.
func (s *Store) SaveState(ctx context.Context, userID string, snapshot []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_snapshots (user_id, snapshot, updated_at)
		VALUES (?, ?, datetime('now'))
		ON CONFLICT(user_id) DO UPDATE SET snapshot = excluded.snapshot, updated_at = excluded.updated_at
	`, userID, snapshot)
	if err != nil {
		return fmt.Errorf("save snapshot for %s: %w", userID, err)
	}
	return nil
}
