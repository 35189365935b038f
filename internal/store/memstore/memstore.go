// Package memstore is the default in-process domain.SnapshotStore adapter:
// a mutex-guarded map from user ID to the most recently saved snapshot
// blob. It never touches disk, so it is the right default for tests and
// for a daemon that hasn't been given a durable store yet, but every
// snapshot it holds is lost on process exit.
package memstore

import (
	"context"
	"sync"

	"github.com/tutu-network/amas/internal/domain"
)

// Store is an in-memory domain.SnapshotStore. The zero value is not usable;
// construct with New.
type Store struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// New returns an empty Store.
func New() *Store {
	return &Store{data: make(map[string][]byte)}
}

// LoadState returns the most recently saved blob for userID, or
// domain.ErrSnapshotNotFound if none has been saved yet.
func (s *Store) LoadState(_ context.Context, userID string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	blob, ok := s.data[userID]
	if !ok {
		return nil, domain.ErrSnapshotNotFound
	}
	// Return a copy: callers must not be able to mutate our stored bytes
	// through a slice they didn't allocate.
	out := make([]byte, len(blob))
	copy(out, blob)
	return out, nil
}

// SaveState overwrites userID's stored blob.
func (s *Store) SaveState(_ context.Context, userID string, snapshot []byte) error {
	out := make([]byte, len(snapshot))
	copy(out, snapshot)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[userID] = out
	return nil
}

// Len reports how many users currently have a saved snapshot.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}
