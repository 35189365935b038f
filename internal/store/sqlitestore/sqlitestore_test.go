package sqlitestore

import (
	"context"
	"errors"
	"testing"

	"github.com/tutu-network/amas/internal/domain"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open("")
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestStore_LoadState_NotFound(t *testing.T) {
	s := newTestStore(t)

	_, err := s.LoadState(context.Background(), "nobody")
	if !errors.Is(err, domain.ErrSnapshotNotFound) {
		t.Fatalf("LoadState() error = %v, want ErrSnapshotNotFound", err)
	}
}

func TestStore_SaveThenLoadRoundTrips(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	want := []byte(`{"user_id":"u1","version":1}`)

	if err := s.SaveState(ctx, "u1", want); err != nil {
		t.Fatalf("SaveState() error: %v", err)
	}
	got, err := s.LoadState(ctx, "u1")
	if err != nil {
		t.Fatalf("LoadState() error: %v", err)
	}
	if string(got) != string(want) {
		t.Fatalf("LoadState() = %q, want %q", got, want)
	}
}

func TestStore_SaveOverwritesPreviousSnapshot(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	if err := s.SaveState(ctx, "u2", []byte("first")); err != nil {
		t.Fatalf("SaveState() error: %v", err)
	}
	if err := s.SaveState(ctx, "u2", []byte("second")); err != nil {
		t.Fatalf("SaveState() error: %v", err)
	}
	got, err := s.LoadState(ctx, "u2")
	if err != nil {
		t.Fatalf("LoadState() error: %v", err)
	}
	if string(got) != "second" {
		t.Fatalf("LoadState() = %q, want %q", got, "second")
	}
}
