package engine

import (
	"fmt"

	"github.com/tutu-network/amas/internal/domain"
)

// loadError wraps a snapshot-store load failure, preserving domain.ErrUnavailable
// for errors.Is while naming the user it happened for.
func loadError(userID string, cause error) error {
	return fmt.Errorf("engine: load state for user %q: %w", userID, cause)
}

// saveError wraps a snapshot-store save failure.
func saveError(userID string, cause error) error {
	return fmt.Errorf("engine: save state for user %q: %w", userID, cause)
}

// corruptError wraps a snapshot that failed to unmarshal or failed an
// invariant check, always carrying domain.ErrStateCorrupt for errors.Is.
func corruptError(userID string, cause error) error {
	return fmt.Errorf("engine: snapshot for user %q: %w: %v", userID, domain.ErrStateCorrupt, cause)
}

// cancelledError wraps a context cancellation observed at a checkpoint
// inside ProcessEvent, always carrying domain.ErrCancelled for errors.Is.
func cancelledError(userID string, cause error) error {
	return fmt.Errorf("engine: processing for user %q cancelled: %w: %v", userID, domain.ErrCancelled, cause)
}
