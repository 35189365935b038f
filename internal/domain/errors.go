package domain

import "errors"

// ─── Sentinel Errors ────────────────────────────────────────────────────────
// Domain errors are pure — no infrastructure dependency.

var (
	// Input errors
	ErrInvalidInput    = errors.New("amas: scalar field out of declared domain")
	ErrEmptyCandidates = errors.New("amas: empty candidate strategy set")
	ErrNonFinite       = errors.New("amas: non-finite value could not be sanitized")

	// State errors
	ErrStateCorrupt = errors.New("amas: snapshot failed invariant checks")
	ErrUnknownUser  = errors.New("amas: no state recorded for user")

	// Decision errors
	ErrNoAlgorithmsEnabled = errors.New("amas: no decision algorithms enabled")
	ErrSingularMatrix      = errors.New("amas: matrix inversion hit an unrecoverable singularity")

	// Collaborator errors (persistence / cache / clock / rng)
	ErrUnavailable = errors.New("amas: collaborator unavailable, retry policy exhausted")
	ErrCancelled   = errors.New("amas: event processing cancelled at checkpoint")

	// Snapshot store errors
	ErrSnapshotNotFound = errors.New("amas: no snapshot stored for user")
)
