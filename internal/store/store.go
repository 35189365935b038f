// Package store documents the domain.SnapshotStore collaborator contract
// and offers concrete adapters in its memstore and sqlitestore
// subpackages. The core (internal/infra/engine) depends only on
// domain.SnapshotStore; it never imports this package or its subpackages
// directly, so a deployment can swap adapters without touching engine code.
package store

import "github.com/tutu-network/amas/internal/domain"

// Store is the full collaborator contract a persistence adapter in this
// package tree must satisfy. It is identical to domain.SnapshotStore; the
// alias lets adapters in subpackages refer to store.Store instead of
// reaching into internal/domain directly.
type Store = domain.SnapshotStore
