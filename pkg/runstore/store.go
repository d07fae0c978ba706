// Package runstore persists run configuration snapshots keyed by their save
// directory. A snapshot is the public merged view of a run's options, flat
// string-keyed, as produced when a run is finalized.
package runstore

import "context"

// Snapshot is one persisted configuration record.
type Snapshot = map[string]any

// Store loads/saves one snapshot per run directory.
type Store interface {
	Save(ctx context.Context, dir string, snapshot Snapshot) error
	Load(ctx context.Context, dir string) (Snapshot, bool, error)
}
