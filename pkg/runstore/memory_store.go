package runstore

import (
	"context"
	"sync"
)

// MemoryStore is a minimal in-memory Store implementation intended for tests
// and worker processes that should not touch the filesystem. It uses the run
// directory as its deterministic key and makes no persistence assumptions
// beyond that.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]Snapshot
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: map[string]Snapshot{}}
}

func (s *MemoryStore) Save(_ context.Context, dir string, snapshot Snapshot) error {
	s.mu.Lock()
	s.records[dir] = cloneSnapshot(snapshot)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Load(_ context.Context, dir string) (Snapshot, bool, error) {
	s.mu.RLock()
	record, ok := s.records[dir]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	return cloneSnapshot(record), true, nil
}

func cloneSnapshot(snapshot Snapshot) Snapshot {
	out := make(Snapshot, len(snapshot))
	for k, v := range snapshot {
		out[k] = v
	}
	return out
}
