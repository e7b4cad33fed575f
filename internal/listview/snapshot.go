package listview

import "sync"

// Snapshot is the persisted slice of a list's query state, keyed by the
// resource's list path. It survives navigating away and back, but not a
// process restart.
type Snapshot struct {
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
	Search   string `json:"search"`
	Sort     string `json:"sort"`
}

// SnapshotStore persists filter snapshots per resource path.
type SnapshotStore interface {
	Load(path string) (Snapshot, bool)
	Save(path string, s Snapshot)
	Clear(path string)
}

// MemorySnapshots is the session-scoped store: a mutex-guarded map that
// lives for the process.
type MemorySnapshots struct {
	mu sync.RWMutex
	m  map[string]Snapshot
}

func NewMemorySnapshots() *MemorySnapshots {
	return &MemorySnapshots{m: map[string]Snapshot{}}
}

func (s *MemorySnapshots) Load(path string) (Snapshot, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snap, ok := s.m[path]
	return snap, ok
}

func (s *MemorySnapshots) Save(path string, snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.m[path] = snap
}

func (s *MemorySnapshots) Clear(path string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.m, path)
}
