package models

import "sync"

// SnapshotStore holds the materialized ping snapshot the pipeline
// reads from. Appends come from ingest, replaces from state restore.
type SnapshotStore struct {
	mu    sync.RWMutex
	pings []PresencePing
}

func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{pings: make([]PresencePing, 0)}
}

func (s *SnapshotStore) Append(pings []PresencePing) {
	if len(pings) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pings = append(s.pings, pings...)
}

func (s *SnapshotStore) Replace(pings []PresencePing) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pings = pings
}

func (s *SnapshotStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.pings)
}

// Snapshot returns a copy so callers can read without holding the lock.
func (s *SnapshotStore) Snapshot() []PresencePing {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]PresencePing, len(s.pings))
	copy(out, s.pings)
	return out
}
