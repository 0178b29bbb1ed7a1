package options

import (
	"context"
	"slices"
	"sync"
)

// MemoryStore keeps blobs in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string][]byte
	sets  int
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{blobs: make(map[string][]byte)}
}

func (s *MemoryStore) Get(ctx context.Context, ident string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.blobs[ident]), nil
}

func (s *MemoryStore) Set(ctx context.Context, ident string, blob []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blobs[ident] = slices.Clone(blob)
	s.sets++
	return nil
}

func (s *MemoryStore) Close() error { return nil }

// Writes reports how many times Set has been called.
func (s *MemoryStore) Writes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sets
}
