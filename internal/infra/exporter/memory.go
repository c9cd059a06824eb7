package exporter

import (
	"context"
	"sync"

	"github.com/goldensql/goldensql/internal/domain/golden"
)

// MemoryStorage keeps snapshots in memory; used when export storage is not
// configured and in tests.
type MemoryStorage struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewMemoryStorage constructs the in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{objects: make(map[string][]byte)}
}

// Put stores a snapshot object.
func (s *MemoryStorage) Put(_ context.Context, key string, data []byte, _ string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = append([]byte(nil), data...)
	return int64(len(data)), nil
}

// Get returns a stored snapshot for test assertions.
func (s *MemoryStorage) Get(key string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[key]
	return data, ok
}

var _ golden.ObjectStorage = (*MemoryStorage)(nil)
