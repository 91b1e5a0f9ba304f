package repository

import (
	"context"
	"sync"
)

// MemoryRepo keeps blobs in process memory. Used when no database is
// configured and in unit tests.
type MemoryRepo struct {
	mu    sync.RWMutex
	store map[string][]byte
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[string][]byte)}
}

func (m *MemoryRepo) Put(_ context.Context, key string, blob []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[key] = append([]byte(nil), blob...)
	return nil
}

func (m *MemoryRepo) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if b, ok := m.store[key]; ok {
		return append([]byte(nil), b...), nil
	}
	return nil, ErrNotFound
}
