package repository

import (
	"errors"
	"sync"
	"time"

	"github.com/carpeta/organizer/internal/note"
	"github.com/google/uuid"
)

var (
	ErrNotFound = errors.New("note not found")
)

// MemoryRepo is an in-memory note repository used when no database is
// configured and in unit tests.
type MemoryRepo struct {
	mu    sync.RWMutex
	store map[string]*note.Note
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{store: make(map[string]*note.Note)}
}

func (m *MemoryRepo) Create(n *note.Note) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	n.CreatedAt = time.Now().UTC()
	n.UpdatedAt = n.CreatedAt
	cp := *n
	m.store[n.ID] = &cp
	return n.ID, nil
}

func (m *MemoryRepo) Get(id string) (*note.Note, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if n, ok := m.store[id]; ok {
		cp := *n
		return &cp, nil
	}
	return nil, ErrNotFound
}

func (m *MemoryRepo) List() ([]*note.Note, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*note.Note, 0, len(m.store))
	for _, n := range m.store {
		cp := *n
		out = append(out, &cp)
	}
	return out, nil
}

func (m *MemoryRepo) Update(id string, p note.Patch) (*note.Note, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.store[id]
	if !ok {
		return nil, ErrNotFound
	}
	p.Apply(n)
	n.UpdatedAt = time.Now().UTC()
	cp := *n
	return &cp, nil
}

func (m *MemoryRepo) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.store[id]; !ok {
		return ErrNotFound
	}
	delete(m.store, id)
	return nil
}
