package persistence

import (
	"context"
	"sync"

	"github.com/carpeta/organizer/internal/models"
)

// LocalBackend is the durable store on the user's side. LoadLocal returns
// (nil, nil) when nothing was saved yet.
type LocalBackend interface {
	SaveLocal(ctx context.Context, snap *models.Snapshot) error
	LoadLocal(ctx context.Context) (*models.Snapshot, error)
}

// KV is a minimal durable key-value store. Get returns (nil, nil) for a
// missing key.
type KV interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// KVLocal stores the snapshot as one JSON blob under a fixed key of a KV.
type KVLocal struct {
	kv  KV
	key string
}

// NewKVLocal wraps kv. An empty key means DefaultKey.
func NewKVLocal(kv KV, key string) *KVLocal {
	if key == "" {
		key = DefaultKey
	}
	return &KVLocal{kv: kv, key: key}
}

func (l *KVLocal) SaveLocal(ctx context.Context, snap *models.Snapshot) error {
	b, err := Encode(snap)
	if err != nil {
		return ioErr("local", "save", err)
	}
	return ioErr("local", "save", l.kv.Set(ctx, l.key, b))
}

func (l *KVLocal) LoadLocal(ctx context.Context) (*models.Snapshot, error) {
	b, err := l.kv.Get(ctx, l.key)
	if err != nil {
		return nil, ioErr("local", "load", err)
	}
	snap, err := Decode(b)
	if err != nil {
		return nil, ioErr("local", "load", err)
	}
	return snap, nil
}

// MemoryKV is an in-process KV used by tests and as a last-resort local store.
type MemoryKV struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemoryKV() *MemoryKV {
	return &MemoryKV{data: make(map[string][]byte)}
}

func (m *MemoryKV) Get(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryKV) Set(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = append([]byte(nil), value...)
	return nil
}
