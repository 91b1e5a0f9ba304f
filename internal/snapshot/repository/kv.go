package repository

import (
	"context"

	"github.com/carpeta/organizer/internal/persistence"
)

// KVRepo serves snapshots out of any persistence.KV (Redis, SQLite).
type KVRepo struct {
	kv persistence.KV
}

func NewKVRepo(kv persistence.KV) *KVRepo {
	return &KVRepo{kv: kv}
}

func (r *KVRepo) Put(ctx context.Context, key string, blob []byte) error {
	return r.kv.Set(ctx, key, blob)
}

func (r *KVRepo) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := r.kv.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if b == nil {
		return nil, ErrNotFound
	}
	return b, nil
}
