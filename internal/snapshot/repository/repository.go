package repository

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("snapshot not found")
)

// Repository stores encoded snapshot blobs by key. The server keeps one blob
// per workspace key; the blob is opaque here.
type Repository interface {
	Put(ctx context.Context, key string, blob []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
}
