package storage

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("storage: not found")

// DefaultKey is the blob name the task snapshot is stored under.
const DefaultKey = "todo-storage"

// BlobStore holds named opaque blobs. Get returns ErrNotFound for a key that
// was never set.
type BlobStore interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
}

// Repository loads and saves the full store snapshot.
type Repository interface {
	Load(ctx context.Context) (Snapshot, error)
	Save(ctx context.Context, snap Snapshot) error
}
