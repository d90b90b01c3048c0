package storage

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when a key has no stored value.
var ErrNotFound = errors.New("key not found")

// Store is the key-value persistence port behind session and history
// state. Set must be durable before it returns so a reload never
// observes a half-written mutation.
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
