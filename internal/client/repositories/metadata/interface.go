// Package metadata is the local key/value table backing the client's
// persistent slots (the access token among them).
package metadata

import (
	"context"
)

// Repository is a small key/value store. Get returns (nil, nil) for an
// absent key.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Swap replaces the value of key with next only when it currently holds
	// prev. It reports whether the replacement happened.
	Swap(ctx context.Context, key string, prev, next []byte) (bool, error)
	Delete(ctx context.Context, key string) error
}
