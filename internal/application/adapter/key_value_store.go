package adapter

import "context"

// KeyValueStore is the persisted medium behind the cache. Values are opaque JSON
// documents; the medium enforces no schema.
type KeyValueStore interface {
	// Get returns the value stored under key and whether it exists.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set replaces the value stored under key.
	Set(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
