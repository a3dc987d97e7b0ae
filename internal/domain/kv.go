package domain

import "context"

// KeyValueStore abstracts the external persistent key-value store. Redis
// implementation is the production backend; tests use in-memory fakes.
// Decoding the most recent successful Set payload for a key must reproduce
// an equivalent in-memory value.
type KeyValueStore interface {
	// Get returns the stored value and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
}
