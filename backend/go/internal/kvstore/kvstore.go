package kvstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has no value in the store.
var ErrNotFound = errors.New("kvstore: key not found")

// Store is the minimal contract the repository needs from a key-value service.
// The store offers no transactions and no atomicity across keys; callers that
// touch several keys must tolerate partial failure.
type Store interface {
	// List returns all keys starting with prefix, in no particular order.
	List(ctx context.Context, prefix string) ([]string, error)
	// Get returns the serialized value stored at key, or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)
	// Set stores value at key, replacing any previous value.
	Set(ctx context.Context, key string, value string) error
	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error
}
