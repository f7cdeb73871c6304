package session

import "context"

// Store persists the bearer token across process restarts.
// The manager is the only writer and keeps a single value under one key.
type Store interface {
	// Get returns the stored value or ErrTokenNotFound
	Get(ctx context.Context, key string) (string, error)

	// Set replaces the stored value
	Set(ctx context.Context, key, value string) error

	// Delete removes the value; deleting a missing key is not an error
	Delete(ctx context.Context, key string) error
}
