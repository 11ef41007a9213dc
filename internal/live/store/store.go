package store

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("store: not found")
	ErrClosed   = errors.New("store: closed")
)

// DefaultTokenKey is the key the hub token is persisted under.
const DefaultTokenKey = "bndy_auth_token"

// Store is a small string key/value store. Concrete drivers (sqlite, redis,
// memory) implement this. The session layer is the only writer of the token
// key, everything else treats it as read only.
type Store interface {
	// Get returns the value for key or ErrNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set creates or replaces the value for key.
	Set(ctx context.Context, key, value string) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Ping verifies the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases any underlying resources.
	Close() error
}
