// Package session owns the persisted authentication state of the client:
// the bearer token and the optional push-delivery token.
package session

import (
	"context"
	"errors"
)

// Persisted keys.
const (
	KeyAuthToken = "token"
	KeyPushToken = "expoPushToken"
)

// ErrKeyNotFound is returned by a Store when the key holds no value.
var ErrKeyNotFound = errors.New("session key not found")

// Store is durable string key/value storage.
type Store interface {
	// Get returns the value for key, or ErrKeyNotFound.
	Get(ctx context.Context, key string) (string, error)

	// Set stores value under key.
	Set(ctx context.Context, key, value string) error

	// Remove deletes key. Removing a missing key is not an error.
	Remove(ctx context.Context, key string) error

	// RemoveAll deletes every key in one operation.
	RemoveAll(ctx context.Context, keys ...string) error
}
