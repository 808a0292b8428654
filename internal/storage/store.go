// Package storage is the key/value blob store that holds the signed-in
// profile between runs.
package storage

import (
	"context"
	"errors"
)

// ProfileKey is the fixed key the profile is stored under
const ProfileKey = "storygeo_user"

var ErrNotFound = errors.New("key not found")

// Store persists opaque values by key
type Store interface {
	// Get returns ErrNotFound when key is absent
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	// Remove succeeds when key is already absent
	Remove(ctx context.Context, key string) error
}
