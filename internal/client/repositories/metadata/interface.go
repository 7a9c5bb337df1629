// Package metadata stores small named values (tokens, cursors, preferences)
// in the local SQLite database.
package metadata

import (
	"context"
)

type Repository interface {
	// Get returns the value under key. ok is false when the key is absent.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
