// Package store provides the persistent key-value document store backing
// the catalog and identity layers. Each document (user directory, session,
// course list, enrollment list) is read and written as a whole byte slice;
// there are no partial-field primitives.
package store

import (
	"context"
	"errors"
)

// ErrNoDocument is returned by Get when no value exists under the key.
var ErrNoDocument = errors.New("no document stored under key")

type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
}
