package store

import (
	"context"
	"errors"
)

// ErrUnavailable is returned when the backing store cannot be reached.
var ErrUnavailable = errors.New("state store unavailable")

// StateStore handles persistent application state as string blobs under
// string keys. A missing key is (""), false, nil; errors are reserved for a
// substrate that could not answer.
type StateStore interface {
	GetState(ctx context.Context, key string) (string, bool, error)
	SetState(ctx context.Context, key, val string) error
	DeleteState(ctx context.Context, key string) error
}

// Store is a StateStore that owns a connection.
type Store interface {
	StateStore

	// Close closes the store connection.
	Close() error
}
