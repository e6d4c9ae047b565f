package core

import (
	"context"
	"errors"
)

// ErrItemNotFound is returned by a Storage when no value is stored under the requested key.
var ErrItemNotFound = errors.New("item not found")

// Storage is a key-value persistence medium, the server-side stand-in for a browser's local storage.
// Values are opaque blobs; a SetItem always replaces the whole value.
type Storage interface {
	GetItem(ctx context.Context, key string) ([]byte, error)
	SetItem(ctx context.Context, key string, value []byte) error
	RemoveItem(ctx context.Context, key string) error
	Close() error
}
