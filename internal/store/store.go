// Package store defines the storage backend interface for archives and
// dictionary data directories.
package store

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"
)

var (
	// ErrNotFound is returned when an object does not exist in the store.
	ErrNotFound = errors.New("store: object not found")

	// ErrInvalidKey is returned for keys that are empty, absolute or escape
	// the store root.
	ErrInvalidKey = errors.New("store: invalid key")
)

// Store defines the interface for storage backends. Keys are
// slash-separated relative paths such as "archives/notes/<id>/00000.jsonl.zst".
// Stores hold raw bytes; compression is applied by callers.
type Store interface {
	// Read returns the content of the object at key.
	Read(ctx context.Context, key string) ([]byte, error)

	// Write stores data at key, replacing any existing object.
	Write(ctx context.Context, key string, data []byte) error

	// List returns the keys starting with prefix, in ascending order.
	List(ctx context.Context, prefix string) ([]string, error)

	// Delete removes the object at key. Deleting a missing key is not an
	// error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the store.
	Close() error
}

// ValidateKey checks that key is a clean relative slash path.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: empty", ErrInvalidKey)
	}
	if strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return fmt.Errorf("%w: %q is not relative", ErrInvalidKey, key)
	}
	if path.Clean(key) != key {
		return fmt.Errorf("%w: %q is not clean", ErrInvalidKey, key)
	}
	for _, part := range strings.Split(key, "/") {
		if part == ".." || part == "." {
			return fmt.Errorf("%w: %q escapes the store", ErrInvalidKey, key)
		}
	}
	return nil
}
