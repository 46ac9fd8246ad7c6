package cachedstore

import (
	"context"

	"github.com/50shades0fGraei/cypher/internal/store"
)

// Compile-time check that Store implements store.Store.
var _ store.Store = (*Store)(nil)

// Store caches reads of another Store. Writes and deletes go to the
// underlying store first and then update the cache, so a failed write never
// leaves bytes in the cache that the underlying store does not hold.
// Cached bytes are copied on the way in and out.
type Store struct {
	underlying store.Store
	backend    Backend
}

// New creates a new cached store wrapping the given store.
func New(underlying store.Store, backend Backend) *Store {
	return &Store{
		underlying: underlying,
		backend:    backend,
	}
}

// Read returns an object, checking the cache first.
func (s *Store) Read(ctx context.Context, key string) ([]byte, error) {
	if data, ok := s.backend.Get(key); ok {
		return clone(data), nil
	}

	data, err := s.underlying.Read(ctx, key)
	if err != nil {
		return nil, err
	}

	s.backend.Set(key, clone(data))
	return data, nil
}

// Write stores data in the underlying store and, on success, in the cache.
func (s *Store) Write(ctx context.Context, key string, data []byte) error {
	if err := s.underlying.Write(ctx, key, data); err != nil {
		return err
	}
	s.backend.Set(key, clone(data))
	return nil
}

// List is served by the underlying store.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	return s.underlying.List(ctx, prefix)
}

// Delete removes key from the cache and the underlying store.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.backend.Delete(key)
	return s.underlying.Delete(ctx, key)
}

// Close closes the underlying store.
func (s *Store) Close() error {
	return s.underlying.Close()
}

// Stats returns cache statistics.
func (s *Store) Stats() Stats {
	return s.backend.Stats()
}

func clone(data []byte) []byte {
	copied := make([]byte, len(data))
	copy(copied, data)
	return copied
}
