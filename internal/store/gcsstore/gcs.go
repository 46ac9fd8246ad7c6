// Package gcsstore implements a Google Cloud Storage backend.
package gcsstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"

	"github.com/50shades0fGraei/cypher/internal/store"
)

// Compile-time check that Store implements store.Store.
var _ store.Store = (*Store)(nil)

// bucket is the object access Store needs; gcsBucket adapts a
// *storage.BucketHandle to it.
type bucket interface {
	reader(ctx context.Context, name string) (io.ReadCloser, error)
	writer(ctx context.Context, name string) io.WriteCloser
	list(ctx context.Context, prefix string) ([]string, error)
	delete(ctx context.Context, name string) error
}

// Store is a Google Cloud Storage backend.
type Store struct {
	client *storage.Client
	bucket bucket
	prefix string
}

// New creates a new GCS store.
// The bucket must already exist.
func New(ctx context.Context, bucketName string, opts ...Option) (*Store, error) {
	client, err := storage.NewClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("creating GCS client: %w", err)
	}

	s := &Store{
		client: client,
		bucket: gcsBucket{client.Bucket(bucketName)},
	}

	for _, opt := range opts {
		opt(s)
	}

	return s, nil
}

// Option configures a Store.
type Option func(*Store)

// WithPrefix sets a key prefix for all operations.
func WithPrefix(prefix string) Option {
	return func(s *Store) {
		s.prefix = strings.TrimSuffix(prefix, "/")
		if s.prefix != "" {
			s.prefix += "/"
		}
	}
}

// ParseURL splits "gs://bucket/prefix" into bucket and prefix.
func ParseURL(u string) (bucketName, prefix string, err error) {
	rest, ok := strings.CutPrefix(u, "gs://")
	if !ok {
		return "", "", fmt.Errorf("gcsstore: %q is not a gs:// URL", u)
	}
	bucketName, prefix, _ = strings.Cut(rest, "/")
	if bucketName == "" {
		return "", "", fmt.Errorf("gcsstore: %q has no bucket", u)
	}
	return bucketName, strings.Trim(prefix, "/"), nil
}

// Read returns the content of the object at key.
func (s *Store) Read(ctx context.Context, key string) ([]byte, error) {
	if err := store.ValidateKey(key); err != nil {
		return nil, err
	}

	reader, err := s.bucket.reader(ctx, s.objectName(key))
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("creating reader for %s: %w", key, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", key, err)
	}
	return data, nil
}

// Write uploads data to key. The object is committed when the writer
// closes.
func (s *Store) Write(ctx context.Context, key string, data []byte) error {
	if err := store.ValidateKey(key); err != nil {
		return err
	}

	w := s.bucket.writer(ctx, s.objectName(key))
	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("writing %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("committing %s: %w", key, err)
	}
	return nil
}

// Delete removes the object at key.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := store.ValidateKey(key); err != nil {
		return err
	}

	err := s.bucket.delete(ctx, s.objectName(key))
	if err != nil && !errors.Is(err, storage.ErrObjectNotExist) {
		return fmt.Errorf("deleting %s: %w", key, err)
	}
	return nil
}

// List returns the keys starting with prefix, relative to the store prefix.
func (s *Store) List(ctx context.Context, prefix string) ([]string, error) {
	names, err := s.bucket.list(ctx, s.prefix+prefix)
	if err != nil {
		return nil, fmt.Errorf("listing %q: %w", prefix, err)
	}
	keys := make([]string, 0, len(names))
	for _, name := range names {
		keys = append(keys, strings.TrimPrefix(name, s.prefix))
	}
	sort.Strings(keys)
	return keys, nil
}

// Close releases resources.
func (s *Store) Close() error {
	if s.client == nil {
		return nil
	}
	return s.client.Close()
}

// objectName returns the full object name for a store key.
func (s *Store) objectName(key string) string {
	return s.prefix + key
}

type gcsBucket struct {
	handle *storage.BucketHandle
}

func (b gcsBucket) reader(ctx context.Context, name string) (io.ReadCloser, error) {
	return b.handle.Object(name).NewReader(ctx)
}

func (b gcsBucket) writer(ctx context.Context, name string) io.WriteCloser {
	return b.handle.Object(name).NewWriter(ctx)
}

func (b gcsBucket) delete(ctx context.Context, name string) error {
	return b.handle.Object(name).Delete(ctx)
}

func (b gcsBucket) list(ctx context.Context, prefix string) ([]string, error) {
	it := b.handle.Objects(ctx, &storage.Query{Prefix: prefix})
	var names []string
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			return names, nil
		}
		if err != nil {
			return nil, err
		}
		names = append(names, attrs.Name)
	}
}
