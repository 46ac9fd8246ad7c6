// Package gzipcodec provides a gzip compression codec.
package gzipcodec

import (
	"io"

	"github.com/klauspost/compress/gzip"

	"github.com/50shades0fGraei/cypher/internal/codec"
)

// Compile-time check that Codec implements codec.Codec.
var _ codec.Codec = (*Codec)(nil)

// Codec implements gzip compression.
type Codec struct {
	level int
}

// Option configures a Codec.
type Option func(*Codec)

// WithLevel sets the compression level, gzip.BestSpeed through
// gzip.BestCompression. Default is gzip.DefaultCompression.
func WithLevel(level int) Option {
	return func(c *Codec) {
		c.level = level
	}
}

// New returns a new gzip codec.
func New(opts ...Option) *Codec {
	c := &Codec{level: gzip.DefaultCompression}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name returns "gzip".
func (c *Codec) Name() string {
	return "gzip"
}

// Reader wraps r to decompress gzip data.
func (c *Codec) Reader(r io.Reader) (io.ReadCloser, error) {
	return gzip.NewReader(r)
}

// Writer wraps w to compress data with gzip.
func (c *Codec) Writer(w io.Writer) (io.WriteCloser, error) {
	return gzip.NewWriterLevel(w, c.level)
}

// Extension returns "gz".
func (c *Codec) Extension() string {
	return "gz"
}
