// Package codec provides compression and decompression for persisted token
// streams and dictionaries.
package codec

import (
	"bytes"
	"fmt"
	"io"
)

// Codec provides compression and decompression functionality.
type Codec interface {
	// Name returns the codec name recorded in manifests (e.g., "zstd").
	Name() string
	// Reader wraps r to decompress data read from it.
	Reader(r io.Reader) (io.ReadCloser, error)
	// Writer wraps w to compress data written to it.
	Writer(w io.Writer) (io.WriteCloser, error)
	// Extension returns the file extension without dot (e.g., "zst", "gz").
	// Returns empty string for no compression.
	Extension() string
}

// Compress returns data compressed with c.
func Compress(c Codec, data []byte) ([]byte, error) {
	var buf bytes.Buffer
	w, err := c.Writer(&buf)
	if err != nil {
		return nil, fmt.Errorf("creating %s writer: %w", c.Name(), err)
	}
	if _, err := w.Write(data); err != nil {
		w.Close()
		return nil, fmt.Errorf("compressing with %s: %w", c.Name(), err)
	}
	if err := w.Close(); err != nil {
		return nil, fmt.Errorf("closing %s writer: %w", c.Name(), err)
	}
	return buf.Bytes(), nil
}

// Decompress returns data decompressed with c.
func Decompress(c Codec, data []byte) ([]byte, error) {
	r, err := c.Reader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating %s reader: %w", c.Name(), err)
	}
	defer r.Close()

	out, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("decompressing with %s: %w", c.Name(), err)
	}
	return out, nil
}
