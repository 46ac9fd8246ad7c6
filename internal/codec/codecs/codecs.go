// Package codecs selects a codec by name or file extension.
package codecs

import (
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/50shades0fGraei/cypher/internal/codec"
	"github.com/50shades0fGraei/cypher/internal/codec/gzipcodec"
	"github.com/50shades0fGraei/cypher/internal/codec/noopcodec"
	"github.com/50shades0fGraei/cypher/internal/codec/zstdcodec"
)

// ErrUnknown indicates a codec name with no implementation.
var ErrUnknown = errors.New("codecs: unknown codec")

// Names lists the accepted codec names.
var Names = []string{"zstd", "gzip", "none"}

// Lookup returns the codec for name. Extensions ("zst", "gz") and the
// empty string (no compression) are accepted as well.
func Lookup(name string) (codec.Codec, error) {
	switch strings.ToLower(name) {
	case "zstd", "zst":
		return zstdcodec.New(), nil
	case "gzip", "gz":
		return gzipcodec.New(), nil
	case "none", "":
		return noopcodec.New(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknown, name)
	}
}

// ForPath picks a codec from the extension of p; files without a known
// compression extension use no compression.
func ForPath(p string) codec.Codec {
	switch strings.ToLower(path.Ext(p)) {
	case ".zst":
		return zstdcodec.New()
	case ".gz":
		return gzipcodec.New()
	default:
		return noopcodec.New()
	}
}

// Key appends the codec extension to base, if any.
func Key(base string, c codec.Codec) string {
	if ext := c.Extension(); ext != "" {
		return base + "." + ext
	}
	return base
}
