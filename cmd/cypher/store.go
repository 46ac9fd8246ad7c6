package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/50shades0fGraei/cypher"
	"github.com/50shades0fGraei/cypher/internal/builder"
	"github.com/50shades0fGraei/cypher/internal/codec"
	"github.com/50shades0fGraei/cypher/internal/codec/codecs"
	"github.com/50shades0fGraei/cypher/internal/store"
	"github.com/50shades0fGraei/cypher/internal/store/cachedstore"
	"github.com/50shades0fGraei/cypher/internal/store/cachedstore/cachestrategy/lru"
	"github.com/50shades0fGraei/cypher/internal/store/cachedstore/memory"
	"github.com/50shades0fGraei/cypher/internal/store/diskstore"
	"github.com/50shades0fGraei/cypher/internal/store/gcsstore"
	"github.com/50shades0fGraei/cypher/internal/store/s3store"
)

// cacheSize is the number of objects the CLI keeps in memory per run.
const cacheSize = 100

var errNoDataDir = errors.New("data directory does not exist")

// openStore opens a local directory or a gs:// or s3:// location. Local
// directories are created when create is set.
func openStore(ctx context.Context, location string, create bool) (store.Store, error) {
	switch {
	case strings.HasPrefix(location, "gs://"):
		bucket, prefix, err := gcsstore.ParseURL(location)
		if err != nil {
			return nil, err
		}
		return gcsstore.New(ctx, bucket, gcsstore.WithPrefix(prefix))
	case strings.HasPrefix(location, "s3://"):
		bucket, prefix, err := s3store.ParseURL(location)
		if err != nil {
			return nil, err
		}
		return s3store.New(ctx, bucket, s3store.WithPrefix(prefix))
	}

	if create {
		if err := os.MkdirAll(location, 0755); err != nil {
			return nil, fmt.Errorf("creating %s: %w", location, err)
		}
	} else if _, err := os.Stat(location); errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", errNoDataDir, location)
	}
	return diskstore.New(location)
}

// openCachedStore wraps the data directory store in an LRU cache.
func openCachedStore(ctx context.Context) (store.Store, error) {
	base, err := openStore(ctx, dataDir, false)
	if err != nil {
		return nil, err
	}
	strategy, err := lru.New(cacheSize)
	if err != nil {
		base.Close()
		return nil, fmt.Errorf("creating LRU strategy: %w", err)
	}
	return cachedstore.New(base, memory.New(strategy, collector)), nil
}

// openClient creates a client over the data directory. Without a built
// dictionary the generated one is used; without a data directory the
// client has no store and can only encode and decode.
func openClient(ctx context.Context) (*cypher.Client, error) {
	opts := []cypher.Option{
		cypher.WithLogger(logger.Named("cypher")),
		cypher.WithStats(collector),
	}

	st, err := openCachedStore(ctx)
	switch {
	case errors.Is(err, errNoDataDir):
		logger.Debug("no data directory, using generated dictionary", zap.String("dataDir", dataDir))
	case err != nil:
		return nil, fmt.Errorf("opening data directory: %w", err)
	default:
		dataOpt, err := cypher.WithDataStore(ctx, st)
		switch {
		case errors.Is(err, builder.ErrNoManifest):
			logger.Debug("no manifest, using generated dictionary", zap.String("dataDir", dataDir))
			opts = append(opts, cypher.WithStore(st))
		case err != nil:
			st.Close()
			return nil, err
		default:
			opts = append(opts, dataOpt)
		}
	}

	return cypher.New(opts...)
}

// openInput opens path for reading; "" and "-" mean stdin.
func openInput(path string) (io.ReadCloser, error) {
	if path == "" || path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

// readInput reads path, decompressing by extension.
func readInput(path string) ([]byte, error) {
	r, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return codec.Decompress(codecs.ForPath(path), data)
}

// writeOutput writes data to path, compressing by extension; "" and "-"
// mean stdout.
func writeOutput(path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := os.Stdout.Write(data)
		return err
	}
	compressed, err := codec.Compress(codecs.ForPath(path), data)
	if err != nil {
		return err
	}
	return os.WriteFile(path, compressed, 0644)
}
