package cypher

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/50shades0fGraei/cypher/internal/builder"
	"github.com/50shades0fGraei/cypher/internal/chunk"
	"github.com/50shades0fGraei/cypher/internal/codec"
	"github.com/50shades0fGraei/cypher/internal/codec/zstdcodec"
	"github.com/50shades0fGraei/cypher/internal/stats"
	"github.com/50shades0fGraei/cypher/internal/store"
	"github.com/50shades0fGraei/cypher/internal/store/diskstore"
)

// DefaultWorkers is the default number of chunks encoded or decoded at once.
const DefaultWorkers = 4

// DefaultChunkLines is the default number of lines per archive chunk.
const DefaultChunkLines = 1024

// Option configures a Client.
type Option interface {
	apply(*options)
}

// options holds the client configuration.
type options struct {
	dict    *Dictionary
	store   store.Store
	codec   codec.Codec
	chunker chunk.Strategy
	workers int
	stats   stats.Collector
	logger  *zap.Logger
}

// defaultOptions returns the default configuration.
func defaultOptions() options {
	return options{
		codec:   zstdcodec.New(),
		chunker: chunk.Lines(DefaultChunkLines),
		workers: DefaultWorkers,
		stats:   stats.NewNoop(),
		logger:  zap.NewNop(),
	}
}

// optionFunc wraps a function to implement Option.
type optionFunc func(*options)

// Compile-time check that optionFunc implements Option.
var _ Option = optionFunc(nil)

func (f optionFunc) apply(o *options) { f(o) }

// WithDictionary sets the syllable dictionary.
// If not set, DefaultDictionary is used.
func WithDictionary(d *Dictionary) Option {
	return optionFunc(func(o *options) {
		o.dict = d
	})
}

// WithSyllables builds the dictionary from a syllable list.
func WithSyllables(syllables []string) Option {
	return optionFunc(func(o *options) {
		o.dict = NewDictionary(syllables)
	})
}

// WithStore sets the storage backend for archives.
// Without a store, Archive and Restore return ErrNoStore.
func WithStore(s store.Store) Option {
	return optionFunc(func(o *options) {
		o.store = s
	})
}

// WithCodec sets the compression codec for new archives.
// Default is zstd. Existing archives are read with the codec they name.
func WithCodec(c codec.Codec) Option {
	return optionFunc(func(o *options) {
		o.codec = c
	})
}

// WithChunkStrategy sets how archived text is split into chunks.
// Default is chunk.Lines(1024).
func WithChunkStrategy(s chunk.Strategy) Option {
	return optionFunc(func(o *options) {
		o.chunker = s
	})
}

// WithWorkers sets how many chunks are processed concurrently.
// Default is 4.
func WithWorkers(n int) Option {
	return optionFunc(func(o *options) {
		o.workers = n
	})
}

// WithStats sets the stats collector.
// If not set, a no-op collector is used.
func WithStats(c stats.Collector) Option {
	return optionFunc(func(o *options) {
		o.stats = c
	})
}

// WithLogger sets the logger.
// If not set, a no-op logger is used.
func WithLogger(l *zap.Logger) Option {
	return optionFunc(func(o *options) {
		o.logger = l
	})
}

// WithDataDir configures the client from a data directory built by
// "cypher build". It reads manifest.json and the syllable list it names,
// and stores archives in the same directory.
func WithDataDir(dir string) (Option, error) {
	st, err := diskstore.New(dir)
	if err != nil {
		return nil, fmt.Errorf("creating store: %w", err)
	}
	return WithDataStore(context.Background(), st)
}

// WithDataStore is WithDataDir for any store holding a built dictionary.
func WithDataStore(ctx context.Context, st store.Store) (Option, error) {
	manifest, err := builder.ReadManifest(ctx, st)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	syllables, err := builder.ReadDictionary(ctx, st, manifest)
	if err != nil {
		return nil, fmt.Errorf("reading dictionary: %w", err)
	}
	dict := NewDictionary(syllables)

	return optionFunc(func(o *options) {
		o.store = st
		o.dict = dict
	}), nil
}
