package cypher

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
	"sync/atomic"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/50shades0fGraei/cypher/internal/chunk"
	"github.com/50shades0fGraei/cypher/internal/codec"
	"github.com/50shades0fGraei/cypher/internal/codec/codecs"
	"github.com/50shades0fGraei/cypher/internal/stats"
	"github.com/50shades0fGraei/cypher/internal/store"
)

// ArchiveVersion is the current archive manifest format. Version 2 keeps
// every archive's chunks under their own ID prefix; version 1 manifests
// are still read.
const ArchiveVersion = 2

const (
	archivePrefix   = "archives/"
	archiveManifest = "manifest.json"
)

// ArchiveInfo describes an archive. It is stored as the archive manifest.
type ArchiveInfo struct {
	Version       int       `json:"version"`
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Fingerprint   string    `json:"fingerprint"`
	Syllables     int       `json:"syllables"`
	Compression   string    `json:"compression"`
	ChunkStrategy string    `json:"chunk_strategy"`
	Chunks        int       `json:"chunks"`
	Prefix        string    `json:"prefix"`
	Summary       Summary   `json:"summary"`
	InputBytes    int64     `json:"input_bytes"`
	Created       time.Time `json:"created"`
}

// Client encodes text with a dictionary and keeps compressed archives of
// the token streams in a store.
// A Client is safe for concurrent use by multiple goroutines.
type Client struct {
	cypher  *Cypher
	store   store.Store
	codec   codec.Codec
	chunker chunk.Strategy
	workers int
	stats   stats.Collector
	logger  *zap.Logger
	closed  atomic.Bool
}

// New creates a new Client with the given options.
// If no options are provided, sensible defaults are used.
func New(opts ...Option) (*Client, error) {
	cfg := defaultOptions()
	for _, opt := range opts {
		opt.apply(&cfg)
	}
	if cfg.dict == nil {
		cfg.dict = DefaultDictionary()
	}
	if cfg.codec == nil {
		return nil, errors.New("cypher: nil codec")
	}
	if cfg.chunker == nil {
		return nil, errors.New("cypher: nil chunk strategy")
	}
	if cfg.workers < 1 {
		cfg.workers = 1
	}

	c := &Client{
		cypher:  NewCypher(cfg.dict),
		store:   cfg.store,
		codec:   cfg.codec,
		chunker: cfg.chunker,
		workers: cfg.workers,
		stats:   cfg.stats,
		logger:  cfg.logger,
	}

	if err := cfg.dict.Validate(); err != nil {
		c.logger.Warn("dictionary is empty, every letter will encode as a literal")
	}
	c.stats.SetGauge(stats.MetricDictionarySyllables, int64(cfg.dict.Len()))

	c.logger.Debug("client initialized",
		zap.Int("syllables", cfg.dict.Len()),
		zap.String("fingerprint", cfg.dict.Fingerprint()),
		zap.String("codec", c.codec.Name()),
		zap.String("chunkStrategy", c.chunker.Name()),
		zap.Int("workers", c.workers),
	)

	return c, nil
}

// Encode tokenizes text. Text that is not valid UTF-8 is rejected with
// ErrInvalidText.
func (c *Client) Encode(text string) ([]Token, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}
	return c.encode(text)
}

func (c *Client) encode(text string) ([]Token, error) {
	if !utf8.ValidString(text) {
		return nil, ErrInvalidText
	}

	start := time.Now()
	tokens := c.cypher.Encode(text)
	c.stats.ObserveHistogram(stats.MetricEncodeDuration, time.Since(start).Seconds())

	s := Summarize(tokens)
	c.stats.IncCounter(stats.MetricEncodes, 1)
	c.stats.IncCounter(stats.MetricSyllableTokens, int64(s.Syllables))
	c.stats.IncCounter(stats.MetricLiteralTokens, int64(s.Literals))
	if s.Unsupported > 0 {
		c.stats.IncCounter(stats.MetricUnsupported, int64(s.Unsupported))
	}
	return tokens, nil
}

// Decode reconstructs text from tokens.
func (c *Client) Decode(tokens []Token) (string, error) {
	if c.closed.Load() {
		return "", ErrClosed
	}
	return c.decode(tokens)
}

func (c *Client) decode(tokens []Token) (string, error) {
	start := time.Now()
	text, err := c.cypher.Decode(tokens)
	c.stats.ObserveHistogram(stats.MetricDecodeDuration, time.Since(start).Seconds())
	c.stats.IncCounter(stats.MetricDecodes, 1)
	if err != nil {
		c.stats.IncCounter(stats.MetricDecodeFailures, 1)
		return "", err
	}
	return text, nil
}

// EncodeAll encodes texts concurrently. The result has one token slice per
// text, in input order.
func (c *Client) EncodeAll(ctx context.Context, texts []string) ([][]Token, error) {
	if c.closed.Load() {
		return nil, ErrClosed
	}

	out := make([][]Token, len(texts))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i, text := range texts {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			tokens, err := c.encode(text)
			if err != nil {
				return fmt.Errorf("text %d: %w", i, err)
			}
			out[i] = tokens
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}

// Archive encodes text and stores it under name, replacing any archive of
// the same name. The text is split by the chunk strategy and every chunk is
// encoded, serialized and compressed on its own.
func (c *Client) Archive(ctx context.Context, name, text string) (*ArchiveInfo, error) {
	if err := c.checkStore(); err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}
	if !utf8.ValidString(text) {
		return nil, ErrInvalidText
	}

	// A live archive of the same name is only replaced by the manifest
	// write, and its chunks are released after that.
	prev, err := c.Stat(ctx, name)
	if err != nil && !errors.Is(err, ErrNotFound) {
		c.logger.Warn("ignoring unreadable archive manifest",
			zap.String("name", name), zap.Error(err))
	}

	id := uuid.NewString()
	prefix := archivePrefix + name + "/" + id + "/"
	chunks := c.chunker.Split(text)
	summaries := make([]Summary, len(chunks))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i, part := range chunks {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			tokens, err := c.encode(part)
			if err != nil {
				return err
			}
			summaries[i] = Summarize(tokens)
			return c.writeChunk(gctx, prefix, i, tokens)
		})
	}
	if err := g.Wait(); err != nil {
		c.deleteChunks(context.WithoutCancel(ctx), prefix, len(chunks), c.codec)
		return nil, fmt.Errorf("archiving %s: %w", name, err)
	}

	var total Summary
	for _, s := range summaries {
		total = total.Add(s)
	}
	// Chunks were cut at newlines, which the joined stream encodes as LineBreaks.
	if n := len(chunks) - 1; n > 0 {
		total = total.Add(Summary{Tokens: n, LineBreaks: n})
	}

	dict := c.cypher.Dictionary()
	info := &ArchiveInfo{
		Version:       ArchiveVersion,
		ID:            id,
		Name:          name,
		Fingerprint:   dict.Fingerprint(),
		Syllables:     dict.Len(),
		Compression:   c.codec.Name(),
		ChunkStrategy: c.chunker.Name(),
		Chunks:        len(chunks),
		Prefix:        prefix,
		Summary:       total,
		InputBytes:    int64(len(text)),
		Created:       time.Now().UTC(),
	}
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		c.deleteChunks(context.WithoutCancel(ctx), prefix, len(chunks), c.codec)
		return nil, fmt.Errorf("marshaling archive manifest: %w", err)
	}
	if err := c.store.Write(ctx, manifestKey(name), data); err != nil {
		c.deleteChunks(context.WithoutCancel(ctx), prefix, len(chunks), c.codec)
		return nil, fmt.Errorf("writing archive manifest: %w", err)
	}

	if prev != nil {
		c.releaseChunks(context.WithoutCancel(ctx), prev)
	}

	c.stats.IncCounter(stats.MetricArchives, 1)
	c.logger.Debug("archived",
		zap.String("name", name),
		zap.String("id", info.ID),
		zap.Int("chunks", info.Chunks),
		zap.Int("tokens", total.Tokens),
		zap.Int64("inputBytes", info.InputBytes),
	)
	return info, nil
}

func (c *Client) writeChunk(ctx context.Context, prefix string, i int, tokens []Token) error {
	raw, err := MarshalTokens(tokens)
	if err != nil {
		return fmt.Errorf("chunk %d: %w", i, err)
	}
	data, err := codec.Compress(c.codec, raw)
	if err != nil {
		return fmt.Errorf("chunk %d: %w", i, err)
	}
	if err := c.store.Write(ctx, chunkKey(prefix, i, c.codec), data); err != nil {
		return fmt.Errorf("writing chunk %d: %w", i, err)
	}
	c.stats.IncCounter(stats.MetricChunkWrites, 1)
	return nil
}

// releaseChunks deletes the chunks of a replaced archive.
func (c *Client) releaseChunks(ctx context.Context, prev *ArchiveInfo) {
	cd, err := codecs.Lookup(prev.Compression)
	if err != nil {
		c.logger.Warn("leaving chunks of replaced archive",
			zap.String("name", prev.Name), zap.String("id", prev.ID), zap.Error(err))
		return
	}
	c.deleteChunks(ctx, prev.chunkPrefix(), prev.Chunks, cd)
}

// deleteChunks removes chunks 0 to n-1 under prefix. Failures are logged;
// a leftover chunk is unreachable once no manifest names its prefix.
func (c *Client) deleteChunks(ctx context.Context, prefix string, n int, cd codec.Codec) {
	var err error
	for i := range n {
		err = multierr.Append(err, c.store.Delete(ctx, chunkKey(prefix, i, cd)))
	}
	if err != nil {
		c.logger.Warn("deleting archive chunks",
			zap.String("prefix", prefix), zap.Int("chunks", n), zap.Error(err))
	}
}

// Restore returns the text stored under name. It returns ErrNotFound for
// a missing archive and ErrDictionaryMismatch when the archive was encoded
// with a different dictionary.
func (c *Client) Restore(ctx context.Context, name string) (string, error) {
	info, err := c.Stat(ctx, name)
	if err != nil {
		return "", err
	}
	if want := c.cypher.Dictionary().Fingerprint(); info.Fingerprint != want {
		return "", fmt.Errorf("%w: archive %s has %s, client has %s",
			ErrDictionaryMismatch, name, info.Fingerprint, want)
	}
	cd, err := codecs.Lookup(info.Compression)
	if err != nil {
		return "", fmt.Errorf("archive %s: %w", name, err)
	}

	parts := make([]string, info.Chunks)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.workers)
	for i := range parts {
		g.Go(func() error {
			text, err := c.readChunk(gctx, info.chunkPrefix(), i, cd)
			if err != nil {
				return err
			}
			parts[i] = text
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return "", fmt.Errorf("restoring %s: %w", name, err)
	}

	c.stats.IncCounter(stats.MetricRestores, 1)
	c.logger.Debug("restored",
		zap.String("name", name),
		zap.String("id", info.ID),
		zap.Int("chunks", info.Chunks),
	)
	return strings.Join(parts, "\n"), nil
}

func (c *Client) readChunk(ctx context.Context, prefix string, i int, cd codec.Codec) (string, error) {
	data, err := c.store.Read(ctx, chunkKey(prefix, i, cd))
	if err != nil {
		return "", fmt.Errorf("reading chunk %d: %w", i, err)
	}
	c.stats.IncCounter(stats.MetricChunkReads, 1)

	raw, err := codec.Decompress(cd, data)
	if err != nil {
		return "", fmt.Errorf("chunk %d: %w", i, err)
	}
	tokens, err := UnmarshalTokens(raw)
	if err != nil {
		return "", fmt.Errorf("chunk %d: %w", i, err)
	}
	text, err := c.decode(tokens)
	if err != nil {
		return "", fmt.Errorf("chunk %d: %w", i, err)
	}
	return text, nil
}

// Stat returns the manifest of the archive stored under name.
func (c *Client) Stat(ctx context.Context, name string) (*ArchiveInfo, error) {
	if err := c.checkStore(); err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}

	data, err := c.store.Read(ctx, manifestKey(name))
	if errors.Is(err, store.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("reading archive manifest: %w", err)
	}

	var info ArchiveInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("parsing archive manifest: %w", err)
	}
	if info.Version < 1 || info.Version > ArchiveVersion {
		return nil, fmt.Errorf("archive %s: unsupported version %d", name, info.Version)
	}
	if info.Name == "" {
		info.Name = name
	}
	if info.Version >= 2 && !strings.HasPrefix(info.Prefix, archivePrefix+name+"/") {
		return nil, fmt.Errorf("archive %s: chunk prefix %q outside archive", name, info.Prefix)
	}
	return &info, nil
}

// List returns the names of all archives in the store, sorted.
func (c *Client) List(ctx context.Context) ([]string, error) {
	if err := c.checkStore(); err != nil {
		return nil, err
	}

	keys, err := c.store.List(ctx, archivePrefix)
	if err != nil {
		return nil, fmt.Errorf("listing archives: %w", err)
	}
	var names []string
	for _, key := range keys {
		name, file := path.Split(strings.TrimPrefix(key, archivePrefix))
		if file == archiveManifest && name != "" {
			names = append(names, strings.TrimSuffix(name, "/"))
		}
	}
	sort.Strings(names)
	return names, nil
}

// Close releases all resources associated with the client.
// After Close, the client should not be used.
func (c *Client) Close() error {
	if !c.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}

	var err error
	if c.store != nil {
		if cerr := c.store.Close(); cerr != nil {
			err = multierr.Append(err, fmt.Errorf("closing store: %w", cerr))
		}
	}
	if closer, ok := c.stats.(io.Closer); ok {
		if cerr := closer.Close(); cerr != nil {
			err = multierr.Append(err, fmt.Errorf("closing stats: %w", cerr))
		}
	}
	return err
}

// Cypher returns the codec used by this client.
func (c *Client) Cypher() *Cypher {
	return c.cypher
}

// Store returns the storage backend used by this client.
func (c *Client) Store() store.Store {
	return c.store
}

// ChunkStrategy returns the chunking strategy used for new archives.
func (c *Client) ChunkStrategy() chunk.Strategy {
	return c.chunker
}

func (c *Client) checkStore() error {
	if c.closed.Load() {
		return ErrClosed
	}
	if c.store == nil {
		return ErrNoStore
	}
	return nil
}

// validateName accepts a single key element.
func validateName(name string) error {
	if strings.Contains(name, "/") {
		return fmt.Errorf("%w: archive name %q contains '/'", store.ErrInvalidKey, name)
	}
	if err := store.ValidateKey(name); err != nil {
		return fmt.Errorf("archive name: %w", err)
	}
	return nil
}

func manifestKey(name string) string {
	return archivePrefix + name + "/" + archiveManifest
}

func chunkKey(prefix string, i int, c codec.Codec) string {
	return codecs.Key(fmt.Sprintf("%s%05d.jsonl", prefix, i), c)
}

// chunkPrefix returns the key prefix of the archive's chunks. Version 1
// archives kept them directly beside the manifest.
func (info *ArchiveInfo) chunkPrefix() string {
	if info.Version < 2 {
		return archivePrefix + info.Name + "/"
	}
	return info.Prefix
}
