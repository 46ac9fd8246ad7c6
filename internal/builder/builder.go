package builder

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"sync/atomic"
	"time"

	"go.uber.org/zap"

	"github.com/50shades0fGraei/cypher/internal/codec"
	"github.com/50shades0fGraei/cypher/internal/codec/codecs"
	"github.com/50shades0fGraei/cypher/internal/codec/zstdcodec"
	"github.com/50shades0fGraei/cypher/internal/dictionary"
	"github.com/50shades0fGraei/cypher/internal/store"
)

const (
	// SourceGenerated selects the built-in consonant/vowel generator.
	SourceGenerated = "generated"

	// DictionaryBase is the dictionary object key before the codec extension.
	DictionaryBase = "dictionary.txt"
)

// Builder builds a dictionary data directory from a syllable source.
type Builder struct {
	source       string
	codec        codec.Codec
	progress     ProgressFunc
	tempDir      string
	downloader   *Downloader
	generateOpts []dictionary.GenerateOption
	logger       *zap.Logger
}

// Option configures the Builder.
type Option func(*Builder)

// WithSource sets the syllable source: SourceGenerated, a local file path
// (".zst" and ".gz" are decompressed) or an http(s) URL.
func WithSource(source string) Option {
	return func(b *Builder) { b.source = source }
}

// WithCodec sets the codec for the stored syllable list.
func WithCodec(c codec.Codec) Option {
	return func(b *Builder) { b.codec = c }
}

// WithProgress sets the progress callback. A nil callback disables reporting.
func WithProgress(fn ProgressFunc) Option {
	return func(b *Builder) { b.progress = fn }
}

// WithTempDir sets the directory for downloads.
func WithTempDir(dir string) Option {
	return func(b *Builder) { b.tempDir = dir }
}

// WithDownloader sets the downloader for URL sources.
func WithDownloader(d *Downloader) Option {
	return func(b *Builder) { b.downloader = d }
}

// WithGenerateOptions configures the generator used for SourceGenerated.
func WithGenerateOptions(opts ...dictionary.GenerateOption) Option {
	return func(b *Builder) { b.generateOpts = opts }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(b *Builder) { b.logger = l }
}

// NewBuilder creates a new Builder with the given options.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		source:   SourceGenerated,
		codec:    zstdcodec.New(),
		progress: DefaultProgressFunc,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	if b.downloader == nil {
		b.downloader = NewDownloader()
	}
	return b
}

// Build loads the syllable source and writes the compressed syllable list
// and its manifest into st.
func (b *Builder) Build(ctx context.Context, st store.Store) (*Manifest, error) {
	start := time.Now()
	m, err := b.build(ctx, st, start)
	if err != nil {
		b.reportProgress(Progress{Phase: PhaseError, StartTime: start, Error: err})
		return nil, err
	}
	return m, nil
}

func (b *Builder) build(ctx context.Context, st store.Store, start time.Time) (*Manifest, error) {
	syllables, err := b.load(ctx, start)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var written atomic.Int64
	var raw bytes.Buffer
	if err := dictionary.Write(newProgressWriter(&raw, &written), syllables); err != nil {
		return nil, fmt.Errorf("serializing syllables: %w", err)
	}
	data, err := codec.Compress(b.codec, raw.Bytes())
	if err != nil {
		return nil, err
	}

	key := codecs.Key(DictionaryBase, b.codec)
	if err := st.Write(ctx, key, data); err != nil {
		return nil, fmt.Errorf("writing %s: %w", key, err)
	}
	b.reportProgress(Progress{
		Phase:        PhaseWrite,
		Syllables:    len(syllables),
		BytesWritten: int64(len(data)),
		StartTime:    start,
	})

	m := &Manifest{
		Version:       ManifestVersion,
		Syllables:     len(syllables),
		Fingerprint:   dictionary.Fingerprint(syllables),
		Compression:   b.codec.Name(),
		DictionaryKey: key,
		BuiltAt:       time.Now().UTC(),
		Source:        b.source,
	}
	if err := WriteManifest(ctx, st, m); err != nil {
		return nil, err
	}

	b.logger.Info("dictionary built",
		zap.String("source", b.source),
		zap.Int("syllables", m.Syllables),
		zap.String("fingerprint", m.Fingerprint),
		zap.Int64("raw_bytes", written.Load()),
		zap.Int("stored_bytes", len(data)),
	)
	b.reportProgress(Progress{
		Phase:        PhaseDone,
		Syllables:    len(syllables),
		BytesWritten: int64(len(data)),
		StartTime:    start,
	})
	return m, nil
}

// load returns the syllables of the configured source.
func (b *Builder) load(ctx context.Context, start time.Time) ([]string, error) {
	switch {
	case b.source == "" || b.source == SourceGenerated:
		syllables := dictionary.Generate(b.generateOpts...)
		b.reportProgress(Progress{Phase: PhaseParse, Syllables: len(syllables), StartTime: start})
		return syllables, nil
	case isURL(b.source):
		return b.loadURL(ctx, start)
	default:
		return b.loadFile(b.source, start)
	}
}

func (b *Builder) loadURL(ctx context.Context, start time.Time) ([]string, error) {
	tempDir := b.tempDir
	if tempDir == "" {
		dir, err := os.MkdirTemp("", "cypher-build-*")
		if err != nil {
			return nil, fmt.Errorf("creating temp directory: %w", err)
		}
		defer os.RemoveAll(dir)
		tempDir = dir
	} else if err := os.MkdirAll(tempDir, 0755); err != nil {
		return nil, fmt.Errorf("creating temp directory: %w", err)
	}

	u, err := url.Parse(b.source)
	if err != nil {
		return nil, fmt.Errorf("parsing source URL: %w", err)
	}
	// Keep the remote extension so the right codec decompresses it.
	dest := filepath.Join(tempDir, "source"+remoteExt(u.Path))

	b.reportProgress(Progress{Phase: PhaseDownload, StartTime: start})
	if err := b.downloader.DownloadToFile(ctx, b.source, dest, b.progress); err != nil {
		return nil, fmt.Errorf("downloading source: %w", err)
	}
	return b.loadFile(dest, start)
}

func (b *Builder) loadFile(p string, start time.Time) ([]string, error) {
	file, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("opening source file: %w", err)
	}
	defer file.Close()

	c := codecs.ForPath(p)
	reader, err := c.Reader(file)
	if err != nil {
		return nil, fmt.Errorf("creating %s reader: %w", c.Name(), err)
	}
	defer reader.Close()

	var read atomic.Int64
	syllables, err := dictionary.Parse(newProgressReader(reader, &read))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", p, err)
	}
	b.reportProgress(Progress{
		Phase:     PhaseParse,
		BytesRead: read.Load(),
		Syllables: len(syllables),
		StartTime: start,
	})
	return syllables, nil
}

// ReadDictionary reads and parses the syllable list a manifest points to.
func ReadDictionary(ctx context.Context, st store.Store, m *Manifest) ([]string, error) {
	c, err := codecs.Lookup(m.Compression)
	if err != nil {
		return nil, err
	}
	data, err := st.Read(ctx, m.DictionaryKey)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", m.DictionaryKey, err)
	}
	raw, err := codec.Decompress(c, data)
	if err != nil {
		return nil, err
	}
	syllables, err := dictionary.Parse(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", m.DictionaryKey, err)
	}
	if got := dictionary.Fingerprint(syllables); got != m.Fingerprint {
		return nil, fmt.Errorf("%w: %s has fingerprint %s, manifest says %s",
			ErrCorrupt, m.DictionaryKey, got, m.Fingerprint)
	}
	return syllables, nil
}

// ErrCorrupt is returned when stored data disagrees with its manifest.
var ErrCorrupt = errors.New("builder: data does not match manifest")

func (b *Builder) reportProgress(p Progress) {
	if b.progress != nil {
		b.progress(p)
	}
}

func isURL(s string) bool {
	return strings.HasPrefix(s, "http://") || strings.HasPrefix(s, "https://")
}

// remoteExt returns the compression extension of a URL path, if any.
func remoteExt(p string) string {
	switch ext := path.Ext(p); ext {
	case ".zst", ".gz":
		return ext
	default:
		return ".txt"
	}
}
