package cypher

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"sync/atomic"
	"testing"

	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/50shades0fGraei/cypher/internal/builder"
	"github.com/50shades0fGraei/cypher/internal/chunk"
	"github.com/50shades0fGraei/cypher/internal/codec"
	"github.com/50shades0fGraei/cypher/internal/codec/gzipcodec"
	"github.com/50shades0fGraei/cypher/internal/codec/noopcodec"
	"github.com/50shades0fGraei/cypher/internal/codec/zstdcodec"
	"github.com/50shades0fGraei/cypher/internal/stats"
	"github.com/50shades0fGraei/cypher/internal/stats/logger"
	"github.com/50shades0fGraei/cypher/internal/store"
	"github.com/50shades0fGraei/cypher/internal/store/diskstore"
	"github.com/50shades0fGraei/cypher/internal/store/memstore"
)

const archiveText = "The quick brown fox\njumps over\n\nthe lazy dog 42\nÉtude in C\n"

func newTestClient(t *testing.T, opts ...Option) *Client {
	t.Helper()
	client, err := New(opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { client.Close() })
	return client
}

func TestNew_Defaults(t *testing.T) {
	client := newTestClient(t)

	if got, want := client.Cypher().Dictionary().Fingerprint(), DefaultDictionary().Fingerprint(); got != want {
		t.Errorf("dictionary fingerprint = %s, want %s", got, want)
	}
	if client.Store() != nil {
		t.Error("Store() should be nil without WithStore")
	}
	if got := client.ChunkStrategy().Name(); got != "lines-1024" {
		t.Errorf("ChunkStrategy().Name() = %q, want lines-1024", got)
	}
	if client.workers != DefaultWorkers {
		t.Errorf("workers = %d, want %d", client.workers, DefaultWorkers)
	}
	if client.codec.Name() != "zstd" {
		t.Errorf("codec = %q, want zstd", client.codec.Name())
	}
}

func TestNew_WithOptions(t *testing.T) {
	mem := memstore.New()
	client := newTestClient(t,
		WithSyllables([]string{"the", "ab"}),
		WithStore(mem),
		WithCodec(gzipcodec.New()),
		WithChunkStrategy(chunk.Size(64)),
		WithWorkers(0),
	)

	if client.Store() != mem {
		t.Error("Store() returned unexpected store")
	}
	if got := client.Cypher().Dictionary().Len(); got != 2 {
		t.Errorf("dictionary Len() = %d, want 2", got)
	}
	if client.workers != 1 {
		t.Errorf("workers = %d, want 1", client.workers)
	}
	if got := client.ChunkStrategy().Name(); got != "size-64" {
		t.Errorf("ChunkStrategy().Name() = %q", got)
	}
}

func TestNew_EmptyDictionaryWarns(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	collector := logger.New(nil)
	client := newTestClient(t, WithSyllables(nil), WithLogger(zap.New(core)), WithStats(collector))

	if n := logs.FilterMessageSnippet("dictionary is empty").Len(); n != 1 {
		t.Errorf("got %d empty dictionary warnings, want 1", n)
	}
	if got := collector.Snapshot().Gauges[stats.MetricDictionarySyllables]; got != 0 {
		t.Errorf("dictionary gauge = %d, want 0", got)
	}

	// Still usable: everything is a literal.
	tokens, err := client.Encode("Hi")
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if s := Summarize(tokens); s.Literals != 2 || s.Syllables != 0 {
		t.Errorf("Summarize() = %+v, want 2 literals", s)
	}
}

func TestClient_EncodeDecode(t *testing.T) {
	collector := logger.New(nil)
	client := newTestClient(t, WithSyllables([]string{"the", "he", "ca"}), WithStats(collector))

	tokens, err := client.Encode("The cat")
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	text, err := client.Decode(tokens)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if text != "The cat" {
		t.Errorf("Decode() = %q, want %q", text, "The cat")
	}

	snap := collector.Snapshot()
	wantCounters := map[string]int64{
		stats.MetricEncodes:        1,
		stats.MetricDecodes:        1,
		stats.MetricSyllableTokens: 2,
		stats.MetricLiteralTokens:  1,
	}
	for name, want := range wantCounters {
		if got := snap.Counters[name]; got != want {
			t.Errorf("counter %s = %d, want %d", name, got, want)
		}
	}
	if snap.Histograms[stats.MetricEncodeDuration].Count != 1 {
		t.Errorf("encode duration not observed")
	}
	if snap.Histograms[stats.MetricDecodeDuration].Count != 1 {
		t.Errorf("decode duration not observed")
	}
}

func TestClient_Encode_InvalidText(t *testing.T) {
	client := newTestClient(t)
	if _, err := client.Encode("a\xffb"); !errors.Is(err, ErrInvalidText) {
		t.Errorf("Encode() error = %v, want ErrInvalidText", err)
	}
}

func TestClient_Decode_Failure(t *testing.T) {
	collector := logger.New(nil)
	client := newTestClient(t, WithStats(collector))

	_, err := client.Decode([]Token{Literal{Char: 'a', Identity: 7}})
	if !errors.Is(err, ErrUnrecoverableToken) {
		t.Fatalf("Decode() error = %v, want ErrUnrecoverableToken", err)
	}
	if got := collector.Snapshot().Counters[stats.MetricDecodeFailures]; got != 1 {
		t.Errorf("decode failures = %d, want 1", got)
	}
}

func TestClient_EncodeAll(t *testing.T) {
	client := newTestClient(t, WithSyllables([]string{"the", "he"}), WithWorkers(2))
	texts := []string{"the", "", "He said\nhello", "42"}

	got, err := client.EncodeAll(context.Background(), texts)
	if err != nil {
		t.Fatalf("EncodeAll() error = %v", err)
	}
	if len(got) != len(texts) {
		t.Fatalf("EncodeAll() returned %d results, want %d", len(got), len(texts))
	}
	for i, text := range texts {
		want := client.Cypher().Encode(text)
		if !reflect.DeepEqual(got[i], want) {
			t.Errorf("EncodeAll()[%d] = %v, want %v", i, got[i], want)
		}
	}

	_, err = client.EncodeAll(context.Background(), []string{"ok", "bad\xff"})
	if !errors.Is(err, ErrInvalidText) {
		t.Errorf("EncodeAll() error = %v, want ErrInvalidText", err)
	}
}

func TestClient_Archive_RoundTrip(t *testing.T) {
	codecsUnderTest := []codec.Codec{zstdcodec.New(), gzipcodec.New(), noopcodec.New()}
	texts := map[string]string{
		"multi":    archiveText,
		"empty":    "",
		"newlines": "\n\n\n",
		"single":   "no newline at all",
	}

	for _, cd := range codecsUnderTest {
		for _, backend := range []string{"memory", "disk"} {
			t.Run(cd.Name()+"/"+backend, func(t *testing.T) {
				var st store.Store = memstore.New()
				if backend == "disk" {
					ds, err := diskstore.New(t.TempDir())
					if err != nil {
						t.Fatalf("diskstore.New() error = %v", err)
					}
					st = ds
				}
				client := newTestClient(t,
					WithStore(st),
					WithCodec(cd),
					WithChunkStrategy(chunk.Lines(2)),
					WithWorkers(3),
				)
				ctx := context.Background()

				for name, text := range texts {
					info, err := client.Archive(ctx, name, text)
					if err != nil {
						t.Fatalf("Archive(%s) error = %v", name, err)
					}
					if want := len(chunk.Lines(2).Split(text)); info.Chunks != want {
						t.Errorf("Archive(%s) chunks = %d, want %d", name, info.Chunks, want)
					}
					if want := Summarize(client.Cypher().Encode(text)); info.Summary != want {
						t.Errorf("Archive(%s) summary = %+v, want %+v", name, info.Summary, want)
					}
					if info.Compression != cd.Name() || info.InputBytes != int64(len(text)) || info.ID == "" {
						t.Errorf("Archive(%s) info = %+v", name, info)
					}

					got, err := client.Restore(ctx, name)
					if err != nil {
						t.Fatalf("Restore(%s) error = %v", name, err)
					}
					if got != text {
						t.Errorf("Restore(%s) = %q, want %q", name, got, text)
					}
				}
			})
		}
	}
}

func TestClient_Archive_Layout(t *testing.T) {
	mem := memstore.New()
	client := newTestClient(t, WithStore(mem), WithChunkStrategy(chunk.Lines(2)))
	ctx := context.Background()

	archived, err := client.Archive(ctx, "notes", "a\nb\nc")
	if err != nil {
		t.Fatalf("Archive() error = %v", err)
	}
	keys, err := mem.List(ctx, "archives/notes/")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	prefix := "archives/notes/" + archived.ID + "/"
	want := []string{
		prefix + "00000.jsonl.zst",
		prefix + "00001.jsonl.zst",
		"archives/notes/manifest.json",
	}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("keys = %v, want %v", keys, want)
	}

	info, err := client.Stat(ctx, "notes")
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}
	if info.Version != ArchiveVersion || info.ChunkStrategy != "lines-2" || info.Name != "notes" || info.Prefix != prefix {
		t.Errorf("Stat() = %+v", info)
	}
}

func TestClient_Archive_Metrics(t *testing.T) {
	collector := logger.New(nil)
	client := newTestClient(t, WithStore(memstore.New()), WithStats(collector), WithChunkStrategy(chunk.Lines(1)))
	ctx := context.Background()

	if _, err := client.Archive(ctx, "m", "one\ntwo\nthree"); err != nil {
		t.Fatalf("Archive() error = %v", err)
	}
	if _, err := client.Restore(ctx, "m"); err != nil {
		t.Fatalf("Restore() error = %v", err)
	}

	snap := collector.Snapshot()
	wantCounters := map[string]int64{
		stats.MetricArchives:    1,
		stats.MetricRestores:    1,
		stats.MetricChunkWrites: 3,
		stats.MetricChunkReads:  3,
		stats.MetricEncodes:     3,
		stats.MetricDecodes:     3,
	}
	for name, want := range wantCounters {
		if got := snap.Counters[name]; got != want {
			t.Errorf("counter %s = %d, want %d", name, got, want)
		}
	}
}

func TestClient_Archive_InvalidText(t *testing.T) {
	mem := memstore.New()
	client := newTestClient(t, WithStore(mem))
	if _, err := client.Archive(context.Background(), "x", "bad\xff"); !errors.Is(err, ErrInvalidText) {
		t.Errorf("Archive() error = %v, want ErrInvalidText", err)
	}
	if mem.Len() != 0 {
		t.Errorf("store has %d objects, want 0", mem.Len())
	}
}

func TestClient_Archive_Cancelled(t *testing.T) {
	mem := memstore.New()
	client := newTestClient(t, WithStore(mem))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := client.Archive(ctx, "x", archiveText); !errors.Is(err, context.Canceled) {
		t.Errorf("Archive() error = %v, want context.Canceled", err)
	}
	if _, err := client.Stat(context.Background(), "x"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Stat() error = %v, want ErrNotFound", err)
	}
}

func TestClient_InvalidName(t *testing.T) {
	client := newTestClient(t, WithStore(memstore.New()))
	for _, name := range []string{"", "a/b", "..", ".", "/abs", `a\b`} {
		if _, err := client.Archive(context.Background(), name, "text"); !errors.Is(err, store.ErrInvalidKey) {
			t.Errorf("Archive(%q) error = %v, want store.ErrInvalidKey", name, err)
		}
	}
}

func TestClient_Restore_NotFound(t *testing.T) {
	client := newTestClient(t, WithStore(memstore.New()))
	if _, err := client.Restore(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Restore() error = %v, want ErrNotFound", err)
	}
}

func TestClient_Restore_DictionaryMismatch(t *testing.T) {
	mem := memstore.New()
	writer := newTestClient(t, WithStore(mem), WithSyllables([]string{"the"}))
	reader := newTestClient(t, WithStore(mem), WithSyllables([]string{"he"}))
	ctx := context.Background()

	if _, err := writer.Archive(ctx, "doc", "the end"); err != nil {
		t.Fatalf("Archive() error = %v", err)
	}
	if _, err := reader.Restore(ctx, "doc"); !errors.Is(err, ErrDictionaryMismatch) {
		t.Errorf("Restore() error = %v, want ErrDictionaryMismatch", err)
	}

	// Syllables differing only in case share a fingerprint.
	same := newTestClient(t, WithStore(mem), WithSyllables([]string{"THE"}))
	if got, err := same.Restore(ctx, "doc"); err != nil || got != "the end" {
		t.Errorf("Restore() = %q, %v", got, err)
	}
}

func TestClient_Restore_CorruptChunk(t *testing.T) {
	mem := memstore.New()
	client := newTestClient(t, WithStore(mem), WithCodec(noopcodec.New()))
	ctx := context.Background()

	info, err := client.Archive(ctx, "doc", "a\nb")
	if err != nil {
		t.Fatalf("Archive() error = %v", err)
	}
	key := chunkKey(info.Prefix, 0, noopcodec.New())
	if err := mem.Write(ctx, key, []byte("not json\n")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if _, err := client.Restore(ctx, "doc"); !errors.Is(err, ErrMalformedToken) {
		t.Errorf("Restore() error = %v, want ErrMalformedToken", err)
	}

	// A record with a foreign identity is caught by the decoder.
	if err := mem.Write(ctx, key, []byte(`{"type":"C1","char":"a","value":9,"is_uppercase":false}`+"\n")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if _, err := client.Restore(ctx, "doc"); !errors.Is(err, ErrUnrecoverableToken) {
		t.Errorf("Restore() error = %v, want ErrUnrecoverableToken", err)
	}
}

// flakyStore fails writes to keys with the given suffix once armed.
type flakyStore struct {
	*memstore.Store
	suffix string
	armed  atomic.Bool
}

var errWriteFailed = errors.New("write failed")

func (s *flakyStore) Write(ctx context.Context, key string, data []byte) error {
	if s.armed.Load() && strings.HasSuffix(key, s.suffix) {
		return errWriteFailed
	}
	return s.Store.Write(ctx, key, data)
}

func TestClient_Archive_FailedReplaceKeepsArchive(t *testing.T) {
	mem := memstore.New()
	flaky := &flakyStore{Store: mem, suffix: "00001.jsonl.zst"}
	client := newTestClient(t, WithStore(flaky), WithChunkStrategy(chunk.Lines(1)))
	ctx := context.Background()

	old, err := client.Archive(ctx, "doc", "alpha\nbeta\ngamma")
	if err != nil {
		t.Fatalf("Archive() error = %v", err)
	}

	flaky.armed.Store(true)
	if _, err := client.Archive(ctx, "doc", "zulu\nyankee\nxray"); !errors.Is(err, errWriteFailed) {
		t.Fatalf("Archive() error = %v, want errWriteFailed", err)
	}

	got, err := client.Restore(ctx, "doc")
	if err != nil {
		t.Fatalf("Restore() error = %v", err)
	}
	if got != "alpha\nbeta\ngamma" {
		t.Errorf("Restore() = %q, want the previous archive", got)
	}

	keys, err := mem.List(ctx, "archives/doc/")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	for _, key := range keys {
		if key != manifestKey("doc") && !strings.HasPrefix(key, old.Prefix) {
			t.Errorf("failed archive left %s", key)
		}
	}
}

func TestClient_Archive_ReplaceDeletesOldChunks(t *testing.T) {
	mem := memstore.New()
	ctx := context.Background()

	first := newTestClient(t, WithStore(mem), WithChunkStrategy(chunk.Lines(1)))
	if _, err := first.Archive(ctx, "doc", "a\nb\nc"); err != nil {
		t.Fatalf("Archive() error = %v", err)
	}

	second := newTestClient(t, WithStore(mem), WithCodec(gzipcodec.New()))
	info, err := second.Archive(ctx, "doc", "d")
	if err != nil {
		t.Fatalf("Archive() error = %v", err)
	}

	keys, err := mem.List(ctx, "archives/doc/")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	want := []string{info.Prefix + "00000.jsonl.gz", manifestKey("doc")}
	if !reflect.DeepEqual(keys, want) {
		t.Errorf("keys = %v, want %v", keys, want)
	}
	if got, err := first.Restore(ctx, "doc"); err != nil || got != "d" {
		t.Errorf("Restore() = %q, %v", got, err)
	}
}

func TestClient_Restore_VersionOneLayout(t *testing.T) {
	mem := memstore.New()
	client := newTestClient(t, WithStore(mem), WithCodec(noopcodec.New()))
	ctx := context.Background()

	tokens, err := client.Encode("legacy")
	if err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	raw, err := MarshalTokens(tokens)
	if err != nil {
		t.Fatalf("MarshalTokens() error = %v", err)
	}
	if err := mem.Write(ctx, "archives/old/00000.jsonl", raw); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	manifest, err := json.Marshal(ArchiveInfo{
		Version:     1,
		Name:        "old",
		Fingerprint: client.Cypher().Dictionary().Fingerprint(),
		Compression: "none",
		Chunks:      1,
	})
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if err := mem.Write(ctx, manifestKey("old"), manifest); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if got, err := client.Restore(ctx, "old"); err != nil || got != "legacy" {
		t.Errorf("Restore() = %q, %v", got, err)
	}

	// Replacing it removes the chunk kept beside the manifest.
	if _, err := client.Archive(ctx, "old", "new"); err != nil {
		t.Fatalf("Archive() error = %v", err)
	}
	if _, err := mem.Read(ctx, "archives/old/00000.jsonl"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("Read() error = %v, want store.ErrNotFound", err)
	}
}

func TestClient_Stat_RejectsForeignPrefix(t *testing.T) {
	mem := memstore.New()
	client := newTestClient(t, WithStore(mem))
	ctx := context.Background()

	manifest := []byte(`{"version":2,"name":"doc","prefix":"archives/other/x/","chunks":1}`)
	if err := mem.Write(ctx, manifestKey("doc"), manifest); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if _, err := client.Stat(ctx, "doc"); err == nil {
		t.Error("Stat() accepted a chunk prefix outside the archive")
	}
}

func TestClient_List(t *testing.T) {
	mem := memstore.New()
	client := newTestClient(t, WithStore(mem))
	ctx := context.Background()

	names, err := client.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(names) != 0 {
		t.Errorf("List() = %v, want empty", names)
	}

	for _, name := range []string{"beta", "alpha"} {
		if _, err := client.Archive(ctx, name, "text"); err != nil {
			t.Fatalf("Archive(%s) error = %v", name, err)
		}
	}
	if err := mem.Write(ctx, "archives/orphan/00000.jsonl", []byte("{}")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	names, err = client.List(ctx)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if want := []string{"alpha", "beta"}; !reflect.DeepEqual(names, want) {
		t.Errorf("List() = %v, want %v", names, want)
	}
}

func TestClient_NoStore(t *testing.T) {
	client := newTestClient(t)
	ctx := context.Background()

	if _, err := client.Archive(ctx, "x", "y"); !errors.Is(err, ErrNoStore) {
		t.Errorf("Archive() error = %v, want ErrNoStore", err)
	}
	if _, err := client.Restore(ctx, "x"); !errors.Is(err, ErrNoStore) {
		t.Errorf("Restore() error = %v, want ErrNoStore", err)
	}
	if _, err := client.List(ctx); !errors.Is(err, ErrNoStore) {
		t.Errorf("List() error = %v, want ErrNoStore", err)
	}
}

func TestClient_Close(t *testing.T) {
	client, err := New(WithStore(memstore.New()))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	if err := client.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if err := client.Close(); !errors.Is(err, ErrClosed) {
		t.Errorf("second Close() error = %v, want ErrClosed", err)
	}
	if _, err := client.Encode("x"); !errors.Is(err, ErrClosed) {
		t.Errorf("Encode() after Close error = %v, want ErrClosed", err)
	}
	if _, err := client.Archive(context.Background(), "x", "y"); !errors.Is(err, ErrClosed) {
		t.Errorf("Archive() after Close error = %v, want ErrClosed", err)
	}
}

type failingStore struct {
	*memstore.Store
	err error
}

func (s failingStore) Close() error { return s.err }

type closingCollector struct {
	stats.Noop
	err error
}

func (c *closingCollector) Close() error { return c.err }

func TestClient_Close_CombinesErrors(t *testing.T) {
	storeErr := errors.New("store close failed")
	statsErr := errors.New("stats close failed")
	client, err := New(
		WithStore(failingStore{Store: memstore.New(), err: storeErr}),
		WithStats(&closingCollector{err: statsErr}),
	)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	err = client.Close()
	if !errors.Is(err, storeErr) || !errors.Is(err, statsErr) {
		t.Errorf("Close() error = %v, want both errors", err)
	}
	if n := len(multierr.Errors(err)); n != 2 {
		t.Errorf("Close() combined %d errors, want 2", n)
	}
}

func TestWithDataDir(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(t.TempDir(), "syllables.txt")
	if err := os.WriteFile(src, []byte("the\nqu\nick\nbro\nown\n"), 0644); err != nil {
		t.Fatalf("writing source: %v", err)
	}
	st, err := diskstore.New(dir)
	if err != nil {
		t.Fatalf("diskstore.New() error = %v", err)
	}
	m, err := builder.NewBuilder(builder.WithSource(src), builder.WithProgress(nil)).Build(context.Background(), st)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	opt, err := WithDataDir(dir)
	if err != nil {
		t.Fatalf("WithDataDir() error = %v", err)
	}
	client := newTestClient(t, opt)

	if got := client.Cypher().Dictionary().Fingerprint(); got != m.Fingerprint {
		t.Errorf("fingerprint = %s, want %s", got, m.Fingerprint)
	}
	ctx := context.Background()
	if _, err := client.Archive(ctx, "fox", "The quick brown fox"); err != nil {
		t.Fatalf("Archive() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "archives", "fox", "manifest.json")); err != nil {
		t.Errorf("archive manifest not in data dir: %v", err)
	}
	got, err := client.Restore(ctx, "fox")
	if err != nil || got != "The quick brown fox" {
		t.Errorf("Restore() = %q, %v", got, err)
	}
}

func TestWithDataDir_Errors(t *testing.T) {
	if _, err := WithDataDir(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("WithDataDir() accepted a missing directory")
	}
	if _, err := WithDataDir(t.TempDir()); !errors.Is(err, builder.ErrNoManifest) {
		t.Errorf("WithDataDir() error = %v, want builder.ErrNoManifest", err)
	}
}

func TestArchiveKeys(t *testing.T) {
	if got := chunkKey("archives/doc/id/", 7, gzipcodec.New()); got != "archives/doc/id/00007.jsonl.gz" {
		t.Errorf("chunkKey() = %q", got)
	}
	if got := manifestKey("doc"); !strings.HasSuffix(got, "doc/manifest.json") {
		t.Errorf("manifestKey() = %q", got)
	}
}
