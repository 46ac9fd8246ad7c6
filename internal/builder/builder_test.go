package builder

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/50shades0fGraei/cypher/internal/codec"
	"github.com/50shades0fGraei/cypher/internal/codec/gzipcodec"
	"github.com/50shades0fGraei/cypher/internal/codec/noopcodec"
	"github.com/50shades0fGraei/cypher/internal/codec/zstdcodec"
	"github.com/50shades0fGraei/cypher/internal/dictionary"
	"github.com/50shades0fGraei/cypher/internal/store"
	"github.com/50shades0fGraei/cypher/internal/store/diskstore"
	"github.com/50shades0fGraei/cypher/internal/store/memstore"
)

const testSyllables = "# test list\nthe\nHe\n\ning\nthe\n"

func writeSource(t *testing.T, name string, c codec.Codec) string {
	t.Helper()
	data, err := codec.Compress(c, []byte(testSyllables))
	if err != nil {
		t.Fatalf("Compress() error = %v", err)
	}
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, data, 0644); err != nil {
		t.Fatalf("writing source file: %v", err)
	}
	return p
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes int64
		want  string
	}{
		{0, "0 B"},
		{100, "100 B"},
		{1024, "1.0 KB"},
		{1536, "1.5 KB"},
		{1048576, "1.0 MB"},
		{1073741824, "1.0 GB"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := FormatBytes(tt.bytes)
			if got != tt.want {
				t.Errorf("FormatBytes(%d) = %q, want %q", tt.bytes, got, tt.want)
			}
		})
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		dur  time.Duration
		want string
	}{
		{30 * time.Second, "30s"},
		{90 * time.Second, "1m 30s"},
		{3661 * time.Second, "1h 1m"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			got := FormatDuration(tt.dur)
			if got != tt.want {
				t.Errorf("FormatDuration(%v) = %q, want %q", tt.dur, got, tt.want)
			}
		})
	}
}

func TestNewBuilder_Defaults(t *testing.T) {
	b := NewBuilder()

	if b.source != SourceGenerated {
		t.Errorf("source = %q, want %q", b.source, SourceGenerated)
	}
	if b.codec.Name() != "zstd" {
		t.Errorf("codec = %q, want zstd", b.codec.Name())
	}
	if b.downloader == nil {
		t.Error("downloader should not be nil")
	}
}

func TestNewBuilder_WithOptions(t *testing.T) {
	d := NewDownloader()
	b := NewBuilder(
		WithSource("http://example.com/syllables.txt"),
		WithCodec(gzipcodec.New()),
		WithTempDir("/tmp/test"),
		WithDownloader(d),
		WithProgress(nil),
	)

	if b.source != "http://example.com/syllables.txt" {
		t.Errorf("source = %q", b.source)
	}
	if b.codec.Name() != "gzip" {
		t.Errorf("codec = %q", b.codec.Name())
	}
	if b.tempDir != "/tmp/test" {
		t.Errorf("tempDir = %q", b.tempDir)
	}
	if b.downloader != d {
		t.Error("downloader not applied")
	}
	if b.progress != nil {
		t.Error("progress should be nil")
	}
}

func TestBuild_Generated(t *testing.T) {
	st := memstore.New()
	var phases []string
	b := NewBuilder(
		WithGenerateOptions(dictionary.WithVowels("a"), dictionary.WithConsonants("bt"), dictionary.WithBlends(nil)),
		WithProgress(func(p Progress) { phases = append(phases, p.Phase) }),
	)

	m, err := b.Build(context.Background(), st)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	want := dictionary.Generate(dictionary.WithVowels("a"), dictionary.WithConsonants("bt"), dictionary.WithBlends(nil))
	if m.Syllables != len(want) {
		t.Errorf("Syllables = %d, want %d", m.Syllables, len(want))
	}
	if m.Fingerprint != dictionary.Fingerprint(want) {
		t.Errorf("Fingerprint = %s, want %s", m.Fingerprint, dictionary.Fingerprint(want))
	}
	if m.DictionaryKey != "dictionary.txt.zst" {
		t.Errorf("DictionaryKey = %q", m.DictionaryKey)
	}
	if m.Compression != "zstd" || m.Source != SourceGenerated {
		t.Errorf("Compression = %q, Source = %q", m.Compression, m.Source)
	}

	wantPhases := []string{PhaseParse, PhaseWrite, PhaseDone}
	if strings.Join(phases, ",") != strings.Join(wantPhases, ",") {
		t.Errorf("phases = %v, want %v", phases, wantPhases)
	}

	keys, err := st.List(context.Background(), "")
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(keys) != 2 {
		t.Errorf("List() = %v, want manifest and dictionary", keys)
	}
}

func TestBuild_FromFile(t *testing.T) {
	tests := []struct {
		name  string
		file  string
		codec codec.Codec
	}{
		{"plain", "syllables.txt", noopcodec.New()},
		{"gzip", "syllables.txt.gz", gzipcodec.New()},
		{"zstd", "syllables.txt.zst", zstdcodec.New()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := writeSource(t, tt.file, tt.codec)
			st := memstore.New()
			b := NewBuilder(WithSource(src), WithCodec(gzipcodec.New()), WithProgress(nil))

			m, err := b.Build(context.Background(), st)
			if err != nil {
				t.Fatalf("Build() error = %v", err)
			}
			if m.Syllables != 3 {
				t.Errorf("Syllables = %d, want 3", m.Syllables)
			}
			if m.DictionaryKey != "dictionary.txt.gz" {
				t.Errorf("DictionaryKey = %q", m.DictionaryKey)
			}

			got, err := ReadDictionary(context.Background(), st, m)
			if err != nil {
				t.Fatalf("ReadDictionary() error = %v", err)
			}
			want := []string{"the", "he", "ing"}
			if strings.Join(got, ",") != strings.Join(want, ",") {
				t.Errorf("ReadDictionary() = %v, want %v", got, want)
			}
		})
	}
}

func TestBuild_DiskStore(t *testing.T) {
	dir := t.TempDir()
	st, err := diskstore.New(dir)
	if err != nil {
		t.Fatalf("diskstore.New() error = %v", err)
	}
	src := writeSource(t, "syllables.txt", noopcodec.New())

	m, err := NewBuilder(WithSource(src), WithProgress(nil)).Build(context.Background(), st)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if _, err := os.Stat(filepath.Join(dir, ManifestKey)); err != nil {
		t.Errorf("manifest not on disk: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, m.DictionaryKey)); err != nil {
		t.Errorf("dictionary not on disk: %v", err)
	}

	read, err := ReadManifest(context.Background(), st)
	if err != nil {
		t.Fatalf("ReadManifest() error = %v", err)
	}
	if read.Fingerprint != m.Fingerprint || read.Syllables != m.Syllables {
		t.Errorf("ReadManifest() = %+v, want %+v", read, m)
	}
}

func TestBuild_EmptySource(t *testing.T) {
	p := filepath.Join(t.TempDir(), "empty.txt")
	if err := os.WriteFile(p, []byte("# nothing\n\n"), 0644); err != nil {
		t.Fatalf("writing source file: %v", err)
	}

	var last Progress
	b := NewBuilder(WithSource(p), WithProgress(func(p Progress) { last = p }))
	_, err := b.Build(context.Background(), memstore.New())
	if !errors.Is(err, dictionary.ErrEmpty) {
		t.Fatalf("Build() error = %v, want dictionary.ErrEmpty", err)
	}
	if last.Phase != PhaseError || last.Error == nil {
		t.Errorf("last progress = %+v, want error phase", last)
	}
}

func TestBuild_MissingSource(t *testing.T) {
	b := NewBuilder(WithSource(filepath.Join(t.TempDir(), "missing.txt")), WithProgress(nil))
	if _, err := b.Build(context.Background(), memstore.New()); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("Build() error = %v, want os.ErrNotExist", err)
	}
}

func TestBuild_Cancellation(t *testing.T) {
	src := writeSource(t, "syllables.txt", noopcodec.New())
	st := memstore.New()
	b := NewBuilder(WithSource(src), WithProgress(nil))

	// Cancel immediately.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := b.Build(ctx, st)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Build() error = %v, want context.Canceled", err)
	}
	if st.Len() != 0 {
		t.Errorf("store has %d objects after cancel, want 0", st.Len())
	}
}

func TestBuild_FromURL(t *testing.T) {
	data, err := codec.Compress(gzipcodec.New(), []byte(testSyllables))
	if err != nil {
		t.Fatalf("Compress() error = %v", err)
	}
	var userAgent atomic.Value
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userAgent.Store(r.UserAgent())
		w.Write(data)
	}))
	defer srv.Close()

	var downloaded bool
	b := NewBuilder(
		WithSource(srv.URL+"/syllables.txt.gz"),
		WithTempDir(t.TempDir()),
		WithDownloader(NewDownloader(WithHTTPClient(srv.Client()), WithUserAgent("cypher-test"))),
		WithProgress(func(p Progress) {
			if p.Phase == PhaseDownload && p.BytesDownloaded == int64(len(data)) {
				downloaded = true
			}
		}),
	)

	m, err := b.Build(context.Background(), memstore.New())
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if m.Syllables != 3 {
		t.Errorf("Syllables = %d, want 3", m.Syllables)
	}
	if !downloaded {
		t.Error("missing complete download progress")
	}
	if ua := userAgent.Load(); ua != "cypher-test" {
		t.Errorf("User-Agent = %v, want cypher-test", ua)
	}
}

func TestDownloadToFile_Resume(t *testing.T) {
	payload := []byte("abcdefghijklmnopqrstuvwxyz")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rng := r.Header.Get("Range")
		if rng == "" {
			w.Write(payload)
			return
		}
		start, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(rng, "bytes="), "-"))
		if err != nil || start >= len(payload) {
			w.WriteHeader(http.StatusRequestedRangeNotSatisfiable)
			return
		}
		w.Header().Set("Content-Range", "bytes "+strconv.Itoa(start)+"-"+strconv.Itoa(len(payload)-1)+"/"+strconv.Itoa(len(payload)))
		w.WriteHeader(http.StatusPartialContent)
		w.Write(payload[start:])
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "partial")
	if err := os.WriteFile(dest, payload[:10], 0644); err != nil {
		t.Fatalf("writing partial file: %v", err)
	}

	var last Progress
	d := NewDownloader(WithHTTPClient(srv.Client()))
	if err := d.DownloadToFile(context.Background(), srv.URL, dest, func(p Progress) { last = p }); err != nil {
		t.Fatalf("DownloadToFile() error = %v", err)
	}

	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("reading file: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("file = %q, want %q", got, payload)
	}
	if last.BytesDownloaded != int64(len(payload)) || last.BytesTotal != int64(len(payload)) {
		t.Errorf("last progress = %d/%d, want %d/%d",
			last.BytesDownloaded, last.BytesTotal, len(payload), len(payload))
	}
}

func TestDownloadToFile_RestartWithoutRange(t *testing.T) {
	payload := []byte("fresh content")
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(payload)
	}))
	defer srv.Close()

	dest := filepath.Join(t.TempDir(), "partial")
	if err := os.WriteFile(dest, []byte("stale bytes that are longer"), 0644); err != nil {
		t.Fatalf("writing partial file: %v", err)
	}

	d := NewDownloader(WithHTTPClient(srv.Client()))
	if err := d.DownloadToFile(context.Background(), srv.URL, dest, nil); err != nil {
		t.Fatalf("DownloadToFile() error = %v", err)
	}
	got, err := os.ReadFile(dest)
	if err != nil {
		t.Fatalf("reading file: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("file = %q, want %q", got, payload)
	}
}

func TestDownloadToFile_HTTPError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	d := NewDownloader(WithHTTPClient(srv.Client()))
	err := d.DownloadToFile(context.Background(), srv.URL, filepath.Join(t.TempDir(), "out"), nil)
	if !errors.Is(err, ErrHTTPStatus) {
		t.Errorf("DownloadToFile() error = %v, want ErrHTTPStatus", err)
	}
}

func TestReadManifest_Missing(t *testing.T) {
	if _, err := ReadManifest(context.Background(), memstore.New()); !errors.Is(err, ErrNoManifest) {
		t.Errorf("ReadManifest() error = %v, want ErrNoManifest", err)
	}
}

func TestReadManifest_Version(t *testing.T) {
	st := memstore.New()
	if err := st.Write(context.Background(), ManifestKey, []byte(`{"version":99}`)); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if _, err := ReadManifest(context.Background(), st); err == nil {
		t.Error("ReadManifest() accepted unknown version")
	}
}

func TestReadDictionary_Corrupt(t *testing.T) {
	ctx := context.Background()
	st := memstore.New()
	m, err := NewBuilder(WithSource(writeSource(t, "s.txt", noopcodec.New())), WithCodec(noopcodec.New()), WithProgress(nil)).Build(ctx, st)
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if err := st.Write(ctx, m.DictionaryKey, []byte("other\n")); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	if _, err := ReadDictionary(ctx, st, m); !errors.Is(err, ErrCorrupt) {
		t.Errorf("ReadDictionary() error = %v, want ErrCorrupt", err)
	}

	m.DictionaryKey = "missing.txt"
	if _, err := ReadDictionary(ctx, st, m); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("ReadDictionary() error = %v, want store.ErrNotFound", err)
	}
}

func TestProgressWriter(t *testing.T) {
	var buf bytes.Buffer
	var counter atomic.Int64
	pw := newProgressWriter(&buf, &counter)

	data := []byte("hello world")
	n, err := pw.Write(data)

	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if n != len(data) {
		t.Errorf("Write() = %d, want %d", n, len(data))
	}
	if counter.Load() != int64(len(data)) {
		t.Errorf("counter = %d, want %d", counter.Load(), len(data))
	}
	if buf.String() != "hello world" {
		t.Errorf("buffer = %q", buf.String())
	}
}

func TestProgressReader(t *testing.T) {
	data := bytes.NewReader([]byte("hello world"))
	var counter atomic.Int64
	pr := newProgressReader(data, &counter)

	buf := make([]byte, 5)
	n, err := pr.Read(buf)

	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if n != 5 {
		t.Errorf("Read() = %d, want 5", n)
	}
	if counter.Load() != 5 {
		t.Errorf("counter = %d, want 5", counter.Load())
	}
}
