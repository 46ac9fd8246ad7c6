// Package corpus reads benchmark corpora: plain text split into documents
// at blank lines.
package corpus

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/50shades0fGraei/cypher/internal/codec/codecs"
)

// Open opens a corpus file, decompressing .zst and .gz files.
func Open(path string) (io.ReadCloser, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening corpus: %w", err)
	}
	reader, err := codecs.ForPath(path).Reader(file)
	if err != nil {
		file.Close()
		return nil, fmt.Errorf("creating decompressor: %w", err)
	}
	return &readCloser{Reader: reader, closers: []io.Closer{reader, file}}, nil
}

type readCloser struct {
	io.Reader
	closers []io.Closer
}

func (r *readCloser) Close() error {
	var first error
	for _, c := range r.closers {
		if err := c.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Documents splits r into documents. A document is a run of non-blank
// lines, joined with "\n". Line endings are normalized to "\n".
func Documents(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 16*1024*1024)

	var docs []string
	var lines []string
	flush := func() {
		if len(lines) > 0 {
			docs = append(docs, strings.Join(lines, "\n"))
			lines = lines[:0]
		}
	}

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			flush()
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading corpus: %w", err)
	}
	flush()
	return docs, nil
}

// Load opens path and returns its documents.
func Load(path string) ([]string, error) {
	r, err := Open(path)
	if err != nil {
		return nil, err
	}
	defer r.Close()
	return Documents(r)
}
