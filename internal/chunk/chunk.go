// Package chunk splits text into line-aligned pieces that can be encoded,
// stored and restored independently.
//
// Every strategy splits only at newlines, so for any text t:
//
//	strings.Join(s.Split(t), "\n") == t
//
// and the token stream of each chunk equals the stream of the whole text
// cut at its LineBreak tokens.
package chunk

import (
	"strconv"
	"strings"
)

// Strategy defines how text is cut into chunks.
type Strategy interface {
	// Name returns a human-readable name for this strategy.
	Name() string

	// Split cuts text into chunks. Empty text yields no chunks.
	Split(text string) []string
}

// LineStrategy holds a fixed number of lines per chunk.
type LineStrategy struct {
	n int
}

// Ensure LineStrategy implements Strategy.
var _ Strategy = (*LineStrategy)(nil)

// Lines returns a strategy with at most n lines per chunk. n < 1 is
// treated as 1.
func Lines(n int) *LineStrategy {
	if n < 1 {
		n = 1
	}
	return &LineStrategy{n: n}
}

// Name returns the strategy name, e.g. "lines-1024".
func (s *LineStrategy) Name() string {
	return "lines-" + strconv.Itoa(s.n)
}

// Split cuts text every n lines.
func (s *LineStrategy) Split(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	chunks := make([]string, 0, (len(lines)+s.n-1)/s.n)
	for start := 0; start < len(lines); start += s.n {
		end := min(start+s.n, len(lines))
		chunks = append(chunks, strings.Join(lines[start:end], "\n"))
	}
	return chunks
}

// SizeStrategy packs whole lines up to a byte budget per chunk.
type SizeStrategy struct {
	max int
}

// Ensure SizeStrategy implements Strategy.
var _ Strategy = (*SizeStrategy)(nil)

// Size returns a strategy that packs whole lines into chunks of at most
// maxBytes bytes. A single line longer than maxBytes becomes its own chunk.
// maxBytes < 1 is treated as 1.
func Size(maxBytes int) *SizeStrategy {
	if maxBytes < 1 {
		maxBytes = 1
	}
	return &SizeStrategy{max: maxBytes}
}

// Name returns the strategy name, e.g. "size-65536".
func (s *SizeStrategy) Name() string {
	return "size-" + strconv.Itoa(s.max)
}

// Split packs lines greedily in order.
func (s *SizeStrategy) Split(text string) []string {
	if text == "" {
		return nil
	}

	var chunks []string
	var current strings.Builder
	started := false
	for _, line := range strings.Split(text, "\n") {
		if started && current.Len()+1+len(line) > s.max {
			chunks = append(chunks, current.String())
			current.Reset()
			started = false
		}
		if started {
			current.WriteByte('\n')
		}
		current.WriteString(line)
		started = true
	}
	chunks = append(chunks, current.String())
	return chunks
}
