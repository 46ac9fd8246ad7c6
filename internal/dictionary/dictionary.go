// Package dictionary reads, writes and generates syllable lists.
//
// A syllable list is plain text with one syllable per line. Blank lines and
// lines starting with '#' are ignored.
package dictionary

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode"
)

// ErrEmpty is returned when a syllable list contains no syllables.
var ErrEmpty = errors.New("dictionary: no syllables")

// Parse reads a syllable list from r.
// Syllables are trimmed and lower-cased; duplicates keep their first position.
// Lines with inner whitespace cannot match inside a word and are skipped.
func Parse(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var syllables []string
	seen := make(map[string]struct{})
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.IndexFunc(line, unicode.IsSpace) >= 0 {
			continue
		}
		s := strings.ToLower(line)
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		syllables = append(syllables, s)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading syllables: %w", err)
	}

	if len(syllables) == 0 {
		return nil, ErrEmpty
	}
	return syllables, nil
}

// Write writes syllables to w, one per line.
func Write(w io.Writer, syllables []string) error {
	bw := bufio.NewWriter(w)
	for _, s := range syllables {
		if _, err := bw.WriteString(s); err != nil {
			return err
		}
		if err := bw.WriteByte('\n'); err != nil {
			return err
		}
	}
	return bw.Flush()
}
