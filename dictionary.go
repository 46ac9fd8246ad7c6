package cypher

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/50shades0fGraei/cypher/internal/dictionary"
)

// Dictionary is an immutable set of lowercase syllables ordered for greedy
// matching: longest first by rune count, ties broken by ascending text.
type Dictionary struct {
	syllables   []string
	set         map[string]struct{}
	lengths     []int
	fingerprint string
}

// NewDictionary normalizes syllables into a Dictionary. Entries are trimmed
// and lower-cased; empty entries, entries containing whitespace and
// duplicates are dropped. The input slice is not retained.
func NewDictionary(syllables []string) *Dictionary {
	d := &Dictionary{set: make(map[string]struct{}, len(syllables))}
	for _, s := range syllables {
		s = strings.ToLower(strings.TrimSpace(s))
		if s == "" || strings.IndexFunc(s, unicode.IsSpace) >= 0 {
			continue
		}
		if _, ok := d.set[s]; ok {
			continue
		}
		d.set[s] = struct{}{}
		d.syllables = append(d.syllables, s)
	}

	sort.Slice(d.syllables, func(i, j int) bool {
		li := utf8.RuneCountInString(d.syllables[i])
		lj := utf8.RuneCountInString(d.syllables[j])
		if li != lj {
			return li > lj
		}
		return d.syllables[i] < d.syllables[j]
	})

	for _, s := range d.syllables {
		n := utf8.RuneCountInString(s)
		if len(d.lengths) == 0 || d.lengths[len(d.lengths)-1] != n {
			d.lengths = append(d.lengths, n)
		}
	}

	d.fingerprint = dictionary.Fingerprint(d.syllables)
	return d
}

// DefaultDictionary returns the generated consonant/vowel syllable set.
func DefaultDictionary() *Dictionary {
	return NewDictionary(dictionary.Generate())
}

// Len returns the number of syllables.
func (d *Dictionary) Len() int {
	return len(d.syllables)
}

// Syllables returns the syllables in matching order.
func (d *Dictionary) Syllables() []string {
	out := make([]string, len(d.syllables))
	copy(out, d.syllables)
	return out
}

// Contains reports whether s is a syllable of d.
func (d *Dictionary) Contains(s string) bool {
	_, ok := d.set[s]
	return ok
}

// Lengths returns the distinct syllable rune lengths, longest first.
func (d *Dictionary) Lengths() []int {
	out := make([]int, len(d.lengths))
	copy(out, d.lengths)
	return out
}

// Fingerprint identifies the syllable set; see dictionary.Fingerprint.
func (d *Dictionary) Fingerprint() string {
	return d.fingerprint
}

// Validate returns ErrEmptyDictionary for a dictionary with no syllables.
// An empty dictionary is still usable: every letter encodes as a literal.
func (d *Dictionary) Validate() error {
	if len(d.syllables) == 0 {
		return ErrEmptyDictionary
	}
	return nil
}
