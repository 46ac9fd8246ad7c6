package cypher

import (
	"fmt"
	"sort"
	"strings"
)

// Multipliers is the number of scaled ordinals carried by a Record.
const Multipliers = 6

// Record is the C2 identity of a syllable.
type Record struct {
	// Ordinal is the syllable's rank in the ascending-sorted syllable set.
	Ordinal int

	// Shape has one 'V' or 'C' per rune, marking vowels and everything else.
	Shape string

	// Letters holds the C1 identity of each rune, 0 for runes outside both
	// alphabets. It is shared between tokens and must not be modified.
	Letters []int

	// Scaled holds Ordinal multiplied by 1 through Multipliers.
	Scaled [Multipliers]int
}

// Equal reports whether r and o agree on every field.
func (r Record) Equal(o Record) bool {
	if r.Ordinal != o.Ordinal || r.Shape != o.Shape || r.Scaled != o.Scaled {
		return false
	}
	if len(r.Letters) != len(o.Letters) {
		return false
	}
	for i := range r.Letters {
		if r.Letters[i] != o.Letters[i] {
			return false
		}
	}
	return true
}

// SyllableCypher holds one Record per dictionary syllable (C2) together with
// the reverse mapping from ordinal to syllable. It is immutable and safe for
// concurrent use.
type SyllableCypher struct {
	sorted  []string // ascending; index is the ordinal
	records []Record // indexed by ordinal
	letters *LetterCypher
}

// NewSyllableCypher assigns a Record to every syllable of d. An empty
// dictionary yields an empty cypher.
func NewSyllableCypher(d *Dictionary, letters *LetterCypher) *SyllableCypher {
	sorted := d.Syllables()
	sort.Strings(sorted)

	c := &SyllableCypher{
		sorted:  sorted,
		records: make([]Record, len(sorted)),
		letters: letters,
	}
	for i, s := range sorted {
		c.records[i] = newRecord(i, s, letters)
	}
	return c
}

func newRecord(ordinal int, syllable string, letters *LetterCypher) Record {
	runes := []rune(syllable)
	var shape strings.Builder
	shape.Grow(len(runes))
	ids := make([]int, len(runes))

	for i, r := range runes {
		if v, ok := letters.Vowel(r); ok {
			shape.WriteByte('V')
			ids[i] = v
			continue
		}
		shape.WriteByte('C')
		if v, ok := letters.Consonant(r); ok {
			ids[i] = v
		}
	}

	rec := Record{
		Ordinal: ordinal,
		Shape:   shape.String(),
		Letters: ids,
	}
	for m := 1; m <= Multipliers; m++ {
		rec.Scaled[m-1] = ordinal * m
	}
	return rec
}

// Len returns the number of records.
func (c *SyllableCypher) Len() int {
	return len(c.records)
}

// Letters returns the letter cypher the records were built from.
func (c *SyllableCypher) Letters() *LetterCypher {
	return c.letters
}

// Lookup returns the Record of syllable.
func (c *SyllableCypher) Lookup(syllable string) (Record, bool) {
	idx := sort.SearchStrings(c.sorted, syllable)
	if idx >= len(c.sorted) || c.sorted[idx] != syllable {
		return Record{}, false
	}
	return c.records[idx], true
}

// Syllable returns the syllable with the given ordinal.
func (c *SyllableCypher) Syllable(ordinal int) (string, bool) {
	if ordinal < 0 || ordinal >= len(c.sorted) {
		return "", false
	}
	return c.sorted[ordinal], true
}

// Record returns the Record with the given ordinal.
func (c *SyllableCypher) Record(ordinal int) (Record, bool) {
	if ordinal < 0 || ordinal >= len(c.records) {
		return Record{}, false
	}
	return c.records[ordinal], true
}

// Resolve returns the syllable whose Record equals rec on every field.
func (c *SyllableCypher) Resolve(rec Record) (string, error) {
	stored, ok := c.Record(rec.Ordinal)
	if !ok {
		return "", fmt.Errorf("ordinal %d outside [0, %d)", rec.Ordinal, len(c.records))
	}
	if !stored.Equal(rec) {
		return "", fmt.Errorf("record for ordinal %d does not match dictionary", rec.Ordinal)
	}
	return c.sorted[rec.Ordinal], nil
}
