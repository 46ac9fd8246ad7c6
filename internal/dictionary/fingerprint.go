package dictionary

import (
	"fmt"
	"hash/fnv"
	"io"
	"sort"
)

// Fingerprint identifies a syllable set independent of its order.
// It is the FNV-1a 64-bit hash of the ascending-sorted syllables,
// each terminated by a newline, rendered as 16 hex digits.
func Fingerprint(syllables []string) string {
	sorted := make([]string, len(syllables))
	copy(sorted, syllables)
	sort.Strings(sorted)

	h := fnv.New64a()
	for i, s := range sorted {
		if i > 0 && s == sorted[i-1] {
			continue
		}
		io.WriteString(h, s)
		io.WriteString(h, "\n")
	}

	return fmt.Sprintf("%016x", h.Sum64())
}
