package cypher

// Letter alphabets and the cyclic digit sequences assigned over them.
const (
	Vowels         = "aeiouy"
	Consonants     = "bcdfghjklmnpqrstvwxz"
	VowelCycle     = "142857"
	ConsonantCycle = "1428570"
)

// UnknownIdentity is the C1 identity of a character outside both alphabets.
const UnknownIdentity = -1

// LetterCypher maps every supported letter to a small integer identity (C1).
// Vowels and consonants are numbered independently by walking each alphabet
// in order and cycling through its digit sequence, so identities repeat.
//
// A LetterCypher is immutable and safe for concurrent use.
type LetterCypher struct {
	vowels     map[rune]int
	consonants map[rune]int
}

// NewLetterCypher builds the C1 maps for the fixed alphabets.
func NewLetterCypher() *LetterCypher {
	return &LetterCypher{
		vowels:     cycleDigits(Vowels, VowelCycle),
		consonants: cycleDigits(Consonants, ConsonantCycle),
	}
}

func cycleDigits(alphabet, digits string) map[rune]int {
	m := make(map[rune]int, len(alphabet))
	for i, r := range []rune(alphabet) {
		m[r] = int(digits[i%len(digits)] - '0')
	}
	return m
}

// Vowel returns the identity of r in the vowel map.
func (c *LetterCypher) Vowel(r rune) (int, bool) {
	v, ok := c.vowels[r]
	return v, ok
}

// Consonant returns the identity of r in the consonant map.
func (c *LetterCypher) Consonant(r rune) (int, bool) {
	v, ok := c.consonants[r]
	return v, ok
}

// IsVowel reports whether r is in the vowel alphabet.
func (c *LetterCypher) IsVowel(r rune) bool {
	_, ok := c.vowels[r]
	return ok
}

// Identity returns the vowel identity of r, else its consonant identity,
// else UnknownIdentity. Lookups are case-sensitive; callers lower-case first.
func (c *LetterCypher) Identity(r rune) int {
	if v, ok := c.vowels[r]; ok {
		return v
	}
	if v, ok := c.consonants[r]; ok {
		return v
	}
	return UnknownIdentity
}

// Len returns the number of letters with an identity.
func (c *LetterCypher) Len() int {
	return len(c.vowels) + len(c.consonants)
}
