package cypher

import (
	"strings"
	"unicode"
)

// Encoder turns text into tokens by greedy longest-match syllable parsing.
// An Encoder is immutable and safe for concurrent use.
type Encoder struct {
	dict      *Dictionary
	letters   *LetterCypher
	syllables *SyllableCypher
}

// NewEncoder returns an Encoder over the given dictionary and cyphers.
// syllables must have been built from dict.
func NewEncoder(dict *Dictionary, letters *LetterCypher, syllables *SyllableCypher) *Encoder {
	return &Encoder{
		dict:      dict,
		letters:   letters,
		syllables: syllables,
	}
}

// Encode tokenizes text with a one-off Encoder.
func Encode(text string, dict *Dictionary, letters *LetterCypher, syllables *SyllableCypher) []Token {
	return NewEncoder(dict, letters, syllables).Encode(text)
}

// Encode tokenizes text. Lines are separated by '\n' and words by single
// spaces; a WordBreak is emitted for every space and a LineBreak for every
// newline, so runs of spaces and empty lines are preserved. Encode never
// fails: runes outside the alphabet become literals with UnknownIdentity.
// Invalid UTF-8 is read as U+FFFD.
func (e *Encoder) Encode(text string) []Token {
	if text == "" {
		return nil
	}

	var tokens []Token
	lines := strings.Split(text, "\n")
	for li, line := range lines {
		words := strings.Split(line, " ")
		for wi, word := range words {
			tokens = e.appendWord(tokens, word)
			if wi < len(words)-1 {
				tokens = append(tokens, WordBreak{})
			}
		}
		if li < len(lines)-1 {
			tokens = append(tokens, LineBreak{})
		}
	}
	return tokens
}

func (e *Encoder) appendWord(tokens []Token, word string) []Token {
	if word == "" {
		return tokens
	}

	original := []rune(word)
	lower := make([]rune, len(original))
	for i, r := range original {
		lower[i] = unicode.ToLower(r)
	}

	for pos := 0; pos < len(original); {
		if tok, n, ok := e.matchSyllable(original, lower, pos); ok {
			tokens = append(tokens, tok)
			pos += n
			continue
		}
		tokens = append(tokens, e.literal(original[pos]))
		pos++
	}
	return tokens
}

// matchSyllable returns the longest syllable starting at pos. At most one
// syllable of each length can match, so probing by length is equivalent to
// scanning the length-sorted dictionary.
func (e *Encoder) matchSyllable(original, lower []rune, pos int) (Syllable, int, bool) {
	remaining := len(lower) - pos
	for _, n := range e.dict.lengths {
		if n > remaining {
			continue
		}
		rec, ok := e.syllables.Lookup(string(lower[pos : pos+n]))
		if !ok {
			continue
		}

		casePattern, ok := capturePattern(original[pos:pos+n], lower[pos:pos+n])
		if !ok {
			continue
		}
		return Syllable{Record: rec, Case: casePattern}, n, true
	}
	return Syllable{}, 0, false
}

// capturePattern records which runes of original were uppercase. It fails
// when replaying the pattern over lower would not reproduce original.
func capturePattern(original, lower []rune) ([]bool, bool) {
	pattern := make([]bool, len(original))
	for i, r := range original {
		pattern[i] = unicode.IsUpper(r)
		if applyCase(lower[i], pattern[i]) != r {
			return nil, false
		}
	}
	return pattern, true
}

func (e *Encoder) literal(r rune) Literal {
	upper := unicode.IsUpper(r)
	c := unicode.ToLower(r)
	if applyCase(c, upper) != r {
		c, upper = r, false
	}
	return Literal{
		Char:     c,
		Identity: e.letters.Identity(c),
		Upper:    upper,
	}
}

func applyCase(r rune, upper bool) rune {
	if upper {
		return unicode.ToUpper(r)
	}
	return r
}
