package cypher

import "strconv"

// Summary counts the tokens of an encoded text.
type Summary struct {
	// Tokens is the total number of tokens.
	Tokens int `json:"tokens"`

	// Syllables and Literals count letter-bearing tokens.
	Syllables int `json:"syllables"`
	Literals  int `json:"literals"`

	// Unsupported counts literals with UnknownIdentity.
	Unsupported int `json:"unsupported"`

	WordBreaks int `json:"word_breaks"`
	LineBreaks int `json:"line_breaks"`

	// Letters is the number of runes covered by syllables and literals.
	Letters int `json:"letters"`

	// SyllableLetters is the number of runes covered by syllables.
	SyllableLetters int `json:"syllable_letters"`
}

// Summarize counts tokens by kind.
func Summarize(tokens []Token) Summary {
	var s Summary
	s.Tokens = len(tokens)
	for _, tok := range tokens {
		switch t := tok.(type) {
		case Syllable:
			s.Syllables++
			n := len(t.Record.Letters)
			s.Letters += n
			s.SyllableLetters += n
		case Literal:
			s.Literals++
			s.Letters++
			if t.Identity == UnknownIdentity {
				s.Unsupported++
			}
		case WordBreak:
			s.WordBreaks++
		case LineBreak:
			s.LineBreaks++
		}
	}
	return s
}

// Add returns the sum of s and o.
func (s Summary) Add(o Summary) Summary {
	return Summary{
		Tokens:          s.Tokens + o.Tokens,
		Syllables:       s.Syllables + o.Syllables,
		Literals:        s.Literals + o.Literals,
		Unsupported:     s.Unsupported + o.Unsupported,
		WordBreaks:      s.WordBreaks + o.WordBreaks,
		LineBreaks:      s.LineBreaks + o.LineBreaks,
		Letters:         s.Letters + o.Letters,
		SyllableLetters: s.SyllableLetters + o.SyllableLetters,
	}
}

// Coverage returns the fraction of runes covered by syllables, in [0, 1].
func (s Summary) Coverage() float64 {
	if s.Letters == 0 {
		return 0
	}
	return float64(s.SyllableLetters) / float64(s.Letters)
}

// TokensPerLetter returns letter-bearing tokens per covered rune.
// Lower is better; 1 means nothing matched.
func (s Summary) TokensPerLetter() float64 {
	if s.Letters == 0 {
		return 0
	}
	return float64(s.Syllables+s.Literals) / float64(s.Letters)
}

// String renders the summary for humans.
// Example: "42 tokens (30 syllables, 8 literals) coverage 81.3%"
func (s Summary) String() string {
	return strconv.Itoa(s.Tokens) + " tokens (" +
		strconv.Itoa(s.Syllables) + " syllables, " +
		strconv.Itoa(s.Literals) + " literals) coverage " +
		strconv.FormatFloat(s.Coverage()*100, 'f', 1, 64) + "%"
}
