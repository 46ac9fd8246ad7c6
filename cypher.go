// Package cypher provides a reversible syllable-substitution text codec.
//
// Text is split into lines and words, and each word is parsed greedily into
// the longest syllables found in a dictionary. Every syllable carries a
// structured identity (its C2 record); letters with no matching syllable are
// kept as single-rune literals tagged with a C1 identity. Capitalization is
// captured per rune and replayed on decode, so decoding the tokens of any
// valid UTF-8 text reproduces it exactly.
//
// Example usage:
//
//	c := cypher.NewCypher(cypher.DefaultDictionary())
//
//	tokens := c.Encode("The quick brown fox")
//	text, err := c.Decode(tokens)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(text)
//
// For persisted, compressed archives of encoded text see Client.
package cypher

// Cypher bundles a dictionary with the letter and syllable cyphers built
// from it. It is constructed once and is safe for concurrent use.
type Cypher struct {
	dict      *Dictionary
	letters   *LetterCypher
	syllables *SyllableCypher
	encoder   *Encoder
	decoder   *Decoder
}

// NewCypher builds the C1 and C2 maps for d.
func NewCypher(d *Dictionary) *Cypher {
	letters := NewLetterCypher()
	syllables := NewSyllableCypher(d, letters)
	return &Cypher{
		dict:      d,
		letters:   letters,
		syllables: syllables,
		encoder:   NewEncoder(d, letters, syllables),
		decoder:   NewDecoder(syllables),
	}
}

// Encode tokenizes text.
func (c *Cypher) Encode(text string) []Token {
	return c.encoder.Encode(text)
}

// Decode reconstructs text from tokens.
func (c *Cypher) Decode(tokens []Token) (string, error) {
	return c.decoder.Decode(tokens)
}

// Dictionary returns the syllable dictionary.
func (c *Cypher) Dictionary() *Dictionary {
	return c.dict
}

// Letters returns the letter cypher.
func (c *Cypher) Letters() *LetterCypher {
	return c.letters
}

// Syllables returns the syllable cypher.
func (c *Cypher) Syllables() *SyllableCypher {
	return c.syllables
}
