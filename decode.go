package cypher

import (
	"fmt"
	"strings"
)

// Decoder turns tokens back into text. A Decoder is immutable and safe for
// concurrent use.
type Decoder struct {
	syllables *SyllableCypher
}

// NewDecoder returns a Decoder over the given syllable cypher.
func NewDecoder(syllables *SyllableCypher) *Decoder {
	return &Decoder{syllables: syllables}
}

// Decode reconstructs text with a one-off Decoder.
func Decode(tokens []Token, syllables *SyllableCypher) (string, error) {
	return NewDecoder(syllables).Decode(tokens)
}

// Decode reconstructs the text tokens were encoded from. It stops at the
// first token that does not match the cypher and returns an
// *UnrecoverableTokenError; no partial text is returned.
func (d *Decoder) Decode(tokens []Token) (string, error) {
	var b strings.Builder
	for i, tok := range tokens {
		if err := d.decodeToken(&b, tok); err != nil {
			return "", &UnrecoverableTokenError{Index: i, Token: tok, Reason: err.Error()}
		}
	}
	return b.String(), nil
}

func (d *Decoder) decodeToken(b *strings.Builder, tok Token) error {
	switch t := tok.(type) {
	case Syllable:
		syllable, err := d.syllables.Resolve(t.Record)
		if err != nil {
			return err
		}
		runes := []rune(syllable)
		if len(t.Case) != 0 && len(t.Case) != len(runes) {
			return fmt.Errorf("case pattern has %d flags for %d letters", len(t.Case), len(runes))
		}
		for i, r := range runes {
			if len(t.Case) != 0 {
				r = applyCase(r, t.Case[i])
			}
			b.WriteRune(r)
		}
	case Literal:
		if want := d.syllables.Letters().Identity(t.Char); t.Identity != want {
			return fmt.Errorf("identity %d does not match %q (want %d)", t.Identity, t.Char, want)
		}
		b.WriteRune(applyCase(t.Char, t.Upper))
	case WordBreak:
		b.WriteByte(' ')
	case LineBreak:
		b.WriteByte('\n')
	case nil:
		return fmt.Errorf("nil token")
	default:
		return fmt.Errorf("unsupported token type %T", tok)
	}
	return nil
}
