package cypher

// Kind identifies the variant of a Token.
type Kind uint8

const (
	KindSyllable Kind = iota + 1
	KindLiteral
	KindWordBreak
	KindLineBreak
)

func (k Kind) String() string {
	switch k {
	case KindSyllable:
		return "syllable"
	case KindLiteral:
		return "literal"
	case KindWordBreak:
		return "word-break"
	case KindLineBreak:
		return "line-break"
	default:
		return "unknown"
	}
}

// Token is one element of an encoded text. The set of variants is closed:
// Syllable, Literal, WordBreak and LineBreak. Position is carried only by
// order in the sequence.
type Token interface {
	Kind() Kind
	token()
}

// Syllable is a dictionary match. Case holds one flag per rune of the
// syllable, true where the source rune was uppercase; an empty Case means
// all lowercase.
type Syllable struct {
	Record Record
	Case   []bool
}

// Literal is a single rune that no syllable matched. Identity is the C1
// identity of Char, or UnknownIdentity. Char is stored lower-cased unless
// its case does not survive a lower/upper round trip, in which case it is
// stored verbatim with Upper unset.
type Literal struct {
	Char     rune
	Identity int
	Upper    bool
}

// WordBreak separates two words on the same line.
type WordBreak struct{}

// LineBreak separates two lines.
type LineBreak struct{}

func (Syllable) Kind() Kind  { return KindSyllable }
func (Literal) Kind() Kind   { return KindLiteral }
func (WordBreak) Kind() Kind { return KindWordBreak }
func (LineBreak) Kind() Kind { return KindLineBreak }

func (Syllable) token()  {}
func (Literal) token()   {}
func (WordBreak) token() {}
func (LineBreak) token() {}
