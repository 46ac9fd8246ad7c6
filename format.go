package cypher

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"unicode"
	"unicode/utf8"
)

// Record type tags of the persisted token format.
const (
	typeSyllable  = "C2"
	typeLiteral   = "C1"
	typeWordBreak = "SPACE"
	typeLineBreak = "NEWLINE"
)

// syllableRecord is the JSON shape of a Syllable token.
type syllableRecord struct {
	Type         string         `json:"type"`
	Pattern      string         `json:"pattern"`
	BaseValue    int            `json:"base_value"`
	LetterValues []int          `json:"letter_values"`
	Multipliers  map[string]int `json:"multipliers"`
	Case         []int          `json:"case"`
}

// literalRecord is the JSON shape of a Literal token.
type literalRecord struct {
	Type        string `json:"type"`
	Char        string `json:"char"`
	Value       int    `json:"value"`
	IsUppercase bool   `json:"is_uppercase"`
}

// breakRecord is the JSON shape of WordBreak and LineBreak.
type breakRecord struct {
	Type string `json:"type"`
}

// wireRecord accepts any record type; pointers tell absent fields from zero.
type wireRecord struct {
	Type         string         `json:"type"`
	Pattern      *string        `json:"pattern"`
	BaseValue    *int           `json:"base_value"`
	LetterValues []int          `json:"letter_values"`
	Multipliers  map[string]int `json:"multipliers"`
	Case         []int          `json:"case"`
	Char         *string        `json:"char"`
	Value        *int           `json:"value"`
	IsUppercase  bool           `json:"is_uppercase"`
}

func multiplierKey(m int) string {
	return "x" + strconv.Itoa(m)
}

func toRecord(tok Token) (any, error) {
	switch t := tok.(type) {
	case Syllable:
		rec := syllableRecord{
			Type:         typeSyllable,
			Pattern:      t.Record.Shape,
			BaseValue:    t.Record.Ordinal,
			LetterValues: t.Record.Letters,
			Multipliers:  make(map[string]int, Multipliers),
			Case:         make([]int, len(t.Case)),
		}
		if rec.LetterValues == nil {
			rec.LetterValues = []int{}
		}
		for i, v := range t.Record.Scaled {
			rec.Multipliers[multiplierKey(i+1)] = v
		}
		for i, upper := range t.Case {
			if upper {
				rec.Case[i] = 1
			}
		}
		return rec, nil
	case Literal:
		return literalRecord{
			Type:        typeLiteral,
			Char:        string(t.Char),
			Value:       t.Identity,
			IsUppercase: t.Upper,
		}, nil
	case WordBreak:
		return breakRecord{Type: typeWordBreak}, nil
	case LineBreak:
		return breakRecord{Type: typeLineBreak}, nil
	default:
		return nil, fmt.Errorf("unsupported token type %T", tok)
	}
}

func fromRecord(w wireRecord) (Token, error) {
	switch w.Type {
	case typeSyllable:
		if w.Pattern == nil || w.BaseValue == nil || w.LetterValues == nil || w.Multipliers == nil {
			return nil, errors.New("C2 record missing required fields")
		}
		if len(w.Multipliers) != Multipliers {
			return nil, fmt.Errorf("C2 record has %d multipliers, want %d", len(w.Multipliers), Multipliers)
		}
		rec := Record{
			Ordinal: *w.BaseValue,
			Shape:   *w.Pattern,
			Letters: w.LetterValues,
		}
		for m := 1; m <= Multipliers; m++ {
			v, ok := w.Multipliers[multiplierKey(m)]
			if !ok {
				return nil, fmt.Errorf("C2 record missing multiplier %s", multiplierKey(m))
			}
			rec.Scaled[m-1] = v
		}
		var casePattern []bool
		if len(w.Case) > 0 {
			casePattern = make([]bool, len(w.Case))
			for i, c := range w.Case {
				switch c {
				case 0:
				case 1:
					casePattern[i] = true
				default:
					return nil, fmt.Errorf("case flag %d is not 0 or 1", c)
				}
			}
		}
		return Syllable{Record: rec, Case: casePattern}, nil
	case typeLiteral:
		if w.Char == nil || w.Value == nil {
			return nil, errors.New("C1 record missing required fields")
		}
		r, size := utf8.DecodeRuneInString(*w.Char)
		if size == 0 || size != len(*w.Char) {
			return nil, fmt.Errorf("C1 char %q is not a single rune", *w.Char)
		}
		return Literal{Char: r, Identity: *w.Value, Upper: w.IsUppercase}, nil
	case typeWordBreak:
		return WordBreak{}, nil
	case typeLineBreak:
		return LineBreak{}, nil
	default:
		return nil, fmt.Errorf("unknown record type %q", w.Type)
	}
}

// WriteTokens writes tokens as JSON Lines, one record per token.
func WriteTokens(w io.Writer, tokens []Token) error {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	for i, tok := range tokens {
		rec, err := toRecord(tok)
		if err != nil {
			return fmt.Errorf("token %d: %w", i, err)
		}
		if err := enc.Encode(rec); err != nil {
			return fmt.Errorf("writing token %d: %w", i, err)
		}
	}
	return bw.Flush()
}

// ReadTokens parses tokens written by WriteTokens. A single JSON array of
// records is accepted as well. Malformed input yields an error wrapping
// ErrMalformedToken that names the offending record.
func ReadTokens(r io.Reader) ([]Token, error) {
	br := bufio.NewReader(r)
	first, err := peekNonSpace(br)
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading tokens: %w", err)
	}

	dec := json.NewDecoder(br)
	if first == '[' {
		return readArray(dec)
	}

	var tokens []Token
	for i := 0; ; i++ {
		var w wireRecord
		if err := dec.Decode(&w); err == io.EOF {
			return tokens, nil
		} else if err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrMalformedToken, i, err)
		}
		tok, err := fromRecord(w)
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrMalformedToken, i, err)
		}
		tokens = append(tokens, tok)
	}
}

func readArray(dec *json.Decoder) ([]Token, error) {
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedToken, err)
	}
	tokens := []Token{}
	for i := 0; dec.More(); i++ {
		var w wireRecord
		if err := dec.Decode(&w); err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrMalformedToken, i, err)
		}
		tok, err := fromRecord(w)
		if err != nil {
			return nil, fmt.Errorf("%w: record %d: %v", ErrMalformedToken, i, err)
		}
		tokens = append(tokens, tok)
	}
	if _, err := dec.Token(); err != nil {
		return nil, fmt.Errorf("%w: unterminated array: %v", ErrMalformedToken, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: trailing data after array", ErrMalformedToken)
	}
	return tokens, nil
}

// peekNonSpace discards leading whitespace and returns the next byte
// without consuming it.
func peekNonSpace(br *bufio.Reader) (byte, error) {
	for {
		b, err := br.ReadByte()
		if err != nil {
			return 0, err
		}
		if !unicode.IsSpace(rune(b)) {
			return b, br.UnreadByte()
		}
	}
}

// MarshalTokens returns the JSON Lines encoding of tokens.
func MarshalTokens(tokens []Token) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteTokens(&buf, tokens); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalTokens parses data written by MarshalTokens.
func UnmarshalTokens(data []byte) ([]Token, error) {
	return ReadTokens(bytes.NewReader(data))
}
