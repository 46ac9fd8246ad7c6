package cypher

import (
	"errors"
	"fmt"
)

// Sentinel errors for well-defined error conditions.
var (
	// ErrEmptyDictionary indicates a dictionary with no syllables.
	ErrEmptyDictionary = errors.New("cypher: empty dictionary")

	// ErrUnrecoverableToken indicates a token that cannot be turned back into text.
	ErrUnrecoverableToken = errors.New("cypher: unrecoverable token")

	// ErrMalformedToken indicates a persisted token record that cannot be parsed.
	ErrMalformedToken = errors.New("cypher: malformed token record")

	// ErrInvalidText indicates input that is not valid UTF-8.
	ErrInvalidText = errors.New("cypher: text is not valid UTF-8")

	// ErrDictionaryMismatch indicates an archive encoded with a different dictionary.
	ErrDictionaryMismatch = errors.New("cypher: dictionary mismatch")

	// ErrNotFound indicates the archive does not exist.
	ErrNotFound = errors.New("cypher: archive not found")

	// ErrNoStore indicates an operation that needs a store on a client without one.
	ErrNoStore = errors.New("cypher: no store provided")

	// ErrClosed indicates the client has been closed.
	ErrClosed = errors.New("cypher: client closed")
)

// UnrecoverableTokenError describes the token that stopped decoding.
type UnrecoverableTokenError struct {
	Index  int
	Token  Token
	Reason string
}

func (e *UnrecoverableTokenError) Error() string {
	kind := "nil"
	if e.Token != nil {
		kind = e.Token.Kind().String()
	}
	return fmt.Sprintf("cypher: unrecoverable %s token at index %d: %s", kind, e.Index, e.Reason)
}

func (e *UnrecoverableTokenError) Unwrap() error {
	return ErrUnrecoverableToken
}
