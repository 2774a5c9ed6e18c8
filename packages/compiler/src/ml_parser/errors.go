package ml_parser

import (
	"errors"
	"fmt"

	"ngc-lexer/packages/compiler/src/core"
	"ngc-lexer/packages/compiler/src/util"
)

var (
	// ErrUnexpectedCharacter covers a character that no production accepts,
	// including EOF before a required terminator.
	ErrUnexpectedCharacter = errors.New("unexpected character")
	// ErrUnterminatedEntity is a numeric character reference missing its ";".
	ErrUnterminatedEntity = errors.New("unterminated character reference")
	// ErrUnknownEntity is a character reference that does not resolve.
	ErrUnknownEntity = errors.New("unknown entity")
	// ErrInvalidEscape is a malformed escape sequence in an escaped string.
	ErrInvalidEscape = errors.New("invalid escape sequence")
	// ErrUnclosedExpansion is an ICU expansion still open at the end of input.
	ErrUnclosedExpansion = errors.New("unclosed expansion form")
	// ErrProgramming flags a broken tokenizer invariant rather than bad input.
	ErrProgramming = errors.New("tokenizer programming error")
)

// TokenError is a lexing error recorded in a TokenizeResult. TokenType is the
// type of the token being built when the error was raised.
type TokenError struct {
	*util.ParseError
	TokenType TokenType

	kind error
}

// NewTokenError creates a TokenError of the given kind.
func NewTokenError(msg string, tokenType TokenType, span *util.ParseSourceSpan, kind error) *TokenError {
	return &TokenError{
		ParseError: util.NewParseError(span, msg),
		TokenType:  tokenType,
		kind:       kind,
	}
}

func (e *TokenError) Error() string {
	return e.ParseError.Error()
}

// Unwrap exposes the error kind and the underlying ParseError.
func (e *TokenError) Unwrap() []error {
	return []error{e.kind, e.ParseError}
}

// controlFlowError carries an error out of a production back to the scan loop.
type controlFlowError struct {
	err *TokenError
}

type characterReferenceType string

const (
	characterReferenceHex characterReferenceType = "hexadecimal"
	characterReferenceDec characterReferenceType = "decimal"
)

func unexpectedCharacterErrorMsg(charCode rune) string {
	char := "EOF"
	if charCode != core.CharEOF {
		char = string(charCode)
	}
	return fmt.Sprintf("Unexpected character \"%s\"", char)
}

func unknownEntityErrorMsg(entitySrc string) string {
	return fmt.Sprintf("Unknown entity \"%s\" - use the \"&#<decimal>;\" or  \"&#x<hex>;\" syntax", entitySrc)
}

func unparsableEntityErrorMsg(refType characterReferenceType, entityStr string) string {
	return fmt.Sprintf("Unable to parse entity \"%s\" - %s character reference entities must end with \";\"", entityStr, refType)
}
