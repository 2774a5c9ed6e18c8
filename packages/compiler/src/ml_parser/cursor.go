package ml_parser

import (
	"slices"
	"strconv"
	"strings"
	"unicode/utf8"

	"ngc-lexer/packages/compiler/src/core"
	"ngc-lexer/packages/compiler/src/util"
)

// CharacterCursor is a position in the input that can be peeked, advanced and
// cloned. Clones share the input and are cheap enough to take before every
// speculative production.
type CharacterCursor interface {
	Init() error
	Peek() rune
	Advance() error
	Clone() CharacterCursor
	GetChars(start CharacterCursor) string
	CharsLeft() int
	Diff(other CharacterCursor) int
	GetSpan(start CharacterCursor, leadingTriviaCodePoints []rune) *util.ParseSourceSpan

	// location reports the externally visible position.
	location() *util.ParseLocation
}

// CursorState represents the state of a character cursor
type CursorState struct {
	Peek   rune
	Offset int
	Line   int
	Column int
}

// CursorError is returned by cursor operations that cannot proceed. Cursor is
// a snapshot taken where the problem was detected.
type CursorError struct {
	Msg    string
	Cursor CharacterCursor

	kind error
}

// Error implements the error interface
func (c *CursorError) Error() string {
	return c.Msg
}

func (c *CursorError) Unwrap() error {
	return c.kind
}

// cursorSource is the read-only input shared by a cursor and all its clones.
type cursorSource struct {
	file  *util.ParseSourceFile
	input string
	end   int
}

func newCursorSource(file *util.ParseSourceFile, r LexerRange) (*cursorSource, CursorState) {
	end := min(r.EndPos, len(file.Content))
	start := min(max(r.StartPos, 0), end)
	src := &cursorSource{file: file, input: file.Content, end: end}
	return src, CursorState{Peek: core.CharEOF, Offset: start, Line: r.StartLine, Column: r.StartCol}
}

// advanceState moves state past the code point it is on. It reports false,
// leaving state untouched, when state is already at the end of the range.
func (s *cursorSource) advanceState(state *CursorState) bool {
	if state.Offset >= s.end {
		return false
	}
	currentChar, size := utf8.DecodeRuneInString(s.input[state.Offset:s.end])
	if currentChar == core.CharLF {
		state.Line++
		state.Column = 0
	} else if !core.IsNewLine(currentChar) {
		state.Column++
	}
	state.Offset += size
	s.updatePeek(state)
	return true
}

func (s *cursorSource) updatePeek(state *CursorState) {
	if state.Offset >= s.end {
		state.Peek = core.CharEOF
		return
	}
	state.Peek, _ = utf8.DecodeRuneInString(s.input[state.Offset:s.end])
}

// widthAt is the byte length of the code point at offset, 0 at the end.
func (s *cursorSource) widthAt(offset int) int {
	if offset >= s.end {
		return 0
	}
	_, size := utf8.DecodeRuneInString(s.input[offset:s.end])
	return size
}

func (s *cursorSource) location(state CursorState) *util.ParseLocation {
	return util.NewParseLocation(s.file, state.Offset, state.Line, state.Column)
}

func eofError(at CharacterCursor) *CursorError {
	return &CursorError{Msg: unexpectedCharacterErrorMsg(core.CharEOF), Cursor: at, kind: ErrUnexpectedCharacter}
}

// spanBetween builds the span from start (or end, when start is nil) to end.
// Leading trivia is skipped on a clone so the caller's cursor never moves.
func spanBetween(start, end CharacterCursor, leadingTriviaCodePoints []rune) *util.ParseSourceSpan {
	if start == nil {
		start = end
	}
	fullStart := start
	if len(leadingTriviaCodePoints) > 0 {
		for end.Diff(start) > 0 && slices.Contains(leadingTriviaCodePoints, start.Peek()) {
			if fullStart == start {
				start = start.Clone()
			}
			if start.Advance() != nil {
				break
			}
		}
	}
	startLocation := start.location()
	endLocation := end.location()
	fullStartLocation := startLocation
	if fullStart != start {
		fullStartLocation = fullStart.location()
	}
	return util.NewParseSourceSpan(startLocation, endLocation, fullStartLocation)
}

// plainCursor walks the input one code point at a time.
type plainCursor struct {
	src   *cursorSource
	state CursorState
}

// NewPlainCharacterCursor creates a cursor over the given range of file.
func NewPlainCharacterCursor(file *util.ParseSourceFile, r LexerRange) CharacterCursor {
	src, state := newCursorSource(file, r)
	return &plainCursor{src: src, state: state}
}

func (c *plainCursor) Init() error {
	c.src.updatePeek(&c.state)
	return nil
}

func (c *plainCursor) Peek() rune {
	return c.state.Peek
}

func (c *plainCursor) Advance() error {
	if !c.src.advanceState(&c.state) {
		return eofError(c.Clone())
	}
	return nil
}

func (c *plainCursor) Clone() CharacterCursor {
	clone := *c
	return &clone
}

func (c *plainCursor) GetChars(start CharacterCursor) string {
	return c.src.input[start.(*plainCursor).state.Offset:c.state.Offset]
}

func (c *plainCursor) CharsLeft() int {
	return c.src.end - c.state.Offset
}

func (c *plainCursor) Diff(other CharacterCursor) int {
	return c.state.Offset - other.(*plainCursor).state.Offset
}

func (c *plainCursor) GetSpan(start CharacterCursor, leadingTriviaCodePoints []rune) *util.ParseSourceSpan {
	return spanBetween(start, c, leadingTriviaCodePoints)
}

func (c *plainCursor) location() *util.ParseLocation {
	return c.src.location(c.state)
}

// escapedCursor reads a template embedded in a host-language string literal.
//
// state is what callers observe: it stays on the backslash of an escape
// sequence while its Peek holds the decoded character. internalState is the
// raw position, on the last character of the sequence being decoded.
type escapedCursor struct {
	src           *cursorSource
	state         CursorState
	internalState CursorState
}

// NewEscapedCharacterCursor creates a cursor that decodes backslash escape
// sequences over the given range of file.
func NewEscapedCharacterCursor(file *util.ParseSourceFile, r LexerRange) CharacterCursor {
	src, state := newCursorSource(file, r)
	return &escapedCursor{src: src, state: state, internalState: state}
}

func (c *escapedCursor) Init() error {
	c.src.updatePeek(&c.state)
	c.internalState = c.state
	return c.processEscapeSequence()
}

func (c *escapedCursor) Peek() rune {
	return c.state.Peek
}

func (c *escapedCursor) Advance() error {
	c.state = c.internalState
	if !c.src.advanceState(&c.state) {
		return eofError(c.Clone())
	}
	c.internalState = c.state
	return c.processEscapeSequence()
}

func (c *escapedCursor) Clone() CharacterCursor {
	clone := *c
	return &clone
}

// GetChars returns the decoded characters between start and c.
func (c *escapedCursor) GetChars(start CharacterCursor) string {
	cursor := start.Clone().(*escapedCursor)
	var sb strings.Builder
	for cursor.internalState.Offset < c.internalState.Offset {
		sb.WriteRune(cursor.Peek())
		offset := cursor.state.Offset
		if cursor.Advance() != nil && cursor.state.Offset == offset {
			break
		}
	}
	return sb.String()
}

func (c *escapedCursor) CharsLeft() int {
	return c.src.end - c.state.Offset
}

func (c *escapedCursor) Diff(other CharacterCursor) int {
	return c.state.Offset - other.(*escapedCursor).state.Offset
}

func (c *escapedCursor) GetSpan(start CharacterCursor, leadingTriviaCodePoints []rune) *util.ParseSourceSpan {
	return spanBetween(start, c, leadingTriviaCodePoints)
}

func (c *escapedCursor) location() *util.ParseLocation {
	return c.src.location(c.state)
}

func (c *escapedCursor) advanceInternal() error {
	if !c.src.advanceState(&c.internalState) {
		c.state = c.internalState
		return eofError(c.Clone())
	}
	return nil
}

// advanceInternalN advances the raw position n times.
func (c *escapedCursor) advanceInternalN(n int) error {
	for i := 0; i < n; i++ {
		if err := c.advanceInternal(); err != nil {
			return err
		}
	}
	return nil
}

func (c *escapedCursor) processEscapeSequence() error {
	for c.internalState.Peek == core.CharBACKSLASH {
		c.internalState = c.state
		// Move past the backslash
		if err := c.advanceInternal(); err != nil {
			return err
		}
		if c.internalState.Peek == core.CharEOF {
			// A trailing backslash escapes nothing and is read as itself.
			end := c.internalState
			c.internalState = c.state
			return eofError(&escapedCursor{src: c.src, state: end, internalState: end})
		}
		switch peek := c.internalState.Peek; {
		case peek == core.CharLowerN:
			c.state.Peek = core.CharLF
		case peek == core.CharLowerR:
			c.state.Peek = core.CharCR
		case peek == core.CharLowerV:
			c.state.Peek = core.CharVTAB
		case peek == core.CharLowerT:
			c.state.Peek = core.CharTAB
		case peek == core.CharLowerB:
			c.state.Peek = core.CharBSPACE
		case peek == core.CharLowerF:
			c.state.Peek = core.CharFF
		case peek == core.CharLowerU:
			if err := c.advanceInternal(); err != nil {
				return err
			}
			if c.internalState.Peek == core.CharLBRACE {
				// Variable length, e.g. `\u{1F600}`
				if err := c.advanceInternal(); err != nil {
					return err
				}
				digitStart := c.internalState
				for c.internalState.Peek != core.CharRBRACE {
					if err := c.advanceInternal(); err != nil {
						return err
					}
				}
				decoded, err := c.decodeHexDigits(digitStart, c.internalState.Offset)
				if err != nil {
					return err
				}
				c.state.Peek = decoded
			} else {
				// Fixed length, e.g. `\u00e9`
				digitStart := c.internalState
				if err := c.advanceInternalN(3); err != nil {
					return err
				}
				decoded, err := c.decodeHexDigits(digitStart, c.rawEnd())
				if err != nil {
					return err
				}
				c.state.Peek = decoded
			}
		case peek == core.CharLowerX:
			// Hex char code, e.g. `\x2F`
			if err := c.advanceInternal(); err != nil {
				return err
			}
			digitStart := c.internalState
			if err := c.advanceInternal(); err != nil {
				return err
			}
			decoded, err := c.decodeHexDigits(digitStart, c.rawEnd())
			if err != nil {
				return err
			}
			c.state.Peek = decoded
		case core.IsOctalDigit(peek):
			// Octal char code, e.g. `\012`
			var code rune
			length := 0
			previous := c.internalState
			for core.IsOctalDigit(c.internalState.Peek) && length < 3 {
				previous = c.internalState
				code = code*8 + c.internalState.Peek - core.Char0
				if err := c.advanceInternal(); err != nil {
					return err
				}
				length++
			}
			c.state.Peek = code
			// Back up onto the last digit
			c.internalState = previous
		case core.IsNewLine(peek):
			// Line continuation: the backslash and the newline produce nothing.
			isCR := peek == core.CharCR
			if err := c.advanceInternal(); err != nil {
				return err
			}
			if isCR && c.internalState.Peek == core.CharLF {
				if err := c.advanceInternal(); err != nil {
					return err
				}
			}
			c.state = c.internalState
			continue
		default:
			// An escaped normal character is the character itself.
			c.state.Peek = c.internalState.Peek
		}
		return nil
	}
	return nil
}

// rawEnd is the offset just past the raw character under internalState.
func (c *escapedCursor) rawEnd() int {
	return c.internalState.Offset + c.src.widthAt(c.internalState.Offset)
}

func (c *escapedCursor) decodeHexDigits(start CursorState, end int) (rune, error) {
	hex := c.src.input[start.Offset:min(end, c.src.end)]
	code, err := strconv.ParseUint(hex, 16, 32)
	if err != nil || !utf8.ValidRune(rune(code)) {
		at := &escapedCursor{src: c.src, state: start, internalState: start}
		return 0, &CursorError{Msg: "Invalid hexadecimal escape sequence", Cursor: at, kind: ErrInvalidEscape}
	}
	return rune(code), nil
}
