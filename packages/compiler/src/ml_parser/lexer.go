package ml_parser

import (
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/emirpasic/gods/v2/stacks/arraystack"
	"github.com/go-logr/logr"

	"ngc-lexer/packages/compiler/src/core"
	"ngc-lexer/packages/compiler/src/util"
)

// TokenizeOptions configures a Tokenizer. The zero value tokenizes plain
// HTML with the default interpolation markers.
type TokenizeOptions struct {
	// TokenizeExpansionForms enables ICU expansion form scanning. Without it
	// braces are ordinary text.
	TokenizeExpansionForms bool `json:"tokenizeExpansionForms,omitempty" yaml:"tokenizeExpansionForms,omitempty"`
	// InterpolationConfig defaults to DefaultInterpolationConfig.
	InterpolationConfig *InterpolationConfig `json:"interpolationConfig,omitempty" yaml:"interpolationConfig,omitempty"`
	// Range restricts tokenization to part of the source.
	Range *LexerRange `json:"range,omitempty" yaml:"range,omitempty"`
	// EscapedString treats the source as the body of a string literal whose
	// backslash escapes must be decoded.
	EscapedString bool `json:"escapedString,omitempty" yaml:"escapedString,omitempty"`
	// I18nNormalizeLineEndingsInICUs normalizes line endings in ICU
	// expressions instead of reporting them as non-normalized.
	I18nNormalizeLineEndingsInICUs bool `json:"i18nNormalizeLineEndingsInICUs,omitempty" yaml:"i18nNormalizeLineEndingsInICUs,omitempty"`
	// LeadingTriviaChars are excluded from the start of token spans but kept
	// in their FullStart.
	LeadingTriviaChars []string `json:"leadingTriviaChars,omitempty" yaml:"leadingTriviaChars,omitempty"`
	// PreserveLineEndings keeps CR and CRLF in token content.
	PreserveLineEndings bool `json:"preserveLineEndings,omitempty" yaml:"preserveLineEndings,omitempty"`
	// Logger receives tokenizer traces at V(1) and V(2).
	Logger logr.Logger `json:"-" yaml:"-"`
}

// LexerRange represents a range in the source
type LexerRange struct {
	StartPos  int `json:"startPos" yaml:"startPos"`
	StartLine int `json:"startLine" yaml:"startLine"`
	StartCol  int `json:"startCol" yaml:"startCol"`
	EndPos    int `json:"endPos" yaml:"endPos"`
}

// TokenizeResult represents the result of tokenization
type TokenizeResult struct {
	Tokens                      []*Token
	Errors                      []*TokenError
	NonNormalizedIcuExpressions []*Token
}

// Tokenize tokenizes the source
func Tokenize(source, url string, getTagDefinition func(tagName string) TagDefinition, options *TokenizeOptions) *TokenizeResult {
	file := util.NewParseSourceFile(source, url)
	return NewTokenizer(file, getTagDefinition, options).Tokenize()
}

// Tokenizer converts template source into tokens. A Tokenizer is used for a
// single Tokenize call.
type Tokenizer struct {
	cursor                         CharacterCursor
	getTagDefinition               func(tagName string) TagDefinition
	tokenizeIcu                    bool
	interpolationConfig            *InterpolationConfig
	leadingTriviaCodePoints        []rune
	currentTokenStart              CharacterCursor
	currentTokenType               TokenType
	expansionCaseStack             *arraystack.Stack[TokenType]
	inInterpolation                bool
	preserveLineEndings            bool
	i18nNormalizeLineEndingsInICUs bool
	log                            logr.Logger

	tokens                      []*Token
	errors                      []*TokenError
	nonNormalizedIcuExpressions []*Token
}

// NewTokenizer creates a tokenizer over file. A nil getTagDefinition uses the
// HTML tag definitions; nil options use the defaults.
func NewTokenizer(file *util.ParseSourceFile, getTagDefinition func(tagName string) TagDefinition, options *TokenizeOptions) *Tokenizer {
	if options == nil {
		options = &TokenizeOptions{}
	}
	if getTagDefinition == nil {
		getTagDefinition = GetHtmlTagDefinition
	}

	interpolationConfig := options.InterpolationConfig
	if interpolationConfig == nil || interpolationConfig.Start == "" || interpolationConfig.End == "" {
		interpolationConfig = DefaultInterpolationConfig
	}

	var leadingTriviaCodePoints []rune
	for _, c := range options.LeadingTriviaChars {
		if r, size := utf8.DecodeRuneInString(c); size > 0 {
			leadingTriviaCodePoints = append(leadingTriviaCodePoints, r)
		}
	}

	lexerRange := LexerRange{EndPos: len(file.Content)}
	if options.Range != nil {
		lexerRange = *options.Range
	}

	var cursor CharacterCursor
	if options.EscapedString {
		cursor = NewEscapedCharacterCursor(file, lexerRange)
	} else {
		cursor = NewPlainCharacterCursor(file, lexerRange)
	}

	log := options.Logger
	if log.GetSink() == nil {
		log = logr.Discard()
	}

	t := &Tokenizer{
		cursor:                         cursor,
		getTagDefinition:               getTagDefinition,
		tokenizeIcu:                    options.TokenizeExpansionForms,
		interpolationConfig:            interpolationConfig,
		leadingTriviaCodePoints:        leadingTriviaCodePoints,
		currentTokenType:               tokenTypeNone,
		expansionCaseStack:             arraystack.New[TokenType](),
		preserveLineEndings:            options.PreserveLineEndings,
		i18nNormalizeLineEndingsInICUs: options.I18nNormalizeLineEndingsInICUs,
		log:                            log.WithValues("url", file.URL),
	}

	if err := t.cursor.Init(); err != nil {
		t.handleError(err)
	}
	return t
}

// Tokenize scans the whole input. Errors never escape: they are collected in
// the result next to the tokens, which always end with a single EOF token.
func (t *Tokenizer) Tokenize() *TokenizeResult {
	for t.cursor.Peek() != core.CharEOF {
		t.scanNext()
	}
	if !t.expansionCaseStack.Empty() {
		t.handleError(t.createError("Invalid ICU message. Missing '}'.", t.cursor.GetSpan(nil, nil), ErrUnclosedExpansion))
		t.expansionCaseStack.Clear()
	}
	t.beginToken(TokenTypeEOF, nil)
	t.endToken(nil)

	t.log.V(1).Info("tokenized", "tokens", len(t.tokens), "errors", len(t.errors))
	return &TokenizeResult{
		Tokens:                      mergeTextTokens(t.tokens),
		Errors:                      t.errors,
		NonNormalizedIcuExpressions: t.nonNormalizedIcuExpressions,
	}
}

func (t *Tokenizer) scanNext() {
	t.guard(func() {
		start := t.cursor.Clone()
		if t.attemptCharCode(core.CharLT) {
			if t.attemptCharCode(core.CharBANG) {
				if t.attemptCharCode(core.CharLBRACKET) {
					t.consumeCdata(start)
				} else if t.attemptCharCode(core.CharMINUS) {
					t.consumeComment(start)
				} else {
					t.consumeDocType(start)
				}
			} else if t.attemptCharCode(core.CharSLASH) {
				t.consumeTagClose(start)
			} else {
				t.consumeTagOpen(start)
			}
		} else if !(t.tokenizeIcu && t.tokenizeExpansionForm()) {
			t.consumeText()
		}
	})
}

// guard runs fn and records any lexing error it raises.
func (t *Tokenizer) guard(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			t.handleError(r)
		}
	}()
	fn()
}

func (t *Tokenizer) handleError(e any) {
	var tokenErr *TokenError
	switch err := e.(type) {
	case *CursorError:
		tokenErr = t.createError(err.Msg, t.errorSpan(err.Cursor), err.kind).err
	case *controlFlowError:
		tokenErr = err.err
	default:
		panic(e)
	}
	t.log.V(1).Info("lexer error", "msg", tokenErr.Msg, "tokenType", tokenErr.TokenType.String(), "at", tokenErr.Span.Start.String())
	t.errors = append(t.errors, tokenErr)
}

// errorSpan spans from where a cursor error was detected to the current
// position. Errors detected ahead of the cursor get an empty span.
func (t *Tokenizer) errorSpan(at CharacterCursor) *util.ParseSourceSpan {
	if at == nil {
		return t.cursor.GetSpan(nil, nil)
	}
	if t.cursor.Diff(at) < 0 {
		return at.GetSpan(nil, nil)
	}
	return t.cursor.GetSpan(at, nil)
}

func (t *Tokenizer) createError(msg string, span *util.ParseSourceSpan, kind error) *controlFlowError {
	if t.isInExpansionForm() {
		msg += ` (Do you have an unescaped "{" in your template? Use "{{ '{' }}") to escape it.)`
	}
	err := NewTokenError(msg, t.currentTokenType, span, kind)
	t.currentTokenStart = nil
	t.currentTokenType = tokenTypeNone
	return &controlFlowError{err: err}
}

func (t *Tokenizer) beginToken(tokenType TokenType, start CharacterCursor) {
	if start == nil {
		start = t.cursor.Clone()
	}
	t.currentTokenStart = start
	t.currentTokenType = tokenType
}

func (t *Tokenizer) endToken(parts []string) *Token {
	if t.currentTokenStart == nil {
		panic(&controlFlowError{err: NewTokenError(
			"Programming error - attempted to end a token when there was no start to the token",
			t.currentTokenType, t.cursor.GetSpan(nil, nil), ErrProgramming)})
	}
	if t.currentTokenType == tokenTypeNone {
		panic(&controlFlowError{err: NewTokenError(
			"Programming error - attempted to end a token which has no token type",
			tokenTypeNone, t.cursor.GetSpan(t.currentTokenStart, nil), ErrProgramming)})
	}
	if parts == nil {
		parts = []string{}
	}
	token := NewToken(t.currentTokenType, parts, t.cursor.GetSpan(t.currentTokenStart, t.leadingTriviaCodePoints))
	t.tokens = append(t.tokens, token)
	t.currentTokenStart = nil
	t.currentTokenType = tokenTypeNone
	if v := t.log.V(2); v.Enabled() {
		v.Info("token", "type", token.Type().String(), "parts", parts, "at", token.SourceSpan().Start.String())
	}
	return token
}

// advance moves the cursor, raising cursor errors into the scan loop.
func (t *Tokenizer) advance() {
	if err := t.cursor.Advance(); err != nil {
		panic(err)
	}
}

// attempt runs production against a clone of the cursor. The clone replaces
// the cursor only when production reports success.
func (t *Tokenizer) attempt(production func(c CharacterCursor) bool) bool {
	c := t.cursor.Clone()
	if !production(c) {
		return false
	}
	t.cursor = c
	return true
}

// lookahead runs check against a clone of the cursor and never commits it.
func (t *Tokenizer) lookahead(check func(c CharacterCursor) bool) bool {
	return check(t.cursor.Clone())
}

// The accept helpers operate on cursors owned by an attempt or lookahead. A
// cursor error simply fails the production; the main scan reports it once it
// reaches the same position.

func acceptChar(c CharacterCursor, charCode rune) bool {
	return c.Peek() == charCode && c.Advance() == nil
}

func acceptCharFold(c CharacterCursor, charCode rune) bool {
	return c.Peek() != core.CharEOF && core.EqualFoldASCII(c.Peek(), charCode) && c.Advance() == nil
}

func acceptStr(c CharacterCursor, s string) bool {
	if c.CharsLeft() < len(s) {
		return false
	}
	for _, r := range s {
		if !acceptChar(c, r) {
			return false
		}
	}
	return true
}

func acceptStrFold(c CharacterCursor, s string) bool {
	if c.CharsLeft() < len(s) {
		return false
	}
	for _, r := range s {
		if !acceptCharFold(c, r) {
			return false
		}
	}
	return true
}

func skipUntil(c CharacterCursor, predicate func(code rune) bool) bool {
	for !predicate(c.Peek()) {
		if c.Advance() != nil {
			return false
		}
	}
	return true
}

func (t *Tokenizer) attemptCharCode(charCode rune) bool {
	if t.cursor.Peek() == charCode {
		t.advance()
		return true
	}
	return false
}

func (t *Tokenizer) requireCharCode(charCode rune) {
	location := t.cursor.Clone()
	if !t.attemptCharCode(charCode) {
		panic(t.createError(unexpectedCharacterErrorMsg(t.cursor.Peek()), t.cursor.GetSpan(location, nil), ErrUnexpectedCharacter))
	}
}

func (t *Tokenizer) attemptStr(s string) bool {
	return t.attempt(func(c CharacterCursor) bool { return acceptStr(c, s) })
}

func (t *Tokenizer) attemptStrCaseInsensitive(s string) bool {
	return t.attempt(func(c CharacterCursor) bool { return acceptStrFold(c, s) })
}

func (t *Tokenizer) requireStr(s string) {
	location := t.cursor.Clone()
	if !t.attemptStr(s) {
		panic(t.createError(unexpectedCharacterErrorMsg(t.cursor.Peek()), t.cursor.GetSpan(location, nil), ErrUnexpectedCharacter))
	}
}

func (t *Tokenizer) attemptCharCodeUntilFn(predicate func(code rune) bool) {
	for !predicate(t.cursor.Peek()) {
		t.advance()
	}
}

// requireCharCodeUntilFn is attemptCharCodeUntilFn that fails when fewer
// than minLength bytes were consumed.
func (t *Tokenizer) requireCharCodeUntilFn(predicate func(code rune) bool, minLength int) {
	start := t.cursor.Clone()
	t.attemptCharCodeUntilFn(predicate)
	if t.cursor.Diff(start) < minLength {
		panic(t.createError(unexpectedCharacterErrorMsg(t.cursor.Peek()), t.cursor.GetSpan(start, nil), ErrUnexpectedCharacter))
	}
}

func (t *Tokenizer) attemptUntilChar(char rune) {
	for t.cursor.Peek() != char {
		t.advance()
	}
}

func (t *Tokenizer) readUntil(char rune) string {
	start := t.cursor.Clone()
	t.attemptUntilChar(char)
	return t.cursor.GetChars(start)
}

func (t *Tokenizer) readChar(decodeEntities bool) string {
	if decodeEntities && t.cursor.Peek() == core.CharAMPERSAND {
		return t.readEntity()
	}
	// The character comes from Peek, not the input, since it may have been
	// produced by an escape sequence. Invalid UTF-8 is the exception: the
	// raw bytes are kept so the text still matches its span.
	start := t.cursor.Clone()
	peek := t.cursor.Peek()
	if err := t.cursor.Advance(); err != nil {
		if t.cursor.Diff(start) <= 0 {
			panic(err)
		}
		// The cursor moved before failing, on a bad escape sequence.
		t.recordError(err)
	}
	if peek == utf8.RuneError {
		return t.cursor.GetChars(start)
	}
	return string(peek)
}

// readEntity decodes the entity at the cursor. A malformed entity is recorded
// and its raw text returned, so the token being built keeps going.
func (t *Tokenizer) readEntity() (char string) {
	start := t.cursor.Clone()
	defer func() {
		if r := recover(); r != nil {
			t.recordError(r)
			char = t.cursor.GetChars(start)
		}
	}()
	return t.decodeEntity()
}

// recordError records e without abandoning the token being built.
func (t *Tokenizer) recordError(e any) {
	tokenStart, tokenType := t.currentTokenStart, t.currentTokenType
	t.handleError(e)
	t.currentTokenStart, t.currentTokenType = tokenStart, tokenType
}

func (t *Tokenizer) decodeEntity() string {
	start := t.cursor.Clone()
	t.advance()
	if t.attemptCharCode(core.CharHASH) {
		isHex := t.attemptCharCode(core.CharLowerX) || t.attemptCharCode(core.CharX)
		codeStart := t.cursor.Clone()
		t.attemptCharCodeUntilFn(isDigitEntityEnd)
		if t.cursor.Peek() != core.CharSEMICOLON {
			// The message includes the peeked character, which stays unread.
			peeked := t.cursor.Clone()
			if err := peeked.Advance(); err != nil {
				panic(err)
			}
			refType := characterReferenceDec
			if isHex {
				refType = characterReferenceHex
			}
			panic(t.createError(unparsableEntityErrorMsg(refType, peeked.GetChars(start)), peeked.GetSpan(nil, nil), ErrUnterminatedEntity))
		}
		strNum := t.cursor.GetChars(codeStart)
		t.advance()
		base := 10
		if isHex {
			base = 16
		}
		code, err := strconv.ParseUint(strNum, base, 32)
		if err != nil || !utf8.ValidRune(rune(code)) {
			panic(t.createError(unknownEntityErrorMsg(t.cursor.GetChars(start)), t.cursor.GetSpan(nil, nil), ErrUnknownEntity))
		}
		return string(rune(code))
	}

	var name string
	terminated := t.attempt(func(c CharacterCursor) bool {
		nameStart := c.Clone()
		if !skipUntil(c, isNamedEntityEnd) || c.Peek() != core.CharSEMICOLON {
			return false
		}
		name = c.GetChars(nameStart)
		return c.Advance() == nil
	})
	if !terminated {
		// Not an entity after all, just a lone ampersand.
		return "&"
	}
	char, ok := NamedEntity(name)
	if !ok {
		panic(t.createError(unknownEntityErrorMsg(name), t.cursor.GetSpan(start, nil), ErrUnknownEntity))
	}
	return char
}

var carriageReturns = strings.NewReplacer("\r\n", "\n", "\r", "\n")

func (t *Tokenizer) processCarriageReturns(content string) string {
	if t.preserveLineEndings {
		return content
	}
	return carriageReturns.Replace(content)
}

func (t *Tokenizer) consumeText() {
	start := t.cursor.Clone()
	t.beginToken(TokenTypeTEXT, start)
	var parts strings.Builder
	for {
		if t.attemptStr(t.interpolationConfig.Start) {
			parts.WriteString(t.interpolationConfig.Start)
			t.inInterpolation = true
		} else if t.inInterpolation && t.attemptStr(t.interpolationConfig.End) {
			parts.WriteString(t.interpolationConfig.End)
			t.inInterpolation = false
		} else {
			parts.WriteString(t.readChar(true))
		}
		if t.isTextEnd() {
			break
		}
	}
	t.endToken([]string{t.processCarriageReturns(parts.String())})
}

func (t *Tokenizer) isTextEnd() bool {
	peek := t.cursor.Peek()
	if peek == core.CharLT || peek == core.CharEOF {
		return true
	}
	if t.tokenizeIcu && !t.inInterpolation {
		// start of an expansion form
		if t.isExpansionFormStart() {
			return true
		}
		// end of an expansion case
		if peek == core.CharRBRACE && t.isInExpansionCase() {
			return true
		}
	}
	return false
}

func isNotWhitespace(code rune) bool {
	return !core.IsWhitespace(code)
}

func isNameEnd(code rune) bool {
	return core.IsWhitespace(code) || code == core.CharGT || code == core.CharLT ||
		code == core.CharSLASH || code == core.CharSQ || code == core.CharDQ ||
		code == core.CharEQ || code == core.CharEOF
}

func isPrefixEnd(code rune) bool {
	return !core.IsAsciiLetter(code) && !core.IsDigit(code)
}

func isDigitEntityEnd(code rune) bool {
	return code == core.CharSEMICOLON || code == core.CharEOF || !core.IsAsciiHexDigit(code)
}

func isNamedEntityEnd(code rune) bool {
	return code == core.CharSEMICOLON || code == core.CharEOF || !(core.IsAsciiLetter(code) || core.IsDigit(code))
}
