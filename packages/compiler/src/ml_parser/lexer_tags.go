package ml_parser

import (
	"ngc-lexer/packages/compiler/src/core"
)

func (t *Tokenizer) consumeCdata(start CharacterCursor) {
	t.beginToken(TokenTypeCDATA_START, start)
	t.requireStr("CDATA[")
	t.endToken(nil)
	t.consumeRawText(false, func(c CharacterCursor) bool { return acceptStr(c, "]]>") })
	t.beginToken(TokenTypeCDATA_END, nil)
	t.requireStr("]]>")
	t.endToken(nil)
}

func (t *Tokenizer) consumeComment(start CharacterCursor) {
	t.beginToken(TokenTypeCOMMENT_START, start)
	t.requireCharCode(core.CharMINUS)
	t.endToken(nil)
	t.consumeRawText(false, func(c CharacterCursor) bool { return acceptStr(c, "-->") })
	t.beginToken(TokenTypeCOMMENT_END, nil)
	t.requireStr("-->")
	t.endToken(nil)
}

func (t *Tokenizer) consumeDocType(start CharacterCursor) {
	t.beginToken(TokenTypeDOC_TYPE, start)
	content := t.readUntil(core.CharGT)
	t.advance()
	t.endToken([]string{content})
}

// consumeRawText reads characters until endMarker matches. endMarker is only
// ever run on a lookahead clone, so the marker itself is left unconsumed.
func (t *Tokenizer) consumeRawText(consumeEntities bool, endMarker func(c CharacterCursor) bool) *Token {
	tokenType := TokenTypeRAW_TEXT
	if consumeEntities {
		tokenType = TokenTypeESCAPABLE_RAW_TEXT
	}
	t.beginToken(tokenType, nil)
	var parts []byte
	for !t.lookahead(endMarker) {
		parts = append(parts, t.readChar(consumeEntities)...)
	}
	return t.endToken([]string{t.processCarriageReturns(string(parts))})
}

func (t *Tokenizer) consumePrefixAndName() []string {
	nameOrPrefixStart := t.cursor.Clone()
	prefix := ""
	for t.cursor.Peek() != core.CharCOLON && !isPrefixEnd(t.cursor.Peek()) {
		t.advance()
	}
	var nameStart CharacterCursor
	if t.cursor.Peek() == core.CharCOLON {
		prefix = t.cursor.GetChars(nameOrPrefixStart)
		t.advance()
		nameStart = t.cursor.Clone()
	} else {
		nameStart = nameOrPrefixStart
	}
	minLength := 0
	if prefix != "" {
		minLength = 1
	}
	t.requireCharCodeUntilFn(isNameEnd, minLength)
	name := t.cursor.GetChars(nameStart)
	return []string{prefix, name}
}

func (t *Tokenizer) consumeTagOpen(start CharacterCursor) {
	openTagToken, err := t.consumeTagOpenHead(start)
	if err != nil {
		t.log.V(1).Info("incomplete tag open", "reason", err.err.Msg, "at", start.GetSpan(nil, nil).Start.String())
		if openTagToken != nil {
			// The opening tag never reached its ">".
			openTagToken.tokenType = TokenTypeINCOMPLETE_TAG_OPEN
		} else {
			// Not a tag at all: keep the "<" as text. Adjacent TEXT tokens are
			// merged once the scan is over.
			t.beginToken(TokenTypeTEXT, start)
			t.endToken([]string{"<"})
		}
		return
	}

	prefix := openTagToken.parts[0]
	tagName := openTagToken.parts[1]
	switch t.getTagDefinition(tagName).GetContentType(prefix) {
	case TagContentTypeRAW_TEXT:
		t.consumeRawTextWithTagClose(prefix, tagName, false)
	case TagContentTypeESCAPABLE_RAW_TEXT:
		t.consumeRawTextWithTagClose(prefix, tagName, true)
	}
}

// consumeTagOpenHead consumes the tag name, the attributes and the closing
// ">". Tokenizer errors are returned together with the TAG_OPEN_START token
// if it was emitted; cursor errors keep propagating to the scan loop.
func (t *Tokenizer) consumeTagOpenHead(start CharacterCursor) (openTagToken *Token, err *controlFlowError) {
	defer func() {
		if r := recover(); r != nil {
			flowErr, ok := r.(*controlFlowError)
			if !ok {
				panic(r)
			}
			err = flowErr
		}
	}()

	if !core.IsAsciiLetter(t.cursor.Peek()) {
		panic(t.createError(unexpectedCharacterErrorMsg(t.cursor.Peek()), t.cursor.GetSpan(start, nil), ErrUnexpectedCharacter))
	}
	openTagToken = t.consumeTagOpenStart(start)
	t.attemptCharCodeUntilFn(isNotWhitespace)
	for !t.isTagOpenEnd(t.cursor.Peek()) {
		t.consumeAttributeName()
		t.attemptCharCodeUntilFn(isNotWhitespace)
		if t.attemptCharCode(core.CharEQ) {
			t.attemptCharCodeUntilFn(isNotWhitespace)
			t.consumeAttributeValue()
		}
		t.attemptCharCodeUntilFn(isNotWhitespace)
	}
	t.consumeTagOpenEnd()
	return openTagToken, nil
}

func (t *Tokenizer) isTagOpenEnd(code rune) bool {
	return code == core.CharSLASH || code == core.CharGT || code == core.CharLT || code == core.CharEOF
}

func (t *Tokenizer) consumeTagOpenStart(start CharacterCursor) *Token {
	t.beginToken(TokenTypeTAG_OPEN_START, start)
	parts := t.consumePrefixAndName()
	return t.endToken(parts)
}

func (t *Tokenizer) consumeAttributeName() {
	attrNameStart := t.cursor.Peek()
	if attrNameStart == core.CharSQ || attrNameStart == core.CharDQ {
		panic(t.createError(unexpectedCharacterErrorMsg(attrNameStart), t.cursor.GetSpan(nil, nil), ErrUnexpectedCharacter))
	}
	t.beginToken(TokenTypeATTR_NAME, nil)
	prefixAndName := t.consumePrefixAndName()
	t.endToken(prefixAndName)
}

func (t *Tokenizer) consumeAttributeValue() {
	if t.cursor.Peek() == core.CharSQ || t.cursor.Peek() == core.CharDQ {
		quoteChar := t.cursor.Peek()
		t.consumeQuote(quoteChar)
		t.beginToken(TokenTypeATTR_VALUE, nil)
		var value []byte
		for t.cursor.Peek() != quoteChar {
			value = append(value, t.readChar(true)...)
		}
		t.endToken([]string{t.processCarriageReturns(string(value))})
		t.consumeQuote(quoteChar)
		return
	}
	t.beginToken(TokenTypeATTR_VALUE, nil)
	valueStart := t.cursor.Clone()
	t.requireCharCodeUntilFn(isNameEnd, 1)
	value := t.cursor.GetChars(valueStart)
	t.endToken([]string{t.processCarriageReturns(value)})
}

func (t *Tokenizer) consumeQuote(quoteChar rune) {
	t.beginToken(TokenTypeATTR_QUOTE, nil)
	t.requireCharCode(quoteChar)
	t.endToken([]string{string(quoteChar)})
}

func (t *Tokenizer) consumeTagOpenEnd() {
	tokenType := TokenTypeTAG_OPEN_END
	if t.attemptCharCode(core.CharSLASH) {
		tokenType = TokenTypeTAG_OPEN_END_VOID
	}
	t.beginToken(tokenType, nil)
	t.requireCharCode(core.CharGT)
	t.endToken(nil)
}

func (t *Tokenizer) consumeTagClose(start CharacterCursor) {
	t.beginToken(TokenTypeTAG_CLOSE, start)
	t.attemptCharCodeUntilFn(isNotWhitespace)
	prefixAndName := t.consumePrefixAndName()
	t.attemptCharCodeUntilFn(isNotWhitespace)
	t.requireCharCode(core.CharGT)
	t.endToken(prefixAndName)
}

// consumeRawTextWithTagClose reads the content of a raw text element up to
// its closing tag. The tag name is matched without regard to case.
func (t *Tokenizer) consumeRawTextWithTagClose(prefix, tagName string, consumeEntities bool) {
	t.consumeRawText(consumeEntities, func(c CharacterCursor) bool {
		if !acceptChar(c, core.CharLT) || !acceptChar(c, core.CharSLASH) {
			return false
		}
		if !skipUntil(c, isNotWhitespace) || !acceptStrFold(c, tagName) {
			return false
		}
		return skipUntil(c, isNotWhitespace) && acceptChar(c, core.CharGT)
	})
	t.beginToken(TokenTypeTAG_CLOSE, nil)
	t.requireCharCodeUntilFn(func(code rune) bool { return code == core.CharGT }, 3)
	// Consume the ">"
	t.advance()
	t.endToken([]string{prefix, tagName})
}
