package ml_parser

import (
	"fmt"

	"ngc-lexer/packages/compiler/src/util"
)

// TokenType represents the type of a token
type TokenType int

const (
	TokenTypeTAG_OPEN_START TokenType = iota
	TokenTypeTAG_OPEN_END
	TokenTypeTAG_OPEN_END_VOID
	TokenTypeTAG_CLOSE
	TokenTypeINCOMPLETE_TAG_OPEN
	TokenTypeTEXT
	TokenTypeESCAPABLE_RAW_TEXT
	TokenTypeRAW_TEXT
	TokenTypeCOMMENT_START
	TokenTypeCOMMENT_END
	TokenTypeCDATA_START
	TokenTypeCDATA_END
	TokenTypeATTR_NAME
	TokenTypeATTR_QUOTE
	TokenTypeATTR_VALUE
	TokenTypeDOC_TYPE
	TokenTypeEXPANSION_FORM_START
	TokenTypeEXPANSION_CASE_VALUE
	TokenTypeEXPANSION_CASE_EXP_START
	TokenTypeEXPANSION_CASE_EXP_END
	TokenTypeEXPANSION_FORM_END
	TokenTypeEOF
)

// tokenTypeNone marks errors raised while no token was being built.
const tokenTypeNone TokenType = -1

var tokenTypeNames = [...]string{
	TokenTypeTAG_OPEN_START:           "TAG_OPEN_START",
	TokenTypeTAG_OPEN_END:             "TAG_OPEN_END",
	TokenTypeTAG_OPEN_END_VOID:        "TAG_OPEN_END_VOID",
	TokenTypeTAG_CLOSE:                "TAG_CLOSE",
	TokenTypeINCOMPLETE_TAG_OPEN:      "INCOMPLETE_TAG_OPEN",
	TokenTypeTEXT:                     "TEXT",
	TokenTypeESCAPABLE_RAW_TEXT:       "ESCAPABLE_RAW_TEXT",
	TokenTypeRAW_TEXT:                 "RAW_TEXT",
	TokenTypeCOMMENT_START:            "COMMENT_START",
	TokenTypeCOMMENT_END:              "COMMENT_END",
	TokenTypeCDATA_START:              "CDATA_START",
	TokenTypeCDATA_END:                "CDATA_END",
	TokenTypeATTR_NAME:                "ATTR_NAME",
	TokenTypeATTR_QUOTE:               "ATTR_QUOTE",
	TokenTypeATTR_VALUE:               "ATTR_VALUE",
	TokenTypeDOC_TYPE:                 "DOC_TYPE",
	TokenTypeEXPANSION_FORM_START:     "EXPANSION_FORM_START",
	TokenTypeEXPANSION_CASE_VALUE:     "EXPANSION_CASE_VALUE",
	TokenTypeEXPANSION_CASE_EXP_START: "EXPANSION_CASE_EXP_START",
	TokenTypeEXPANSION_CASE_EXP_END:   "EXPANSION_CASE_EXP_END",
	TokenTypeEXPANSION_FORM_END:       "EXPANSION_FORM_END",
	TokenTypeEOF:                      "EOF",
}

func (t TokenType) String() string {
	if t >= 0 && int(t) < len(tokenTypeNames) {
		return tokenTypeNames[t]
	}
	if t == tokenTypeNone {
		return "NONE"
	}
	return fmt.Sprintf("TokenType(%d)", int(t))
}

// TokenTypes returns every token type in declaration order.
func TokenTypes() []TokenType {
	types := make([]TokenType, len(tokenTypeNames))
	for i := range tokenTypeNames {
		types[i] = TokenType(i)
	}
	return types
}

// ParseTokenType is the inverse of TokenType.String.
func ParseTokenType(name string) (TokenType, bool) {
	for i, n := range tokenTypeNames {
		if n == name {
			return TokenType(i), true
		}
	}
	return tokenTypeNone, false
}

// MarshalText encodes the type by name.
func (t TokenType) MarshalText() ([]byte, error) {
	if t < 0 || int(t) >= len(tokenTypeNames) {
		return nil, fmt.Errorf("invalid token type %d", int(t))
	}
	return []byte(tokenTypeNames[t]), nil
}

// UnmarshalText decodes a name produced by MarshalText.
func (t *TokenType) UnmarshalText(text []byte) error {
	parsed, ok := ParseTokenType(string(text))
	if !ok {
		return fmt.Errorf("unknown token type %q", text)
	}
	*t = parsed
	return nil
}

// Token is a lexed unit of the template. Tokens are only mutated by the
// tokenizer that produced them, before they are handed to the caller.
type Token struct {
	tokenType  TokenType
	parts      []string
	sourceSpan *util.ParseSourceSpan
}

// NewToken creates a new Token
func NewToken(tokenType TokenType, parts []string, sourceSpan *util.ParseSourceSpan) *Token {
	return &Token{
		tokenType:  tokenType,
		parts:      parts,
		sourceSpan: sourceSpan,
	}
}

// Type returns the token type
func (t *Token) Type() TokenType {
	return t.tokenType
}

// Parts returns the token parts
func (t *Token) Parts() []string {
	return t.parts
}

// SourceSpan returns the source span
func (t *Token) SourceSpan() *util.ParseSourceSpan {
	return t.sourceSpan
}

func (t *Token) String() string {
	return fmt.Sprintf("%s%q", t.tokenType, t.parts)
}

// mergeTextTokens folds every run of adjacent TEXT tokens into the first token
// of the run, extending its span in place.
func mergeTextTokens(srcTokens []*Token) []*Token {
	dstTokens := make([]*Token, 0, len(srcTokens))
	var lastDstToken *Token
	for _, token := range srcTokens {
		if lastDstToken != nil && lastDstToken.tokenType == TokenTypeTEXT && token.tokenType == TokenTypeTEXT {
			lastDstToken.parts[0] += token.parts[0]
			lastDstToken.sourceSpan.End = token.sourceSpan.End
			continue
		}
		lastDstToken = token
		dstTokens = append(dstTokens, lastDstToken)
	}
	return dstTokens
}
