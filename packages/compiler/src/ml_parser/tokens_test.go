package ml_parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"ngc-lexer/packages/compiler/src/util"
)

func spanAt(file *util.ParseSourceFile, start, end int) *util.ParseSourceSpan {
	return util.NewParseSourceSpan(
		util.NewParseLocation(file, start, 0, start),
		util.NewParseLocation(file, end, 0, end),
		nil,
	)
}

func humanizeTokens(tokens []*Token) []interface{} {
	humanized := []interface{}{}
	for _, token := range tokens {
		humanized = append(humanized, []interface{}{token.Type(), token.Parts(), token.SourceSpan().String()})
	}
	return humanized
}

func TestMergeTextTokens(t *testing.T) {
	file := util.NewParseSourceFile("ab<c>d", "merge.html")
	tokens := []*Token{
		NewToken(TokenTypeTEXT, []string{"a"}, spanAt(file, 0, 1)),
		NewToken(TokenTypeTEXT, []string{"b"}, spanAt(file, 1, 2)),
		NewToken(TokenTypeTAG_OPEN_START, []string{"", "c"}, spanAt(file, 2, 4)),
		NewToken(TokenTypeTAG_OPEN_END, []string{}, spanAt(file, 4, 5)),
		NewToken(TokenTypeTEXT, []string{"d"}, spanAt(file, 5, 6)),
		NewToken(TokenTypeEOF, []string{}, spanAt(file, 6, 6)),
	}
	first, firstSpan := tokens[0], tokens[0].SourceSpan()

	merged := mergeTextTokens(tokens)
	expected := []interface{}{
		[]interface{}{TokenTypeTEXT, []string{"ab"}, "ab"},
		[]interface{}{TokenTypeTAG_OPEN_START, []string{"", "c"}, "<c"},
		[]interface{}{TokenTypeTAG_OPEN_END, []string{}, ">"},
		[]interface{}{TokenTypeTEXT, []string{"d"}, "d"},
		[]interface{}{TokenTypeEOF, []string{}, ""},
	}
	if diff := cmp.Diff(expected, humanizeTokens(merged)); diff != "" {
		t.Errorf("mergeTextTokens() mismatch (-want +got):\n%s", diff)
	}

	t.Run("keeps the identity of the first token of a run", func(t *testing.T) {
		if merged[0] != first {
			t.Errorf("merged[0] = %p, want the original token %p", merged[0], first)
		}
		if merged[0].SourceSpan() != firstSpan {
			t.Errorf("merged span = %p, want the original span %p", merged[0].SourceSpan(), firstSpan)
		}
		if firstSpan.Start.Offset != 0 || firstSpan.End.Offset != 2 {
			t.Errorf("original span = [%d, %d), want it extended in place to [0, 2)", firstSpan.Start.Offset, firstSpan.End.Offset)
		}
		for i, j := range []int{2, 3, 4, 5} {
			if merged[i+1] != tokens[j] {
				t.Errorf("merged[%d] is not the original tokens[%d]", i+1, j)
			}
		}
	})

	t.Run("is idempotent", func(t *testing.T) {
		again := mergeTextTokens(merged)
		if diff := cmp.Diff(humanizeTokens(merged), humanizeTokens(again)); diff != "" {
			t.Errorf("mergeTextTokens() second pass mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestTokenTypeNames(t *testing.T) {
	types := TokenTypes()
	if len(types) != 22 {
		t.Fatalf("len(TokenTypes()) = %d, want 22", len(types))
	}
	for _, tokenType := range types {
		parsed, ok := ParseTokenType(tokenType.String())
		if !ok || parsed != tokenType {
			t.Errorf("ParseTokenType(%q) = %v, %v", tokenType.String(), parsed, ok)
		}
	}

	if _, ok := ParseTokenType("INTERPOLATION"); ok {
		t.Errorf("ParseTokenType(%q) succeeded", "INTERPOLATION")
	}
	if got := tokenTypeNone.String(); got != "NONE" {
		t.Errorf("tokenTypeNone.String() = %q", got)
	}
	if got := TokenType(99).String(); got != "TokenType(99)" {
		t.Errorf("TokenType(99).String() = %q", got)
	}
}

func TestTokenType_Text(t *testing.T) {
	for _, tokenType := range TokenTypes() {
		text, err := tokenType.MarshalText()
		if err != nil {
			t.Fatalf("%v.MarshalText() error = %v", tokenType, err)
		}
		var decoded TokenType
		if err := decoded.UnmarshalText(text); err != nil || decoded != tokenType {
			t.Errorf("UnmarshalText(%q) = %v, %v", text, decoded, err)
		}
	}

	if _, err := tokenTypeNone.MarshalText(); err == nil {
		t.Errorf("tokenTypeNone.MarshalText() succeeded")
	}
	var decoded TokenType
	if err := decoded.UnmarshalText([]byte("INTERPOLATION")); err == nil {
		t.Errorf("UnmarshalText(INTERPOLATION) succeeded")
	}
}

func TestToken_String(t *testing.T) {
	token := NewToken(TokenTypeATTR_NAME, []string{"ns", "a"}, nil)
	if got, want := token.String(), `ATTR_NAME["ns" "a"]`; got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
