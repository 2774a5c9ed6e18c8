package ml_parser_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"ngc-lexer/packages/compiler/src/core"
	"ngc-lexer/packages/compiler/src/ml_parser"
	"ngc-lexer/packages/compiler/src/util"
)

func newCursor(t *testing.T, content string, escaped bool) ml_parser.CharacterCursor {
	t.Helper()
	file := util.NewParseSourceFile(content, "cursor.html")
	r := ml_parser.LexerRange{EndPos: len(content)}
	var c ml_parser.CharacterCursor
	if escaped {
		c = ml_parser.NewEscapedCharacterCursor(file, r)
	} else {
		c = ml_parser.NewPlainCharacterCursor(file, r)
	}
	if err := c.Init(); err != nil {
		t.Fatalf("Init(%q) error = %v", content, err)
	}
	return c
}

func mustAdvance(t *testing.T, c ml_parser.CharacterCursor) {
	t.Helper()
	if err := c.Advance(); err != nil {
		t.Fatalf("Advance() error = %v", err)
	}
}

// humanizeCursor renders the position a cursor reports as
// "offset line:col".
func humanizeCursor(c ml_parser.CharacterCursor) []interface{} {
	loc := c.GetSpan(nil, nil).Start
	return []interface{}{loc.Offset, humanizeLineColumn(loc)}
}

func TestPlainCursor(t *testing.T) {
	t.Run("advances by code point and tracks lines", func(t *testing.T) {
		input := "a\né\r\nb"
		c := newCursor(t, input, false)
		var seen []rune
		for c.Peek() != core.CharEOF {
			seen = append(seen, c.Peek())
			mustAdvance(t, c)
		}
		if diff := cmp.Diff([]rune{'a', '\n', 'é', '\r', '\n', 'b'}, seen); diff != "" {
			t.Errorf("Peek() sequence mismatch (-want +got):\n%s", diff)
		}
		if diff := cmp.Diff([]interface{}{len(input), "2:1"}, humanizeCursor(c)); diff != "" {
			t.Errorf("end position mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("fails to advance past the end", func(t *testing.T) {
		c := newCursor(t, "a", false)
		mustAdvance(t, c)
		if c.Peek() != core.CharEOF {
			t.Fatalf("Peek() = %q, want EOF", c.Peek())
		}

		err := c.Advance()
		if !errors.Is(err, ml_parser.ErrUnexpectedCharacter) {
			t.Fatalf("Advance() error = %v, want ErrUnexpectedCharacter", err)
		}
		var cursorErr *ml_parser.CursorError
		if !errors.As(err, &cursorErr) {
			t.Fatalf("Advance() error %T is not a *CursorError", err)
		}
		if cursorErr.Msg != `Unexpected character "EOF"` {
			t.Errorf("Msg = %q", cursorErr.Msg)
		}
		if diff := cmp.Diff([]interface{}{1, "0:1"}, humanizeCursor(cursorErr.Cursor)); diff != "" {
			t.Errorf("error position mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("clones are independent", func(t *testing.T) {
		c := newCursor(t, "abc", false)
		clone := c.Clone()
		mustAdvance(t, clone)
		mustAdvance(t, clone)

		expected := []interface{}{'a', 'c', 2, "ab", 3, 1}
		got := []interface{}{c.Peek(), clone.Peek(), clone.Diff(c), clone.GetChars(c), c.CharsLeft(), clone.CharsLeft()}
		if diff := cmp.Diff(expected, got); diff != "" {
			t.Errorf("clone state mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("respects the range", func(t *testing.T) {
		file := util.NewParseSourceFile("abcdef", "cursor.html")
		c := ml_parser.NewPlainCharacterCursor(file, ml_parser.LexerRange{StartPos: 2, StartLine: 1, StartCol: 5, EndPos: 4})
		if err := c.Init(); err != nil {
			t.Fatalf("Init() error = %v", err)
		}
		if c.Peek() != 'c' || c.CharsLeft() != 2 {
			t.Errorf("Peek(), CharsLeft() = %q, %d, want 'c', 2", c.Peek(), c.CharsLeft())
		}
		if diff := cmp.Diff([]interface{}{2, "1:5"}, humanizeCursor(c)); diff != "" {
			t.Errorf("start position mismatch (-want +got):\n%s", diff)
		}

		mustAdvance(t, c)
		mustAdvance(t, c)
		if c.Peek() != core.CharEOF {
			t.Errorf("Peek() = %q at the end of the range, want EOF", c.Peek())
		}
	})

	t.Run("skips leading trivia without moving the start cursor", func(t *testing.T) {
		c := newCursor(t, " \tx", false)
		start := c.Clone()
		for c.Peek() != core.CharEOF {
			mustAdvance(t, c)
		}

		span := c.GetSpan(start, []rune{' ', '\t'})
		expected := []interface{}{2, 0, "x", ' '}
		got := []interface{}{span.Start.Offset, span.FullStart.Offset, span.String(), start.Peek()}
		if diff := cmp.Diff(expected, got); diff != "" {
			t.Errorf("trivia span mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("stops skipping trivia at the end of the span", func(t *testing.T) {
		c := newCursor(t, "   ", false)
		start := c.Clone()
		mustAdvance(t, c)

		span := c.GetSpan(start, []rune{' '})
		expected := []interface{}{1, 1, 0}
		got := []interface{}{span.Start.Offset, span.End.Offset, span.FullStart.Offset}
		if diff := cmp.Diff(expected, got); diff != "" {
			t.Errorf("trivia span mismatch (-want +got):\n%s", diff)
		}
	})
}

func TestEscapedCursor(t *testing.T) {
	t.Run("decodes escape sequences", func(t *testing.T) {
		cases := []struct {
			input string
			want  rune
		}{
			{`\n`, '\n'},
			{`\r`, '\r'},
			{`\v`, '\v'},
			{`\t`, '\t'},
			{`\b`, '\b'},
			{`\f`, '\f'},
			{`\\`, '\\'},
			{`\'`, '\''},
			{`\q`, 'q'},
			{`\x41`, 'A'},
			{`é`, 'é'},
			{`\u{1F600}`, '😀'},
			{`\101`, 'A'},
			{`\7`, '\a'},
		}
		for _, tc := range cases {
			c := newCursor(t, tc.input, true)
			if c.Peek() != tc.want {
				t.Errorf("Peek() for %q = %q, want %q", tc.input, c.Peek(), tc.want)
			}
			mustAdvance(t, c)
			if c.Peek() != core.CharEOF {
				t.Errorf("Peek() after %q = %q, want EOF", tc.input, c.Peek())
			}
		}
	})

	t.Run("reports positions in the raw source", func(t *testing.T) {
		c := newCursor(t, `a\nb`, true)
		start := c.Clone()

		mustAdvance(t, c)
		if c.Peek() != '\n' {
			t.Errorf("Peek() = %q, want newline", c.Peek())
		}
		if diff := cmp.Diff([]interface{}{1, "0:1"}, humanizeCursor(c)); diff != "" {
			t.Errorf("escape position mismatch (-want +got):\n%s", diff)
		}

		mustAdvance(t, c)
		if c.Peek() != 'b' {
			t.Errorf("Peek() = %q, want 'b'", c.Peek())
		}
		if diff := cmp.Diff([]interface{}{3, "0:3"}, humanizeCursor(c)); diff != "" {
			t.Errorf("position after escape mismatch (-want +got):\n%s", diff)
		}

		mustAdvance(t, c)
		if got := c.GetChars(start); got != "a\nb" {
			t.Errorf("GetChars() = %q, want decoded text", got)
		}
		if got := c.GetSpan(start, nil).String(); got != `a\nb` {
			t.Errorf("span = %q, want raw text", got)
		}
	})

	t.Run("drops line continuations", func(t *testing.T) {
		c := newCursor(t, "\\\r\n\\\nx", true)
		if c.Peek() != 'x' {
			t.Errorf("Peek() = %q, want 'x'", c.Peek())
		}
		if diff := cmp.Diff([]interface{}{5, "2:0"}, humanizeCursor(c)); diff != "" {
			t.Errorf("position mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("rejects invalid hexadecimal escapes", func(t *testing.T) {
		for _, input := range []string{`\xZZ`, `\u12G4`, `\u{110000}`, `\u{}`} {
			file := util.NewParseSourceFile(input, "cursor.html")
			c := ml_parser.NewEscapedCharacterCursor(file, ml_parser.LexerRange{EndPos: len(input)})
			err := c.Init()
			if !errors.Is(err, ml_parser.ErrInvalidEscape) {
				t.Errorf("Init(%q) error = %v, want ErrInvalidEscape", input, err)
				continue
			}
			if err.Error() != "Invalid hexadecimal escape sequence" {
				t.Errorf("Init(%q) error = %q", input, err.Error())
			}
		}
	})

	t.Run("reports truncated escapes as unexpected EOF", func(t *testing.T) {
		file := util.NewParseSourceFile(`\u12`, "cursor.html")
		c := ml_parser.NewEscapedCharacterCursor(file, ml_parser.LexerRange{EndPos: 4})
		if err := c.Init(); !errors.Is(err, ml_parser.ErrUnexpectedCharacter) {
			t.Errorf("Init() error = %v, want ErrUnexpectedCharacter", err)
		}
	})

	t.Run("reads a trailing backslash as itself after reporting it", func(t *testing.T) {
		input := `ab\`
		file := util.NewParseSourceFile(input, "cursor.html")
		c := ml_parser.NewEscapedCharacterCursor(file, ml_parser.LexerRange{EndPos: len(input)})
		if err := c.Init(); err != nil {
			t.Fatalf("Init() error = %v", err)
		}
		start := c.Clone()
		mustAdvance(t, c)

		err := c.Advance()
		if !errors.Is(err, ml_parser.ErrUnexpectedCharacter) {
			t.Fatalf("Advance() onto the trailing backslash error = %v, want ErrUnexpectedCharacter", err)
		}
		var cursorErr *ml_parser.CursorError
		if !errors.As(err, &cursorErr) {
			t.Fatalf("Advance() error %T is not a *CursorError", err)
		}
		if diff := cmp.Diff([]interface{}{3, "0:3"}, humanizeCursor(cursorErr.Cursor)); diff != "" {
			t.Errorf("error position mismatch (-want +got):\n%s", diff)
		}
		if c.Peek() != '\\' {
			t.Errorf("Peek() = %q, want the backslash", c.Peek())
		}

		mustAdvance(t, c)
		if c.Peek() != core.CharEOF {
			t.Errorf("Peek() = %q, want EOF", c.Peek())
		}
		if got := c.GetChars(start); got != `ab\` {
			t.Errorf("GetChars() = %q, want %q", got, `ab\`)
		}
	})
}
