package ml_parser

import (
	"unicode/utf8"

	"golang.org/x/net/html"
)

// NamedEntity resolves an HTML named character reference, given without the
// surrounding "&" and ";".
func NamedEntity(name string) (string, bool) {
	if name == "" {
		return "", false
	}
	ref := "&" + name + ";"
	decoded := html.UnescapeString(ref)
	// UnescapeString falls back to the longest legacy prefix ("&ampx;" becomes
	// "&x;"). A full match always decodes to at most two code points.
	if decoded == ref || utf8.RuneCountInString(decoded) > 2 {
		return "", false
	}
	return decoded, true
}
