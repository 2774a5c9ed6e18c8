package core

// Character code constants
const (
	// CharEOF is what a cursor reports once the input is exhausted. It is not a
	// valid code point, so a NUL character in the source stays distinguishable.
	CharEOF rune = -1

	CharNUL       rune = 0
	CharBSPACE    rune = 8
	CharTAB       rune = 9
	CharLF        rune = 10
	CharVTAB      rune = 11
	CharFF        rune = 12
	CharCR        rune = 13
	CharSPACE     rune = 32
	CharBANG      rune = 33
	CharDQ        rune = 34
	CharHASH      rune = 35
	CharAMPERSAND rune = 38
	CharSQ        rune = 39
	CharCOMMA     rune = 44
	CharMINUS     rune = 45
	CharSLASH     rune = 47
	CharCOLON     rune = 58
	CharSEMICOLON rune = 59
	CharLT        rune = 60
	CharEQ        rune = 61
	CharGT        rune = 62

	Char0 rune = 48
	Char7 rune = 55
	Char9 rune = 57

	CharA rune = 65
	CharF rune = 70
	CharX rune = 88
	CharZ rune = 90

	CharLBRACKET  rune = 91
	CharBACKSLASH rune = 92
	CharRBRACKET  rune = 93

	CharLowerA rune = 97
	CharLowerB rune = 98
	CharLowerF rune = 102
	CharLowerN rune = 110
	CharLowerR rune = 114
	CharLowerT rune = 116
	CharLowerU rune = 117
	CharLowerV rune = 118
	CharLowerX rune = 120
	CharLowerZ rune = 122

	CharLBRACE rune = 123
	CharRBRACE rune = 125
	CharBT     rune = 96
	CharNBSP   rune = 160
)

// IsWhitespace checks if a character code represents whitespace
func IsWhitespace(code rune) bool {
	return (code >= CharTAB && code <= CharSPACE) || code == CharNBSP
}

// IsDigit checks if a character code represents a digit
func IsDigit(code rune) bool {
	return Char0 <= code && code <= Char9
}

// IsAsciiLetter checks if a character code represents an ASCII letter
func IsAsciiLetter(code rune) bool {
	return (code >= CharLowerA && code <= CharLowerZ) || (code >= CharA && code <= CharZ)
}

// IsAsciiHexDigit checks if a character code represents a hexadecimal digit
func IsAsciiHexDigit(code rune) bool {
	return (code >= CharLowerA && code <= CharLowerF) || (code >= CharA && code <= CharF) || IsDigit(code)
}

// IsNewLine checks if a character code represents a newline
func IsNewLine(code rune) bool {
	return code == CharLF || code == CharCR
}

// IsOctalDigit checks if a character code represents an octal digit
func IsOctalDigit(code rune) bool {
	return Char0 <= code && code <= Char7
}

// IsQuote checks if a character code represents a quote character
func IsQuote(code rune) bool {
	return code == CharSQ || code == CharDQ || code == CharBT
}

// ToUpperASCII upper-cases a-z and leaves every other code point untouched.
func ToUpperASCII(code rune) rune {
	if code >= CharLowerA && code <= CharLowerZ {
		return code - CharLowerA + CharA
	}
	return code
}

// EqualFoldASCII compares two code points ignoring ASCII case.
func EqualFoldASCII(a, b rune) bool {
	return ToUpperASCII(a) == ToUpperASCII(b)
}
