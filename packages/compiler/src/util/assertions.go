package util

import (
	"fmt"

	"github.com/dlclark/regexp2"
)

// unusableInterpolationRegexps contains regex patterns for unusable interpolation symbols
var unusableInterpolationRegexps = []*regexp2.Regexp{
	regexp2.MustCompile(`@`, regexp2.None),                // control flow reserved symbol
	regexp2.MustCompile(`^\s*$`, regexp2.None),            // empty
	regexp2.MustCompile(`[<>]`, regexp2.None),             // html tag
	regexp2.MustCompile(`^[{}]$`, regexp2.None),           // i18n expansion
	regexp2.MustCompile(`&(#|[a-z])`, regexp2.IgnoreCase), // character reference
	regexp2.MustCompile(`^//`, regexp2.None),              // comment
}

// AssertInterpolationSymbols validates interpolation symbols.
// A nil value is accepted; otherwise it must hold exactly [start, end] and
// neither marker may contain an unusable interpolation symbol.
func AssertInterpolationSymbols(identifier string, value []string) error {
	if value == nil {
		return nil
	}
	if len(value) != 2 {
		return fmt.Errorf("expected '%s' to be an array, [start, end]", identifier)
	}
	return checkUnusableSymbols(value[0], value[1])
}

// checkUnusableSymbols checks if start or end contains unusable interpolation symbols
func checkUnusableSymbols(start, end string) error {
	for _, re := range unusableInterpolationRegexps {
		if matched, _ := re.MatchString(start); matched {
			return fmt.Errorf("start symbol '%s' contains unusable interpolation symbol", start)
		}
		if matched, _ := re.MatchString(end); matched {
			return fmt.Errorf("end symbol '%s' contains unusable interpolation symbol", end)
		}
	}
	return nil
}
