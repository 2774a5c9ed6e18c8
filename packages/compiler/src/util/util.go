package util

import (
	"strings"
)

// SplitAtComma splits a string at the first comma, trimming both halves.
// defaultValues is returned when no comma is present.
func SplitAtComma(input string, defaultValues []string) []string {
	return splitAt(input, ',', defaultValues)
}

func splitAt(input string, character rune, defaultValues []string) []string {
	index := strings.IndexRune(input, character)
	if index == -1 {
		return defaultValues
	}
	return []string{
		strings.TrimSpace(input[:index]),
		strings.TrimSpace(input[index+1:]),
	}
}
