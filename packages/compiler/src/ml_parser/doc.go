// Package ml_parser tokenizes Angular-style HTML and XML templates.
//
// The token types and options are experimental and may still change.
//
// Main entry points:
//
//   - Tokenize, NewTokenizer: scan a template into a []*Token
//   - TokenizeOptions: ICU expansion forms, escaped strings, ranges,
//     interpolation markers, leading trivia and line endings
//   - TokenizeResult: tokens, errors and non-normalized ICU expressions
//
// Cursors (from cursor.go):
//
//   - CharacterCursor
//   - NewPlainCharacterCursor
//   - NewEscapedCharacterCursor
//
// Tag classification (from tags.go, html_tags.go, xml_tags.go):
//
//   - TagDefinition, TagContentType
//   - GetHtmlTagDefinition, GetXmlTagDefinition
//
// Errors (from errors.go):
//
//   - TokenError, CursorError
//   - ErrUnexpectedCharacter, ErrUnterminatedEntity, ErrUnknownEntity,
//     ErrInvalidEscape, ErrUnclosedExpansion, ErrProgramming
//
// Source positions are in package util; character predicates are in
// package core.
package ml_parser
