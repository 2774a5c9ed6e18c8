package main

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"

	"ngc-lexer/packages/compiler/src/ml_parser"
)

// tokenEnv is what a -filter program sees for each token.
type tokenEnv struct {
	Type  string
	Parts []string
	Line  int
	Col   int
	Text  string
	Len   int

	// Name is the qualified ":prefix:local" name of tag and attribute
	// tokens, split again into Prefix and Local.
	Name   string
	Prefix string
	Local  string
}

// nameTokens carry [prefix, name] parts.
var nameTokens = map[ml_parser.TokenType]bool{
	ml_parser.TokenTypeTAG_OPEN_START:      true,
	ml_parser.TokenTypeINCOMPLETE_TAG_OPEN: true,
	ml_parser.TokenTypeTAG_CLOSE:           true,
	ml_parser.TokenTypeATTR_NAME:           true,
}

func newTokenEnv(tok *ml_parser.Token) tokenEnv {
	env := tokenEnv{
		Type:  tok.Type().String(),
		Parts: tok.Parts(),
	}
	if span := tok.SourceSpan(); span != nil {
		env.Line = span.Start.Line
		env.Col = span.Start.Col
		env.Text = span.String()
		env.Len = span.Len()
	}
	if parts := tok.Parts(); nameTokens[tok.Type()] && len(parts) == 2 {
		env.Name = ml_parser.MergeNsAndName(parts[0], parts[1])
		env.Prefix = ml_parser.GetNsPrefix(env.Name)
		if _, local, err := ml_parser.SplitNsName(env.Name); err == nil {
			env.Local = local
		}
	}
	return env
}

type tokenFilter struct {
	program *vm.Program
}

// compileFilter returns nil for an empty program, which keeps every token.
func compileFilter(src string) (*tokenFilter, error) {
	if src == "" {
		return nil, nil
	}
	program, err := expr.Compile(src, expr.Env(tokenEnv{}), expr.AsBool())
	if err != nil {
		return nil, fmt.Errorf("error compiling filter %q: %w", src, err)
	}
	return &tokenFilter{program: program}, nil
}

func (f *tokenFilter) keep(tok *ml_parser.Token) (bool, error) {
	if f == nil {
		return true, nil
	}
	out, err := vm.Run(f.program, newTokenEnv(tok))
	if err != nil {
		return false, fmt.Errorf("error running filter: %w", err)
	}
	keep, _ := out.(bool)
	return keep, nil
}
