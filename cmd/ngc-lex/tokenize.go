package main

import (
	"fmt"
	"io"
	"os"

	"github.com/scott-cotton/cli"

	"ngc-lexer/packages/compiler/src/ml_parser"
)

// template is one input handed to the tokenizer.
type template struct {
	url     string
	content string
	rng     *ml_parser.LexerRange
	escaped bool
}

func (cfg *MainConfig) lex(tpl template) *ml_parser.TokenizeResult {
	opts := cfg.tokenizeOptions(tpl.rng, tpl.escaped)
	res := ml_parser.Tokenize(tpl.content, tpl.url, cfg.tagDefinitions(), opts)
	if cfg.metrics != nil {
		cfg.metrics.observe(res)
	}
	return res
}

func tokenize(cfg *TokenizeConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Tokenize.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{"-"}
	}
	filter, err := compileFilter(cfg.Filter)
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}

	rw := cfg.newReportWriter(cc.Out)
	nErrs := 0
	for _, arg := range args {
		tpl, err := readTemplate(cc, arg)
		if err != nil {
			return err
		}
		res := cfg.lex(tpl)
		nErrs += len(res.Errors)
		writeErrors(cfg.stderr(), res)

		r, err := newReport(tpl.url, res, filter)
		if err != nil {
			return err
		}
		if err := rw.write(r); err != nil {
			return fmt.Errorf("error writing tokens of %s: %w", tpl.url, err)
		}
	}
	if cfg.Strict && nErrs > 0 {
		return fmt.Errorf("%d lexer error(s)", nErrs)
	}
	return nil
}

func readTemplate(cc *cli.Context, arg string) (template, error) {
	var (
		data []byte
		err  error
	)
	if arg == "-" {
		data, err = io.ReadAll(cc.In)
		arg = "<stdin>"
	} else {
		data, err = os.ReadFile(arg)
	}
	if err != nil {
		return template{}, fmt.Errorf("error reading %s: %w", arg, err)
	}
	return template{url: arg, content: string(data)}, nil
}

func types(cfg *TypesConfig, cc *cli.Context, args []string) error {
	if _, err := cfg.Types.Parse(cc, args); err != nil {
		return err
	}
	for _, tokenType := range ml_parser.TokenTypes() {
		fmt.Fprintln(cc.Out, tokenType)
	}
	return nil
}
