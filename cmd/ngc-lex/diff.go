package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/scott-cotton/cli"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"

	"ngc-lexer/packages/compiler/src/ml_parser"
)

type lineDiff struct {
	op   diffpatch.Operation
	line string
}

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires two files", cli.ErrUsage)
	}
	var lines [2][]string
	for i, arg := range args {
		tpl, err := readTemplate(cc, arg)
		if err != nil {
			return err
		}
		res := cfg.lex(tpl)
		writeErrors(cfg.stderr(), res)
		lines[i] = tokenLines(res, cfg.Spans)
	}

	colored := useColor(cfg.Color, cc.Out)
	red, green := color.New(color.FgRed), color.New(color.FgGreen)
	red.EnableColor()
	green.EnableColor()

	changed := false
	for _, d := range diffTokenLines(lines[0], lines[1]) {
		switch d.op {
		case diffpatch.DiffDelete:
			changed = true
			if colored {
				red.Fprintln(cc.Out, "- "+d.line)
				continue
			}
			fmt.Fprintln(cc.Out, "- "+d.line)
		case diffpatch.DiffInsert:
			changed = true
			if colored {
				green.Fprintln(cc.Out, "+ "+d.line)
				continue
			}
			fmt.Fprintln(cc.Out, "+ "+d.line)
		default:
			fmt.Fprintln(cc.Out, "  "+d.line)
		}
	}
	if changed {
		return cli.ExitCodeErr(1)
	}
	return nil
}

func tokenLines(res *ml_parser.TokenizeResult, spans bool) []string {
	lines := make([]string, 0, len(res.Tokens))
	for _, tok := range res.Tokens {
		var sb strings.Builder
		sb.WriteString(tok.Type().String())
		for _, part := range tok.Parts() {
			sb.WriteByte(' ')
			sb.WriteString(strconv.Quote(part))
		}
		if span := tok.SourceSpan(); spans && span != nil {
			sb.WriteString(" @" + lineCol(span.Start) + "-" + lineCol(span.End))
		}
		lines = append(lines, sb.String())
	}
	return lines
}

// diffTokenLines diffs two token listings line by line. Each distinct line
// is mapped to a private-use rune and the rune strings are diffed.
func diffTokenLines(from, to []string) []lineDiff {
	lineRunes := map[string]rune{}
	runeLines := map[rune]string{}
	fromRunes := mapLinesTo(lineRunes, runeLines, from)
	toRunes := mapLinesTo(lineRunes, runeLines, to)
	diffs := diffpatch.New().DiffMainRunes(fromRunes, toRunes, false)

	var res []lineDiff
	for _, d := range diffs {
		for _, r := range d.Text {
			res = append(res, lineDiff{op: d.Type, line: runeLines[r]})
		}
	}
	return res
}

func mapLinesTo(lineRunes map[string]rune, runeLines map[rune]string, lines []string) []rune {
	res := make([]rune, len(lines))
	for i, line := range lines {
		r, ok := lineRunes[line]
		if !ok {
			r = rune(0xE000 + len(lineRunes))
			lineRunes[line] = r
			runeLines[r] = line
		}
		res[i] = r
	}
	return res
}
