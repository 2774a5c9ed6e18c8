package main

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"
	"github.com/goccy/go-yaml"
	"github.com/mattn/go-isatty"

	"ngc-lexer/packages/compiler/src/ml_parser"
	"ngc-lexer/packages/compiler/src/util"
)

type tokenRow struct {
	Type  ml_parser.TokenType `json:"type" yaml:"type"`
	Parts []string            `json:"parts" yaml:"parts"`
	Start string              `json:"start" yaml:"start"`
	End   string              `json:"end" yaml:"end"`
}

type errorRow struct {
	Message   string `json:"message" yaml:"message"`
	TokenType string `json:"tokenType" yaml:"tokenType"`
	At        string `json:"at" yaml:"at"`
}

// report is the printable form of one TokenizeResult.
type report struct {
	URL    string     `json:"url" yaml:"url"`
	Tokens []tokenRow `json:"tokens" yaml:"tokens"`
	Errors []errorRow `json:"errors,omitempty" yaml:"errors,omitempty"`
}

func lineCol(loc *util.ParseLocation) string {
	return fmt.Sprintf("%d:%d", loc.Line, loc.Col)
}

func newReport(url string, res *ml_parser.TokenizeResult, filter *tokenFilter) (*report, error) {
	r := &report{URL: url, Tokens: []tokenRow{}}
	for _, tok := range res.Tokens {
		keep, err := filter.keep(tok)
		if err != nil {
			return nil, err
		}
		if !keep {
			continue
		}
		row := tokenRow{
			Type:  tok.Type(),
			Parts: append([]string{}, tok.Parts()...),
		}
		if span := tok.SourceSpan(); span != nil {
			row.Start = lineCol(span.Start)
			row.End = lineCol(span.End)
		}
		r.Tokens = append(r.Tokens, row)
	}
	for _, e := range res.Errors {
		row := errorRow{Message: e.Msg, TokenType: e.TokenType.String()}
		if e.Span != nil {
			row.At = lineCol(e.Span.Start)
		}
		r.Errors = append(r.Errors, row)
	}
	return r, nil
}

type reportColors struct {
	url, tokenType, pos func(format string, a ...interface{}) string
}

type reportWriter struct {
	w       io.Writer
	format  string
	colors  *reportColors
	written int
}

func (cfg *MainConfig) newReportWriter(w io.Writer) *reportWriter {
	rw := &reportWriter{w: w, format: cfg.settings.Format}
	if rw.format == formatText && useColor(cfg.Color, w) {
		rw.colors = newReportColors()
	}
	return rw
}

func useColor(forced bool, w io.Writer) bool {
	if forced {
		return true
	}
	f, ok := w.(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

func newReportColors() *reportColors {
	mk := func(attrs ...color.Attribute) func(string, ...interface{}) string {
		c := color.New(attrs...)
		c.EnableColor()
		return c.SprintfFunc()
	}
	return &reportColors{
		url:       mk(color.Bold),
		tokenType: mk(color.FgCyan),
		pos:       mk(color.FgHiBlack),
	}
}

func (rw *reportWriter) write(r *report) error {
	defer func() { rw.written++ }()
	switch rw.format {
	case formatJSON:
		if err := json.MarshalWrite(rw.w, r, jsontext.WithIndent("  ")); err != nil {
			return err
		}
		_, err := io.WriteString(rw.w, "\n")
		return err
	case formatYAML:
		d, err := yaml.Marshal(r)
		if err != nil {
			return err
		}
		if rw.written > 0 {
			if _, err := io.WriteString(rw.w, "---\n"); err != nil {
				return err
			}
		}
		_, err = rw.w.Write(d)
		return err
	default:
		return rw.writeText(r)
	}
}

func (rw *reportWriter) writeText(r *report) error {
	sprintf := func(f func(string, ...interface{}) string, format string, a ...interface{}) string {
		if rw.colors == nil {
			return fmt.Sprintf(format, a...)
		}
		return f(format, a...)
	}
	var c reportColors
	if rw.colors != nil {
		c = *rw.colors
	}

	var sb strings.Builder
	sb.WriteString(sprintf(c.url, "# %s", r.URL))
	sb.WriteByte('\n')
	for _, row := range r.Tokens {
		line := sprintf(c.tokenType, "%-26s", row.Type) + " " + sprintf(c.pos, "%-11s", row.Start+"-"+row.End)
		for _, part := range row.Parts {
			line += " " + strconv.Quote(part)
		}
		sb.WriteString(strings.TrimRight(line, " "))
		sb.WriteByte('\n')
	}
	_, err := io.WriteString(rw.w, sb.String())
	return err
}

// writeErrors prints each lexer error with its source context.
func writeErrors(w io.Writer, res *ml_parser.TokenizeResult) {
	for _, e := range res.Errors {
		fmt.Fprintln(w, e.Error())
	}
}
