package main

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/scott-cotton/cli"

	"ngc-lexer/packages/compiler/src/core"
	"ngc-lexer/packages/compiler/src/ml_parser"
	"ngc-lexer/packages/compiler/src/util"
)

// component is an @Component declaration found in a TypeScript source.
type component struct {
	file        string
	className   string
	selector    string
	template    *template
	templateURL string
}

var (
	componentRe   = regexp.MustCompile(`@Component\s*\(\s*\{([\s\S]*?)\}\s*\)`)
	classRe       = regexp.MustCompile(`export\s+(?:default\s+)?class\s+(\w+)`)
	templateRe    = regexp.MustCompile("template\\s*:\\s*`((?:[^`\\\\]|\\\\[\\s\\S])*)`")
	templateURLRe = regexp.MustCompile(`templateUrl\s*:\s*['"]([^'"]+)['"]`)
	selectorRe    = regexp.MustCompile(`selector\s*:\s*['"]([^'"]+)['"]`)
)

func scan(cfg *ScanConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Scan.Parse(cc, args)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		args = []string{"."}
	}
	filter, err := compileFilter(cfg.Filter)
	if err != nil {
		return fmt.Errorf("%w: %w", cli.ErrUsage, err)
	}

	rw := cfg.newReportWriter(cc.Out)
	nErrs := 0
	for _, root := range args {
		components, err := findComponents(root)
		if err != nil {
			return fmt.Errorf("error finding components in %s: %w", root, err)
		}
		cfg.log.V(1).Info("scanned", "root", root, "components", len(components))

		for _, comp := range components {
			cfg.log.V(1).Info("component", "file", comp.file, "class", comp.className, "selector", comp.selector)
			tpl, err := comp.load()
			if err != nil {
				fmt.Fprintf(cfg.stderr(), "%s: %v\n", comp.className, err)
				nErrs++
				continue
			}
			res := cfg.lex(*tpl)
			nErrs += len(res.Errors)
			writeErrors(cfg.stderr(), res)

			r, err := newReport(fmt.Sprintf("%s (%s)", tpl.url, comp.className), res, filter)
			if err != nil {
				return err
			}
			if err := rw.write(r); err != nil {
				return fmt.Errorf("error writing tokens of %s: %w", comp.className, err)
			}
		}
	}
	if cfg.Strict && nErrs > 0 {
		return fmt.Errorf("%d lexer error(s)", nErrs)
	}
	return nil
}

// findComponents walks root for .ts files declaring components, skipping
// node_modules and dist.
func findComponents(root string) ([]component, error) {
	var components []component
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path != root && (d.Name() == "node_modules" || d.Name() == "dist") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(path, ".ts") || strings.HasSuffix(path, ".d.ts") {
			return nil
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		components = append(components, parseComponents(path, string(data))...)
		return nil
	})
	return components, err
}

func parseComponents(path, content string) []component {
	var res []component
	for _, m := range componentRe.FindAllStringSubmatchIndex(content, -1) {
		bodyStart, bodyEnd := m[2], m[3]
		body := content[bodyStart:bodyEnd]
		comp := component{file: path}

		if cm := classRe.FindStringSubmatch(content[m[1]:]); cm != nil {
			comp.className = cm[1]
		}
		if sm := selectorRe.FindStringSubmatch(body); sm != nil {
			comp.selector = sm[1]
		}

		if tm := templateRe.FindStringSubmatchIndex(body); tm != nil {
			start, end := bodyStart+tm[2], bodyStart+tm[3]
			loc := locationAt(path, content, start)
			comp.template = &template{
				url:     path,
				content: content,
				rng: &ml_parser.LexerRange{
					StartPos:  start,
					StartLine: loc.Line,
					StartCol:  loc.Col,
					EndPos:    end,
				},
				escaped: true,
			}
		} else if um := templateURLRe.FindStringSubmatch(body); um != nil {
			comp.templateURL = um[1]
		}
		res = append(res, comp)
	}
	return res
}

// locationAt walks a cursor to offset so the returned line and column agree
// with the ones the tokenizer reports.
func locationAt(url, content string, offset int) *util.ParseLocation {
	file := util.NewParseSourceFile(content, url)
	c := ml_parser.NewPlainCharacterCursor(file, ml_parser.LexerRange{EndPos: offset})
	_ = c.Init()
	for c.Peek() != core.CharEOF {
		if err := c.Advance(); err != nil {
			break
		}
	}
	return c.GetSpan(nil, nil).Start
}

// load returns the inline template, or reads templateUrl relative to the
// component file.
func (c component) load() (*template, error) {
	if c.template != nil {
		return c.template, nil
	}
	if c.templateURL == "" {
		return nil, fmt.Errorf("component in %s has no template", c.file)
	}
	path := filepath.Clean(filepath.Join(filepath.Dir(c.file), c.templateURL))
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading template file %s: %w", path, err)
	}
	return &template{url: path, content: string(data)}, nil
}
