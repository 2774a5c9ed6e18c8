package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/go-logr/logr"
	"github.com/goccy/go-yaml"
	"github.com/scott-cotton/cli"

	"ngc-lexer/packages/compiler/src/ml_parser"
	"ngc-lexer/packages/compiler/src/util"
)

type MainConfig struct {
	ConfigFile string `cli:"name=config desc='read tokenizer settings from a yaml file'"`

	ICU           bool   `cli:"name=icu desc='tokenize ICU expansion forms'"`
	Escaped       bool   `cli:"name=escaped desc='decode string literal escapes in the input'"`
	PreserveEOL   bool   `cli:"name=preserve-eol desc='keep CR and CRLF in token content'"`
	I18nNormalize bool   `cli:"name=i18n-normalize desc='normalize line endings inside ICU expressions'"`
	Interpolation string `cli:"name=interpolation desc='interpolation markers as start,end'"`
	Trivia        string `cli:"name=trivia desc='leading trivia characters, Go escapes allowed'"`
	XML           bool   `cli:"name=xml desc='treat every element as parsable data'"`

	Format      string `cli:"name=format aliases=f desc='output format: text, json or yaml'"`
	Color       bool   `cli:"name=color desc='colorize text output'"`
	Verbose     int    `cli:"name=v aliases=verbose desc='log verbosity, 0 to 2'"`
	MetricsFile string `cli:"name=metrics-file desc='write prometheus counters to this file'"`

	Main *cli.Command

	settings settings
	log      logr.Logger
	syncLog  func() error
	metrics  *lexMetrics
	errOut   io.Writer
}

// settings is the layout of the -config file. Flags override it.
type settings struct {
	ml_parser.TokenizeOptions `yaml:",inline"`

	XML    bool   `yaml:"xml,omitempty"`
	Format string `yaml:"format,omitempty"`
}

type TokenizeConfig struct {
	*MainConfig
	Filter string `cli:"name=filter desc='expr predicate over Type, Parts, Line, Col and Text'"`
	Strict bool   `cli:"name=strict desc='exit non-zero when the input has lexer errors'"`

	Tokenize *cli.Command
}

type ScanConfig struct {
	*MainConfig
	Filter string `cli:"name=filter desc='expr predicate over Type, Parts, Line, Col and Text'"`
	Strict bool   `cli:"name=strict desc='exit non-zero when a template has lexer errors'"`

	Scan *cli.Command
}

type DiffConfig struct {
	*MainConfig
	Spans bool `cli:"name=spans desc='compare token positions as well as content'"`

	Diff *cli.Command
}

type TypesConfig struct {
	*MainConfig

	Types *cli.Command
}

const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

// load reads the config file and folds the flags over it.
func (cfg *MainConfig) load() error {
	if cfg.ConfigFile != "" {
		data, err := os.ReadFile(cfg.ConfigFile)
		if err != nil {
			return fmt.Errorf("error reading config %s: %w", cfg.ConfigFile, err)
		}
		if err := yaml.Unmarshal(data, &cfg.settings); err != nil {
			return fmt.Errorf("error decoding config %s: %w", cfg.ConfigFile, err)
		}
	}

	s := &cfg.settings
	s.TokenizeExpansionForms = s.TokenizeExpansionForms || cfg.ICU
	s.EscapedString = s.EscapedString || cfg.Escaped
	s.PreserveLineEndings = s.PreserveLineEndings || cfg.PreserveEOL
	s.I18nNormalizeLineEndingsInICUs = s.I18nNormalizeLineEndingsInICUs || cfg.I18nNormalize
	s.XML = s.XML || cfg.XML

	if cfg.Interpolation != "" {
		markers := util.SplitAtComma(cfg.Interpolation, nil)
		if markers == nil {
			return fmt.Errorf("%w: -interpolation wants start,end, got %q", cli.ErrUsage, cfg.Interpolation)
		}
		s.InterpolationConfig = &ml_parser.InterpolationConfig{Start: markers[0], End: markers[1]}
	}
	if ic := s.InterpolationConfig; ic != nil {
		checked, err := ml_parser.NewInterpolationConfig(ic.Start, ic.End)
		if err != nil {
			return fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		s.InterpolationConfig = checked
	}
	if cfg.Trivia != "" {
		s.LeadingTriviaChars = triviaChars(cfg.Trivia)
	}

	if cfg.Format != "" {
		s.Format = cfg.Format
	}
	switch s.Format {
	case "":
		s.Format = formatText
	case formatText, formatJSON, formatYAML:
	default:
		return fmt.Errorf("%w: unknown format %q", cli.ErrUsage, s.Format)
	}

	log, syncLog, err := newLogger(cfg.Verbose)
	if err != nil {
		return err
	}
	cfg.log, cfg.syncLog = log, syncLog

	if cfg.MetricsFile != "" {
		cfg.metrics = newLexMetrics()
	}
	return nil
}

// triviaChars splits a -trivia value into characters, decoding Go escapes
// such as \t when the value has them.
func triviaChars(v string) []string {
	if unquoted, err := strconv.Unquote(`"` + v + `"`); err == nil {
		v = unquoted
	}
	var res []string
	for _, r := range v {
		res = append(res, string(r))
	}
	return res
}

// tokenizeOptions returns the options for one template. escaped forces
// string literal decoding on top of the configured default.
func (cfg *MainConfig) tokenizeOptions(r *ml_parser.LexerRange, escaped bool) *ml_parser.TokenizeOptions {
	opts := cfg.settings.TokenizeOptions
	opts.Logger = cfg.log
	if r != nil {
		opts.Range = r
	}
	opts.EscapedString = opts.EscapedString || escaped
	return &opts
}

func (cfg *MainConfig) tagDefinitions() func(tagName string) ml_parser.TagDefinition {
	if cfg.settings.XML {
		return ml_parser.GetXmlTagDefinition
	}
	return ml_parser.GetHtmlTagDefinition
}

func (cfg *MainConfig) stderr() io.Writer {
	if cfg.errOut == nil {
		return os.Stderr
	}
	return cfg.errOut
}

func (cfg *MainConfig) flushMetrics() error {
	if cfg.syncLog != nil {
		// stderr sync fails on some terminals
		_ = cfg.syncLog()
	}
	if cfg.metrics == nil {
		return nil
	}
	return cfg.metrics.writeFile(cfg.MetricsFile)
}
