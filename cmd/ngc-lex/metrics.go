package main

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"

	"ngc-lexer/packages/compiler/src/ml_parser"
)

var errorKinds = []struct {
	name string
	err  error
}{
	{"unexpected_character", ml_parser.ErrUnexpectedCharacter},
	{"unterminated_entity", ml_parser.ErrUnterminatedEntity},
	{"unknown_entity", ml_parser.ErrUnknownEntity},
	{"invalid_escape", ml_parser.ErrInvalidEscape},
	{"unclosed_expansion", ml_parser.ErrUnclosedExpansion},
	{"programming", ml_parser.ErrProgramming},
}

// lexMetrics counts what the tokenizer produced across one ngc-lex run.
type lexMetrics struct {
	registry  *prometheus.Registry
	templates prometheus.Counter
	tokens    *prometheus.CounterVec
	errors    *prometheus.CounterVec
}

func newLexMetrics() *lexMetrics {
	m := &lexMetrics{
		registry: prometheus.NewRegistry(),
		templates: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "ngc_lex_templates_total",
			Help: "Number of templates tokenized.",
		}),
		tokens: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ngc_lex_tokens_total",
			Help: "Number of tokens emitted, by token type.",
		}, []string{"type"}),
		errors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "ngc_lex_errors_total",
			Help: "Number of lexer errors, by kind.",
		}, []string{"kind"}),
	}
	m.registry.MustRegister(m.templates, m.tokens, m.errors)
	return m
}

func (m *lexMetrics) observe(res *ml_parser.TokenizeResult) {
	m.templates.Inc()
	for _, tok := range res.Tokens {
		m.tokens.WithLabelValues(tok.Type().String()).Inc()
	}
	for _, err := range res.Errors {
		m.errors.WithLabelValues(errorKind(err)).Inc()
	}
}

func (m *lexMetrics) writeFile(path string) error {
	return prometheus.WriteToTextfile(path, m.registry)
}

func errorKind(err error) string {
	for _, kind := range errorKinds {
		if errors.Is(err, kind.err) {
			return kind.name
		}
	}
	return "other"
}
