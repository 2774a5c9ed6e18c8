package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/scott-cotton/cli"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ngc-lexer/packages/compiler/src/ml_parser"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "ngc-lex.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestMainConfig_Load(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg := &MainConfig{}
		require.NoError(t, cfg.load())
		assert.Equal(t, formatText, cfg.settings.Format)
		assert.Nil(t, cfg.settings.InterpolationConfig)
		assert.Nil(t, cfg.metrics)
		assert.False(t, cfg.log.Enabled())

		opts := cfg.tokenizeOptions(nil, false)
		assert.False(t, opts.TokenizeExpansionForms)
		assert.False(t, opts.EscapedString)
		assert.Nil(t, opts.Range)
	})

	t.Run("reads the config file", func(t *testing.T) {
		path := writeConfig(t, `
tokenizeExpansionForms: true
preserveLineEndings: true
interpolationConfig:
  start: "[["
  end: "]]"
leadingTriviaChars: [" ", "\n"]
xml: true
format: yaml
`)
		cfg := &MainConfig{ConfigFile: path}
		require.NoError(t, cfg.load())

		s := cfg.settings
		assert.True(t, s.TokenizeExpansionForms)
		assert.True(t, s.PreserveLineEndings)
		assert.False(t, s.EscapedString)
		assert.Equal(t, &ml_parser.InterpolationConfig{Start: "[[", End: "]]"}, s.InterpolationConfig)
		assert.Equal(t, []string{" ", "\n"}, s.LeadingTriviaChars)
		assert.Equal(t, formatYAML, s.Format)
		assert.Equal(t, ml_parser.TagContentTypePARSABLE_DATA, cfg.tagDefinitions()("script").GetContentType(""))
	})

	t.Run("flags override the file", func(t *testing.T) {
		path := writeConfig(t, "format: yaml\ninterpolationConfig: {start: '[[', end: ']]'}\n")
		cfg := &MainConfig{
			ConfigFile:    path,
			ICU:           true,
			Escaped:       true,
			I18nNormalize: true,
			Interpolation: "{% , %}",
			Trivia:        `\t `,
			Format:        "json",
		}
		require.NoError(t, cfg.load())

		s := cfg.settings
		assert.True(t, s.TokenizeExpansionForms)
		assert.True(t, s.EscapedString)
		assert.True(t, s.I18nNormalizeLineEndingsInICUs)
		assert.Equal(t, &ml_parser.InterpolationConfig{Start: "{%", End: "%}"}, s.InterpolationConfig)
		assert.Equal(t, []string{"\t", " "}, s.LeadingTriviaChars)
		assert.Equal(t, formatJSON, s.Format)
		assert.Equal(t, ml_parser.TagContentTypeRAW_TEXT, cfg.tagDefinitions()("script").GetContentType(""))
	})

	t.Run("rejects bad values", func(t *testing.T) {
		for _, cfg := range []*MainConfig{
			{Interpolation: "[["},
			{Interpolation: "<%,%>"},
			{Format: "xml"},
		} {
			err := cfg.load()
			require.Error(t, err)
			assert.True(t, errors.Is(err, cli.ErrUsage), err.Error())
		}

		cfg := &MainConfig{ConfigFile: filepath.Join(t.TempDir(), "missing.yaml")}
		assert.Error(t, cfg.load())

		cfg = &MainConfig{ConfigFile: writeConfig(t, "tokenizeExpansionForms: [")}
		assert.Error(t, cfg.load())
	})

	t.Run("metrics file enables metrics", func(t *testing.T) {
		cfg := &MainConfig{MetricsFile: filepath.Join(t.TempDir(), "lex.prom")}
		require.NoError(t, cfg.load())
		assert.NotNil(t, cfg.metrics)
	})
}

func TestMainConfig_TokenizeOptions(t *testing.T) {
	cfg := &MainConfig{Trivia: " "}
	require.NoError(t, cfg.load())

	r := &ml_parser.LexerRange{StartPos: 1, EndPos: 3}
	opts := cfg.tokenizeOptions(r, true)
	assert.Same(t, r, opts.Range)
	assert.True(t, opts.EscapedString)
	assert.Equal(t, []string{" "}, opts.LeadingTriviaChars)
	assert.False(t, cfg.settings.EscapedString)
	assert.Nil(t, cfg.settings.Range)
}

func TestTriviaChars(t *testing.T) {
	assert.Equal(t, []string{"\t", "\n", " "}, triviaChars(`\t\n `))
	assert.Equal(t, []string{"a", "é"}, triviaChars("aé"))
	assert.Equal(t, []string{`"`}, triviaChars(`"`))
}

func TestNewLogger(t *testing.T) {
	log, sync, err := newLogger(0)
	require.NoError(t, err)
	assert.Nil(t, sync)
	assert.False(t, log.Enabled())

	log, sync, err = newLogger(2)
	require.NoError(t, err)
	require.NotNil(t, sync)
	assert.True(t, log.V(2).Enabled())
	assert.False(t, log.V(3).Enabled())
}
