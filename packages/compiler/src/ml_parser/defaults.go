package ml_parser

import (
	"ngc-lexer/packages/compiler/src/util"
)

// InterpolationConfig represents the configuration for interpolation symbols
type InterpolationConfig struct {
	Start string `json:"start" yaml:"start"`
	End   string `json:"end" yaml:"end"`
}

// NewInterpolationConfig creates a new InterpolationConfig after checking
// that neither marker collides with markup syntax.
func NewInterpolationConfig(start, end string) (*InterpolationConfig, error) {
	if err := util.AssertInterpolationSymbols("interpolation", []string{start, end}); err != nil {
		return nil, err
	}
	return &InterpolationConfig{
		Start: start,
		End:   end,
	}, nil
}

// DefaultInterpolationConfig is the default interpolation configuration
var DefaultInterpolationConfig = &InterpolationConfig{
	Start: "{{",
	End:   "}}",
}
