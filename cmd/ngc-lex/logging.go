package main

import (
	"fmt"

	"github.com/go-logr/logr"
	"github.com/go-logr/zapr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// newLogger builds the tokenizer logger. Verbosity n enables logr V(n),
// which zapr maps to zap level -n.
func newLogger(verbosity int) (logr.Logger, func() error, error) {
	if verbosity <= 0 {
		return logr.Discard(), nil, nil
	}
	zapCfg := zap.NewProductionConfig()
	zapCfg.Level = zap.NewAtomicLevelAt(zapcore.Level(-verbosity))
	zapCfg.Encoding = "console"
	zapCfg.Sampling = nil
	zl, err := zapCfg.Build()
	if err != nil {
		return logr.Discard(), nil, fmt.Errorf("error building logger: %w", err)
	}
	return zapr.NewLogger(zl), zl.Sync, nil
}
