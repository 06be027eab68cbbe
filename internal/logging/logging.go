// Package logging builds the zap logger shared by modelshare components.
package logging

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"modelshare/internal/config"
)

// New builds a logger writing to stderr so command output on stdout stays clean.
func New(cfg config.LogConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil {
		return nil, fmt.Errorf("log level %q: %w", cfg.Level, err)
	}

	var enc zapcore.EncoderConfig
	encoding := "json"
	if cfg.Format == "console" {
		enc = zap.NewDevelopmentEncoderConfig()
		enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
		encoding = "console"
	} else {
		enc = zap.NewProductionEncoderConfig()
		enc.TimeKey = "timestamp"
		enc.EncodeTime = zapcore.ISO8601TimeEncoder
	}

	zc := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Development:      encoding == "console",
		Encoding:         encoding,
		EncoderConfig:    enc,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	return zc.Build(zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel))
}

// Component scopes logger to a named component. A nil logger yields a no-op logger.
func Component(logger *zap.Logger, name string) *zap.Logger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return logger.With(zap.String("component", name))
}
