// Package logger builds the zap logger shared by the commands.
package logger

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Options struct {
	Level  string
	Format string // text|json
	File   string // empty writes to stderr
	Env    string
}

// New builds a sugared logger. When File cannot be opened the logger falls
// back to stderr.
func New(opts Options) *zap.SugaredLogger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	switch strings.ToLower(strings.TrimSpace(opts.Format)) {
	case "json":
		enc = zapcore.NewJSONEncoder(encCfg)
	default:
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	out := zapcore.Lock(os.Stderr)
	if f := strings.TrimSpace(opts.File); f != "" {
		if ws, _, err := zap.Open(f); err == nil {
			out = ws
		}
	}

	core := zapcore.NewCore(enc, out, parseLevel(opts.Level))
	l := zap.New(core).Sugar()

	if env := strings.TrimSpace(opts.Env); env != "" {
		l = l.With("env", env)
	}
	return l
}

// Nop discards everything.
func Nop() *zap.SugaredLogger { return zap.NewNop().Sugar() }

func parseLevel(s string) zapcore.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return zapcore.DebugLevel
	case "warn", "warning":
		return zapcore.WarnLevel
	case "error":
		return zapcore.ErrorLevel
	default:
		return zapcore.InfoLevel
	}
}
