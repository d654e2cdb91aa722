// Package logger installs the process-wide zap logger.
package logger

import (
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Option tweaks InitZap.
type Option func(*options)

type options struct {
	writers []io.Writer
}

// WithWriter adds an extra sink next to stdout.
func WithWriter(w io.Writer) Option {
	return func(o *options) { o.writers = append(o.writers, w) }
}

// InitZap builds a JSON logger at level and installs it as zap.L().
func InitZap(level string, opts ...Option) *zap.Logger {
	o := options{writers: []io.Writer{os.Stdout}}
	for _, fn := range opts {
		fn(&o)
	}

	enc := zapcore.NewJSONEncoder(zapcore.EncoderConfig{
		MessageKey:    "message",
		LevelKey:      "level",
		EncodeLevel:   zapcore.CapitalLevelEncoder,
		TimeKey:       "time",
		EncodeTime:    zapcore.ISO8601TimeEncoder,
		CallerKey:     "caller",
		EncodeCaller:  zapcore.ShortCallerEncoder,
		NameKey:       "logger",
		StacktraceKey: "stacktrace",
	})

	lvl := parseLevel(level)
	cores := make([]zapcore.Core, 0, len(o.writers))
	for _, w := range o.writers {
		cores = append(cores, zapcore.NewCore(enc, zapcore.AddSync(w), lvl))
	}

	l := zap.New(zapcore.NewTee(cores...), zap.AddCaller())
	zap.ReplaceGlobals(l)
	return l
}

func parseLevel(s string) zapcore.Level {
	var lvl zapcore.Level
	if err := lvl.UnmarshalText([]byte(strings.ToLower(strings.TrimSpace(s)))); err != nil {
		return zapcore.InfoLevel
	}
	return lvl
}

// Short masks long identifiers (addresses, signatures) for log lines.
func Short(s string) string {
	t := strings.TrimSpace(s)
	if len(t) <= 10 {
		return t
	}
	return t[:4] + "***" + t[len(t)-4:]
}
