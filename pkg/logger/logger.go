// Package logger builds named zap loggers sharing one process-wide core.
package logger

import (
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level = zapcore.Level

const (
	DebugLevel = zapcore.DebugLevel
	InfoLevel  = zapcore.InfoLevel
	WarnLevel  = zapcore.WarnLevel
	ErrorLevel = zapcore.ErrorLevel
)

type Logger = zap.SugaredLogger

var (
	once sync.Once
	root *zap.Logger
)

func base() *zap.Logger {
	once.Do(func() {
		cfg := zap.NewProductionConfig()
		cfg.EncoderConfig.TimeKey = "ts"
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
			if parsed, err := zapcore.ParseLevel(lvl); err == nil {
				cfg.Level = zap.NewAtomicLevelAt(parsed)
			}
		}
		l, err := cfg.Build()
		if err != nil {
			l = zap.NewNop()
		}
		root = l
	})
	return root
}

// MustNamed returns a sugared logger scoped under name.
func MustNamed(name string) *Logger {
	return base().Named(name).Sugar()
}

func Root() *Logger {
	return base().Sugar()
}

// Replace swaps the process-wide core. Tests use it with zaptest/observer.
func Replace(l *zap.Logger) {
	base()
	root = l
}
