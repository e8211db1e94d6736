// Package logctx logs through the root logger and adds the key/values
// attached to a context with WithFields.
package logctx

import (
	"context"

	"github.com/nguyentranbao-ct/shopping-search/pkg/logger"
)

type fieldsKey struct{}

// WithFields returns a context whose log lines carry keysAndValues.
func WithFields(ctx context.Context, keysAndValues ...any) context.Context {
	existing := fields(ctx)
	merged := make([]any, 0, len(existing)+len(keysAndValues))
	merged = append(merged, existing...)
	merged = append(merged, keysAndValues...)
	return context.WithValue(ctx, fieldsKey{}, merged)
}

func fields(ctx context.Context) []any {
	if ctx == nil {
		return nil
	}
	v, _ := ctx.Value(fieldsKey{}).([]any)
	return v
}

func from(ctx context.Context) *logger.Logger {
	l := logger.Root()
	if kv := fields(ctx); len(kv) > 0 {
		l = l.With(kv...)
	}
	return l
}

func Debugw(ctx context.Context, msg string, keysAndValues ...any) {
	from(ctx).Debugw(msg, keysAndValues...)
}

func Infow(ctx context.Context, msg string, keysAndValues ...any) {
	from(ctx).Infow(msg, keysAndValues...)
}

func Warnw(ctx context.Context, msg string, keysAndValues ...any) {
	from(ctx).Warnw(msg, keysAndValues...)
}

func Errorw(ctx context.Context, msg string, keysAndValues ...any) {
	from(ctx).Errorw(msg, keysAndValues...)
}

func Infof(ctx context.Context, template string, args ...any) {
	from(ctx).Infof(template, args...)
}

// Logw logs at a level picked at runtime.
func Logw(ctx context.Context, level logger.Level, msg string, keysAndValues ...any) {
	from(ctx).Logw(level, msg, keysAndValues...)
}
