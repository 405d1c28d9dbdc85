package logger

import (
	"context"

	"go.uber.org/zap"
)

type contextKey struct{}

var nop = zap.NewNop()

// ContextWithLogger returns a child context carrying the logger, typically a
// request-scoped logger with the request id attached.
func ContextWithLogger(ctx context.Context, l *zap.Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// FromContext returns the logger carried by the context, or a no-op logger
// when none was attached. Safe to call with any context.
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(contextKey{}).(*zap.Logger); ok && l != nil {
		return l
	}
	return nop
}
