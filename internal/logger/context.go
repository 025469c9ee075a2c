package logger

import (
	"context"

	"go.uber.org/zap"
)

type requestLoggerKey struct{}

// ContextWithLogger attaches the request-scoped logger (request id and query fields) to ctx.
func ContextWithLogger(ctx context.Context, l *zap.Logger) context.Context {
	if l == nil {
		return ctx
	}
	return context.WithValue(ctx, requestLoggerKey{}, l)
}

// FromContext returns the request logger, or a no-op logger outside an HTTP request
// (CLI runs, library callers, tests).
func FromContext(ctx context.Context) *zap.Logger {
	if l, ok := ctx.Value(requestLoggerKey{}).(*zap.Logger); ok {
		return l
	}
	return zap.NewNop()
}
