package logger

import (
	"context"
	"log/slog"
)

type scopedKey struct{}

// With binds a child logger carrying fields (trace id, user id) to ctx.
func With(ctx context.Context, fields ...any) context.Context {
	return NewContext(ctx, From(ctx).With(fields...))
}

// NewContext binds l as the request scoped logger.
func NewContext(ctx context.Context, l *slog.Logger) context.Context {
	return context.WithValue(ctx, scopedKey{}, l)
}

// From returns the request scoped logger, or the process logger outside a request.
func From(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if l, ok := ctx.Value(scopedKey{}).(*slog.Logger); ok {
			return l
		}
	}
	return LoggerWrapper()
}
