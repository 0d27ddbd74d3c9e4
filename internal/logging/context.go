package logging

import (
	"context"
	"log/slog"
)

type loggerKey struct{}

// WithLogger stashes a logger in the context. The server's tool dispatch
// uses this to hand each call a logger carrying the call ID and a
// per-call record collector.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the logger stashed by WithLogger, or the process
// default when the context has none.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && logger != nil {
		return logger
	}
	return slog.Default()
}
