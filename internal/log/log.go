// Package log sets up the default slog logger and carries loggers in contexts.
package log

import (
	"context"
	"log/slog"
	"os"
)

// Debug switches the default logger to debug level. Fetchers also store the
// fetched pages in their debug directory when it is set.
var Debug bool

type ctxKey string

const loggerCtxKey ctxKey = "logger"

func level() slog.Level {
	if Debug {
		return slog.LevelDebug
	}
	return slog.LevelInfo
}

func InitializeDefaultLogger() {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level()}))
	slog.SetDefault(logger)
}

func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerCtxKey, logger)
}

func LoggerFromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerCtxKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}
