package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/m-mizutani/clog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/masq"
)

var (
	mu            sync.RWMutex
	defaultLogger = newConsole(os.Stdout, slog.LevelInfo)
)

// Default returns the process-wide logger.
func Default() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}

// SetDefault replaces the process-wide logger.
func SetDefault(logger *slog.Logger) {
	mu.Lock()
	defer mu.Unlock()
	defaultLogger = logger
}

type ctxKey struct{}

// With embeds a logger into the context.
func With(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// From extracts the logger from the context, falling back to Default.
func From(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return logger
	}
	return Default()
}

func newConsole(w io.Writer, level slog.Level) *slog.Logger {
	handler := clog.New(
		clog.WithWriter(w),
		clog.WithLevel(level),
		clog.WithSource(true),
		clog.WithReplaceAttr(filter()),
	)
	return slog.New(handler)
}

// filter masks credential material in log output. Fields tagged
// `masq:"secret"` are redacted regardless of handler format.
func filter() func(groups []string, a slog.Attr) slog.Attr {
	return masq.New(
		masq.WithTag("secret"),
		masq.WithFieldName("Secret"),
	)
}

// New builds a logger for the given format ("console" or "json") and level.
func New(w io.Writer, level slog.Level, format string) (*slog.Logger, error) {
	switch format {
	case "console":
		return newConsole(w, level), nil
	case "json":
		handler := slog.NewJSONHandler(w, &slog.HandlerOptions{
			AddSource:   true,
			Level:       level,
			ReplaceAttr: filter(),
		})
		return slog.New(handler), nil
	default:
		return nil, goerr.New("unknown log format", goerr.V("format", format))
	}
}
