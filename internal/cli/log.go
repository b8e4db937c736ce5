package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger creates the CLI logger. Timestamps are "HH:MM:SS.cc" so that
// render and cache timings line up in --verbose output.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// manifestLogger tags every line logged while one manifest is processed.
func manifestLogger(l *log.Logger, path string) *log.Logger {
	if path == stdinArg {
		path = "stdin"
	}
	return l.With("manifest", path)
}

// logElapsed logs msg at debug level with the time since start appended to
// keyvals.
func logElapsed(l *log.Logger, start time.Time, msg string, keyvals ...any) {
	l.Debug(msg, append(keyvals, "elapsed", time.Since(start).Round(time.Millisecond))...)
}

type ctxKey int

const loggerKey ctxKey = 0

func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext returns the logger attached by setup, or log.Default()
// outside a command.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}
