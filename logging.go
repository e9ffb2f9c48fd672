package conflate

import (
	"log/slog"
	"time"
)

// LogEvent describes one library operation for logging. Op is one of
// "load.provider" (a provider step, Index set), "load.commit",
// "append.commit", or "evaluate" (Engine and Expr set).
type LogEvent struct {
	Op       string
	Index    int
	Engine   string
	Expr     string
	Snapshot string
	Duration time.Duration
	Err      error
}

// Logger records library events.
type Logger interface {
	Log(LogEvent)
}

// LoggerFunc adapts a function to Logger.
type LoggerFunc func(LogEvent)

// Log implements Logger.
func (f LoggerFunc) Log(event LogEvent) {
	if f != nil {
		f(event)
	}
}

type noopLogger struct{}

func (noopLogger) Log(LogEvent) {}

// WithLogger attaches a logger to the Config.
func WithLogger(logger Logger) Option {
	return func(cfg *config) {
		if logger == nil {
			cfg.logger = noopLogger{}
			return
		}
		cfg.logger = logger
	}
}

// SlogLogger bridges the Logger seam to a *slog.Logger. Failed operations
// log at error level, everything else at debug.
func SlogLogger(logger *slog.Logger) Logger {
	return LoggerFunc(func(event LogEvent) {
		if logger == nil {
			return
		}
		args := []any{slog.Duration("duration", event.Duration)}
		if event.Snapshot != "" {
			args = append(args, slog.String("snapshot", event.Snapshot))
		}
		if event.Op == "load.provider" {
			args = append(args, slog.Int("provider", event.Index))
		}
		if event.Engine != "" {
			args = append(args, slog.String("engine", event.Engine))
		}
		if event.Expr != "" {
			args = append(args, slog.String("expr", event.Expr))
		}
		if event.Err != nil {
			args = append(args, slog.Any("error", event.Err))
			logger.Error(event.Op, args...)
			return
		}
		logger.Debug(event.Op, args...)
	})
}
