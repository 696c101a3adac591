package kdtree

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"
)

// Logger wraps slog.Logger with kd-tree specific context.
// This provides structured logging with consistent field names.
type Logger struct {
	*slog.Logger
}

// NewLogger creates a new Logger with the given handler.
// If handler is nil, uses default text handler to stderr.
func NewLogger(handler slog.Handler) *Logger {
	if handler == nil {
		handler = slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		})
	}
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewJSONLogger creates a Logger that outputs JSON-formatted logs.
// level sets the minimum log level (e.g., slog.LevelDebug, slog.LevelInfo).
func NewJSONLogger(level slog.Level) *Logger {
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NewTextLogger creates a Logger that outputs human-readable text logs.
func NewTextLogger(level slog.Level) *Logger {
	handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// NoopLogger creates a Logger that discards all log output.
// Use this to disable logging entirely.
func NoopLogger() *Logger {
	handler := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.Level(1000), // Unreachable level
	})
	return &Logger{
		Logger: slog.New(handler),
	}
}

// WithDimension adds a dimension field to the logger.
func (l *Logger) WithDimension(dim int) *Logger {
	return &Logger{
		Logger: l.Logger.With("dimension", dim),
	}
}

// WithCount adds a count field to the logger.
func (l *Logger) WithCount(count int) *Logger {
	return &Logger{
		Logger: l.Logger.With("count", count),
	}
}

// LogInsert logs an insert operation.
func (l *Logger) LogInsert(live int, err error) {
	if err != nil {
		l.Error("insert failed",
			"live", live,
			"error", err,
		)
	} else {
		l.Debug("insert completed",
			"live", live,
		)
	}
}

// LogBatchInsert logs a batch insert operation.
func (l *Logger) LogBatchInsert(count, failed int) {
	if failed > 0 {
		l.Warn("batch insert completed with failures",
			"total", count,
			"failed", failed,
			"success", count-failed,
		)
	} else {
		l.Info("batch insert completed",
			"count", count,
		)
	}
}

// LogSearch logs a k-nearest or radius query.
func (l *Logger) LogSearch(kind string, resultsFound int, err error) {
	if err != nil {
		l.Error("search failed",
			"kind", kind,
			"error", err,
		)
	} else {
		l.Debug("search completed",
			"kind", kind,
			"results", resultsFound,
		)
	}
}

// LogDelete logs a delete operation.
func (l *Logger) LogDelete(live int, err error) {
	if err != nil {
		l.Debug("delete skipped",
			"live", live,
			"error", err,
		)
	} else {
		l.Debug("delete completed",
			"live", live,
		)
	}
}

// LogUpdate logs an update operation.
func (l *Logger) LogUpdate(live int, err error) {
	if err != nil {
		l.Debug("update skipped",
			"live", live,
			"error", err,
		)
	} else {
		l.Debug("update completed",
			"live", live,
		)
	}
}

// LogRebuild logs a completed rebuild. verbose promotes the record to Info.
func (l *Logger) LogRebuild(number, size int, medians []float32, duration time.Duration, verbose bool) {
	level := slog.LevelDebug
	if verbose {
		level = slog.LevelInfo
	}
	l.Log(context.Background(), level, "rebuild completed",
		"rebuild", number,
		"size", size,
		"medians", medians,
		"duration", duration,
	)
}

// LogRejected logs an operation that was skipped without touching the tree.
func (l *Logger) LogRejected(op string, err error) {
	l.Warn("operation rejected",
		"op", op,
		"error", err,
	)
}
