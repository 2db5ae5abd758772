package logger

import (
	"io"
	"log/slog"
	"os"
)

// Logger is the service-wide structured logger.
type Logger struct {
	*slog.Logger
}

// New logs text records to stdout at the given slog level
// (-4 debug, 0 info, 4 warn, 8 error).
func New(level int) *Logger {
	return NewWithWriter(os.Stdout, level)
}

// NewWithWriter logs text records to w.
func NewWithWriter(w io.Writer, level int) *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.Level(level)})),
	}
}

// Fatal logs at error level and exits with status 1. Deferred calls do not run.
func (l *Logger) Fatal(msg string, args ...any) {
	l.Logger.Error(msg, args...)
	os.Exit(1)
}
