// ABOUTME: Leveled diagnostic logging over log/slog, printf style.
// ABOUTME: Writes to stderr by default so users can capture it with `irepl 2>log`.

package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Level constants matching slog levels.
const (
	LevelDebug = slog.LevelDebug
	LevelInfo  = slog.LevelInfo
	LevelWarn  = slog.LevelWarn
	LevelError = slog.LevelError
)

var (
	level  = new(slog.LevelVar)
	mu     sync.RWMutex
	logger = newLogger(os.Stderr)
)

func init() {
	level.Set(LevelWarn)
}

func newLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// SetOutput redirects all log output to w.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger = newLogger(w)
}

// SetLevel sets the global log level.
func SetLevel(l slog.Level) {
	level.Set(l)
}

// GetLevel returns the current log level.
func GetLevel() slog.Level {
	return level.Level()
}

// ParseLevel converts "debug", "info", "warn" or "error" to a level.
// Unknown strings map to warn.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "error":
		return LevelError
	default:
		return LevelWarn
	}
}

func emit(l slog.Level, format string, args []any) {
	if !enabled(l) {
		return
	}
	mu.RLock()
	lg := logger
	mu.RUnlock()
	lg.Log(context.Background(), l, fmt.Sprintf(format, args...))
}

func enabled(l slog.Level) bool {
	return l >= level.Level()
}

// Debug logs a debug message if the level allows it.
func Debug(format string, args ...any) { emit(LevelDebug, format, args) }

// Info logs an info message if the level allows it.
func Info(format string, args ...any) { emit(LevelInfo, format, args) }

// Warn logs a warning message if the level allows it.
func Warn(format string, args ...any) { emit(LevelWarn, format, args) }

// Error logs an error message.
func Error(format string, args ...any) { emit(LevelError, format, args) }
