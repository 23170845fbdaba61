// Package logger provides leveled diagnostics for mailfacts on log/slog.
// Debug messages are only emitted when verbose mode is enabled via --verbose.
package logger

import (
	"io"
	"log/slog"
	"os"
	"sync"
)

var (
	mu           sync.RWMutex
	programLevel = new(slog.LevelVar)
	logger       = newLogger(os.Stderr)
)

func newLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: programLevel}))
}

// SetVerbose enables or disables debug output.
func SetVerbose(v bool) {
	if v {
		programLevel.Set(slog.LevelDebug)
		return
	}
	programLevel.Set(slog.LevelInfo)
}

// IsVerbose returns true if debug output is enabled.
func IsVerbose() bool {
	return programLevel.Level() <= slog.LevelDebug
}

// SetOutput redirects log output. Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	logger = newLogger(w)
}

// L returns the process-wide logger, e.g. for http middleware.
func L() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// Debug logs at debug level; args are slog key/value pairs.
func Debug(msg string, args ...any) {
	L().Debug(msg, args...)
}

// Info logs at info level.
func Info(msg string, args ...any) {
	L().Info(msg, args...)
}

// Warn logs at warn level.
func Warn(msg string, args ...any) {
	L().Warn(msg, args...)
}

// Error logs at error level.
func Error(msg string, args ...any) {
	L().Error(msg, args...)
}
