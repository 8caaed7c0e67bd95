package logging

import (
	"io"
	"log/slog"
	"os"
)

// Verbose indicates whether verbose (debug) logging is enabled.
var Verbose bool

// Logger is the package-level structured logger. It is replaced by Setup.
var Logger = slog.Default()

// Setup configures the package logger. When verbose is true, debug-level
// records are emitted. When jsonOutput is true, records are formatted as
// JSON instead of text. Records are written to w; a nil writer falls back
// to stderr.
func Setup(verbose, jsonOutput bool, w io.Writer) {
	Verbose = verbose

	if w == nil {
		w = os.Stderr
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if jsonOutput {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	Logger = slog.New(handler)
}

// With returns a logger with the given attributes attached to every record.
func With(args ...any) *slog.Logger {
	return Logger.With(args...)
}

// Debug logs a debug-level message with structured key/value pairs.
func Debug(msg string, args ...any) {
	Logger.Debug(msg, args...)
}

// Info logs an info-level message with structured key/value pairs.
func Info(msg string, args ...any) {
	Logger.Info(msg, args...)
}

// Warn logs a warning-level message with structured key/value pairs.
func Warn(msg string, args ...any) {
	Logger.Warn(msg, args...)
}

// Error logs an error-level message with structured key/value pairs.
func Error(msg string, args ...any) {
	Logger.Error(msg, args...)
}
