// Package logging provides a small logging interface over slog so that
// environments and experiments can log without depending on a concrete
// logger. Any structured logger can be plugged in through Logger.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// LogLevel is the minimum level a Logger built by this package logs at
type LogLevel int

const (
	LevelDebug LogLevel = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l LogLevel) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// ParseLogLevel parses a case-insensitive level name such as "info"
func ParseLogLevel(s string) (LogLevel, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return LevelDebug, nil
	case "INFO":
		return LevelInfo, nil
	case "WARN", "WARNING":
		return LevelWarn, nil
	case "ERROR":
		return LevelError, nil
	}
	return LevelInfo, fmt.Errorf("parseLogLevel: unknown log level %q", s)
}

// SlogLevel converts the LogLevel to a slog.Level. Unknown levels map
// to slog.LevelInfo.
func (l LogLevel) SlogLevel() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Logger is the minimal logging interface used throughout the module.
// Arguments after the message are slog-style key/value pairs.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

// SlogAdapter wraps *slog.Logger to implement the Logger interface
type SlogAdapter struct {
	*slog.Logger
}

// NewSlogAdapter creates a Logger from *slog.Logger
func NewSlogAdapter(logger *slog.Logger) Logger {
	return &SlogAdapter{Logger: logger}
}

// NewDefaultSlogLogger creates a Logger using slog.Default()
func NewDefaultSlogLogger() Logger {
	return NewSlogAdapter(slog.Default())
}

// NewTextLogger returns a Logger writing logfmt-style text to w at
// the given minimum level
func NewTextLogger(w io.Writer, level LogLevel) Logger {
	handler := slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: level.SlogLevel(),
	})
	return NewSlogAdapter(slog.New(handler))
}

// With returns a Logger that attaches the argument key/value pairs to
// every entry. Loggers other than *SlogAdapter are returned unchanged.
func With(l Logger, args ...any) Logger {
	if s, ok := l.(*SlogAdapter); ok {
		return &SlogAdapter{Logger: s.Logger.With(args...)}
	}
	return l
}

// NoOpLogger discards all log messages
type NoOpLogger struct{}

func (NoOpLogger) Debug(string, ...any) {}
func (NoOpLogger) Info(string, ...any)  {}
func (NoOpLogger) Warn(string, ...any)  {}
func (NoOpLogger) Error(string, ...any) {}
