// Package slog adapts log/slog to jotter's Logger.
package slog

import (
	"log/slog"
	"strings"
)

// Logger forwards to a standard library slog.Logger.
type Logger struct {
	sl *slog.Logger
}

func New(h slog.Handler) *Logger {
	return &Logger{sl: slog.New(h)}
}

func (l *Logger) Error(msg string, args ...any) { l.sl.Error(msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.sl.Warn(msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.sl.Info(msg, args...) }
func (l *Logger) Debug(msg string, args ...any) { l.sl.Debug(msg, args...) }

// ParseLevel accepts the level names the config uses. Unknown names mean
// info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug", "trace":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error", "fatal", "panic":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
