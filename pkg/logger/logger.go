// Package logger is the logging seam used across jotter. Components accept a
// Logger and never reach for a global.
package logger

import (
	"io"
	"log/slog"
	"os"

	"github.com/rs/zerolog"

	slogimpl "github.com/jotter/jotter/pkg/logger/slog"
)

const (
	permission = 0o664
)

// Logger takes a message followed by alternating keys and values.
type Logger interface {
	Error(msg string, args ...any)
	Warn(msg string, args ...any)
	Info(msg string, args ...any)
	Debug(msg string, args ...any)
}

// New wraps a slog handler.
func New(h slog.Handler) Logger {
	return slogimpl.New(h)
}

// Nop discards everything.
func Nop() Logger {
	return NewZerolog(zerolog.Nop())
}

type LogBuild struct {
	writer  io.Writer
	path    string
	level   zerolog.Level
	console bool
}

type LogData struct {
	LogFile *os.File
	Logger  zerolog.Logger
}

func NewBuild() *LogBuild {
	return &LogBuild{level: zerolog.InfoLevel}
}

func (build *LogBuild) FromPath(path string) *LogBuild {
	build.path = path
	return build
}

func (build *LogBuild) FromBuffer(w io.Writer) *LogBuild {
	build.writer = w
	return build
}

func (build *LogBuild) Level(level zerolog.Level) *LogBuild {
	build.level = level
	return build
}

// Console switches to zerolog's human readable writer.
func (build *LogBuild) Console(console bool) *LogBuild {
	build.console = console
	return build
}

func (build *LogBuild) Make() (logData *LogData, err error) {
	logData = new(LogData)
	writer := build.writer
	if writer == nil {
		writer = os.Stderr
	}
	if build.path != "" {
		logData.LogFile, err = os.OpenFile(build.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, permission)
		if err != nil {
			return nil, err
		}
		writer = zerolog.SyncWriter(logData.LogFile)
	}
	if build.console {
		writer = zerolog.ConsoleWriter{Out: writer, TimeFormat: "15:04:05"}
	}
	logData.Logger = zerolog.New(writer).Level(build.level).With().Timestamp().Logger()
	return
}

// Close releases the log file, if any.
func (logData *LogData) Close() error {
	if logData.LogFile == nil {
		return nil
	}
	return logData.LogFile.Close()
}

// Sugar exposes the built zerolog logger through the Logger interface.
func (logData *LogData) Sugar() Logger {
	return NewZerolog(logData.Logger)
}

type zerologLogger struct {
	zl zerolog.Logger
}

// NewZerolog adapts a zerolog.Logger.
func NewZerolog(zl zerolog.Logger) Logger {
	return &zerologLogger{zl: zl}
}

func (l *zerologLogger) Error(msg string, args ...any) {
	l.zl.Error().Fields(args).Msg(msg)
}

func (l *zerologLogger) Warn(msg string, args ...any) {
	l.zl.Warn().Fields(args).Msg(msg)
}

func (l *zerologLogger) Info(msg string, args ...any) {
	l.zl.Info().Fields(args).Msg(msg)
}

func (l *zerologLogger) Debug(msg string, args ...any) {
	l.zl.Debug().Fields(args).Msg(msg)
}

// ParseLevel maps a config string to a zerolog level, defaulting to info.
func ParseLevel(s string) zerolog.Level {
	level, err := zerolog.ParseLevel(s)
	if err != nil || s == "" {
		return zerolog.InfoLevel
	}
	return level
}
