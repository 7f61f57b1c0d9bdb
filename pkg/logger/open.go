package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	slogimpl "github.com/jotter/jotter/pkg/logger/slog"
)

// Formats accepted by Open.
const (
	FormatZerolog = "zerolog"
	FormatSlog    = "slog"
)

type Options struct {
	// Format is FormatZerolog or FormatSlog. Empty means zerolog.
	Format string
	Level  string
	// Path names a file to append to. Writer is used when it is empty.
	Path   string
	Writer io.Writer
	// Console selects zerolog's human readable writer. slog always writes
	// JSON.
	Console bool
}

// Open builds the logger opts describe. The returned func releases the log
// file, if one was opened.
func Open(opts Options) (Logger, func() error, error) {
	switch opts.Format {
	case "", FormatZerolog:
		build := NewBuild().Level(ParseLevel(opts.Level)).Console(opts.Console)
		if opts.Path != "" {
			build = build.FromPath(opts.Path)
		} else if opts.Writer != nil {
			build = build.FromBuffer(opts.Writer)
		}
		data, err := build.Make()
		if err != nil {
			return nil, nil, err
		}
		return data.Sugar(), data.Close, nil

	case FormatSlog:
		w := opts.Writer
		if w == nil {
			w = os.Stderr
		}
		closeFn := func() error { return nil }
		if opts.Path != "" {
			f, err := os.OpenFile(opts.Path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, permission)
			if err != nil {
				return nil, nil, err
			}
			w, closeFn = f, f.Close
		}
		h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: slogimpl.ParseLevel(opts.Level)})
		return New(h), closeFn, nil

	default:
		return nil, nil, fmt.Errorf("unknown log format %q", opts.Format)
	}
}
