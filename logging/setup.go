package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Format selects the record layout.
type Format string

const (
	FormatPretty Format = "pretty"
	FormatJSON   Format = "json"
)

// Options configures Setup.
type Options struct {
	Format Format
	// Level is a slog level name: debug, info, warn, error.
	Level string
	// File receives the log when set; otherwise Stderr does.
	File      string
	AddSource bool

	// Stderr defaults to os.Stderr.
	Stderr io.Writer
}

// ParseLevel accepts slog level names in any case. Empty means info.
func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if strings.TrimSpace(s) == "" {
		return slog.LevelInfo, nil
	}
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return slog.LevelInfo, fmt.Errorf("log level %q: %w", s, err)
	}
	return level, nil
}

// Setup builds a logger from opts and installs it as the slog default. The
// returned close func releases the log file, if one was opened.
func Setup(opts Options) (*slog.Logger, func() error, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return nil, nil, err
	}

	w := opts.Stderr
	closeFn := func() error { return nil }
	if w == nil {
		w = os.Stderr
	}
	if opts.File != "" {
		if dir := filepath.Dir(opts.File); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, nil, fmt.Errorf("creating log dir: %w", err)
			}
		}
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("opening log file: %w", err)
		}
		w = f
		closeFn = f.Close
	}

	handlerOpts := &slog.HandlerOptions{Level: level, AddSource: opts.AddSource}
	var h slog.Handler
	switch opts.Format {
	case FormatJSON:
		h = NewCompactJSONHandler(w, handlerOpts)
	case FormatPretty, "":
		h = NewPrettyJSONHandler(w, handlerOpts)
	default:
		_ = closeFn()
		return nil, nil, fmt.Errorf("unknown log format %q", opts.Format)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger, closeFn, nil
}
