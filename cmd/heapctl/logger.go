package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
)

type logOptions struct {
	Level string // empty disables logging
	File  string // empty logs to stderr
}

var logOut io.Closer

// newLogger builds the process logger. File output is JSON, terminal output is text.
func newLogger(opts logOptions) (*slog.Logger, error) {
	if opts.Level == "" {
		return slog.New(slog.DiscardHandler), nil
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
		return nil, fmt.Errorf("invalid --log-level %q: %w", opts.Level, err)
	}
	hopts := &slog.HandlerOptions{Level: level}

	if opts.File == "" {
		return slog.New(slog.NewTextHandler(os.Stderr, hopts)), nil
	}
	f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	logOut = f
	return slog.New(slog.NewJSONHandler(f, hopts)), nil
}

func closeLogger() error {
	if logOut == nil {
		return nil
	}
	err := logOut.Close()
	logOut = nil
	return err
}
