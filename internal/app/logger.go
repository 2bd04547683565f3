package app

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	slogmulti "github.com/samber/slog-multi"
)

// NewLogger returns a configured slog.Logger. Records go to stdout and, when
// LOG_FILE is set, are also appended to that file as JSON. The returned
// closer releases the file.
func NewLogger(cfg *Config) (*slog.Logger, io.Closer, error) {
	return newLogger(cfg, os.Stdout)
}

func newLogger(cfg *Config, stdout io.Writer) (*slog.Logger, io.Closer, error) {
	level := new(slog.LevelVar)
	format := "pretty"
	var file string
	if cfg != nil {
		if cfg.LogLevel != "" {
			if err := level.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
				return nil, nil, fmt.Errorf("app: log level: %w", err)
			}
		}
		format = cfg.LogFormat
		file = cfg.LogFile
	}

	opts := &slog.HandlerOptions{AddSource: true, Level: level}
	var console slog.Handler
	if format == "json" {
		console = slog.NewJSONHandler(stdout, opts)
	} else {
		console = slog.NewTextHandler(stdout, opts)
	}
	if file == "" {
		return slog.New(console), nopCloser{}, nil
	}

	f, err := os.OpenFile(file, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, nil, fmt.Errorf("app: open log file: %w", err)
	}
	handler := slogmulti.Fanout(console, slog.NewJSONHandler(f, opts))
	return slog.New(handler), f, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
