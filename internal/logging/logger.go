// Package logging builds the process-wide slog logger from config.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

type Params struct {
	Level  string
	File   string
	Stdout bool
	JSON   bool
}

// Setup returns a logger writing to stdout, a rotated file, or both. The
// returned closer releases the log file and is never nil.
func Setup(p Params) (*slog.Logger, io.Closer, error) {
	level, err := ParseLevel(p.Level)
	if err != nil {
		return nil, nil, err
	}

	var writers []io.Writer
	var closer io.Closer = nopCloser{}
	if p.Stdout {
		writers = append(writers, os.Stdout)
	}
	if p.File != "" {
		lj := &lumberjack.Logger{
			Filename:  p.File,
			MaxSize:   50, // megabytes
			LocalTime: false,
			Compress:  true,
		}
		writers = append(writers, lj)
		closer = lj
	}
	if len(writers) == 0 {
		writers = append(writers, os.Stderr)
	}

	return New(NewCombinedWriter(writers...), level, p.JSON), closer, nil
}

// New returns a logger on w without file rotation.
func New(w io.Writer, level slog.Level, json bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if json {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
