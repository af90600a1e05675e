// Package logging builds the process logger.
//
// The TUI owns stdout/stderr, so logs only go to a file when one is configured
// (TODO_DEBUG_LOG or debug_log in config.toml); otherwise they are discarded.
package logging

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	charmlog "github.com/charmbracelet/log"
)

// Open returns a logger writing logfmt lines to path, and a closer for the file.
// An empty path yields a logger that discards everything.
func Open(path string, level string) (*slog.Logger, io.Closer, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return Discard(), nopCloser{}, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, nil, fmt.Errorf("open log file: %w", err)
	}
	return New(f, level), f, nil
}

// New returns a logger writing to w.
func New(w io.Writer, level string) *slog.Logger {
	h := charmlog.NewWithOptions(w, charmlog.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       charmlog.LogfmtFormatter,
		Level:           parseLevel(level),
		Prefix:          "todo",
	})
	return slog.New(h)
}

func Discard() *slog.Logger {
	return slog.New(charmlog.NewWithOptions(io.Discard, charmlog.Options{Level: charmlog.FatalLevel}))
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

func parseLevel(s string) charmlog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "info":
		return charmlog.InfoLevel
	case "warn", "warning":
		return charmlog.WarnLevel
	case "error":
		return charmlog.ErrorLevel
	default:
		return charmlog.DebugLevel
	}
}
