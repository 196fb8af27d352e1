// Package logging builds the runtime logger. While the TUI owns the terminal
// output goes only to the configured file.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"sakura/internal/config"
)

const appName = "sakura"

// Logger wraps the charm logger and the optional file it writes to.
type Logger struct {
	*log.Logger
	path      string
	closeFile func() error
}

// NewFile logs in logfmt to cfg.File, or discards everything when no file is
// configured.
func NewFile(cfg config.Log) (*Logger, error) {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse logging level %q: %w", cfg.Level, err)
	}
	if cfg.File == "" {
		return &Logger{Logger: log.NewWithOptions(io.Discard, log.Options{Level: level})}, nil
	}
	if err := os.MkdirAll(filepath.Dir(cfg.File), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	f, err := os.OpenFile(cfg.File, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	l := log.NewWithOptions(f, log.Options{
		Level:           level,
		Prefix:          appName,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       log.LogfmtFormatter,
	})
	return &Logger{Logger: l, path: cfg.File, closeFile: f.Close}, nil
}

// NewConsole logs styled text to w.
func NewConsole(w io.Writer, cfg config.Log) (*Logger, error) {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parse logging level %q: %w", cfg.Level, err)
	}
	if w == nil {
		w = io.Discard
	}
	l := log.NewWithOptions(w, log.Options{
		Level:           level,
		Prefix:          appName,
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339,
		Formatter:       log.TextFormatter,
	})
	return &Logger{Logger: l}, nil
}

// Path returns the log file path, or "" when not logging to a file.
func (l *Logger) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

func (l *Logger) Close() error {
	if l == nil || l.closeFile == nil {
		return nil
	}
	return l.closeFile()
}
