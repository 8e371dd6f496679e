// Package logger provides modifications to charmbracelet/log's default logger to be used in various files/packages.
package logger

import (
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	mu        sync.RWMutex
	output    io.Writer     = os.Stderr
	formatter log.Formatter = log.TextFormatter
)

// SetOutput redirects the default logger and every logger created afterwards.
// stdout is reserved for IPC payloads, so the default is stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	output = w
	mu.Unlock()
	log.SetOutput(w)
}

// SetFormatter switches the default logger and every logger created
// afterwards to f, e.g. log.JSONFormatter.
func SetFormatter(f log.Formatter) {
	mu.Lock()
	formatter = f
	mu.Unlock()
	log.SetFormatter(f)
}

// Output returns the writer new loggers are attached to.
func Output() io.Writer {
	mu.RLock()
	defer mu.RUnlock()
	return output
}

// New creates a new default charm log that respects the global log level.
func New(prefix string) *log.Logger {
	return log.NewWithOptions(Output(), log.Options{
		Prefix:          prefix,
		ReportCaller:    false,
		ReportTimestamp: log.GetLevel() <= log.DebugLevel,
		Formatter:       currentFormatter(),
		Level:           log.GetLevel(),
	})
}

// NewWithConfig creates a new charm log with custom config
func NewWithConfig(prefix string, level log.Level, caller bool, showTimestamp bool, fmt log.Formatter) *log.Logger {
	return log.NewWithOptions(Output(), log.Options{
		Prefix:          prefix,
		Level:           level,
		ReportCaller:    caller,
		ReportTimestamp: showTimestamp,
		Formatter:       fmt,
	})
}

func currentFormatter() log.Formatter {
	mu.RLock()
	defer mu.RUnlock()
	return formatter
}
