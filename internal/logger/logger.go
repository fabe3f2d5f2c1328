// Package logger provides a small factory around charmbracelet/log so every
// component logs with a consistent prefix and format.
package logger

import (
	"os"
	"sync"

	"github.com/charmbracelet/log"
)

var (
	mu      sync.Mutex
	loggers []*log.Logger
)

// New creates a logger with the default options and the given prefix.
// Loggers are registered so a later SetLevel call applies to all of them,
// including package-level loggers created before the configuration is read.
func New(prefix string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          prefix,
		ReportCaller:    false,
		ReportTimestamp: true,
		Formatter:       log.TextFormatter,
		Level:           log.GetLevel(),
	})

	mu.Lock()
	loggers = append(loggers, logger)
	mu.Unlock()
	return logger
}

// SetLevel parses and applies a log level name ("debug", "info", "warn",
// "error") to the default logger and every logger created by New. Unknown
// names leave the levels unchanged.
func SetLevel(level string) {
	parsed, err := log.ParseLevel(level)
	if err != nil {
		return
	}
	log.SetLevel(parsed)

	mu.Lock()
	defer mu.Unlock()
	for _, logger := range loggers {
		logger.SetLevel(parsed)
	}
}
