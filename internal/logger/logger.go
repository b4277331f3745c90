// Package logger builds charmbracelet/log loggers for the CLI.
package logger

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// New creates a stderr logger with the given prefix at the global level.
func New(prefix string) *log.Logger {
	return NewWithWriter(os.Stderr, prefix, log.GetLevel())
}

// NewWithWriter creates a logger writing to w, for tests and redirection.
func NewWithWriter(w io.Writer, prefix string, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		Prefix:          prefix,
		Level:           level,
		ReportCaller:    false,
		ReportTimestamp: false,
		Formatter:       log.TextFormatter,
	})
}

// SetVerbose switches the global level between info and debug.
func SetVerbose(verbose bool) {
	if verbose {
		log.SetLevel(log.DebugLevel)
		return
	}
	log.SetLevel(log.InfoLevel)
}
