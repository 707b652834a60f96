// Package logging builds the structured loggers used by the engine and the CLI.
package logging

import (
	"io"
	"os"

	"github.com/sirupsen/logrus"
)

// Field names attached to engine log entries
const (
	FieldRunID   = "run_id"
	FieldWorker  = "worker"
	FieldTest    = "test"
	FieldAttempt = "attempt"
	FieldSuite   = "suite"
)

type options struct {
	writer    io.Writer
	verbosity int
	noColor   bool
}

// Option configures a logger
type Option func(*options)

// WithWriter sets the log destination (default: stderr)
func WithWriter(w io.Writer) Option {
	return func(o *options) {
		o.writer = w
	}
}

// WithVerbosity maps a -v count to a level: 0=info, 1=debug, 2+=trace
func WithVerbosity(v int) Option {
	return func(o *options) {
		o.verbosity = v
	}
}

// WithNoColor disables colored level names
func WithNoColor(nc bool) Option {
	return func(o *options) {
		o.noColor = nc
	}
}

// New creates a logger writing human-readable text lines
func New(opts ...Option) *logrus.Logger {
	o := &options{writer: os.Stderr}
	for _, opt := range opts {
		opt(o)
	}

	l := logrus.New()
	l.SetOutput(o.writer)
	l.SetLevel(levelFor(o.verbosity))
	l.SetFormatter(&logrus.TextFormatter{
		DisableColors:    o.noColor,
		DisableTimestamp: true,
		DisableQuote:     true,
	})
	return l
}

// Discard returns a logger that drops everything. Used as the default when no
// logger is configured.
func Discard() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func levelFor(verbosity int) logrus.Level {
	switch {
	case verbosity >= 2:
		return logrus.TraceLevel
	case verbosity == 1:
		return logrus.DebugLevel
	default:
		return logrus.InfoLevel
	}
}
