// Package logtrace provides logging and tracing utilities for the application.
// It integrates with zerolog for structured logging and supports request tracing.
package logtrace

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger initializes the global logger with Unix millisecond timestamps
// writing JSON lines to stderr at the given level.
func InitLogger(level zerolog.Level) {
	InitLoggerWithWriter(os.Stderr, level)
}

// InitConsoleLogger initializes the global logger with a human readable console writer.
// Used by the CLI, where log lines are read by a person rather than a collector.
func InitConsoleLogger(level zerolog.Level, noColor bool) {
	InitLoggerWithWriter(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		NoColor:    noColor,
		TimeFormat: "15:04:05",
	}, level)
}

// InitLoggerWithWriter initializes the global logger on an arbitrary writer.
func InitLoggerWithWriter(w io.Writer, level zerolog.Level) {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	log.Logger = zerolog.New(w).Level(level).With().Timestamp().Logger()
}
