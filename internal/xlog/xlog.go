// Package xlog wraps zerolog for the decoder internals: a package-level
// logger that is silent by default (this is a library, not a service)
// until a caller opts in via SetLevel, plus helpers mirroring the
// zerolog event-builder style used throughout.
//
// Grounded on HandmadeNetwork-hmn's src/logging/logging.go: a global
// *zerolog.Logger plus Trace/Debug/Info/Warn/Error wrapper functions.
// The console pretty-printer there is HMN-service-specific (colorized
// multiline panic/stack rendering for a dev server); a decode library
// instead writes through zerolog's own zerolog.ConsoleWriter, which is
// already the ecosystem's standard human-readable sink.
package xlog

import (
	"os"

	"github.com/rs/zerolog"
)

var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
	Level(zerolog.Disabled).
	With().Timestamp().Logger()

// SetLevel adjusts the package logger's verbosity. Libraries default to
// zerolog.Disabled; callers (notably cmd/xiloader) opt in explicitly.
func SetLevel(level zerolog.Level) {
	logger = logger.Level(level)
}

// Logger returns the package-level logger, for callers that want direct
// access (e.g. to attach it to a context).
func Logger() *zerolog.Logger {
	return &logger
}

func Trace() *zerolog.Event { return logger.Trace() }
func Debug() *zerolog.Event { return logger.Debug() }
func Info() *zerolog.Event  { return logger.Info() }
func Warn() *zerolog.Event  { return logger.Warn() }
func Error() *zerolog.Event { return logger.Error() }

func With() zerolog.Context { return logger.With() }
