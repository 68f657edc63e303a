// Package logging builds the process logr.Logger on top of zerolog.
//
// Output always goes to stderr: stdout carries the stdio protocol stream.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/go-logr/logr"
	"github.com/go-logr/zerologr"
	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Options select the verbosity and an optional log file.
type Options struct {
	Verbose bool
	Debug   bool
	File    string
}

// Level maps the flags to a zerolog level: error by default, info when
// verbose, debug (logr V(1)) when debugging.
func Level(verbose, debug bool) zerolog.Level {
	switch {
	case debug:
		return zerolog.DebugLevel
	case verbose:
		return zerolog.InfoLevel
	default:
		return zerolog.ErrorLevel
	}
}

// New returns the root logger and a closer for the log file, if any.
func New(opts Options) (logr.Logger, io.Closer) {
	var w io.Writer = os.Stderr
	if isatty.IsTerminal(os.Stderr.Fd()) {
		w = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
	}

	var closer io.Closer = nopCloser{}
	if opts.File != "" {
		file := &lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10, // megabytes
			MaxBackups: 3,
			MaxAge:     28, // days
		}
		w = io.MultiWriter(w, file)
		closer = file
	}

	return newWithWriter(w, Level(opts.Verbose, opts.Debug)), closer
}

func newWithWriter(w io.Writer, level zerolog.Level) logr.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnixMs
	zerologr.NameFieldName = "logger"
	zerologr.NameSeparator = "/"

	zl := zerolog.New(w).Level(level).With().Timestamp().Logger()
	return zerologr.New(&zl)
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
