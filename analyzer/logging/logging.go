// Package logging builds the zerolog loggers used by the command-line host.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Output formats.
const (
	FormatConsole = "console"
	FormatJSON    = "json"
)

// Options configure New.
type Options struct {
	// Level is a zerolog level name ("debug", "info", ...). Empty means info.
	Level string
	// Format is FormatConsole or FormatJSON. Empty means console.
	Format string
	// Out receives the log lines. Nil means stderr.
	Out io.Writer
	// NoColor disables colors in console output.
	NoColor bool
}

// New returns a logger for opts. Log lines go to stderr by default so
// that command output on stdout stays machine-readable.
func New(opts Options) (zerolog.Logger, error) {
	level := zerolog.InfoLevel
	if opts.Level != "" {
		l, err := zerolog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return zerolog.Nop(), fmt.Errorf("parse log level: %w", err)
		}
		level = l
	}

	out := opts.Out
	if out == nil {
		out = os.Stderr
	}

	switch opts.Format {
	case "", FormatConsole:
		out = zerolog.ConsoleWriter{
			Out:        out,
			NoColor:    opts.NoColor,
			TimeFormat: time.TimeOnly,
		}
	case FormatJSON:
	default:
		return zerolog.Nop(), fmt.Errorf("unknown log format %q", opts.Format)
	}

	return zerolog.New(out).Level(level).With().Timestamp().Logger(), nil
}
