package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New constructs a zerolog logger writing to stderr so renders on stdout
// stay clean. Unknown levels fall back to warn.
func New(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.WarnLevel
	}

	writer := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	return zerolog.New(writer).With().Timestamp().Logger().Level(lvl)
}

// Discard returns a logger that drops everything. Tests use it to keep
// output quiet.
func Discard() zerolog.Logger {
	return zerolog.New(io.Discard)
}
