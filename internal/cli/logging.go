// Package cli holds the console-facing pieces of the tool: logger setup,
// sync progress output, and listing rendering. Keeping them here leaves the
// sync engine free of presentation concerns.
package cli

import (
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger builds the console logger. Unknown level names fall back to info
// rather than failing startup.
func NewLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	writer := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.TimeOnly}
	return zerolog.New(writer).Level(lvl).With().Timestamp().Logger()
}
