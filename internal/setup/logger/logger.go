package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// New builds the JSON stdout logger used by non-interactive workers (the
// audit consumer). Interactive entrypoints use a ConsoleWriter instead.
// Unrecognized levels fall back to info.
func New(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}

	return zerolog.New(os.Stdout).
		Level(lvl).
		With().
		Timestamp().
		Caller().
		Logger()
}
