package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// New returns a structured stdout logger with timestamps.
func New() zerolog.Logger {
	return zerolog.New(os.Stdout).With().Timestamp().Logger()
}
