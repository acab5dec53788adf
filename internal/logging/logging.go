package logging

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// New returns a sub-logger of the global logger tagged with component.
func New(component string) zerolog.Logger {
	return log.With().
		Str("component", component).
		Logger()
}

// Setup points the global logger at the file at path. The terminal belongs to
// the TUI while it runs, so diagnostics never go to stdout/stderr.
func Setup(path string, debug bool) (io.Closer, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	Configure(f, debug)
	return f, nil
}

func Configure(out io.Writer, debug bool) {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        out,
		NoColor:    true,
		TimeFormat: time.RFC3339,
	}).With().Timestamp().Logger()
}
