package arucolite

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// newLogger builds the per-stage trace logger gated by Config.Verbose.
// When verbose is false the logger is set to zerolog.Disabled, which
// short-circuits every call site at the level check, before any event
// fields are ever built — the same near-zero cost the reference
// implementation's disabled debug() hook was presumably meant to have.
func newLogger(verbose bool) zerolog.Logger {
	var out io.Writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05.000"}
	logger := zerolog.New(out).With().Timestamp().Logger()
	if !verbose {
		logger = logger.Level(zerolog.Disabled)
	}
	return logger
}
