// Package logging configures the process-wide zerolog logger. Diagnostics
// always go to stderr: several commands speak a stdout protocol (hook
// JSON, statusline text) that must stay clean.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/charmbracelet/x/term"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Setup installs the global logger. Verbose enables debug level; warnings
// and up are shown otherwise.
func Setup(verbose bool) {
	level := zerolog.WarnLevel
	if verbose {
		level = zerolog.DebugLevel
	}

	var out io.Writer = os.Stderr
	if term.IsTerminal(os.Stderr.Fd()) {
		out = zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.Kitchen,
		}
	}

	log.Logger = zerolog.New(out).Level(level).With().Timestamp().Logger()
}
