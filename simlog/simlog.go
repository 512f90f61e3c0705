// Package simlog provides the package-level structured logger used by the
// wire calculator.
//
// It follows the same shape as gnark's logger package: a zerolog.Logger
// built once with sane defaults (a console writer on stderr, silenced when
// running under go test), overridable by an embedding application via Set,
// and silenceable via Disable.
package simlog

import (
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Debug keeps the default logger on under go test. It is read only once,
// when the package initializes, before any importer can assign it; assigning
// it afterwards does not re-enable a logger that was silenced.
var Debug bool

var logger zerolog.Logger

func init() {
	output := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}
	logger = zerolog.New(output).With().Timestamp().Str("component", "nmossim").Logger()

	if !Debug && strings.HasSuffix(os.Args[0], ".test") {
		logger = zerolog.Nop()
	}
}

// Logger returns the shared logger.
func Logger() *zerolog.Logger { return &logger }

// Set overrides the shared logger, e.g. so an embedding chip driver can
// route nmossim's log lines into its own structured logger.
func Set(l zerolog.Logger) { logger = l }

// Disable silences all logging from this package.
func Disable() { logger = zerolog.Nop() }
