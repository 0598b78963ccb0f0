// Package logger configures the global zerolog logger from command line options.
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger is a go-flags option group.
type Logger struct {
	Level   string `long:"log-level"  env:"LOG_LEVEL"  description:"Log level" choice:"trace" choice:"debug" choice:"info" choice:"warn" choice:"error" choice:"fatal" choice:"panic" choice:"disabled" default:"info"`
	Format  string `long:"log-format" env:"LOG_FORMAT" description:"Log output format" choice:"console" choice:"json" default:"console"`
	NoColor bool   `long:"log-no-color" env:"LOG_NO_COLOR" description:"Disable colors in console output"`
}

// Setup applies the options to the global logger, writing to stderr.
func (l Logger) Setup() {
	log.Logger = l.New(os.Stderr)
}

// New builds a logger writing to w and sets the global level.
func (l Logger) New(w io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(l.Level)
	if err != nil || l.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if l.Format == "console" || l.Format == "" {
		w = zerolog.ConsoleWriter{
			Out:        w,
			NoColor:    l.NoColor,
			TimeFormat: time.RFC3339,
		}
	}

	return zerolog.New(w).With().Timestamp().Logger()
}
