// Package logging configures the zerolog logger shared by the CLI and server.
package logging

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Formats accepted by Config.Format.
const (
	FormatJSON   = "json"
	FormatPretty = "pretty"
)

// Config controls log level and output shape.
type Config struct {
	Level        string `json:"level,omitempty"`  // debug, info, warn, error
	Format       string `json:"format,omitempty"` // json or pretty
	TimeFormat   string `json:"time_format,omitempty"`
	ReportCaller bool   `json:"report_caller,omitempty"`
}

// New builds a logger writing to out. Unknown levels fall back to info.
func New(cfg Config, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}

	if cfg.Format == FormatPretty {
		out = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: timeFormat(cfg.TimeFormat),
		}
	}

	ctx := zerolog.New(out).Level(level).With().Timestamp()
	if cfg.ReportCaller {
		ctx = ctx.Caller()
	}
	return ctx.Logger()
}

// Init builds a stderr logger and installs it as the zerolog global.
func Init(cfg Config) zerolog.Logger {
	zerolog.TimeFieldFormat = timeFormat(cfg.TimeFormat)

	logger := New(cfg, os.Stderr)
	log.Logger = logger
	return logger
}

func timeFormat(f string) string {
	if f == "" {
		return time.RFC3339
	}
	return f
}
