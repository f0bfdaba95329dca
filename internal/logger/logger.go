// Package logger builds the zerolog logger shared by the service.
package logger

import (
	"io"
	"time"

	"github.com/rs/zerolog"

	"github.com/aoideee/bookstore/internal/config"
)

// New returns a logger writing to w. Format "console" gives human readable
// lines for local work; anything else writes one JSON object per event.
func New(w io.Writer, cfg config.LoggingConfig, env string) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}

	if cfg.Format == "console" {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}

	return zerolog.New(w).
		Level(level).
		With().
		Timestamp().
		Str("env", env).
		Logger()
}
