package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Init configures the global zerolog logger.
// format "text" writes human-readable console lines, anything else writes JSON.
func Init(level, format string) error {
	logger, err := New(os.Stderr, level, format)
	if err != nil {
		return err
	}
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = logger
	return nil
}

// New builds a logger writing to w
func New(w io.Writer, level, format string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}
	if lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}

	if strings.EqualFold(format, "text") {
		w = zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339}
	}
	return zerolog.New(w).Level(lvl).With().
		Timestamp().
		Str("service", "agendapdf").
		Logger(), nil
}

// Get returns the global logger
func Get() *zerolog.Logger {
	return &log.Logger
}
