// Package logging builds the zerolog logger shared by all components.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// New returns a logger writing to stderr. Format "console" is human readable,
// anything else produces JSON lines.
func New(format, level string) (zerolog.Logger, error) {
	return NewWithWriter(os.Stderr, format, level)
}

// NewWithWriter is New with an explicit destination
func NewWithWriter(w io.Writer, format, level string) (zerolog.Logger, error) {
	if strings.TrimSpace(level) == "" {
		level = "info"
	}
	parsedLevel, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(level)))
	if err != nil {
		return zerolog.Logger{}, fmt.Errorf("parse log level %q: %w", level, err)
	}

	writer := w
	if strings.EqualFold(strings.TrimSpace(format), "console") {
		writer = zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
		}
	}

	logger := zerolog.New(writer).
		Level(parsedLevel).
		With().
		Timestamp().
		Str("service", "mdtranslate").
		Logger()

	return logger, nil
}
