// Package logger is the process-wide leveled logger used by the sync server,
// the CLI and the persistence layer. Lines are JSON by default (zerolog);
// SetOutput with ConsoleWriter gives human readable output on a terminal.
package logger

import (
	"io"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

var (
	mu    sync.RWMutex
	out   io.Writer = os.Stdout
	level           = zerolog.InfoLevel
	log             = build(out, level)
)

func build(w io.Writer, l zerolog.Level) zerolog.Logger {
	return zerolog.New(w).Level(l).With().Timestamp().Logger()
}

// Init sets the minimum level: debug, info, warn (or warning), error, fatal,
// case-insensitive. Anything else means info.
func Init(l string) {
	s := strings.ToLower(strings.TrimSpace(l))
	if s == "warning" {
		s = "warn"
	}
	parsed, err := zerolog.ParseLevel(s)
	if err != nil || parsed < zerolog.DebugLevel || parsed > zerolog.FatalLevel {
		parsed = zerolog.InfoLevel
	}

	mu.Lock()
	defer mu.Unlock()
	level = parsed
	log = build(out, level)
}

// SetOutput redirects log lines to w, keeping the level.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	out = w
	log = build(out, level)
}

// ConsoleWriter wraps w for terminals.
func ConsoleWriter(w io.Writer) io.Writer {
	return zerolog.ConsoleWriter{Out: w, TimeFormat: "15:04:05"}
}

// LevelString returns the current level as text.
func LevelString() string {
	mu.RLock()
	defer mu.RUnlock()
	return level.String()
}

func current() *zerolog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	l := log
	return &l
}

func Debugf(format string, v ...interface{}) { current().Debug().Msgf(format, v...) }

func Infof(format string, v ...interface{}) { current().Info().Msgf(format, v...) }

func Warnf(format string, v ...interface{}) { current().Warn().Msgf(format, v...) }

func Errorf(format string, v ...interface{}) { current().Error().Msgf(format, v...) }

// Fatalf logs and exits with status 1.
func Fatalf(format string, v ...interface{}) {
	current().WithLevel(zerolog.FatalLevel).Msgf(format, v...)
	os.Exit(1)
}
