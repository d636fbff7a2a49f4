// Package klog provides the editor's structured logging, a thin wrapper
// around zerolog generalizing the teacher's hand-rolled app.Logger into the
// field-structured style used elsewhere in the retrieval pack (see
// sacenox-symb's cmd/symb/main.go).
package klog

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Logger wraps a zerolog.Logger with the level/writer plumbing the façade
// needs: a global threshold set once at startup, and a writer that points
// at the per-process log file described in spec §6.
type Logger struct {
	zl zerolog.Logger
}

// New creates a Logger writing to w at the given level.
func New(w io.Writer, level zerolog.Level) *Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(level)
	return &Logger{zl: zerolog.New(w).With().Timestamp().Logger()}
}

// NewDiscard creates a Logger that drops everything, used by tests and by
// NullBackend-style callers that don't care about log output.
func NewDiscard() *Logger {
	return New(io.Discard, zerolog.Disabled)
}

// Event starts a structured log entry named by the given dotted component
// path, e.g. klog.Event("buffer.insert").Str("id", id).Send().
func (l *Logger) Event(name string) *zerolog.Event {
	return l.zl.Info().Str("event", name)
}

// Debug starts a debug-level structured entry.
func (l *Logger) Debug(name string) *zerolog.Event {
	return l.zl.Debug().Str("event", name)
}

// Warn starts a warn-level structured entry.
func (l *Logger) Warn(name string) *zerolog.Event {
	return l.zl.Warn().Str("event", name)
}

// Err starts an error-level structured entry carrying the given error.
func (l *Logger) Err(name string, err error) *zerolog.Event {
	return l.zl.Error().Str("event", name).Err(err)
}

// ParseLevel maps a settings string to a zerolog.Level, defaulting to Info.
func ParseLevel(s string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.InfoLevel
	}
	return lvl
}

// OpenProcessLog opens (creating parent directories) the per-process log
// file under dir, suffixed with the current PID as spec §6 "Log layout"
// requires, and returns it alongside its path.
func OpenProcessLog(dir string) (*os.File, string, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, "", err
	}
	path := dir + "/corestash." + pidString() + ".log"
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, "", err
	}
	return f, path, nil
}

func pidString() string {
	return itoa(os.Getpid())
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}
