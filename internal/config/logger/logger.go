// Package logger wraps zerolog behind a small interface so the rest of the
// core depends on a seam (easy to mock via go.uber.org/mock) rather than on
// zerolog directly.
//
//go:generate mockgen -source=logger.go -destination=logger_mock.go -package=logger
package logger

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/pkgerrors"

	"github.com/ska-mid/dish-manager-core/internal/config"
)

// Log level names accepted in configuration.
const (
	DebugLevel = "debug"
	InfoLevel  = "info"
	WarnLevel  = "warn"
	ErrorLevel = "error"
	FatalLevel = "fatal"
	PanicLevel = "panic"
	TraceLevel = "trace"

	ConsoleFormat = "console"
	JSONFormat    = "json"

	TimeFormat = "02.01.2006 15:04:05"
)

// Logger is the application logging interface.
type Logger interface {
	Debug() Event
	Info() Event
	Warn() Event
	Error() Event
	// WithComponent returns a Logger that tags every event with the given
	// subsystem name (e.g. "PROXY", "SCHEDULER").
	WithComponent(name string) Logger
}

// Event is a single log entry under construction.
type Event interface {
	Msg(msg string)
	Msgf(format string, v ...interface{})
	Str(key, value string) Event
	Int(key string, value int) Event
	Dur(key string, value time.Duration) Event
	Err(err error) Event
}

type zerologEvent struct {
	event *zerolog.Event
}

func (e *zerologEvent) Msg(msg string) { e.event.Msg(msg) }

func (e *zerologEvent) Msgf(format string, v ...interface{}) { e.event.Msgf(format, v...) }

func (e *zerologEvent) Str(key, value string) Event {
	return &zerologEvent{event: e.event.Str(key, value)}
}

func (e *zerologEvent) Int(key string, value int) Event {
	return &zerologEvent{event: e.event.Int(key, value)}
}

func (e *zerologEvent) Dur(key string, value time.Duration) Event {
	return &zerologEvent{event: e.event.Dur(key, value)}
}

func (e *zerologEvent) Err(err error) Event {
	return &zerologEvent{event: e.event.Err(err)}
}

// AppLogger implements Logger using zerolog.
type AppLogger struct {
	log zerolog.Logger
}

// NewLogger creates the root logger from configuration.
func NewLogger(cfg *config.Config) Logger {
	return newLoggerWithOutput(cfg, os.Stdout)
}

// NewLoggerWithOutput creates a logger writing to an arbitrary writer, used
// to redirect logs away from the dashboard's alt-screen buffer.
func NewLoggerWithOutput(cfg *config.Config, w io.Writer) Logger {
	return newLoggerWithOutput(cfg, w)
}

func newLoggerWithOutput(cfg *config.Config, w io.Writer) Logger {
	zerolog.ErrorStackMarshaler = pkgerrors.MarshalStack
	zerolog.TimeFieldFormat = time.RFC3339

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = InfoLevel
	}

	if cfg.Logging.Format == "" {
		cfg.Logging.Format = ConsoleFormat
	}

	level := getLogLevel(cfg.Logging.Level)

	var output io.Writer
	switch cfg.Logging.Format {
	case JSONFormat:
		output = w
	default:
		output = zerolog.ConsoleWriter{Out: w, TimeFormat: TimeFormat}
	}

	log := zerolog.
		New(output).
		Level(level).
		With().
		Timestamp().
		Str("version", config.Version).
		Logger()

	return &AppLogger{log: log}
}

func (l *AppLogger) Debug() Event { return &zerologEvent{event: l.log.Debug()} }
func (l *AppLogger) Info() Event  { return &zerologEvent{event: l.log.Info()} }
func (l *AppLogger) Warn() Event  { return &zerologEvent{event: l.log.Warn()} }
func (l *AppLogger) Error() Event { return &zerologEvent{event: l.log.Error()} }

func (l *AppLogger) WithComponent(name string) Logger {
	return &AppLogger{log: l.log.With().Str("component", name).Logger()}
}

func getLogLevel(level string) zerolog.Level {
	switch level {
	case DebugLevel:
		return zerolog.DebugLevel
	case InfoLevel:
		return zerolog.InfoLevel
	case WarnLevel:
		return zerolog.WarnLevel
	case ErrorLevel:
		return zerolog.ErrorLevel
	case FatalLevel:
		return zerolog.FatalLevel
	case PanicLevel:
		return zerolog.PanicLevel
	case TraceLevel:
		return zerolog.TraceLevel
	default:
		return zerolog.InfoLevel
	}
}

// Noop returns a logger that discards everything, used in tests.
func Noop() Logger {
	return &AppLogger{log: zerolog.Nop()}
}
