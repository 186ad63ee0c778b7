// Package log provides the structured, leveled logger used across the
// election simulator. It wraps zerolog with a small sugared API so call
// sites don't need to depend on zerolog directly.
package log

import (
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"
)

// LogLevel identifies one of the supported logging levels.
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
	LogLevelFatal
)

// logTestWriterName is a magic output selector recognized by Init that
// routes log output to logTestWriter instead of opening a real sink.
// Only used by tests.
const logTestWriterName = "__test__"

var logTestWriter io.Writer = os.Stderr

// panicOnInvalidChars makes Debugf/Infof/etc. panic when the formatted
// message contains bytes that aren't valid UTF-8. Disabled by default;
// election code never needs it, tests flip it on to catch encoding bugs
// in vote/commitment hex dumps.
var panicOnInvalidChars = false

var logger zerolog.Logger

func init() {
	logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: "15:04:05"}).
		With().Timestamp().Logger().Level(zerolog.InfoLevel)
}

// Init configures the global logger. level is one of debug/info/warn/error.
// output is "stdout", "stderr", a file path, or the internal test selector.
// extra, when non-nil, receives a copy of every log line (useful for
// capturing logs to a buffer in addition to the primary sink).
// The configured logger is also installed as zerolog's global logger,
// which the tablet, proof server and election packages log through.
func Init(level, output string, extra io.Writer) error {
	var w io.Writer
	switch output {
	case "stdout":
		w = os.Stdout
	case "stderr":
		w = os.Stderr
	case logTestWriterName:
		w = logTestWriter
	default:
		f, err := os.OpenFile(output, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("could not open log output %q: %w", output, err)
		}
		w = f
	}
	if extra != nil {
		w = io.MultiWriter(w, extra)
	}

	lvl, err := levelFromString(level)
	if err != nil {
		return err
	}

	logger = zerolog.New(w).With().Timestamp().Logger().Level(zerologLevel(lvl))
	zlog.Logger = logger
	return nil
}

func levelFromString(level string) (LogLevel, error) {
	switch level {
	case "debug":
		return LogLevelDebug, nil
	case "info":
		return LogLevelInfo, nil
	case "warn", "warning":
		return LogLevelWarn, nil
	case "error":
		return LogLevelError, nil
	case "fatal":
		return LogLevelFatal, nil
	default:
		return LogLevelInfo, fmt.Errorf("unknown log level %q", level)
	}
}

func zerologLevel(l LogLevel) zerolog.Level {
	switch l {
	case LogLevelDebug:
		return zerolog.DebugLevel
	case LogLevelInfo:
		return zerolog.InfoLevel
	case LogLevelWarn:
		return zerolog.WarnLevel
	case LogLevelError:
		return zerolog.ErrorLevel
	case LogLevelFatal:
		return zerolog.FatalLevel
	default:
		return zerolog.InfoLevel
	}
}

// Level returns the currently configured minimum log level.
func Level() LogLevel {
	switch logger.GetLevel() {
	case zerolog.DebugLevel:
		return LogLevelDebug
	case zerolog.WarnLevel:
		return LogLevelWarn
	case zerolog.ErrorLevel:
		return LogLevelError
	case zerolog.FatalLevel:
		return LogLevelFatal
	default:
		return LogLevelInfo
	}
}

func checkValid(msg string) {
	if panicOnInvalidChars && !utf8.ValidString(msg) {
		panic(fmt.Sprintf("log message contains invalid UTF-8: %q", msg))
	}
}

// Debugf logs a formatted message at debug level.
func Debugf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	checkValid(msg)
	logger.Debug().Msg(msg)
}

// Infof logs a formatted message at info level.
func Infof(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	checkValid(msg)
	logger.Info().Msg(msg)
}

// Warnf logs a formatted message at warn level.
func Warnf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	checkValid(msg)
	logger.Warn().Msg(msg)
}

// Errorf logs a formatted message at error level.
func Errorf(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	checkValid(msg)
	logger.Error().Msg(msg)
}

// Info logs its arguments at info level, formatted as by fmt.Sprint.
func Info(args ...any) {
	msg := fmt.Sprint(args...)
	checkValid(msg)
	logger.Info().Msg(msg)
}

// Warn logs its arguments at warn level.
func Warn(args ...any) {
	msg := fmt.Sprint(args...)
	checkValid(msg)
	logger.Warn().Msg(msg)
}

// Error logs its arguments at error level.
func Error(args ...any) {
	msg := fmt.Sprint(args...)
	checkValid(msg)
	logger.Error().Msg(msg)
}

// Fatal logs its arguments at fatal level and exits the process.
func Fatal(args ...any) {
	msg := fmt.Sprint(args...)
	logger.Fatal().Msg(msg)
}

// Fatalf logs a formatted message at fatal level and exits the process.
func Fatalf(format string, args ...any) {
	logger.Fatal().Msgf(format, args...)
}

// Debugw logs msg at debug level with structured key/value pairs.
func Debugw(msg string, keyvals ...any) {
	checkValid(msg)
	withFields(logger.Debug(), keyvals).Msg(msg)
}

// Infow logs msg at info level with structured key/value pairs.
func Infow(msg string, keyvals ...any) {
	checkValid(msg)
	withFields(logger.Info(), keyvals).Msg(msg)
}

// Warnw logs msg at warn level with structured key/value pairs.
func Warnw(msg string, keyvals ...any) {
	checkValid(msg)
	withFields(logger.Warn(), keyvals).Msg(msg)
}

// Errorw logs msg at error level with structured key/value pairs.
func Errorw(msg string, keyvals ...any) {
	checkValid(msg)
	withFields(logger.Error(), keyvals).Msg(msg)
}

func withFields(e *zerolog.Event, keyvals []any) *zerolog.Event {
	for i := 0; i+1 < len(keyvals); i += 2 {
		key, _ := keyvals[i].(string)
		e = e.Interface(key, keyvals[i+1])
	}
	return e
}
