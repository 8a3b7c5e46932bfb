// Package logger provides the structured, leveled application logger
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
)

// Level represents the severity level of a log message
type Level string

const (
	DebugLevel Level = "debug"
	InfoLevel  Level = "info"
	WarnLevel  Level = "warn"
	ErrorLevel Level = "error"
)

// Format selects the line encoding
type Format string

const (
	FormatJSON   Format = "json"
	FormatLogfmt Format = "logfmt"
)

// Logger defines the interface for the application logger
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, fields map[string]interface{})
	Fatal(msg string, fields map[string]interface{})
	WithField(key string, value interface{}) Logger
	WithFields(fields map[string]interface{}) Logger
}

// KitLogger implements Logger on top of go-kit/log
type KitLogger struct {
	logger log.Logger
}

// New creates a logger writing to output in the given format, dropping records below lvl
func New(output io.Writer, format Format, lvl Level) *KitLogger {
	if output == nil {
		output = os.Stdout
	}

	w := log.NewSyncWriter(output)

	var base log.Logger
	if format == FormatLogfmt {
		base = log.NewLogfmtLogger(w)
	} else {
		base = log.NewJSONLogger(w)
	}

	base = log.With(base, "ts", log.DefaultTimestampUTC)
	base = level.NewFilter(base, allow(lvl))

	return &KitLogger{logger: base}
}

// NewJSONLogger creates a JSON logger
func NewJSONLogger(output io.Writer, lvl Level) *KitLogger {
	return New(output, FormatJSON, lvl)
}

// ParseLevel converts a configured level name into a Level
func ParseLevel(s string) (Level, error) {
	switch Level(strings.ToLower(strings.TrimSpace(s))) {
	case DebugLevel:
		return DebugLevel, nil
	case InfoLevel, "":
		return InfoLevel, nil
	case WarnLevel, "warning":
		return WarnLevel, nil
	case ErrorLevel:
		return ErrorLevel, nil
	default:
		return "", fmt.Errorf("unknown log level %q", s)
	}
}

func allow(lvl Level) level.Option {
	switch lvl {
	case DebugLevel:
		return level.AllowDebug()
	case WarnLevel:
		return level.AllowWarn()
	case ErrorLevel:
		return level.AllowError()
	default:
		return level.AllowInfo()
	}
}

// WithField returns a new logger with the field added to the log context
func (l *KitLogger) WithField(key string, value interface{}) Logger {
	return &KitLogger{logger: log.With(l.logger, key, value)}
}

// WithFields returns a new logger with the fields added to the log context
func (l *KitLogger) WithFields(fields map[string]interface{}) Logger {
	if len(fields) == 0 {
		return l
	}
	return &KitLogger{logger: log.With(l.logger, keyvals(fields)...)}
}

func (l *KitLogger) Debug(msg string, fields map[string]interface{}) {
	l.log(level.Debug(l.logger), msg, fields)
}

func (l *KitLogger) Info(msg string, fields map[string]interface{}) {
	l.log(level.Info(l.logger), msg, fields)
}

func (l *KitLogger) Warn(msg string, fields map[string]interface{}) {
	l.log(level.Warn(l.logger), msg, fields)
}

func (l *KitLogger) Error(msg string, fields map[string]interface{}) {
	l.log(level.Error(l.logger), msg, fields)
}

// Fatal logs at error level and then terminates the program
func (l *KitLogger) Fatal(msg string, fields map[string]interface{}) {
	l.log(log.With(level.Error(l.logger), "fatal", true), msg, fields)
	os.Exit(1)
}

func (l *KitLogger) log(target log.Logger, msg string, fields map[string]interface{}) {
	_, file, line, ok := runtime.Caller(2)
	caller := "unknown"
	if ok {
		caller = fmt.Sprintf("%s:%d", filepath.Base(file), line)
	}

	kv := append([]interface{}{"msg", msg, "caller", caller}, keyvals(fields)...)
	if err := target.Log(kv...); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write log entry: %s\n", err)
	}
}

// keyvals flattens fields in key order so logfmt output is stable
func keyvals(fields map[string]interface{}) []interface{} {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	kv := make([]interface{}, 0, len(fields)*2)
	for _, k := range keys {
		kv = append(kv, k, fields[k])
	}
	return kv
}

var defaultLogger Logger = New(os.Stdout, FormatJSON, InfoLevel)

// GetDefaultLogger returns the default logger
func GetDefaultLogger() Logger {
	return defaultLogger
}

// SetDefaultLogger sets the default logger
func SetDefaultLogger(logger Logger) {
	if logger != nil {
		defaultLogger = logger
	}
}
