// Package telemetry wraps charmbracelet/log into the small structured
// logger the engine and CLI share, in place of ad-hoc fmt.Printf calls.
package telemetry

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	cblog "github.com/charmbracelet/log"
)

// Options configures a Logger.
type Options struct {
	Writer       io.Writer
	Level        string
	ReportCaller bool
	Component    string
	Fields       map[string]any
}

// Logger is a charmbracelet/log adapter that carries a fixed set of
// fields across every call derived from it via With. It satisfies
// compiler.DiagnosticSink through Warn.
type Logger struct {
	logger *cblog.Logger
	fields []any
}

// New builds a Logger from Options, defaulting to stdout at info level.
func New(opts Options) (*Logger, error) {
	writer := opts.Writer
	if writer == nil {
		writer = os.Stdout
	}

	level := cblog.InfoLevel
	if opts.Level != "" {
		parsed, err := cblog.ParseLevel(strings.ToLower(opts.Level))
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		level = parsed
	}

	base := cblog.NewWithOptions(writer, cblog.Options{
		Level:           level,
		ReportTimestamp: true,
		ReportCaller:    opts.ReportCaller,
		Fields:          mapToFields(opts.Fields),
	})

	var fields []any
	if opts.Component != "" {
		fields = append(fields, "component", opts.Component)
	}

	return &Logger{logger: base, fields: fields}, nil
}

// With derives a child logger that carries additional fixed fields.
func (l *Logger) With(fields ...any) *Logger {
	if l == nil {
		return nil
	}
	next := make([]any, len(l.fields))
	copy(next, l.fields)
	next = append(next, fields...)
	return &Logger{logger: l.logger, fields: next}
}

// Debug emits a debug log entry.
func (l *Logger) Debug(msg string, fields ...any) { l.log(cblog.DebugLevel, msg, fields...) }

// Info emits an info log entry.
func (l *Logger) Info(msg string, fields ...any) { l.log(cblog.InfoLevel, msg, fields...) }

// Warn emits a warning log entry. This is the method compiler.Compile
// calls to report dropped unknown-block-type nodes and dangling
// connections without failing the run.
func (l *Logger) Warn(msg string, fields ...any) { l.log(cblog.WarnLevel, msg, fields...) }

// Error emits an error log entry.
func (l *Logger) Error(msg string, fields ...any) { l.log(cblog.ErrorLevel, msg, fields...) }

func (l *Logger) log(level cblog.Level, msg string, fields ...any) {
	if l == nil || l.logger == nil {
		return
	}
	payload := mergeFields(l.fields, fields)
	switch level {
	case cblog.DebugLevel:
		l.logger.Debug(msg, payload...)
	case cblog.WarnLevel:
		l.logger.Warn(msg, payload...)
	case cblog.ErrorLevel:
		l.logger.Error(msg, payload...)
	default:
		l.logger.Info(msg, payload...)
	}
}

func mapToFields(input map[string]any) []any {
	if len(input) == 0 {
		return nil
	}
	keys := make([]string, 0, len(input))
	for k := range input {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	res := make([]any, 0, len(input)*2)
	for _, k := range keys {
		res = append(res, k, input[k])
	}
	return res
}

func mergeFields(base, additions []any) []any {
	store := make(map[string]any)
	order := make([]string, 0, len(base)+len(additions))

	addPair := func(key string, value any) {
		if key == "" {
			return
		}
		if _, exists := store[key]; !exists {
			order = append(order, key)
		}
		store[key] = value
	}

	process := func(values []any) {
		for i := 0; i+1 < len(values); i += 2 {
			key, ok := values[i].(string)
			if !ok {
				continue
			}
			addPair(key, values[i+1])
		}
	}

	process(base)
	process(additions)

	result := make([]any, 0, len(order)*2)
	for _, key := range order {
		result = append(result, key, store[key])
	}
	return result
}
