// Package logging wires zerolog into CI Lens's components with the
// component-tagging convention the teacher's logger infrastructure
// uses, minus the TUI-specific adapter layer this tool has no use for.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
)

// Options configures a Logger at construction time.
type Options struct {
	// Verbose raises the level from info to debug.
	Verbose bool
	// Writer overrides the default (stderr) output sink. Tests supply
	// an in-memory buffer here.
	Writer io.Writer
}

// Logger wraps a zerolog.Logger scoped to one component.
type Logger struct {
	base zerolog.Logger
}

// New constructs a root Logger writing to stderr (or opts.Writer),
// leaving stdout free for the JSON report.
func New(opts Options) Logger {
	writer := opts.Writer
	if writer == nil {
		writer = os.Stderr
	}

	level := zerolog.InfoLevel
	if opts.Verbose {
		level = zerolog.DebugLevel
	}

	base := zerolog.New(writer).Level(level).With().Timestamp().Logger()
	return Logger{base: base}
}

// With returns a derived Logger tagging every entry with component=name,
// mirroring the teacher's appLogger.With("component", name) convention.
func (l Logger) With(component string) Logger {
	return Logger{base: l.base.With().Str("component", component).Logger()}
}

// Info logs an informational message with optional key/value pairs.
func (l Logger) Info(msg string, kv ...any) {
	logWithFields(l.base.Info(), msg, kv)
}

// Debug logs a debug message with optional key/value pairs.
func (l Logger) Debug(msg string, kv ...any) {
	logWithFields(l.base.Debug(), msg, kv)
}

// Warn logs a warning message with optional key/value pairs.
func (l Logger) Warn(msg string, kv ...any) {
	logWithFields(l.base.Warn(), msg, kv)
}

// Error logs err alongside msg.
func (l Logger) Error(err error, msg string, kv ...any) {
	event := l.base.Error()
	if err != nil {
		event = event.Err(err)
	}
	logWithFields(event, msg, kv)
}

func logWithFields(event *zerolog.Event, msg string, kv []any) {
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			continue
		}
		event = event.Interface(key, kv[i+1])
	}
	event.Msg(msg)
}
