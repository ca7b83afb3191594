package logging

import (
	"context"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"
)

// DefaultLogger is a simple structured logger writing to stdout/stderr.
// Debug and Info go to stdout, Warn and above to stderr. Intended for the
// CLI and examples; applications should plug in their own Logger.
type DefaultLogger struct {
	level  Level
	preset Fields
	colors bool
}

// NewDefaultLogger creates a logger at InfoLevel with colors enabled when
// stderr looks like a terminal.
func NewDefaultLogger() *DefaultLogger {
	return &DefaultLogger{
		level:  InfoLevel,
		preset: Fields{},
		colors: isTerminal(os.Stderr),
	}
}

// NewDefaultLoggerWithLevel creates a logger at the given level
func NewDefaultLoggerWithLevel(level Level) *DefaultLogger {
	l := NewDefaultLogger()
	l.level = level
	return l
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

func (l *DefaultLogger) log(level Level, msg string, err error, fields []Fields) {
	if level < l.level {
		return
	}

	all := mergeFields(l.preset, fields)
	if err != nil {
		all["error"] = err.Error()
	}

	var b strings.Builder
	b.WriteString(time.Now().Format(time.RFC3339))
	b.WriteByte(' ')

	label := level.String()
	if l.colors {
		switch level {
		case WarnLevel:
			label = ColorYellow + label + ColorReset
		case ErrorLevel, FatalLevel:
			label = ColorRed + ColorBold + label + ColorReset
		}
	}
	b.WriteString(label)
	b.WriteByte(' ')
	b.WriteString(msg)

	// Deterministic field order keeps log lines diffable
	keys := make([]string, 0, len(all))
	for k := range all {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, all[k])
	}

	out := os.Stdout
	if level >= WarnLevel {
		out = os.Stderr
	}
	fmt.Fprintln(out, b.String())
}

func (l *DefaultLogger) Debug(msg string, fields ...Fields) {
	l.log(DebugLevel, msg, nil, fields)
}

func (l *DefaultLogger) Info(msg string, fields ...Fields) {
	l.log(InfoLevel, msg, nil, fields)
}

func (l *DefaultLogger) Warn(msg string, fields ...Fields) {
	l.log(WarnLevel, msg, nil, fields)
}

func (l *DefaultLogger) Error(err error, msg string, fields ...Fields) {
	l.log(ErrorLevel, msg, err, fields)
}

func (l *DefaultLogger) Fatal(err error, msg string, fields ...Fields) {
	l.log(FatalLevel, msg, err, fields)
	os.Exit(1)
}

func (l *DefaultLogger) WithFields(fields Fields) Logger {
	return &DefaultLogger{
		level:  l.level,
		preset: mergeFields(l.preset, []Fields{fields}),
		colors: l.colors,
	}
}

func (l *DefaultLogger) WithContext(ctx context.Context) Logger {
	return l
}

func (l *DefaultLogger) SetLevel(level Level) {
	l.level = level
}

// NoOpLogger discards everything. Useful as the library default when the
// embedding application does its own logging.
type NoOpLogger struct{}

func (n *NoOpLogger) Debug(msg string, fields ...Fields)            {}
func (n *NoOpLogger) Info(msg string, fields ...Fields)             {}
func (n *NoOpLogger) Warn(msg string, fields ...Fields)             {}
func (n *NoOpLogger) Error(err error, msg string, fields ...Fields) {}
func (n *NoOpLogger) Fatal(err error, msg string, fields ...Fields) {}
func (n *NoOpLogger) WithFields(fields Fields) Logger               { return n }
func (n *NoOpLogger) WithContext(ctx context.Context) Logger        { return n }
func (n *NoOpLogger) SetLevel(level Level)                          {}
