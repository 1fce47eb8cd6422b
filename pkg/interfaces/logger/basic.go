package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

// Level orders log severities.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	default:
		return "ERROR"
	}
}

// ParseLevel maps a textual level to a Level, defaulting to info.
func ParseLevel(value string) Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// BasicLogger writes one line per entry in the form
// `<time> [LEVEL] <name> msg key=value ...`.
type BasicLogger struct {
	mu     *sync.Mutex
	out    io.Writer
	name   string
	level  Level
	now    func() time.Time
	fields []Field
}

var _ Logger = (*BasicLogger)(nil)

// BasicOption customizes a BasicLogger.
type BasicOption func(*BasicLogger)

// WithOutput redirects log lines (defaults to stderr).
func WithOutput(w io.Writer) BasicOption {
	return func(l *BasicLogger) {
		if w != nil {
			l.out = w
		}
	}
}

// WithLevel drops entries below the given level.
func WithLevel(level Level) BasicOption {
	return func(l *BasicLogger) {
		l.level = level
	}
}

// WithClock overrides the timestamp source.
func WithClock(now func() time.Time) BasicOption {
	return func(l *BasicLogger) {
		if now != nil {
			l.now = now
		}
	}
}

// New returns a basic logger tagged with name.
func New(name string, opts ...BasicOption) *BasicLogger {
	l := &BasicLogger{
		mu:    &sync.Mutex{},
		out:   os.Stderr,
		name:  name,
		level: LevelInfo,
		now:   time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(l)
		}
	}
	return l
}

// Default returns the default basic logger implementation.
func Default() Logger {
	return New("leadcards")
}

func (l *BasicLogger) With(fields ...Field) Logger {
	if len(fields) == 0 {
		return l
	}
	next := *l
	next.fields = append(append([]Field(nil), l.fields...), fields...)
	return &next
}

func (l *BasicLogger) Debug(msg string, fields ...Field) { l.log(LevelDebug, msg, fields) }
func (l *BasicLogger) Info(msg string, fields ...Field)  { l.log(LevelInfo, msg, fields) }
func (l *BasicLogger) Warn(msg string, fields ...Field)  { l.log(LevelWarn, msg, fields) }
func (l *BasicLogger) Error(msg string, fields ...Field) { l.log(LevelError, msg, fields) }

func (l *BasicLogger) log(level Level, msg string, fields []Field) {
	if level < l.level {
		return
	}
	var b strings.Builder
	b.WriteString(l.now().UTC().Format(time.RFC3339))
	b.WriteString(" [")
	b.WriteString(level.String())
	b.WriteString("] ")
	if l.name != "" {
		b.WriteString(l.name)
		b.WriteString(" ")
	}
	b.WriteString(msg)
	for _, f := range append(append([]Field(nil), l.fields...), fields...) {
		b.WriteString(" ")
		b.WriteString(f.Key)
		b.WriteString("=")
		b.WriteString(formatValue(f.Value))
	}
	b.WriteString("\n")

	l.mu.Lock()
	defer l.mu.Unlock()
	_, _ = io.WriteString(l.out, b.String())
}

func formatValue(v any) string {
	s := fmt.Sprint(v)
	if strings.ContainsAny(s, " \t\n\"") {
		return fmt.Sprintf("%q", s)
	}
	return s
}
