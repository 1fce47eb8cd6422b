package logger

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestBasicLoggerWritesFields(t *testing.T) {
	var buf bytes.Buffer
	fixed := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	l := New("teams", WithOutput(&buf), WithClock(func() time.Time { return fixed }))

	l.With(Field{Key: "company", Value: "Acme Inc"}).Warn("request timed out", Field{Key: "attempt", Value: 2}, Err(errors.New("boom")))

	line := buf.String()
	if !strings.HasPrefix(line, "2026-01-02T03:04:05Z [WARN] teams request timed out") {
		t.Fatalf("unexpected prefix: %q", line)
	}
	for _, want := range []string{`company="Acme Inc"`, "attempt=2", "error=boom"} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in %q", want, line)
		}
	}
}

func TestBasicLoggerLevelThreshold(t *testing.T) {
	var buf bytes.Buffer
	l := New("", WithOutput(&buf), WithLevel(LevelWarn))
	l.Debug("hidden")
	l.Info("hidden")
	l.Error("shown")
	if strings.Count(buf.String(), "\n") != 1 || !strings.Contains(buf.String(), "shown") {
		t.Fatalf("unexpected output %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{"debug": LevelDebug, "WARNING": LevelWarn, "error": LevelError, "": LevelInfo}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestEnsureReturnsNop(t *testing.T) {
	if _, ok := Ensure(nil).(*Nop); !ok {
		t.Fatalf("expected Nop logger")
	}
}
