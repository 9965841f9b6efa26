package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"
)

func newCapturingLogger(buf *bytes.Buffer, level slog.Level) *Logger {
	h := slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: level})
	return NewWithHandler(h)
}

func TestLoggerInfoWritesMessage(t *testing.T) {
	var buf bytes.Buffer
	l := newCapturingLogger(&buf, slog.LevelInfo)
	l.Info("hello", "x", 1)

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not valid JSON: %v (%s)", err, buf.String())
	}
	if rec["msg"] != "hello" {
		t.Fatalf("msg = %v, want hello", rec["msg"])
	}
	if rec["x"] != float64(1) {
		t.Fatalf("x = %v, want 1", rec["x"])
	}
}

func TestLoggerDebugSuppressedBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	l := newCapturingLogger(&buf, slog.LevelInfo)
	l.Debug("should not appear")
	if buf.Len() != 0 {
		t.Fatalf("debug output should be suppressed at Info level, got %q", buf.String())
	}
}

func TestLoggerModuleTagsSubsystem(t *testing.T) {
	var buf bytes.Buffer
	l := newCapturingLogger(&buf, slog.LevelInfo)
	child := l.Module("interpreter")
	child.Info("stepped")

	if !strings.Contains(buf.String(), `"module":"interpreter"`) {
		t.Fatalf("output missing module tag: %s", buf.String())
	}
}

func TestLoggerWithAddsContext(t *testing.T) {
	var buf bytes.Buffer
	l := newCapturingLogger(&buf, slog.LevelInfo)
	child := l.With("frame", 3)
	child.Warn("low gas")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if rec["frame"] != float64(3) {
		t.Fatalf("frame = %v, want 3", rec["frame"])
	}
	if rec["level"] != "WARN" {
		t.Fatalf("level = %v, want WARN", rec["level"])
	}
}

func TestSetDefaultAndDefault(t *testing.T) {
	orig := Default()
	defer SetDefault(orig)

	var buf bytes.Buffer
	custom := newCapturingLogger(&buf, slog.LevelInfo)
	SetDefault(custom)
	if Default() != custom {
		t.Fatal("Default() should return the logger passed to SetDefault")
	}

	SetDefault(nil)
	if Default() != custom {
		t.Fatal("SetDefault(nil) must be a no-op, not clear the default")
	}
}
