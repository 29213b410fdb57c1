package logging

import (
	"encoding/json"
	"io"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/janisto/journal-api/internal/platform/timeutil"
)

// captureLogLines runs logFn against a freshly built global logger with stdout redirected
// and returns every emitted line decoded as JSON.
func captureLogLines(t *testing.T, logFn func(*zap.Logger)) []map[string]any {
	t.Helper()

	resetLoggerForTest()
	t.Cleanup(resetLoggerForTest)

	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("failed to create pipe: %v", err)
	}
	defer func() { _ = r.Close() }()

	origStdout := os.Stdout
	os.Stdout = w
	defer func() { os.Stdout = origStdout }()

	logger := Logger()
	logFn(logger)
	_ = logger.Sync()

	if err := w.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("failed to read log output: %v", err)
	}

	var out []map[string]any
	for line := range strings.SplitSeq(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		var payload map[string]any
		if err := json.Unmarshal([]byte(line), &payload); err != nil {
			t.Fatalf("failed to unmarshal log line %q: %v", line, err)
		}
		out = append(out, payload)
	}
	return out
}

func resetLoggerForTest() {
	loggerOnce = sync.Once{}
	baseLogger = nil
	loggerErr = nil
}

func TestLoggerWritesSingleLineJSON(t *testing.T) {
	lines := captureLogLines(t, func(l *zap.Logger) {
		l.Info("journal api system initializing")
	})
	if len(lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(lines))
	}
	payload := lines[0]
	if payload["message"] != "journal api system initializing" {
		t.Fatalf("unexpected message: %v", payload["message"])
	}
	if payload["severity"] != "INFO" {
		t.Fatalf("expected severity INFO, got %v", payload["severity"])
	}
	if _, ok := payload["caller"]; !ok {
		t.Fatal("expected caller field")
	}
	if _, ok := payload["level"]; ok {
		t.Fatal("level key should be renamed to severity")
	}
	ts, ok := payload["timestamp"].(string)
	if !ok {
		t.Fatalf("expected string timestamp, got %T", payload["timestamp"])
	}
	if _, err := time.Parse(timeutil.RFC3339Micros, ts); err != nil {
		t.Fatalf("timestamp %q not in microsecond format: %v", ts, err)
	}
}

func TestLoggerDropsDebug(t *testing.T) {
	lines := captureLogLines(t, func(l *zap.Logger) {
		l.Debug("hidden")
		l.Info("visible")
	})
	if len(lines) != 1 || lines[0]["message"] != "visible" {
		t.Fatalf("expected only the info line, got %v", lines)
	}
}

func TestEncodeSeverityMapping(t *testing.T) {
	cases := map[zapcore.Level]string{
		zapcore.DebugLevel:  "DEBUG",
		zapcore.InfoLevel:   "INFO",
		zapcore.WarnLevel:   "WARNING",
		zapcore.ErrorLevel:  "ERROR",
		zapcore.DPanicLevel: "CRITICAL",
		zapcore.PanicLevel:  "ALERT",
		zapcore.FatalLevel:  "EMERGENCY",
		zapcore.Level(42):   "DEFAULT",
	}
	for level, want := range cases {
		enc := &captureArrayEncoder{}
		encodeSeverity(level, enc)
		if len(enc.values) != 1 || enc.values[0] != want {
			t.Errorf("level %v: expected %s, got %v", level, want, enc.values)
		}
	}
}

func TestEncodeTimeMicrosUsesUTC(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	enc := &captureArrayEncoder{}
	encodeTimeMicros(time.Date(2024, 1, 15, 13, 30, 0, 123456000, loc), enc)
	if got := enc.values[0]; got != "2024-01-15T10:30:00.123456Z" {
		t.Fatalf("unexpected timestamp %q", got)
	}
}

func TestInitIsIdempotent(t *testing.T) {
	resetLoggerForTest()
	t.Cleanup(resetLoggerForTest)

	if err := Init(); err != nil {
		t.Fatalf("unexpected init error: %v", err)
	}
	first := Logger()
	if err := Init(); err != nil {
		t.Fatalf("unexpected init error on second call: %v", err)
	}
	if Logger() != first {
		t.Fatal("Init must not rebuild the logger")
	}
}

type captureArrayEncoder struct {
	values []string
}

func (c *captureArrayEncoder) AppendBool(bool)             {}
func (c *captureArrayEncoder) AppendByteString([]byte)     {}
func (c *captureArrayEncoder) AppendComplex128(complex128) {}
func (c *captureArrayEncoder) AppendComplex64(complex64)   {}
func (c *captureArrayEncoder) AppendFloat64(float64)       {}
func (c *captureArrayEncoder) AppendFloat32(float32)       {}
func (c *captureArrayEncoder) AppendInt(int)               {}
func (c *captureArrayEncoder) AppendInt64(int64)           {}
func (c *captureArrayEncoder) AppendInt32(int32)           {}
func (c *captureArrayEncoder) AppendInt16(int16)           {}
func (c *captureArrayEncoder) AppendInt8(int8)             {}
func (c *captureArrayEncoder) AppendString(s string)       { c.values = append(c.values, s) }
func (c *captureArrayEncoder) AppendUint(uint)             {}
func (c *captureArrayEncoder) AppendUint64(uint64)         {}
func (c *captureArrayEncoder) AppendUint32(uint32)         {}
func (c *captureArrayEncoder) AppendUint16(uint16)         {}
func (c *captureArrayEncoder) AppendUint8(uint8)           {}
func (c *captureArrayEncoder) AppendUintptr(uintptr)       {}
