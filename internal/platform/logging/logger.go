// Package logging owns the journal API's process logger and the request-scoped
// loggers derived from it. Output is one JSON object per line on stdout, keyed the
// way Cloud Logging ingests structured payloads.
package logging

import (
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/janisto/journal-api/internal/platform/timeutil"
)

var (
	loggerOnce sync.Once
	baseLogger *zap.Logger
	loggerErr  error
)

// severities maps zap levels onto Cloud Logging's LogSeverity names.
var severities = map[zapcore.Level]string{
	zapcore.DebugLevel:  "DEBUG",
	zapcore.InfoLevel:   "INFO",
	zapcore.WarnLevel:   "WARNING",
	zapcore.ErrorLevel:  "ERROR",
	zapcore.DPanicLevel: "CRITICAL",
	zapcore.PanicLevel:  "ALERT",
	zapcore.FatalLevel:  "EMERGENCY",
}

func encodeTimeMicros(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.UTC().Format(timeutil.RFC3339Micros))
}

func encodeSeverity(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	if s, ok := severities[level]; ok {
		enc.AppendString(s)
		return
	}
	enc.AppendString("DEFAULT")
}

func buildLogger() {
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "timestamp"
	enc.EncodeTime = encodeTimeMicros
	enc.LevelKey = "severity"
	enc.EncodeLevel = encodeSeverity
	enc.MessageKey = "message"
	enc.CallerKey = "caller"

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	cfg.EncoderConfig = enc
	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stdout"}

	baseLogger, loggerErr = cfg.Build(zap.AddCaller())
	if loggerErr != nil {
		baseLogger = zap.NewNop()
	}
}

// Init builds the journal API logger at INFO level. Later calls return the first
// result without building again, so startup code and tests may both call it.
func Init() error {
	loggerOnce.Do(buildLogger)
	return loggerErr
}

// Logger returns the process logger, building it on first use. When the build
// failed it is a no-op logger and Init reports why.
func Logger() *zap.Logger {
	loggerOnce.Do(buildLogger)
	return baseLogger
}

// Sync flushes the process logger before exit.
func Sync() error {
	return Logger().Sync()
}
