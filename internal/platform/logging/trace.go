package logging

import (
	"fmt"
	"os"
	"regexp"
	"sync"

	"go.uber.org/zap"
)

const (
	traceparentHeader = "traceparent"
	cloudTraceHeader  = "X-Cloud-Trace-Context"
)

var (
	// W3C Trace Context: {version}-{trace-id}-{parent-id}-{trace-flags}
	traceparentRe = regexp.MustCompile(`^([0-9a-fA-F]{2})-([0-9a-fA-F]{32})-([0-9a-fA-F]{16})-([0-9a-fA-F]{2})$`)
	// Legacy Google header: TRACE_ID/SPAN_ID;o=OPTIONS
	cloudTraceRe = regexp.MustCompile(`^([0-9a-fA-F]{32})/([0-9]+)(?:;o=([01]))?$`)
)

var (
	projectIDOnce   sync.Once
	cachedProjectID string
)

// span is the trace position a request arrived with.
type span struct {
	traceID string
	spanID  string
	sampled bool
}

// parseSpan reads traceparent first and falls back to X-Cloud-Trace-Context.
func parseSpan(traceparent, cloudTrace string) (span, bool) {
	if m := traceparentRe.FindStringSubmatch(traceparent); m != nil {
		return span{traceID: m[2], spanID: m[3], sampled: m[4] == "01"}, true
	}
	if m := cloudTraceRe.FindStringSubmatch(cloudTrace); m != nil {
		return span{traceID: m[1], spanID: m[2], sampled: m[3] == "1"}, true
	}
	return span{}, false
}

func (s span) resource(projectID string) string {
	return fmt.Sprintf("projects/%s/traces/%s", projectID, s.traceID)
}

// requestLogger derives a logger carrying Cloud Logging trace fields and the request ID.
// Trace fields are attached only when a project ID is known.
func requestLogger(base *zap.Logger, sp span, hasSpan bool, projectID, requestID string) *zap.Logger {
	if base == nil {
		base = zap.NewNop()
	}
	var fields []zap.Field
	if hasSpan && projectID != "" {
		fields = append(fields,
			zap.String("logging.googleapis.com/trace", sp.resource(projectID)),
			zap.String("logging.googleapis.com/spanId", sp.spanID),
			zap.Bool("logging.googleapis.com/trace_sampled", sp.sampled),
		)
	}
	if requestID != "" {
		fields = append(fields, zap.String("requestId", requestID))
	}
	if len(fields) == 0 {
		return base
	}
	return base.With(fields...)
}

func resolveProjectID() string {
	projectIDOnce.Do(func() {
		for _, key := range []string{"FIREBASE_PROJECT_ID", "GOOGLE_CLOUD_PROJECT", "GCP_PROJECT", "PROJECT_ID"} {
			if v := os.Getenv(key); v != "" {
				cachedProjectID = v
				return
			}
		}
	})
	return cachedProjectID
}
