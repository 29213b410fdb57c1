package logging

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogAuditEvent(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	ctx := WithLogger(context.Background(), zap.New(core))

	LogAuditEvent(ctx, "delete", "entry", "entry-1", "failure", map[string]any{"error": "not_found"})

	entries := recorded.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["audit.action"] != "delete" || fields["audit.resource_type"] != "entry" {
		t.Fatalf("unexpected fields: %v", fields)
	}
	if fields["audit.resource_id"] != "entry-1" || fields["audit.result"] != "failure" {
		t.Fatalf("unexpected fields: %v", fields)
	}
	if _, ok := fields["audit.details"]; !ok {
		t.Fatalf("expected details field: %v", fields)
	}
}

func TestLogAuditEventOmitsEmptyOptionalFields(t *testing.T) {
	core, recorded := observer.New(zapcore.InfoLevel)
	ctx := WithLogger(context.Background(), zap.New(core))

	LogAuditEvent(ctx, "delete_all", "entry", "", "success", nil)

	fields := recorded.All()[0].ContextMap()
	if _, ok := fields["audit.resource_id"]; ok {
		t.Fatal("resource_id should be omitted when empty")
	}
	if _, ok := fields["audit.details"]; ok {
		t.Fatal("details should be omitted when empty")
	}
}
