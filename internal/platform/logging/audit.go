package logging

import (
	"context"

	"go.uber.org/zap"
)

// LogAuditEvent logs a structured audit record for a mutation.
//
// Args:
//   - action: the action performed ("create", "update", "delete", "delete_all")
//   - resourceType: the type of resource (e.g., "entry")
//   - resourceID: the ID of the resource, empty for collection-wide actions
//   - result: "success" or "failure"
//   - details: optional additional details
func LogAuditEvent(
	ctx context.Context,
	action, resourceType, resourceID, result string,
	details map[string]any,
) {
	fields := []zap.Field{
		zap.String("audit.action", action),
		zap.String("audit.resource_type", resourceType),
		zap.String("audit.result", result),
	}
	if resourceID != "" {
		fields = append(fields, zap.String("audit.resource_id", resourceID))
	}
	if len(details) > 0 {
		fields = append(fields, zap.Any("audit.details", details))
	}
	LoggerFromContext(ctx).Info("audit event", fields...)
}
