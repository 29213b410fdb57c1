package journal

import (
	"context"
	"errors"

	applog "github.com/janisto/journal-api/internal/platform/logging"
)

const resourceType = "entry"

// Audited wraps a Service and writes an audit log line for every mutation.
type Audited struct {
	Service
}

// NewAudited decorates svc with audit logging.
func NewAudited(svc Service) *Audited {
	return &Audited{Service: svc}
}

// categorizeError converts errors to audit-safe categories.
func categorizeError(err error) string {
	switch {
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "internal_error"
	}
}

func audit(ctx context.Context, action, id string, err error, details map[string]any) {
	if err != nil {
		applog.LogAuditEvent(ctx, action, resourceType, id, "failure", map[string]any{"error": categorizeError(err)})
		return
	}
	applog.LogAuditEvent(ctx, action, resourceType, id, "success", details)
}

func (a *Audited) Create(ctx context.Context, params CreateParams) (*Entry, error) {
	e, err := a.Service.Create(ctx, params)
	id := ""
	if e != nil {
		id = e.ID
	}
	audit(ctx, "create", id, err, nil)
	return e, err
}

func (a *Audited) Update(ctx context.Context, id string, params UpdateParams) (*Entry, error) {
	e, err := a.Service.Update(ctx, id, params)
	audit(ctx, "update", id, err, nil)
	return e, err
}

func (a *Audited) Delete(ctx context.Context, id string) error {
	err := a.Service.Delete(ctx, id)
	audit(ctx, "delete", id, err, nil)
	return err
}

func (a *Audited) DeleteAll(ctx context.Context) (int, error) {
	n, err := a.Service.DeleteAll(ctx)
	audit(ctx, "delete_all", "", err, map[string]any{"deleted": n})
	return n, err
}

var _ Service = (*Audited)(nil)
