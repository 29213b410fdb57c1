package journal

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	applog "github.com/janisto/journal-api/internal/platform/logging"
	"github.com/janisto/journal-api/internal/platform/pagination"
	journalsvc "github.com/janisto/journal-api/internal/service/journal"
)

const cursorType = "entry"

var tags = []string{"Entries"}

// Register registers journal entry endpoints under prefix (e.g. "/v1").
func Register(api huma.API, svc journalsvc.Service, prefix string) {
	collection := prefix + "/entries"
	item := collection + "/{id}"

	huma.Register(api, huma.Operation{
		OperationID:   "create-entry",
		Method:        http.MethodPost,
		Path:          collection,
		Summary:       "Create a journal entry",
		Description:   "Records what was worked on, what was hard, and the plan for the next day.",
		Tags:          tags,
		DefaultStatus: http.StatusCreated,
	}, func(ctx context.Context, input *EntryCreateInput) (*EntryCreateOutput, error) {
		var errs []error
		params := journalsvc.CreateParams{
			Work:      normalize("work", input.Body.Work, &errs),
			Struggle:  normalize("struggle", input.Body.Struggle, &errs),
			Intention: normalize("intention", input.Body.Intention, &errs),
		}
		if len(errs) > 0 {
			return nil, huma.Error422UnprocessableEntity("validation failed", errs...)
		}

		entry, err := svc.Create(ctx, params)
		if err != nil {
			return nil, mapServiceError(ctx, err)
		}
		return &EntryCreateOutput{
			Location: collection + "/" + entry.ID,
			Body:     toHTTPEntry(entry),
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "list-entries",
		Method:      http.MethodGet,
		Path:        collection,
		Summary:     "List journal entries",
		Description: "Returns entries newest first with cursor-based pagination. Use the cursor from the Link header to navigate between pages.",
		Tags:        tags,
	}, func(ctx context.Context, input *EntryListInput) (*EntryListOutput, error) {
		cursor, err := pagination.DecodeCursor(input.Cursor, cursorType)
		if err != nil {
			return nil, huma.Error400BadRequest(err.Error())
		}

		entries, err := svc.List(ctx)
		if err != nil {
			return nil, mapServiceError(ctx, err)
		}

		page, err := pagination.Paginate(entries, cursor, input.PageSize(), pagination.Options[*journalsvc.Entry]{
			CursorType: cursorType,
			ID:         func(e *journalsvc.Entry) string { return e.ID },
			BasePath:   collection,
		})
		if err != nil {
			return nil, huma.Error400BadRequest(err.Error())
		}

		out := make([]Entry, 0, len(page.Items))
		for _, e := range page.Items {
			out = append(out, toHTTPEntry(e))
		}
		return &EntryListOutput{
			Link: page.Link,
			Body: ListData{Entries: out, Total: page.Total},
		}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "get-entry",
		Method:      http.MethodGet,
		Path:        item,
		Summary:     "Get a journal entry",
		Tags:        tags,
	}, func(ctx context.Context, input *EntryGetInput) (*EntryGetOutput, error) {
		entry, err := svc.Get(ctx, input.ID)
		if err != nil {
			return nil, mapServiceError(ctx, err)
		}
		return &EntryGetOutput{Body: toHTTPEntry(entry)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "update-entry",
		Method:      http.MethodPatch,
		Path:        item,
		Summary:     "Update a journal entry",
		Description: "Updates the provided fields of an entry. At least one field is required.",
		Tags:        tags,
	}, func(ctx context.Context, input *EntryUpdateInput) (*EntryUpdateOutput, error) {
		if !hasEntryUpdateFields(input) {
			return nil, huma.Error422UnprocessableEntity("at least one field must be provided")
		}

		var errs []error
		params := journalsvc.UpdateParams{
			Work:      normalizePtr("work", input.Body.Work, &errs),
			Struggle:  normalizePtr("struggle", input.Body.Struggle, &errs),
			Intention: normalizePtr("intention", input.Body.Intention, &errs),
		}
		if len(errs) > 0 {
			return nil, huma.Error422UnprocessableEntity("validation failed", errs...)
		}

		entry, err := svc.Update(ctx, input.ID, params)
		if err != nil {
			return nil, mapServiceError(ctx, err)
		}
		return &EntryUpdateOutput{Body: toHTTPEntry(entry)}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID:   "delete-entry",
		Method:        http.MethodDelete,
		Path:          item,
		Summary:       "Delete a journal entry",
		Tags:          tags,
		DefaultStatus: http.StatusNoContent,
	}, func(ctx context.Context, input *EntryDeleteInput) (*struct{}, error) {
		if err := svc.Delete(ctx, input.ID); err != nil {
			return nil, mapServiceError(ctx, err)
		}
		return nil, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "delete-all-entries",
		Method:      http.MethodDelete,
		Path:        collection,
		Summary:     "Delete all journal entries",
		Description: "Permanently deletes every entry and reports how many were removed.",
		Tags:        tags,
	}, func(ctx context.Context, _ *EntryDeleteAllInput) (*EntryDeleteAllOutput, error) {
		n, err := svc.DeleteAll(ctx)
		if err != nil {
			return nil, mapServiceError(ctx, err)
		}
		return &EntryDeleteAllOutput{Body: DeleteAllData{Deleted: n}}, nil
	})
}

// normalize trims v and records an error detail when nothing is left.
func normalize(field, v string, errs *[]error) string {
	trimmed := strings.TrimSpace(v)
	if trimmed == "" {
		*errs = append(*errs, &huma.ErrorDetail{
			Location: "body." + field,
			Message:  "must not be blank",
			Value:    v,
		})
	}
	return trimmed
}

func normalizePtr(field string, v *string, errs *[]error) *string {
	if v == nil {
		return nil
	}
	trimmed := normalize(field, *v, errs)
	return &trimmed
}

func hasEntryUpdateFields(input *EntryUpdateInput) bool {
	return input.Body.Work != nil ||
		input.Body.Struggle != nil ||
		input.Body.Intention != nil
}

func mapServiceError(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, journalsvc.ErrNotFound):
		return huma.Error404NotFound("entry not found")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return huma.Error503ServiceUnavailable("request canceled")
	default:
		applog.LogError(ctx, "journal service error", err, zap.String("component", "journal"))
		return huma.Error500InternalServerError("internal error")
	}
}
