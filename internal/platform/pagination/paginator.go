package pagination

import (
	"errors"
	"net/url"
	"slices"
	"strconv"
)

// ErrUnknownCursor indicates the cursor points at an item no longer in the collection.
var ErrUnknownCursor = errors.New("cursor references unknown item")

// Options describe how to page one collection.
type Options[T any] struct {
	CursorType string
	ID         func(T) string
	BasePath   string // used in Link header URLs, e.g. "/v1/entries"
}

// Page is one window of a collection.
type Page[T any] struct {
	Items []T
	Total int
	Link  string
	Next  string
	Prev  string
}

// Paginate returns the page of items that follows cursor. items must already be in
// their final order. A cursor whose value is not found yields ErrUnknownCursor.
func Paginate[T any](items []T, cursor Cursor, limit int, opts Options[T]) (Page[T], error) {
	total := len(items)
	start := 0
	if cursor.Value != "" {
		idx := slices.IndexFunc(items, func(item T) bool { return opts.ID(item) == cursor.Value })
		if idx < 0 {
			return Page[T]{}, ErrUnknownCursor
		}
		start = idx + 1
	}
	end := min(start+limit, total)
	window := items[start:end]

	var next, prev string
	if end < total && len(window) > 0 {
		next = Cursor{Type: opts.CursorType, Value: opts.ID(window[len(window)-1])}.Encode()
	}
	if start > 0 {
		// The previous page ends right before start; its cursor is the item preceding it.
		prevValue := ""
		if start > limit {
			prevValue = opts.ID(items[start-limit-1])
		}
		prev = Cursor{Type: opts.CursorType, Value: prevValue}.Encode()
	}

	q := url.Values{}
	q.Set("limit", strconv.Itoa(limit))

	return Page[T]{
		Items: window,
		Total: total,
		Link:  BuildLinkHeader(opts.BasePath, q, next, prev),
		Next:  next,
		Prev:  prev,
	}, nil
}
