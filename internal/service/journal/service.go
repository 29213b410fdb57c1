package journal

import (
	"cmp"
	"context"
	"errors"
	"slices"
	"time"
)

// ErrNotFound is returned when no entry has the requested ID.
var ErrNotFound = errors.New("entry not found")

// Entry is one day's journal record.
type Entry struct {
	ID        string
	Work      string
	Struggle  string
	Intention string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CreateParams for creating an entry.
type CreateParams struct {
	Work      string
	Struggle  string
	Intention string
}

// UpdateParams for updating an entry. Nil fields are left unchanged.
type UpdateParams struct {
	Work      *string
	Struggle  *string
	Intention *string
}

// Service defines journal entry operations.
//
// Callers pass already-validated text; implementations store it as given, assign a
// UUIDv4 ID on Create, and keep timestamps in UTC.
type Service interface {
	Create(ctx context.Context, params CreateParams) (*Entry, error)
	Get(ctx context.Context, id string) (*Entry, error)
	// List returns every entry, newest first.
	List(ctx context.Context) ([]*Entry, error)
	Update(ctx context.Context, id string, params UpdateParams) (*Entry, error)
	Delete(ctx context.Context, id string) error
	// DeleteAll removes every entry and reports how many were removed.
	DeleteAll(ctx context.Context) (int, error)
	Count(ctx context.Context) (int, error)
}

// Store is a Service backed by a concrete storage system.
type Store interface {
	Service
	// Ping reports whether the backing storage is reachable.
	Ping(ctx context.Context) error
	Close() error
}

// sortNewestFirst orders entries by CreatedAt descending, then ID descending so that
// entries created in the same millisecond still have a stable order.
func sortNewestFirst(entries []*Entry) {
	slices.SortFunc(entries, func(a, b *Entry) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
}

func (p UpdateParams) apply(e *Entry) {
	if p.Work != nil {
		e.Work = *p.Work
	}
	if p.Struggle != nil {
		e.Struggle = *p.Struggle
	}
	if p.Intention != nil {
		e.Intention = *p.Intention
	}
}

// now is the store clock: UTC, truncated to the millisecond precision of the API.
var now = func() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}
