package journal

import (
	"context"
	"errors"
	"testing"
	"time"
)

func strPtr(s string) *string { return &s }

// runStoreSuite exercises the Store contract. newStore must return an empty store.
func runStoreSuite(t *testing.T, newStore func(t *testing.T) Store) {
	t.Run("CreateAndGet", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()

		created, err := s.Create(ctx, CreateParams{Work: "wrote tests", Struggle: "flaky CI", Intention: "fix CI"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if created.ID == "" {
			t.Fatal("expected an ID")
		}
		if !created.CreatedAt.Equal(created.UpdatedAt) {
			t.Fatalf("timestamps should match on create: %v vs %v", created.CreatedAt, created.UpdatedAt)
		}
		if created.CreatedAt.Location() != time.UTC {
			t.Fatalf("expected UTC, got %v", created.CreatedAt.Location())
		}

		got, err := s.Get(ctx, created.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Work != "wrote tests" || got.Struggle != "flaky CI" || got.Intention != "fix CI" {
			t.Fatalf("unexpected entry: %+v", got)
		}
		if !got.CreatedAt.Equal(created.CreatedAt) {
			t.Fatalf("createdAt changed: %v vs %v", got.CreatedAt, created.CreatedAt)
		}
	})

	t.Run("GetMissing", func(t *testing.T) {
		s := newStore(t)
		if _, err := s.Get(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("ListNewestFirst", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		var ids []string
		for _, w := range []string{"one", "two", "three"} {
			e, err := s.Create(ctx, CreateParams{Work: w, Struggle: "s", Intention: "i"})
			if err != nil {
				t.Fatalf("create: %v", err)
			}
			ids = append(ids, e.ID)
			time.Sleep(2 * time.Millisecond)
		}

		list, err := s.List(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(list) != 3 {
			t.Fatalf("expected 3 entries, got %d", len(list))
		}
		if list[0].ID != ids[2] || list[2].ID != ids[0] {
			t.Fatalf("expected newest first, got %s %s %s", list[0].Work, list[1].Work, list[2].Work)
		}

		n, err := s.Count(ctx)
		if err != nil || n != 3 {
			t.Fatalf("expected count 3, got %d (%v)", n, err)
		}
	})

	t.Run("UpdatePartial", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		e, err := s.Create(ctx, CreateParams{Work: "w", Struggle: "s", Intention: "i"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		time.Sleep(2 * time.Millisecond)

		updated, err := s.Update(ctx, e.ID, UpdateParams{Struggle: strPtr("new struggle")})
		if err != nil {
			t.Fatalf("update: %v", err)
		}
		if updated.Work != "w" || updated.Struggle != "new struggle" || updated.Intention != "i" {
			t.Fatalf("unexpected update result: %+v", updated)
		}
		if !updated.UpdatedAt.After(e.UpdatedAt) {
			t.Fatalf("expected updatedAt to advance: %v -> %v", e.UpdatedAt, updated.UpdatedAt)
		}
		if !updated.CreatedAt.Equal(e.CreatedAt) {
			t.Fatalf("createdAt must not change: %v -> %v", e.CreatedAt, updated.CreatedAt)
		}

		got, err := s.Get(ctx, e.ID)
		if err != nil {
			t.Fatalf("get: %v", err)
		}
		if got.Struggle != "new struggle" {
			t.Fatalf("update not persisted: %+v", got)
		}
	})

	t.Run("UpdateMissing", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Update(context.Background(), "missing", UpdateParams{Work: strPtr("x")})
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		e, err := s.Create(ctx, CreateParams{Work: "w", Struggle: "s", Intention: "i"})
		if err != nil {
			t.Fatalf("create: %v", err)
		}
		if err := s.Delete(ctx, e.ID); err != nil {
			t.Fatalf("delete: %v", err)
		}
		if _, err := s.Get(ctx, e.ID); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound after delete, got %v", err)
		}
		if err := s.Delete(ctx, e.ID); !errors.Is(err, ErrNotFound) {
			t.Fatalf("expected ErrNotFound on second delete, got %v", err)
		}
	})

	t.Run("DeleteAll", func(t *testing.T) {
		s := newStore(t)
		ctx := context.Background()
		for range 3 {
			if _, err := s.Create(ctx, CreateParams{Work: "w", Struggle: "s", Intention: "i"}); err != nil {
				t.Fatalf("create: %v", err)
			}
		}
		n, err := s.DeleteAll(ctx)
		if err != nil {
			t.Fatalf("delete all: %v", err)
		}
		if n != 3 {
			t.Fatalf("expected 3 deleted, got %d", n)
		}
		list, err := s.List(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(list) != 0 {
			t.Fatalf("expected empty list, got %d", len(list))
		}
		n, err = s.DeleteAll(ctx)
		if err != nil || n != 0 {
			t.Fatalf("expected 0 deleted from empty store, got %d (%v)", n, err)
		}
	})

	t.Run("Ping", func(t *testing.T) {
		if err := newStore(t).Ping(context.Background()); err != nil {
			t.Fatalf("ping: %v", err)
		}
	})
}

func TestSortNewestFirstTieBreaksOnID(t *testing.T) {
	ts := time.Date(2024, 1, 15, 10, 30, 0, 0, time.UTC)
	entries := []*Entry{
		{ID: "a", CreatedAt: ts},
		{ID: "c", CreatedAt: ts},
		{ID: "b", CreatedAt: ts.Add(time.Second)},
	}
	sortNewestFirst(entries)
	if entries[0].ID != "b" || entries[1].ID != "c" || entries[2].ID != "a" {
		t.Fatalf("unexpected order: %s %s %s", entries[0].ID, entries[1].ID, entries[2].ID)
	}
}
