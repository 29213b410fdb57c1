package journal

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/janisto/journal-api/internal/platform/postgres"
	"github.com/janisto/journal-api/internal/testutil"
)

func TestPostgresStore(t *testing.T) {
	url := testutil.PostgresURL(t)

	runStoreSuite(t, func(t *testing.T) Store {
		ctx := context.Background()
		pool, err := postgres.Open(ctx, postgres.Config{URL: url, MaxConns: 4})
		if err != nil {
			t.Fatalf("open: %v", err)
		}
		s, err := NewPostgresStore(ctx, pool)
		if err != nil {
			pool.Close()
			t.Fatalf("new store: %v", err)
		}
		if _, err := s.DeleteAll(ctx); err != nil {
			t.Fatalf("reset: %v", err)
		}
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}

func TestWrapPgError(t *testing.T) {
	if err := wrapPgError("op", pgx.ErrNoRows); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	pgErr := &pgconn.PgError{Severity: "ERROR", Code: "23505", Message: "duplicate key"}
	err := wrapPgError("postgres.Entry.Create", fmt.Errorf("exec: %w", pgErr))
	if !errors.As(err, new(*pgconn.PgError)) {
		t.Fatalf("expected PgError to stay in the chain, got %v", err)
	}
	if got := err.Error(); got != "postgres.Entry.Create: pg error 23505: exec: ERROR: duplicate key (SQLSTATE 23505)" {
		t.Fatalf("unexpected message %q", got)
	}

	plain := errors.New("conn reset")
	if err := wrapPgError("op", plain); !errors.Is(err, plain) {
		t.Fatalf("expected wrapped error, got %v", err)
	}
}
