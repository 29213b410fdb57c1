package journal

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS entries (
	id         TEXT PRIMARY KEY,
	work       TEXT NOT NULL,
	struggle   TEXT NOT NULL,
	intention  TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS entries_created_at_idx ON entries (created_at DESC, id DESC);
`

const entryColumns = `id, work, struggle, intention, created_at, updated_at`

// PostgresStore implements Store on a single "entries" table.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates the schema if needed and returns a store that owns pool.
func NewPostgresStore(ctx context.Context, pool *pgxpool.Pool) (*PostgresStore, error) {
	if _, err := pool.Exec(ctx, schema); err != nil {
		return nil, wrapPgError("postgres.Migrate", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func scanEntry(row pgx.Row) (*Entry, error) {
	var e Entry
	if err := row.Scan(&e.ID, &e.Work, &e.Struggle, &e.Intention, &e.CreatedAt, &e.UpdatedAt); err != nil {
		return nil, err
	}
	e.CreatedAt = e.CreatedAt.UTC()
	e.UpdatedAt = e.UpdatedAt.UTC()
	return &e, nil
}

func (s *PostgresStore) Create(ctx context.Context, params CreateParams) (*Entry, error) {
	const op = "postgres.Entry.Create"
	ts := now()
	e := &Entry{
		ID:        uuid.NewString(),
		Work:      params.Work,
		Struggle:  params.Struggle,
		Intention: params.Intention,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO entries (`+entryColumns+`) VALUES ($1, $2, $3, $4, $5, $6)`,
		e.ID, e.Work, e.Struggle, e.Intention, e.CreatedAt, e.UpdatedAt,
	)
	if err != nil {
		return nil, wrapPgError(op, err)
	}
	return e, nil
}

func (s *PostgresStore) Get(ctx context.Context, id string) (*Entry, error) {
	const op = "postgres.Entry.Get"
	e, err := scanEntry(s.pool.QueryRow(ctx, `SELECT `+entryColumns+` FROM entries WHERE id = $1`, id))
	if err != nil {
		return nil, wrapPgError(op, err)
	}
	return e, nil
}

func (s *PostgresStore) List(ctx context.Context) ([]*Entry, error) {
	const op = "postgres.Entry.List"
	rows, err := s.pool.Query(ctx, `SELECT `+entryColumns+` FROM entries ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, wrapPgError(op, err)
	}
	defer rows.Close()

	var out []*Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, wrapPgError(op, err)
		}
		out = append(out, e)
	}
	if err := rows.Err(); err != nil {
		return nil, wrapPgError(op, err)
	}
	return out, nil
}

// Update changes only the provided columns; NULL parameters keep the stored value.
func (s *PostgresStore) Update(ctx context.Context, id string, params UpdateParams) (*Entry, error) {
	const op = "postgres.Entry.Update"
	e, err := scanEntry(s.pool.QueryRow(ctx, `
		UPDATE entries
		SET work       = COALESCE($2::text, work),
		    struggle   = COALESCE($3::text, struggle),
		    intention  = COALESCE($4::text, intention),
		    updated_at = $5
		WHERE id = $1
		RETURNING `+entryColumns,
		id, params.Work, params.Struggle, params.Intention, now(),
	))
	if err != nil {
		return nil, wrapPgError(op, err)
	}
	return e, nil
}

func (s *PostgresStore) Delete(ctx context.Context, id string) error {
	const op = "postgres.Entry.Delete"
	tag, err := s.pool.Exec(ctx, `DELETE FROM entries WHERE id = $1`, id)
	if err != nil {
		return wrapPgError(op, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteAll(ctx context.Context) (int, error) {
	const op = "postgres.Entry.DeleteAll"
	tag, err := s.pool.Exec(ctx, `DELETE FROM entries`)
	if err != nil {
		return 0, wrapPgError(op, err)
	}
	return int(tag.RowsAffected()), nil
}

func (s *PostgresStore) Count(ctx context.Context) (int, error) {
	const op = "postgres.Entry.Count"
	var n int64
	if err := s.pool.QueryRow(ctx, `SELECT COUNT(*) FROM entries`).Scan(&n); err != nil {
		return 0, wrapPgError(op, err)
	}
	return int(n), nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the pool. It never fails.
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// wrapPgError maps pgx.ErrNoRows to ErrNotFound and annotates everything else with op
// and, for server errors, the SQLSTATE code.
func wrapPgError(op string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return fmt.Errorf("%s: pg error %s: %w", op, pgErr.Code, err)
	}
	return fmt.Errorf("%s: %w", op, err)
}

var _ Store = (*PostgresStore)(nil)
