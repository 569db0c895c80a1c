// Package sequence provides the Postgres-backed counter store for the
// document numbering allocator. The store keeps one row of shared counters;
// write serialization is the allocator's job, this layer only persists.
package sequence

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	core "docpress/internal/core/sequence"
)

// Querier is the subset of pgx used by the store. Satisfied by *pgxpool.Pool
// and pgx.Tx alike.
type Querier interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

// PostgresStore persists the shared counter row in the doc_counters table.
type PostgresStore struct {
	db Querier
}

// NewPostgresStore creates a store over an open connection pool.
func NewPostgresStore(db Querier) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the counter table when it does not exist yet.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.Exec(ctx, `
        CREATE TABLE IF NOT EXISTS doc_counters (
            id              smallint PRIMARY KEY DEFAULT 1 CHECK (id = 1),
            quotation       integer NOT NULL DEFAULT 0,
            proforma        integer NOT NULL DEFAULT 0,
            invoice         integer NOT NULL DEFAULT 0,
            last_reset_date text NOT NULL DEFAULT '',
            updated_at      timestamptz NOT NULL DEFAULT now()
        )
	`)
	if err != nil {
		return fmt.Errorf("ensure doc_counters: %w", err)
	}
	return nil
}

// Load reads the counter row. A missing row is not an error: it reads as
// zero counters, same as a fresh day.
func (s *PostgresStore) Load(ctx context.Context) (core.Counters, error) {
	var c core.Counters

	err := s.db.QueryRow(ctx, `
        SELECT quotation, proforma, invoice, last_reset_date
        FROM doc_counters
        WHERE id = 1
	`).Scan(&c.Quotation, &c.Proforma, &c.Invoice, &c.LastResetDate)

	if errors.Is(err, pgx.ErrNoRows) {
		return core.Counters{}, nil
	}
	if err != nil {
		return core.Counters{}, fmt.Errorf("load counters: %w", err)
	}
	return c, nil
}

// Save upserts the counter row.
func (s *PostgresStore) Save(ctx context.Context, c core.Counters) error {
	_, err := s.db.Exec(ctx, `
        INSERT INTO doc_counters (id, quotation, proforma, invoice, last_reset_date, updated_at)
        VALUES (1, $1, $2, $3, $4, now())
        ON CONFLICT (id) DO UPDATE SET
            quotation       = EXCLUDED.quotation,
            proforma        = EXCLUDED.proforma,
            invoice         = EXCLUDED.invoice,
            last_reset_date = EXCLUDED.last_reset_date,
            updated_at      = now()
	`, c.Quotation, c.Proforma, c.Invoice, c.LastResetDate)
	if err != nil {
		return fmt.Errorf("save counters: %w", err)
	}
	return nil
}
