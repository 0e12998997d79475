// Package pgstore implements the store capabilities on Postgres tables
// (customers, quotes, work_orders). Table layout matches the hosted Supabase
// schema the admin UI was first built against.
package pgstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"terracotta/store"
)

// uniqueViolation is the Postgres SQLSTATE for a unique constraint failure.
const uniqueViolation = "23505"

// Store is a Postgres-backed implementation of store.CustomerStore,
// store.QuoteStore and store.WorkOrderStore.
type Store struct {
	db *sqlx.DB
}

var (
	_ store.CustomerStore  = (*Store)(nil)
	_ store.QuoteStore     = (*Store)(nil)
	_ store.WorkOrderStore = (*Store)(nil)
)

// New creates a Store using the provided database handle.
func New(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Open connects to dsn, verifies the connection and applies the schema.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("pgstore: connect: %w", err)
	}
	if err := Apply(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	return New(db), nil
}

// Close releases the connection pool.
func (s *Store) Close() error {
	return s.db.Close()
}

// Stores returns s wired into every capability.
func (s *Store) Stores() store.Stores {
	return store.Stores{Customers: s, Quotes: s, WorkOrders: s}
}

// mapError translates driver errors into the store sentinels.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrNotFound
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return fmt.Errorf("%w: %s", store.ErrDuplicate, pqErr.Constraint)
	}
	return err
}

// expectOneRow returns store.ErrNotFound when an UPDATE touched nothing.
func expectOneRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}
