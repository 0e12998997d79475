// Package pbstore implements the store capabilities on PocketBase record
// collections (customers, quotes, work_orders).
package pbstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pocketbase/pocketbase/core"

	"terracotta/store"
)

const (
	customersCollection  = "customers"
	quotesCollection     = "quotes"
	workOrdersCollection = "work_orders"
)

// Store is a PocketBase-backed implementation of store.CustomerStore,
// store.QuoteStore and store.WorkOrderStore.
type Store struct {
	app core.App
}

// New returns a Store using the collections created by collections.Setup.
func New(app core.App) *Store {
	return &Store{app: app}
}

// Stores returns s wired into every capability.
func (s *Store) Stores() store.Stores {
	return store.Stores{Customers: s, Quotes: s, WorkOrders: s}
}

func (s *Store) collection(name string) (*core.Collection, error) {
	col, err := s.app.FindCollectionByNameOrId(name)
	if err != nil {
		return nil, fmt.Errorf("pbstore: could not find %s collection: %w", name, err)
	}
	return col, nil
}

func (s *Store) findByID(collection, id string) (*core.Record, error) {
	rec, err := s.app.FindRecordById(collection, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("pbstore: %s %q: %w", collection, id, store.ErrNotFound)
		}
		return nil, fmt.Errorf("pbstore: find %s %q: %w", collection, id, err)
	}
	return rec, nil
}

// newestFirst loads every record of a collection ordered by creation time,
// newest first. rowid breaks ties between records created in the same
// millisecond.
func (s *Store) newestFirst(ctx context.Context, collection string) ([]*core.Record, error) {
	var records []*core.Record
	err := s.app.RecordQuery(collection).
		WithContext(ctx).
		OrderBy("created DESC", "rowid DESC").
		All(&records)
	if err != nil {
		return nil, err
	}
	return records, nil
}
