package pbstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/pocketbase/dbx"
	"github.com/pocketbase/pocketbase/core"

	"terracotta/domain"
	"terracotta/store"
)

func (s *Store) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	records, err := s.newestFirst(ctx, customersCollection)
	if err != nil {
		return nil, fmt.Errorf("pbstore: list customers: %w", err)
	}

	customers := make([]domain.Customer, 0, len(records))
	for _, rec := range records {
		customers = append(customers, customerFromRecord(rec))
	}
	return customers, nil
}

func (s *Store) FindCustomerByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	rec, err := s.app.FindFirstRecordByFilter(
		customersCollection,
		"email = {:email}",
		dbx.Params{"email": email},
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("pbstore: find customer by email: %w", err)
	}
	c := customerFromRecord(rec)
	return &c, nil
}

func (s *Store) CreateCustomer(ctx context.Context, c *domain.Customer) error {
	if _, err := s.FindCustomerByEmail(ctx, c.Email); err == nil {
		return fmt.Errorf("pbstore: customer %q: %w", c.Email, store.ErrDuplicate)
	} else if !errors.Is(err, store.ErrNotFound) {
		return err
	}

	col, err := s.collection(customersCollection)
	if err != nil {
		return err
	}

	rec := core.NewRecord(col)
	rec.Set("name", c.Name)
	rec.Set("email", c.Email)
	rec.Set("phone", c.Phone)
	rec.Set("address", c.Address)
	rec.Set("account_number", c.AccountNumber)

	if err := s.app.SaveWithContext(ctx, rec); err != nil {
		return fmt.Errorf("pbstore: save customer: %w", err)
	}

	c.ID = rec.Id
	c.Created = rec.GetDateTime("created").Time()
	return nil
}

func customerFromRecord(rec *core.Record) domain.Customer {
	return domain.Customer{
		ID:            rec.Id,
		Name:          rec.GetString("name"),
		Email:         rec.GetString("email"),
		Phone:         rec.GetString("phone"),
		Address:       rec.GetString("address"),
		AccountNumber: rec.GetString("account_number"),
		Created:       rec.GetDateTime("created").Time(),
	}
}
