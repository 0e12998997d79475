package pgstore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"terracotta/domain"
)

type customerRow struct {
	ID            string    `db:"id"`
	Name          string    `db:"name"`
	Email         string    `db:"email"`
	Phone         string    `db:"phone"`
	Address       string    `db:"address"`
	AccountNumber string    `db:"account_number"`
	CreatedAt     time.Time `db:"created_at"`
}

func (r customerRow) toDomain() domain.Customer {
	return domain.Customer{
		ID:            r.ID,
		Name:          r.Name,
		Email:         r.Email,
		Phone:         r.Phone,
		Address:       r.Address,
		AccountNumber: r.AccountNumber,
		Created:       r.CreatedAt,
	}
}

const customerColumns = `id, name, email, phone, address, account_number, created_at`

func (s *Store) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	var rows []customerRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+customerColumns+`
		FROM customers
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("pgstore: list customers: %w", err)
	}

	customers := make([]domain.Customer, 0, len(rows))
	for _, r := range rows {
		customers = append(customers, r.toDomain())
	}
	return customers, nil
}

func (s *Store) FindCustomerByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	var row customerRow
	err := s.db.GetContext(ctx, &row, `
		SELECT `+customerColumns+`
		FROM customers
		WHERE email = $1
	`, email)
	if err != nil {
		return nil, mapError(err)
	}
	c := row.toDomain()
	return &c, nil
}

func (s *Store) CreateCustomer(ctx context.Context, c *domain.Customer) error {
	id := uuid.NewString()
	created := time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO customers (id, name, email, phone, address, account_number, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, id, c.Name, c.Email, c.Phone, c.Address, c.AccountNumber, created)
	if err != nil {
		return fmt.Errorf("pgstore: insert customer %q: %w", c.Email, mapError(err))
	}

	c.ID = id
	c.Created = created
	return nil
}
