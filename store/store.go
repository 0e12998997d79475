// Package store defines the persistence capabilities the services depend on.
// Concrete adapters live in the pbstore (PocketBase collections) and pgstore
// (Postgres tables) subpackages.
package store

import (
	"context"
	"errors"
	"time"

	"terracotta/domain"
)

var (
	// ErrNotFound is returned when a record with the requested key does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicate is returned when a unique key (customer email) is already taken.
	ErrDuplicate = errors.New("duplicate record")
)

// CustomerStore persists customers.
type CustomerStore interface {
	// ListCustomers returns all customers, newest first.
	ListCustomers(ctx context.Context) ([]domain.Customer, error)
	// FindCustomerByEmail returns ErrNotFound when no customer has the email.
	FindCustomerByEmail(ctx context.Context, email string) (*domain.Customer, error)
	// CreateCustomer assigns ID and Created on c.
	CreateCustomer(ctx context.Context, c *domain.Customer) error
}

// QuoteStore persists quotes.
type QuoteStore interface {
	ListQuotes(ctx context.Context) ([]domain.Quote, error)
	GetQuote(ctx context.Context, id string) (*domain.Quote, error)
	// CreateQuote assigns ID, Created and Updated on q.
	CreateQuote(ctx context.Context, q *domain.Quote) error
	UpdateQuoteStatus(ctx context.Context, id string, status domain.QuoteStatus) error
}

// WorkOrderStore persists work orders.
type WorkOrderStore interface {
	ListWorkOrders(ctx context.Context) ([]domain.WorkOrder, error)
	// CreateWorkOrder assigns ID and Created on w.
	CreateWorkOrder(ctx context.Context, w *domain.WorkOrder) error
	// UpdateWorkOrderStatus sets the status and, when completedAt is non-nil,
	// the completion time.
	UpdateWorkOrderStatus(ctx context.Context, id string, status domain.WorkOrderStatus, completedAt *time.Time) error
}

// Stores bundles the three capabilities of one backend.
type Stores struct {
	Customers  CustomerStore
	Quotes     QuoteStore
	WorkOrders WorkOrderStore
}
