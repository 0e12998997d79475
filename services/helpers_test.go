package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"terracotta/domain"
	"terracotta/store"
)

// bytesReader wraps a byte slice in a bytes.Reader for use with excelize.OpenReader.
func bytesReader(b []byte) *bytes.Reader {
	return bytes.NewReader(b)
}

// memStore is an in-memory implementation of all three store interfaces.
type memStore struct {
	mu         sync.Mutex
	seq        int
	customers  []domain.Customer
	quotes     []domain.Quote
	workOrders []domain.WorkOrder

	// failCreateQuote, when set, is returned by CreateQuote.
	failCreateQuote error
	// staleLookups makes that many FindCustomerByEmail calls miss, as if
	// another writer had not committed yet.
	staleLookups int
}

var (
	_ store.CustomerStore  = (*memStore)(nil)
	_ store.QuoteStore     = (*memStore)(nil)
	_ store.WorkOrderStore = (*memStore)(nil)
)

func (m *memStore) nextID() string {
	m.seq++
	return fmt.Sprintf("id%03d", m.seq)
}

func (m *memStore) ListCustomers(ctx context.Context) ([]domain.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Customer, 0, len(m.customers))
	for i := len(m.customers) - 1; i >= 0; i-- {
		out = append(out, m.customers[i])
	}
	return out, nil
}

func (m *memStore) FindCustomerByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.staleLookups > 0 {
		m.staleLookups--
		return nil, store.ErrNotFound
	}
	for _, c := range m.customers {
		if strings.EqualFold(c.Email, email) {
			c := c
			return &c, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memStore) CreateCustomer(ctx context.Context, c *domain.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.customers {
		if strings.EqualFold(existing.Email, c.Email) {
			return store.ErrDuplicate
		}
	}
	c.ID = m.nextID()
	c.Created = time.Now().UTC()
	m.customers = append(m.customers, *c)
	return nil
}

func (m *memStore) ListQuotes(ctx context.Context) ([]domain.Quote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.Quote, 0, len(m.quotes))
	for i := len(m.quotes) - 1; i >= 0; i-- {
		out = append(out, m.quotes[i])
	}
	return out, nil
}

func (m *memStore) GetQuote(ctx context.Context, id string) (*domain.Quote, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, q := range m.quotes {
		if q.ID == id {
			q := q
			return &q, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memStore) CreateQuote(ctx context.Context, q *domain.Quote) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failCreateQuote != nil {
		return m.failCreateQuote
	}
	q.ID = m.nextID()
	q.Created = time.Now().UTC()
	q.Updated = q.Created
	m.quotes = append(m.quotes, *q)
	return nil
}

func (m *memStore) UpdateQuoteStatus(ctx context.Context, id string, status domain.QuoteStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.quotes {
		if m.quotes[i].ID == id {
			m.quotes[i].Status = status
			return nil
		}
	}
	return store.ErrNotFound
}

func (m *memStore) ListWorkOrders(ctx context.Context) ([]domain.WorkOrder, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]domain.WorkOrder, 0, len(m.workOrders))
	for i := len(m.workOrders) - 1; i >= 0; i-- {
		out = append(out, m.workOrders[i])
	}
	return out, nil
}

func (m *memStore) CreateWorkOrder(ctx context.Context, w *domain.WorkOrder) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	w.ID = m.nextID()
	w.Created = time.Now().UTC()
	m.workOrders = append(m.workOrders, *w)
	return nil
}

func (m *memStore) UpdateWorkOrderStatus(ctx context.Context, id string, status domain.WorkOrderStatus, completedAt *time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.workOrders {
		if m.workOrders[i].ID == id {
			m.workOrders[i].Status = status
			if completedAt != nil {
				t := *completedAt
				m.workOrders[i].CompletedAt = &t
			}
			return nil
		}
	}
	return store.ErrNotFound
}

// fakeMailer records sent messages and optionally fails.
type fakeMailer struct {
	sent []Email
	err  error
}

func (f *fakeMailer) Send(ctx context.Context, msg Email) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, msg)
	return nil
}

var errBoom = errors.New("boom")
