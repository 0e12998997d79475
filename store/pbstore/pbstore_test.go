package pbstore_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"terracotta/domain"
	"terracotta/store"
	"terracotta/store/pbstore"
	"terracotta/testhelpers"
)

func TestCustomers(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	s := pbstore.New(app)
	ctx := context.Background()

	first := &domain.Customer{Name: "Ada", Email: "ada@example.com", AccountNumber: "ACCT-00000001"}
	if err := s.CreateCustomer(ctx, first); err != nil {
		t.Fatalf("CreateCustomer() error = %v", err)
	}
	if first.ID == "" || first.Created.IsZero() {
		t.Errorf("expected ID and Created to be set, got %+v", first)
	}

	second := &domain.Customer{Name: "Bob", Email: "bob@example.com", Phone: "555-0102"}
	if err := s.CreateCustomer(ctx, second); err != nil {
		t.Fatalf("CreateCustomer() error = %v", err)
	}

	dup := &domain.Customer{Name: "Ada 2", Email: "ada@example.com"}
	if err := s.CreateCustomer(ctx, dup); !errors.Is(err, store.ErrDuplicate) {
		t.Errorf("duplicate CreateCustomer() error = %v, want ErrDuplicate", err)
	}

	got, err := s.FindCustomerByEmail(ctx, "ada@example.com")
	if err != nil {
		t.Fatalf("FindCustomerByEmail() error = %v", err)
	}
	if got.ID != first.ID || got.AccountNumber != "ACCT-00000001" {
		t.Errorf("FindCustomerByEmail() = %+v", got)
	}

	if _, err := s.FindCustomerByEmail(ctx, "nobody@example.com"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("FindCustomerByEmail(missing) error = %v, want ErrNotFound", err)
	}

	list, err := s.ListCustomers(ctx)
	if err != nil {
		t.Fatalf("ListCustomers() error = %v", err)
	}
	if len(list) != 2 || list[0].Email != "bob@example.com" {
		t.Errorf("ListCustomers() = %+v, want bob first", list)
	}
}

func TestQuotes(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	s := pbstore.New(app)
	ctx := context.Background()

	cust := &domain.Customer{Name: "Ada", Email: "ada@example.com"}
	if err := s.CreateCustomer(ctx, cust); err != nil {
		t.Fatalf("CreateCustomer() error = %v", err)
	}

	q := &domain.Quote{
		CustomerID:    cust.ID,
		CustomerName:  "Ada",
		CustomerEmail: "ada@example.com",
		LineItems: []domain.LineItem{
			{Description: "Concrete", Quantity: 2, Cost: 100, Price: 200},
			{Description: "Labour", Quantity: 0, Cost: 50, Price: 80},
		},
		Margin:    50,
		Total:     400,
		TotalCost: 200,
		Status:    domain.QuoteOpen,
	}
	if err := s.CreateQuote(ctx, q); err != nil {
		t.Fatalf("CreateQuote() error = %v", err)
	}

	zero := &domain.Quote{CustomerName: "Walk-in", Status: domain.QuoteOpen, AllowOverride: true}
	if err := s.CreateQuote(ctx, zero); err != nil {
		t.Fatalf("CreateQuote(zero totals) error = %v", err)
	}

	got, err := s.GetQuote(ctx, q.ID)
	if err != nil {
		t.Fatalf("GetQuote() error = %v", err)
	}
	if got.CustomerID != cust.ID {
		t.Errorf("CustomerID = %q, want %q", got.CustomerID, cust.ID)
	}
	if len(got.LineItems) != 2 || got.LineItems[0].Description != "Concrete" || got.LineItems[1].Quantity != 0 {
		t.Errorf("LineItems = %+v", got.LineItems)
	}
	if got.Total != 400 || got.TotalCost != 200 || got.Margin != 50 {
		t.Errorf("totals = %v/%v/%v", got.Total, got.TotalCost, got.Margin)
	}

	if err := s.UpdateQuoteStatus(ctx, q.ID, domain.QuoteApproved); err != nil {
		t.Fatalf("UpdateQuoteStatus() error = %v", err)
	}
	got, _ = s.GetQuote(ctx, q.ID)
	if got.Status != domain.QuoteApproved {
		t.Errorf("Status = %q, want Approved", got.Status)
	}

	if _, err := s.GetQuote(ctx, "doesnotexist123"); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("GetQuote(missing) error = %v, want ErrNotFound", err)
	}
	if err := s.UpdateQuoteStatus(ctx, "doesnotexist123", domain.QuoteApproved); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("UpdateQuoteStatus(missing) error = %v, want ErrNotFound", err)
	}

	list, err := s.ListQuotes(ctx)
	if err != nil {
		t.Fatalf("ListQuotes() error = %v", err)
	}
	if len(list) != 2 || list[0].ID != zero.ID {
		t.Errorf("ListQuotes() = %+v, want newest first", list)
	}
	if list[0].LineItems == nil {
		t.Error("empty line items should decode as an empty slice")
	}
}

func TestWorkOrders(t *testing.T) {
	app := testhelpers.NewTestApp(t)
	s := pbstore.New(app)
	ctx := context.Background()

	w := &domain.WorkOrder{
		CustomerName:  "Ada",
		CustomerEmail: "ada@example.com",
		Reference:     "WO-1",
		Description:   "Pour slab",
		Status:        domain.WorkOrderNew,
	}
	if err := s.CreateWorkOrder(ctx, w); err != nil {
		t.Fatalf("CreateWorkOrder() error = %v", err)
	}

	list, err := s.ListWorkOrders(ctx)
	if err != nil {
		t.Fatalf("ListWorkOrders() error = %v", err)
	}
	if len(list) != 1 || list[0].CompletedAt != nil {
		t.Fatalf("ListWorkOrders() = %+v", list)
	}

	done := time.Date(2026, 2, 1, 15, 4, 5, 0, time.UTC)
	if err := s.UpdateWorkOrderStatus(ctx, w.ID, domain.WorkOrderComplete, &done); err != nil {
		t.Fatalf("UpdateWorkOrderStatus() error = %v", err)
	}

	list, _ = s.ListWorkOrders(ctx)
	got := list[0]
	if got.Status != domain.WorkOrderComplete {
		t.Errorf("Status = %q, want Complete", got.Status)
	}
	if got.CompletedAt == nil || !got.CompletedAt.Equal(done) {
		t.Errorf("CompletedAt = %v, want %v", got.CompletedAt, done)
	}

	if err := s.UpdateWorkOrderStatus(ctx, "doesnotexist123", domain.WorkOrderNew, nil); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("UpdateWorkOrderStatus(missing) error = %v, want ErrNotFound", err)
	}
}
