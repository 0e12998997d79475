// Package testhelpers provides utilities for testing PocketBase-based applications.
package testhelpers

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/pocketbase/pocketbase"
	"github.com/pocketbase/pocketbase/core"

	"terracotta/collections"
	"terracotta/domain"
	"terracotta/services"
)

// NewTestApp creates a PocketBase instance backed by a temporary directory.
// It bootstraps the app and runs collections.Setup to create all tables.
// The temporary directory is cleaned up automatically when the test finishes.
func NewTestApp(t *testing.T) *pocketbase.PocketBase {
	t.Helper()

	tmpDir := t.TempDir()
	app := pocketbase.NewWithConfig(pocketbase.Config{
		DefaultDataDir: tmpDir,
	})

	if err := app.Bootstrap(); err != nil {
		t.Fatalf("failed to bootstrap test app: %v", err)
	}
	t.Cleanup(func() {
		_ = app.ResetBootstrapState()
	})

	if err := collections.Setup(app); err != nil {
		t.Fatalf("failed to set up collections: %v", err)
	}

	return app
}

// CreateTestCustomer creates a customer record with the given name and email and returns it.
func CreateTestCustomer(t *testing.T, app *pocketbase.PocketBase, name, email string) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("customers")
	if err != nil {
		t.Fatalf("failed to find customers collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("name", name)
	record.Set("email", email)
	record.Set("phone", "555-0100")
	record.Set("address", "1 Test Street")
	record.Set("account_number", "ACCT-test0001")

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test customer: %v", err)
	}

	return record
}

// CreateTestQuote creates a quote record with the given line items. Totals and
// margin are computed with services.ComputeMargin.
func CreateTestQuote(t *testing.T, app *pocketbase.PocketBase, customerName, customerEmail string, status domain.QuoteStatus, items []domain.LineItem) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("quotes")
	if err != nil {
		t.Fatalf("failed to find quotes collection: %v", err)
	}

	result := services.ComputeMargin(items)

	record := core.NewRecord(col)
	record.Set("customer_name", customerName)
	record.Set("customer_email", customerEmail)
	record.Set("phone", "555-0100")
	record.Set("address", "1 Test Street")
	record.Set("line_items", items)
	record.Set("margin", result.Margin)
	record.Set("total", result.TotalPrice)
	record.Set("total_cost", result.TotalCost)
	record.Set("status", string(status))

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test quote: %v", err)
	}

	return record
}

// CreateTestWorkOrder creates a work order record and returns it.
func CreateTestWorkOrder(t *testing.T, app *pocketbase.PocketBase, customerName, description string, status domain.WorkOrderStatus) *core.Record {
	t.Helper()

	col, err := app.FindCollectionByNameOrId("work_orders")
	if err != nil {
		t.Fatalf("failed to find work_orders collection: %v", err)
	}

	record := core.NewRecord(col)
	record.Set("customer_name", customerName)
	record.Set("customer_email", strings.ToLower(strings.ReplaceAll(customerName, " ", "."))+"@example.com")
	record.Set("phone", "555-0100")
	record.Set("address", "1 Test Street")
	record.Set("description", description)
	record.Set("status", string(status))

	if err := app.Save(record); err != nil {
		t.Fatalf("failed to save test work order: %v", err)
	}

	return record
}

// RecordingMailer is a services.Mailer that keeps every message in memory and
// optionally fails with Err.
type RecordingMailer struct {
	mu   sync.Mutex
	Sent []services.Email
	Err  error
}

// Send records msg, or returns m.Err when set.
func (m *RecordingMailer) Send(ctx context.Context, msg services.Email) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	m.Sent = append(m.Sent, msg)
	return nil
}

// Messages returns a copy of the recorded messages.
func (m *RecordingMailer) Messages() []services.Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]services.Email, len(m.Sent))
	copy(out, m.Sent)
	return out
}

// AssertContains checks that body contains all specified fragments.
func AssertContains(t *testing.T, body string, fragments ...string) {
	t.Helper()

	for _, frag := range fragments {
		if !strings.Contains(body, frag) {
			t.Errorf("expected body to contain %q, but it was not found\nbody (first 500 chars): %s",
				frag, truncate(body, 500))
		}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
