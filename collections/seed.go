package collections

import (
	"fmt"

	"github.com/pocketbase/pocketbase/core"
	"github.com/rs/zerolog/log"

	"terracotta/domain"
	"terracotta/services"
)

type seedCustomer struct {
	name    string
	email   string
	phone   string
	address string
	account string
}

type seedQuote struct {
	customer int // index into seedCustomers
	status   domain.QuoteStatus
	override bool
	items    []domain.LineItem
}

type seedWorkOrder struct {
	customer    int
	reference   string
	description string
	status      domain.WorkOrderStatus
}

var seedCustomers = []seedCustomer{
	{"Maria Alvarez", "maria.alvarez@example.com", "555-0142", "18 Adobe Way, Santa Fe, NM", "ACCT-5f3a9c21"},
	{"Desert Bloom Cafe", "owner@desertbloom.example.com", "555-0199", "402 Canyon Rd, Santa Fe, NM", "ACCT-0b7e44d9"},
	{"Henry Okafor", "h.okafor@example.com", "555-0117", "7 Juniper Ct, Los Alamos, NM", "ACCT-c81d02fe"},
}

var seedQuotes = []seedQuote{
	{
		customer: 0,
		status:   domain.QuoteOpen,
		items: []domain.LineItem{
			{Description: "Terracotta tile patio, per sq ft", Quantity: 320, Cost: 6.25, Price: 11.50},
			{Description: "Site prep and grading", Quantity: 1, Cost: 900, Price: 1600},
		},
	},
	{
		customer: 1,
		status:   domain.QuoteApproved,
		items: []domain.LineItem{
			{Description: "Storefront adobe wall repair", Quantity: 1, Cost: 2400, Price: 3650},
			{Description: "Lime plaster finish, per sq ft", Quantity: 180, Cost: 4.10, Price: 7.00},
		},
	},
	{
		customer: 2,
		status:   domain.QuoteOpen,
		override: true,
		items: []domain.LineItem{
			{Description: "Emergency roof patch", Quantity: 1, Cost: 780, Price: 950},
		},
	},
}

var seedWorkOrders = []seedWorkOrder{
	{1, "Q-BLOOM-01", "Repair and replaster front adobe wall", domain.WorkOrderInProgress},
	{2, "", "Roof patch over kitchen", domain.WorkOrderNew},
}

// Seed populates customers, quotes and work orders with demo data. It is safe
// to call on every startup because it returns early if any customer records
// already exist.
func Seed(app core.App) error {
	// ── idempotency: skip if customers already exist ─────────────────
	customersCol, err := app.FindCollectionByNameOrId("customers")
	if err != nil {
		return fmt.Errorf("seed: could not find customers collection: %w", err)
	}
	existing, err := app.FindAllRecords(customersCol)
	if err != nil {
		return fmt.Errorf("seed: could not query customers: %w", err)
	}
	if len(existing) > 0 {
		return nil // already seeded
	}

	log.Info().Msg("seed: customers collection is empty, inserting demo data")

	quotesCol, err := app.FindCollectionByNameOrId("quotes")
	if err != nil {
		return fmt.Errorf("seed: could not find quotes collection: %w", err)
	}
	workOrdersCol, err := app.FindCollectionByNameOrId("work_orders")
	if err != nil {
		return fmt.Errorf("seed: could not find work_orders collection: %w", err)
	}

	customers := make([]*core.Record, 0, len(seedCustomers))
	for _, c := range seedCustomers {
		r := core.NewRecord(customersCol)
		r.Set("name", c.name)
		r.Set("email", c.email)
		r.Set("phone", c.phone)
		r.Set("address", c.address)
		r.Set("account_number", c.account)
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: save customer %q: %w", c.name, err)
		}
		customers = append(customers, r)
	}

	for _, q := range seedQuotes {
		cust := customers[q.customer]
		result := services.ComputeMargin(q.items)

		r := core.NewRecord(quotesCol)
		r.Set("customer", cust.Id)
		r.Set("customer_name", cust.GetString("name"))
		r.Set("customer_email", cust.GetString("email"))
		r.Set("phone", cust.GetString("phone"))
		r.Set("address", cust.GetString("address"))
		r.Set("line_items", q.items)
		r.Set("margin", result.Margin)
		r.Set("total", result.TotalPrice)
		r.Set("total_cost", result.TotalCost)
		r.Set("allow_override", q.override)
		r.Set("status", string(q.status))
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: save quote for %q: %w", cust.GetString("name"), err)
		}
	}

	for _, w := range seedWorkOrders {
		cust := customers[w.customer]

		r := core.NewRecord(workOrdersCol)
		r.Set("customer_name", cust.GetString("name"))
		r.Set("customer_email", cust.GetString("email"))
		r.Set("phone", cust.GetString("phone"))
		r.Set("address", cust.GetString("address"))
		r.Set("reference", w.reference)
		r.Set("description", w.description)
		r.Set("status", string(w.status))
		if err := app.Save(r); err != nil {
			return fmt.Errorf("seed: save work order %q: %w", w.description, err)
		}
	}

	log.Info().
		Int("customers", len(seedCustomers)).
		Int("quotes", len(seedQuotes)).
		Int("work_orders", len(seedWorkOrders)).
		Msg("seed: demo data inserted")
	return nil
}
