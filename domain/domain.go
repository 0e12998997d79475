// Package domain holds the entity types shared by the services, stores and handlers.
package domain

import "time"

// LineItem is one priced entry within a quote. Position in the owning slice is
// the display order.
type LineItem struct {
	Description string  `json:"description"`
	Quantity    int     `json:"quantity"`
	Cost        float64 `json:"cost"`
	Price       float64 `json:"price"`
}

// Customer is a company client. Email is unique across customers.
type Customer struct {
	ID            string    `json:"id"`
	Name          string    `json:"name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	Address       string    `json:"address"`
	AccountNumber string    `json:"account_number"`
	Created       time.Time `json:"created_at"`
}

// QuoteStatus is the lifecycle state of a quote.
type QuoteStatus string

const (
	QuoteOpen     QuoteStatus = "Open"
	QuoteApproved QuoteStatus = "Approved"
	QuoteRejected QuoteStatus = "Rejected"
	QuoteInvoiced QuoteStatus = "Invoiced"
)

// QuoteStatuses lists the accepted quote statuses in display order.
var QuoteStatuses = []QuoteStatus{QuoteOpen, QuoteApproved, QuoteRejected, QuoteInvoiced}

// Valid reports whether s is a known quote status.
func (s QuoteStatus) Valid() bool {
	for _, v := range QuoteStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// Quote is a finalized price quote. Margin, Total and TotalCost are computed by
// the margin engine at submission time and stored alongside the line items.
type Quote struct {
	ID            string      `json:"id"`
	CustomerID    string      `json:"customer_id,omitempty"`
	CustomerName  string      `json:"customer_name"`
	CustomerEmail string      `json:"customer_email"`
	Phone         string      `json:"phone"`
	Address       string      `json:"address"`
	LineItems     []LineItem  `json:"line_items"`
	Margin        float64     `json:"margin"`
	Total         float64     `json:"total"`
	TotalCost     float64     `json:"total_cost"`
	AllowOverride bool        `json:"allow_override"`
	Status        QuoteStatus `json:"status"`
	Created       time.Time   `json:"created_at"`
	Updated       time.Time   `json:"updated_at"`
}

// WorkOrderStatus is the lifecycle state of a work order.
type WorkOrderStatus string

const (
	WorkOrderNew        WorkOrderStatus = "New"
	WorkOrderInProgress WorkOrderStatus = "In Progress"
	WorkOrderComplete   WorkOrderStatus = "Complete"
)

// WorkOrderStatuses lists the accepted work order statuses in display order.
var WorkOrderStatuses = []WorkOrderStatus{WorkOrderNew, WorkOrderInProgress, WorkOrderComplete}

// Valid reports whether s is a known work order status.
func (s WorkOrderStatus) Valid() bool {
	for _, v := range WorkOrderStatuses {
		if s == v {
			return true
		}
	}
	return false
}

// WorkOrder is a tracked unit of scheduled labor for a customer.
type WorkOrder struct {
	ID            string          `json:"id"`
	CustomerName  string          `json:"customer_name"`
	CustomerEmail string          `json:"customer_email"`
	Phone         string          `json:"phone"`
	Address       string          `json:"address"`
	Reference     string          `json:"reference"`
	Description   string          `json:"description"`
	Status        WorkOrderStatus `json:"status"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty"`
	Created       time.Time       `json:"created_at"`
}
