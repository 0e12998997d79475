package services

import (
	"strings"

	"terracotta/domain"
)

// Dashboard lists the quotes and work orders that still need attention.
type Dashboard struct {
	Quotes     []domain.Quote     `json:"quotes"`
	WorkOrders []domain.WorkOrder `json:"work_orders"`
}

// BuildDashboard keeps Open or Approved quotes and work orders that are not
// Complete. A non-empty query further filters both lists by a case-insensitive
// substring match over customer name, email, phone and address.
func BuildDashboard(quotes []domain.Quote, workOrders []domain.WorkOrder, query string) Dashboard {
	needle := strings.ToLower(strings.TrimSpace(query))

	d := Dashboard{
		Quotes:     []domain.Quote{},
		WorkOrders: []domain.WorkOrder{},
	}
	for _, q := range quotes {
		if q.Status != domain.QuoteOpen && q.Status != domain.QuoteApproved {
			continue
		}
		if matchesSearch(needle, q.CustomerName, q.CustomerEmail, q.Phone, q.Address) {
			d.Quotes = append(d.Quotes, q)
		}
	}
	for _, w := range workOrders {
		if w.Status == domain.WorkOrderComplete {
			continue
		}
		if matchesSearch(needle, w.CustomerName, w.CustomerEmail, w.Phone, w.Address) {
			d.WorkOrders = append(d.WorkOrders, w)
		}
	}
	return d
}

func matchesSearch(needle string, fields ...string) bool {
	if needle == "" {
		return true
	}
	return strings.Contains(strings.ToLower(strings.Join(fields, " ")), needle)
}
