package services

import (
	"math"
	"strings"

	"github.com/spf13/cast"

	"terracotta/domain"
)

const (
	defaultQuantity = 1
	maxQuantity     = 1_000_000_000
)

// NormalizeLineItems converts loosely-typed request line items into validated
// LineItem values. It never fails: malformed fields fall back to their defaults.
func NormalizeLineItems(raw []map[string]any) []domain.LineItem {
	items := make([]domain.LineItem, 0, len(raw))
	for _, r := range raw {
		items = append(items, NormalizeLineItem(r))
	}
	return items
}

// NormalizeLineItem coerces a single raw line item. Missing, non-numeric,
// non-finite or negative values become 1 for quantity and 0 for cost and price.
// Fractional quantities are truncated toward zero.
func NormalizeLineItem(raw map[string]any) domain.LineItem {
	item := domain.LineItem{
		Description: strings.TrimSpace(cast.ToString(raw["description"])),
		Quantity:    defaultQuantity,
	}

	if qty, ok := coerceNonNegative(raw["quantity"]); ok && qty < maxQuantity {
		item.Quantity = int(math.Trunc(qty))
	}
	if cost, ok := coerceNonNegative(raw["cost"]); ok {
		item.Cost = cost
	}
	if price, ok := coerceNonNegative(raw["price"]); ok {
		item.Price = price
	}
	return item
}

// coerceNonNegative parses v as a finite, non-negative float64. The second
// return value is false when v is absent or unusable.
func coerceNonNegative(v any) (float64, bool) {
	if v == nil {
		return 0, false
	}
	if s, isString := v.(string); isString {
		s = strings.TrimSpace(s)
		if s == "" {
			return 0, false
		}
		v = s
	}

	f, err := cast.ToFloat64E(v)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 {
		return 0, false
	}
	return f, true
}
