package services

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"terracotta/domain"
)

func TestNormalizeLineItem(t *testing.T) {
	tests := []struct {
		name   string
		raw    map[string]any
		expect domain.LineItem
	}{
		{
			name:   "description only",
			raw:    map[string]any{"description": "y"},
			expect: domain.LineItem{Description: "y", Quantity: 1},
		},
		{
			name:   "empty map",
			raw:    map[string]any{},
			expect: domain.LineItem{Quantity: 1},
		},
		{
			name:   "nil map",
			raw:    nil,
			expect: domain.LineItem{Quantity: 1},
		},
		{
			name:   "numbers",
			raw:    map[string]any{"description": "x", "quantity": 2.0, "cost": 10.0, "price": 20.0},
			expect: domain.LineItem{Description: "x", Quantity: 2, Cost: 10, Price: 20},
		},
		{
			name:   "numeric strings",
			raw:    map[string]any{"quantity": " 3 ", "cost": "12.50", "price": "19.99"},
			expect: domain.LineItem{Quantity: 3, Cost: 12.5, Price: 19.99},
		},
		{
			name:   "fractional quantity truncates",
			raw:    map[string]any{"quantity": "2.7", "price": 10},
			expect: domain.LineItem{Quantity: 2, Price: 10},
		},
		{
			name:   "zero quantity kept",
			raw:    map[string]any{"quantity": 0, "price": 10},
			expect: domain.LineItem{Quantity: 0, Price: 10},
		},
		{
			name:   "garbage defaults",
			raw:    map[string]any{"quantity": "lots", "cost": "abc", "price": []int{1}},
			expect: domain.LineItem{Quantity: 1},
		},
		{
			name:   "empty strings default",
			raw:    map[string]any{"quantity": "", "cost": "  ", "price": ""},
			expect: domain.LineItem{Quantity: 1},
		},
		{
			name:   "negative values default",
			raw:    map[string]any{"quantity": "-3", "cost": -5, "price": "-1"},
			expect: domain.LineItem{Quantity: 1},
		},
		{
			name:   "non-finite values default",
			raw:    map[string]any{"quantity": "Inf", "cost": "NaN", "price": "+Inf"},
			expect: domain.LineItem{Quantity: 1},
		},
		{
			name:   "description trimmed",
			raw:    map[string]any{"description": "  Concrete pour  "},
			expect: domain.LineItem{Description: "Concrete pour", Quantity: 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expect, NormalizeLineItem(tt.raw))
		})
	}
}

func TestNormalizeLineItems_FromJSON(t *testing.T) {
	body := `[
		{"description": "Framing", "quantity": 2, "cost": 10, "price": 20},
		{"description": "Paint", "quantity": "", "cost": "5", "price": null},
		{"description": "Trim"}
	]`

	var raw []map[string]any
	require.NoError(t, json.Unmarshal([]byte(body), &raw))

	items := NormalizeLineItems(raw)
	require.Len(t, items, 3)
	assert.Equal(t, domain.LineItem{Description: "Framing", Quantity: 2, Cost: 10, Price: 20}, items[0])
	assert.Equal(t, domain.LineItem{Description: "Paint", Quantity: 1, Cost: 5}, items[1])
	assert.Equal(t, domain.LineItem{Description: "Trim", Quantity: 1}, items[2])

	result := ComputeMargin(items)
	assert.InDelta(t, 25, result.TotalCost, 0.001)
	assert.InDelta(t, 40, result.TotalPrice, 0.001)
	assert.InDelta(t, 37.5, result.Margin, 0.001)
}

func TestNormalizeLineItems_Empty(t *testing.T) {
	items := NormalizeLineItems(nil)
	assert.NotNil(t, items)
	assert.Empty(t, items)
	assert.Equal(t, MarginResult{}, ComputeMargin(items))
}
