// Package services provides the quote margin engine and the customer, quote and
// work order services built on top of it.
package services

import (
	"errors"
	"math"

	"github.com/shopspring/decimal"

	"terracotta/domain"
)

// DefaultMarginThreshold is the minimum acceptable margin percentage.
const DefaultMarginThreshold = 30.0

// ErrMarginBelowMinimum is returned when a quote is submitted below the margin
// threshold without an override.
var ErrMarginBelowMinimum = errors.New("quote margin below minimum")

// MarginResult holds the aggregate totals for a list of line items. All three
// values are rounded to 2 decimal places.
type MarginResult struct {
	Margin     float64 `json:"margin"`
	TotalCost  float64 `json:"totalCost"`
	TotalPrice float64 `json:"totalPrice"`
}

// ComputeMargin sums cost*quantity and price*quantity over items and derives the
// margin percentage from the unrounded totals. A zero total price yields a
// margin of exactly 0. The items slice is only read.
//
// Sums are exact decimals, so large inputs cannot overflow into Inf or NaN.
// Totals beyond the float64 range saturate at math.MaxFloat64, and non-finite
// item amounts count as 0.
func ComputeMargin(items []domain.LineItem) MarginResult {
	totalCost, totalPrice := decimal.Zero, decimal.Zero
	for _, item := range items {
		qty := decimal.NewFromInt(int64(item.Quantity))
		totalCost = totalCost.Add(finiteDecimal(item.Cost).Mul(qty))
		totalPrice = totalPrice.Add(finiteDecimal(item.Price).Mul(qty))
	}

	margin := decimal.Zero
	if totalPrice.IsPositive() {
		margin = totalPrice.Sub(totalCost).Div(totalPrice).Mul(hundred)
	}

	return MarginResult{
		Margin:     roundedFloat(margin),
		TotalCost:  roundedFloat(totalCost),
		TotalPrice: roundedFloat(totalPrice),
	}
}

var hundred = decimal.NewFromInt(100)

func finiteDecimal(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}

// roundedFloat rounds d to 2 places and converts it, clamping to the finite
// float64 range.
func roundedFloat(d decimal.Decimal) float64 {
	f := d.Round(2).InexactFloat64()
	switch {
	case math.IsInf(f, 1):
		return math.MaxFloat64
	case math.IsInf(f, -1):
		return -math.MaxFloat64
	}
	return f
}

// IsBelowMinimumMargin reports whether margin is strictly below threshold. A
// NaN margin is always below.
func IsBelowMinimumMargin(margin, threshold float64) bool {
	return math.IsNaN(margin) || margin < threshold
}

// CheckMarginPolicy enforces the quote floor: a margin below threshold is
// rejected unless override is set. Override with an acceptable margin is a no-op.
func CheckMarginPolicy(margin, threshold float64, override bool) error {
	if IsBelowMinimumMargin(margin, threshold) && !override {
		return ErrMarginBelowMinimum
	}
	return nil
}

// Round2 rounds to 2 decimal places, half away from zero, working on the
// shortest decimal representation of v (so 1.005 rounds to 1.01).
// Non-finite values are returned unchanged.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
