package services

import (
	"fmt"
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

// FormatUSD formats an amount as US dollars with thousands separators and
// exactly 2 decimal places, e.g. $1,234,567.80. Rounding matches Round2.
func FormatUSD(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return "$0.00"
	}

	negative := false
	if amount < 0 {
		negative = true
		amount = -amount
	}

	raw := decimal.NewFromFloat(amount).StringFixed(2)

	parts := strings.SplitN(raw, ".", 2)
	intPart := parts[0]
	decPart := parts[1]

	result := "$" + applyThousandsGrouping(intPart) + "." + decPart
	if negative && raw != "0.00" {
		result = "-" + result
	}
	return result
}

// applyThousandsGrouping inserts a comma every 3 digits from the right.
func applyThousandsGrouping(s string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	var b strings.Builder
	lead := n % 3
	if lead > 0 {
		b.WriteString(s[:lead])
	}
	for i := lead; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s[i : i+3])
	}
	return b.String()
}

// FormatPercent renders a margin percentage with 2 decimal places.
func FormatPercent(pct float64) string {
	return fmt.Sprintf("%.2f%%", Round2(pct))
}

// formatQty renders a quantity for documents.
func formatQty(qty int) string {
	return fmt.Sprintf("%d", qty)
}
