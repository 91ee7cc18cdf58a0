package billing

import (
	"encoding/json"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	hundred = decimal.NewFromInt(100)
	// Tolerance is the largest difference accepted between client-submitted
	// and recomputed totals.
	Tolerance = decimal.New(1, -2)
	// MaxAmount is the largest value a stored money column holds.
	MaxAmount = decimal.RequireFromString("9999999999.99")
)

// Totals is the derived money of an invoice.
type Totals struct {
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	Total          decimal.Decimal `json:"total"`
}

// ClampQuantity enforces the minimum quantity of one.
func ClampQuantity(q int) int {
	if q < 1 {
		return 1
	}
	return q
}

// ParseAmount parses a money string, treating anything unparsable as zero.
func ParseAmount(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// AmountFromJSON decodes a JSON number or string with ParseAmount. Null,
// absent and malformed values read as zero.
func AmountFromJSON(raw json.RawMessage) decimal.Decimal {
	if len(raw) == 0 {
		return decimal.Zero
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return ParseAmount(s)
	}
	return ParseAmount(string(raw))
}

// WholeCents reports whether d has at most two decimal places.
func WholeCents(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(2))
}

// Storable reports whether d fits a money column.
func Storable(d decimal.Decimal) bool {
	return d.Abs().LessThanOrEqual(MaxAmount)
}

// LineTotal returns quantity × unitPrice with the quantity clamped to one and
// negative prices read as zero.
func LineTotal(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	if unitPrice.IsNegative() {
		unitPrice = decimal.Zero
	}
	return unitPrice.Mul(decimal.NewFromInt(int64(ClampQuantity(quantity))))
}

// QualifyingItems keeps the items with a positive unit price, normalising
// quantity and recomputing each line total. Zero-price rows are unfinished
// entries and are never persisted.
func QualifyingItems(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, it := range items {
		if !it.UnitPrice.IsPositive() {
			continue
		}
		it.Quantity = ClampQuantity(it.Quantity)
		it.LineTotal = LineTotal(it.Quantity, it.UnitPrice)
		out = append(out, it)
	}
	return out
}

// ComputeTotals derives subtotal, discount and total. It never fails: an
// unknown discount type is treated as percent and a negative discount as zero.
// The discount is not capped, but the total never drops below zero.
func ComputeTotals(items []Item, discountType DiscountType, discountValue decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, it := range QualifyingItems(items) {
		subtotal = subtotal.Add(it.LineTotal)
	}
	if discountValue.IsNegative() {
		discountValue = decimal.Zero
	}

	var discount decimal.Decimal
	if discountType == DiscountFixed {
		discount = discountValue
	} else {
		discount = subtotal.Mul(discountValue).Div(hundred)
	}
	discount = discount.Round(2)

	total := subtotal.Sub(discount)
	if total.IsNegative() {
		total = decimal.Zero
	}
	return Totals{Subtotal: subtotal, DiscountAmount: discount, Total: total}
}

// TotalsMatch reports whether a and b agree within Tolerance.
func TotalsMatch(a, b decimal.Decimal) bool {
	return a.Sub(b).Abs().LessThanOrEqual(Tolerance)
}
