package billing

import (
	"encoding/json"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func item(qty int, price string) Item {
	return Item{Category: "suit", Quantity: qty, UnitPrice: d(price)}
}

func TestLineTotal(t *testing.T) {
	assert.True(t, LineTotal(3, d("250.50")).Equal(d("751.5")))
	assert.True(t, LineTotal(0, d("100")).Equal(d("100")), "quantity clamps to 1")
	assert.True(t, LineTotal(-4, d("100")).Equal(d("100")))
	assert.True(t, LineTotal(2, d("-5")).IsZero())
}

func TestParseAmountFailsSoft(t *testing.T) {
	assert.True(t, ParseAmount("12.5").Equal(d("12.5")))
	assert.True(t, ParseAmount(" 40 ").Equal(d("40")))
	assert.True(t, ParseAmount("abc").IsZero())
	assert.True(t, ParseAmount("").IsZero())
}

func TestAmountFromJSON(t *testing.T) {
	assert.True(t, AmountFromJSON(json.RawMessage(`"99.90"`)).Equal(d("99.9")))
	assert.True(t, AmountFromJSON(json.RawMessage(`120.25`)).Equal(d("120.25")))
	assert.True(t, AmountFromJSON(json.RawMessage(`"n/a"`)).IsZero())
	assert.True(t, AmountFromJSON(json.RawMessage(`null`)).IsZero())
	assert.True(t, AmountFromJSON(nil).IsZero())
}

func TestItemUnmarshalReadsPriceFailSoft(t *testing.T) {
	var items []Item
	raw := `[{"id":"r1","category":"suit","quantity":2,"unitPrice":"abc"},{"category":"top","quantity":1,"unitPrice":"45.5","lineTotal":"45.50"}]`
	require.NoError(t, json.Unmarshal([]byte(raw), &items))

	require.Len(t, items, 2)
	assert.Equal(t, "r1", items[0].ID)
	assert.Equal(t, 2, items[0].Quantity)
	assert.True(t, items[0].UnitPrice.IsZero())
	assert.True(t, items[1].UnitPrice.Equal(d("45.5")))
	assert.True(t, items[1].LineTotal.Equal(d("45.5")))
	assert.Empty(t, QualifyingItems(items[:1]), "unparsable price reads as unpriced")
}

func TestMoneyColumnBounds(t *testing.T) {
	assert.True(t, WholeCents(d("10.50")))
	assert.True(t, WholeCents(d("10")))
	assert.False(t, WholeCents(d("0.335")))

	assert.True(t, Storable(MaxAmount))
	assert.False(t, Storable(MaxAmount.Add(d("0.01"))))
}

func TestComputeTotalsExcludesZeroPriceItems(t *testing.T) {
	items := []Item{item(2, "500"), item(1, "0"), item(1, "250")}
	totals := ComputeTotals(items, DiscountPercent, decimal.Zero)
	assert.True(t, totals.Subtotal.Equal(d("1250")), totals.Subtotal.String())
	assert.True(t, totals.Total.Equal(d("1250")))
	assert.True(t, totals.DiscountAmount.IsZero())
}

func TestComputeTotalsIgnoresStaleLineTotals(t *testing.T) {
	stale := item(2, "500")
	stale.LineTotal = d("1")
	totals := ComputeTotals([]Item{stale}, DiscountFixed, decimal.Zero)
	assert.True(t, totals.Subtotal.Equal(d("1000")))
}

func TestComputeTotalsPercentDiscount(t *testing.T) {
	cases := []struct {
		items    []Item
		percent  string
		discount string
		total    string
	}{
		{[]Item{item(1, "1000")}, "10", "100", "900"},
		{[]Item{item(3, "333.33")}, "15", "150", "849.99"},
		{[]Item{item(1, "1000")}, "0", "0", "1000"},
		{[]Item{item(1, "1000")}, "100", "1000", "0"},
		{[]Item{item(1, "1000")}, "250", "2500", "0"},
	}
	for _, tc := range cases {
		totals := ComputeTotals(tc.items, DiscountPercent, d(tc.percent))
		assert.True(t, totals.DiscountAmount.Equal(d(tc.discount)), "discount %s got %s", tc.percent, totals.DiscountAmount)
		assert.True(t, totals.Total.Equal(d(tc.total)), "total for %s got %s", tc.percent, totals.Total)
		assert.False(t, totals.Total.IsNegative())
	}
}

func TestComputeTotalsFixedDiscount(t *testing.T) {
	items := []Item{item(2, "400")}
	totals := ComputeTotals(items, DiscountFixed, d("150"))
	assert.True(t, totals.DiscountAmount.Equal(d("150")))
	assert.True(t, totals.Total.Equal(d("650")))

	totals = ComputeTotals(items, DiscountFixed, d("5000"))
	assert.True(t, totals.DiscountAmount.Equal(d("5000")), "fixed discount is not capped")
	assert.True(t, totals.Total.IsZero())
}

func TestComputeTotalsOutOfRangeInputs(t *testing.T) {
	totals := ComputeTotals(nil, DiscountPercent, d("10"))
	assert.True(t, totals.Subtotal.IsZero())
	assert.True(t, totals.Total.IsZero())

	totals = ComputeTotals([]Item{item(1, "100")}, DiscountType("bogus"), d("10"))
	assert.True(t, totals.Total.Equal(d("90")), "unknown type behaves as percent")

	totals = ComputeTotals([]Item{item(1, "100")}, DiscountFixed, d("-20"))
	assert.True(t, totals.Total.Equal(d("100")))
}

func TestQualifyingItemsRecomputes(t *testing.T) {
	items := QualifyingItems([]Item{item(0, "120"), item(4, "0")})
	require.Len(t, items, 1)
	assert.Equal(t, 1, items[0].Quantity)
	assert.True(t, items[0].LineTotal.Equal(d("120")))
}

func TestTotalsMatch(t *testing.T) {
	assert.True(t, TotalsMatch(d("100.00"), d("100.01")))
	assert.True(t, TotalsMatch(d("99.995"), d("100")))
	assert.False(t, TotalsMatch(d("100"), d("100.02")))
}

func TestFormatInvoiceNumber(t *testing.T) {
	assert.Equal(t, "NZ-00007", FormatInvoiceNumber("NZ-", 7))
	assert.Equal(t, "NZ-00001", FormatInvoiceNumber("NZ-", 1))
	assert.Equal(t, "INV99999", FormatInvoiceNumber("INV", 99999))
	assert.Equal(t, "NZ-123456", FormatInvoiceNumber("NZ-", 123456))
}

func TestStatusAndDiscountTypeValid(t *testing.T) {
	assert.True(t, StatusCancelled.Valid())
	assert.False(t, Status("void").Valid())
	assert.True(t, DiscountFixed.Valid())
	assert.False(t, DiscountType("").Valid())
}
