// Package billing holds the invoice domain types and the pure calculations
// shared by the invoice store, reports and documents.
package billing

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Status enumerates invoice lifecycle states. Transitions are unrestricted.
type Status string

const (
	StatusPaid      Status = "paid"
	StatusPending   Status = "pending"
	StatusCancelled Status = "cancelled"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPaid, StatusPending, StatusCancelled:
		return true
	}
	return false
}

// DiscountType selects how DiscountValue is applied.
type DiscountType string

const (
	DiscountPercent DiscountType = "percent"
	DiscountFixed   DiscountType = "fixed"
)

// Valid reports whether d is a known discount type.
func (d DiscountType) Valid() bool {
	return d == DiscountPercent || d == DiscountFixed
}

// Item is a line on an invoice. It has no identity outside its invoice.
type Item struct {
	ID          string          `json:"id,omitempty"`
	Category    string          `json:"category"`
	Description string          `json:"description,omitempty"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
	LineTotal   decimal.Decimal `json:"lineTotal"`
}

// UnmarshalJSON reads unitPrice fail-soft: an unparsable price is zero and
// the row is dropped as unpriced.
func (it *Item) UnmarshalJSON(data []byte) error {
	type plain Item
	aux := struct {
		*plain
		UnitPrice json.RawMessage `json:"unitPrice"`
		LineTotal json.RawMessage `json:"lineTotal"`
	}{plain: (*plain)(it)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	it.UnitPrice = AmountFromJSON(aux.UnitPrice)
	it.LineTotal = AmountFromJSON(aux.LineTotal)
	return nil
}

// Invoice is a sale to a customer. Customer name and phone are copied at
// creation and do not follow later edits to the customer.
type Invoice struct {
	ID             uuid.UUID       `json:"id"`
	InvoiceNumber  string          `json:"invoiceNumber"`
	CustomerID     *uuid.UUID      `json:"customerId"`
	CustomerName   string          `json:"customerName"`
	CustomerPhone  string          `json:"customerPhone"`
	Status         Status          `json:"status"`
	Items          []Item          `json:"items"`
	Subtotal       decimal.Decimal `json:"subtotal"`
	DiscountType   DiscountType    `json:"discountType"`
	DiscountValue  decimal.Decimal `json:"discountValue"`
	DiscountAmount decimal.Decimal `json:"discountAmount"`
	Total          decimal.Decimal `json:"total"`
	Notes          *string         `json:"notes"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

// ApplyTotals copies computed totals onto the invoice.
func (inv *Invoice) ApplyTotals(t Totals) {
	inv.Subtotal = t.Subtotal
	inv.DiscountAmount = t.DiscountAmount
	inv.Total = t.Total
}
