package invoices

import (
	"encoding/json"

	"github.com/shopspring/decimal"

	"github.com/nazaara/billing/internal/billing"
)

// CreateInvoiceRequest is the body of POST /api/invoices. Subtotal and Total
// are optional client figures checked against the server computation.
type CreateInvoiceRequest struct {
	CustomerID    string               `json:"customerId" validate:"required,uuid"`
	Status        billing.Status       `json:"status" validate:"omitempty,oneof=paid pending cancelled"`
	Items         []billing.Item       `json:"items"`
	DiscountType  billing.DiscountType `json:"discountType" validate:"omitempty,oneof=percent fixed"`
	DiscountValue decimal.Decimal      `json:"discountValue"`
	Subtotal      *decimal.Decimal     `json:"subtotal"`
	Total         *decimal.Decimal     `json:"total"`
	Notes         *string              `json:"notes"`
}

// UnmarshalJSON reads discountValue fail-soft: an unparsable value is zero.
func (r *CreateInvoiceRequest) UnmarshalJSON(data []byte) error {
	type plain CreateInvoiceRequest
	aux := struct {
		*plain
		DiscountValue json.RawMessage `json:"discountValue"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	r.DiscountValue = billing.AmountFromJSON(aux.DiscountValue)
	return nil
}

// UpdateInvoiceRequest is a partial update. The invoice number and the
// customer snapshot are not editable.
type UpdateInvoiceRequest struct {
	Status        *billing.Status       `json:"status" validate:"omitempty,oneof=paid pending cancelled"`
	Items         []billing.Item        `json:"items"`
	DiscountType  *billing.DiscountType `json:"discountType" validate:"omitempty,oneof=percent fixed"`
	DiscountValue *decimal.Decimal      `json:"discountValue"`
	Subtotal      *decimal.Decimal      `json:"subtotal"`
	Total         *decimal.Decimal      `json:"total"`
	Notes         *string               `json:"notes"`
}

// recomputes reports whether the update touches anything totals depend on.
func (r UpdateInvoiceRequest) recomputes() bool {
	return r.Items != nil || r.DiscountType != nil || r.DiscountValue != nil
}

// UnmarshalJSON reads a present discountValue fail-soft. Absent or null
// leaves the stored discount untouched.
func (r *UpdateInvoiceRequest) UnmarshalJSON(data []byte) error {
	type plain UpdateInvoiceRequest
	aux := struct {
		*plain
		DiscountValue json.RawMessage `json:"discountValue"`
	}{plain: (*plain)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	r.DiscountValue = nil
	if len(aux.DiscountValue) > 0 && string(aux.DiscountValue) != "null" {
		v := billing.AmountFromJSON(aux.DiscountValue)
		r.DiscountValue = &v
	}
	return nil
}
