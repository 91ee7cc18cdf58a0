package settings

import (
	"github.com/shopspring/decimal"
)

// Settings is the shop-wide singleton record.
type Settings struct {
	ShopName          string          `json:"shopName"`
	Tagline           *string         `json:"tagline"`
	Address           *string         `json:"address"`
	Phone             *string         `json:"phone"`
	GSTNumber         *string         `json:"gstNumber"`
	Currency          string          `json:"currency"`
	TaxRate           decimal.Decimal `json:"taxRate"`
	InvoicePrefix     string          `json:"invoicePrefix"`
	LastInvoiceNumber int64           `json:"lastInvoiceNumber"`
}

// Defaults returns the values a fresh installation starts with.
func Defaults() Settings {
	tagline := "Exclusive Fashion & Style"
	return Settings{
		ShopName:      "Nazaara",
		Tagline:       &tagline,
		Currency:      "INR",
		TaxRate:       decimal.Zero,
		InvoicePrefix: "NZ-",
	}
}

// UpdateSettingsRequest merges into the stored settings. Nil fields are unchanged.
type UpdateSettingsRequest struct {
	ShopName          *string          `json:"shopName" validate:"omitempty,max=120"`
	Tagline           *string          `json:"tagline" validate:"omitempty,max=200"`
	Address           *string          `json:"address" validate:"omitempty,max=500"`
	Phone             *string          `json:"phone" validate:"omitempty,max=32"`
	GSTNumber         *string          `json:"gstNumber" validate:"omitempty,max=32"`
	Currency          *string          `json:"currency" validate:"omitempty,len=3,alpha"`
	TaxRate           *decimal.Decimal `json:"taxRate"`
	InvoicePrefix     *string          `json:"invoicePrefix" validate:"omitempty,max=20"`
	LastInvoiceNumber *int64           `json:"lastInvoiceNumber" validate:"omitempty,gte=0"`
}

// Empty reports whether the request changes nothing.
func (r UpdateSettingsRequest) Empty() bool {
	return r.ShopName == nil && r.Tagline == nil && r.Address == nil && r.Phone == nil &&
		r.GSTNumber == nil && r.Currency == nil && r.TaxRate == nil && r.InvoicePrefix == nil &&
		r.LastInvoiceNumber == nil
}
