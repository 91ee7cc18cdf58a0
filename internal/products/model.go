package products

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalogue entry used to prefill invoice items.
type Product struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	DefaultPrice decimal.Decimal `json:"defaultPrice"`
	IsActive     bool            `json:"isActive"`
	CreatedAt    time.Time       `json:"createdAt"`
}

type CreateProductRequest struct {
	Name         string          `json:"name" validate:"required,max=200"`
	Category     string          `json:"category" validate:"required,max=64"`
	DefaultPrice decimal.Decimal `json:"defaultPrice"`
	IsActive     *bool           `json:"isActive"`
}

type UpdateProductRequest struct {
	Name         *string          `json:"name" validate:"omitempty,max=200"`
	Category     *string          `json:"category" validate:"omitempty,max=64"`
	DefaultPrice *decimal.Decimal `json:"defaultPrice"`
	IsActive     *bool            `json:"isActive"`
}
