package products

import "github.com/shopspring/decimal"

// CreateProduct is the payload for creating a product. Server-assigned
// fields are absent by construction.
type CreateProduct struct {
	Code             string          `json:"code" validate:"required"`
	Name             string          `json:"name" validate:"required"`
	Description      string          `json:"description,omitempty"`
	Category         string          `json:"category" validate:"required"`
	PurchasePriceCup decimal.Decimal `json:"purchasePriceCup"`
	PurchasePriceUsd decimal.Decimal `json:"purchasePriceUsd"`
	SalePriceCup     decimal.Decimal `json:"salePriceCup"`
	SalePriceUsd     decimal.Decimal `json:"salePriceUsd"`
	Active           bool            `json:"active"`
}

// UpdateProduct carries a partial update; nil fields are left untouched
// by the upstream.
type UpdateProduct struct {
	Code             *string          `json:"code,omitempty"`
	Name             *string          `json:"name,omitempty"`
	Description      *string          `json:"description,omitempty"`
	Category         *string          `json:"category,omitempty"`
	PurchasePriceCup *decimal.Decimal `json:"purchasePriceCup,omitempty"`
	PurchasePriceUsd *decimal.Decimal `json:"purchasePriceUsd,omitempty"`
	SalePriceCup     *decimal.Decimal `json:"salePriceCup,omitempty"`
	SalePriceUsd     *decimal.Decimal `json:"salePriceUsd,omitempty"`
	Active           *bool            `json:"active,omitempty"`
}
