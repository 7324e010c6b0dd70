package products

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entity is the resource name on the upstream API and the cache key entity.
const Entity = "products"

// Product represents a sellable product. Category is a denormalized label
// matching a Category name; the upstream owns referential integrity.
type Product struct {
	ID               int64           `json:"id"`
	Code             string          `json:"code"`
	Name             string          `json:"name"`
	Description      string          `json:"description,omitempty"`
	Category         string          `json:"category"`
	PurchasePriceCup decimal.Decimal `json:"purchasePriceCup"`
	PurchasePriceUsd decimal.Decimal `json:"purchasePriceUsd"`
	SalePriceCup     decimal.Decimal `json:"salePriceCup"`
	SalePriceUsd     decimal.Decimal `json:"salePriceUsd"`
	Active           bool            `json:"active"`
	CreatedAt        *time.Time      `json:"createdAt,omitempty"`
	UpdatedAt        *time.Time      `json:"updatedAt,omitempty"`
}

// SalePrice returns the listed sale price for a currency. Prices are
// listed per currency, never converted.
func (p Product) SalePrice(currency string) decimal.Decimal {
	if currency == "USD" {
		return p.SalePriceUsd
	}
	return p.SalePriceCup
}

// Filters narrow the product list client-side.
type Filters struct {
	Category string
	Active   *bool
	Search   string
}
