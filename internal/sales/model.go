package sales

import (
	"time"

	"github.com/shopspring/decimal"
)

// Entity is the resource name on the upstream API and the cache key entity.
const Entity = "sales"

// SaleLine is one sold product inside a sale.
type SaleLine struct {
	ProductID int64           `json:"productId"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

// Sale is a persisted checkout. Total is denominated in Currency.
type Sale struct {
	ID            int64           `json:"id"`
	Date          time.Time       `json:"date"`
	Currency      string          `json:"currency"`
	PaymentMethod string          `json:"paymentMethod"`
	Total         decimal.Decimal `json:"total"`
	Lines         []SaleLine      `json:"lines"`
	CreatedAt     *time.Time      `json:"createdAt,omitempty"`
	UpdatedAt     *time.Time      `json:"updatedAt,omitempty"`
}

// CreateSale is the payload for persisting a checkout upstream.
type CreateSale struct {
	Date          time.Time       `json:"date"`
	Currency      string          `json:"currency"`
	PaymentMethod string          `json:"paymentMethod"`
	Total         decimal.Decimal `json:"total"`
	Lines         []SaleLine      `json:"lines"`
}
