package inventory

import "time"

// Entity is the resource name on the upstream API and the cache key entity.
const Entity = "inventory"

// MovementType enumerates stock movements.
type MovementType string

const (
	// MovementSale is an outbound movement from a checkout.
	MovementSale MovementType = "sale"
	// MovementAdjust is a manual correction.
	MovementAdjust MovementType = "adjust"
	// MovementPurchase is an inbound restock.
	MovementPurchase MovementType = "purchase"
)

// StockLevel is the current stock position of a product.
type StockLevel struct {
	ID          int64      `json:"id"`
	ProductCode string     `json:"productCode"`
	ProductName string     `json:"productName"`
	Current     int        `json:"current"`
	Minimum     int        `json:"minimum"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty"`
}

// Low reports whether the position is at or under its minimum.
func (s StockLevel) Low() bool {
	return s.Current <= s.Minimum
}

// Movement is one historical stock change.
type Movement struct {
	ID       int64        `json:"id"`
	Date     time.Time    `json:"date"`
	Product  string       `json:"product"`
	Type     MovementType `json:"type"`
	Quantity int          `json:"quantity"`
	User     string       `json:"user"`
}
