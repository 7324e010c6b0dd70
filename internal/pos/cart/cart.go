// Package cart models a checkout session: line items over the product
// catalog with per-currency totals. A cart never persists anything; it is
// discarded or cleared when the session ends.
package cart

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/mercadito-pos/mercadito-pos/internal/catalog/products"
)

// Currency selects which listed price each line uses. Switching currency
// re-prices every line from the product's currency-specific price; no
// amount is ever converted.
type Currency string

const (
	CUP Currency = "CUP"
	USD Currency = "USD"
)

// Valid reports whether the currency is one of the two supported units.
func (c Currency) Valid() bool {
	return c == CUP || c == USD
}

// State of a checkout session.
type State int

const (
	// Open accepts item changes.
	Open State = iota
	// Completed marks a finished checkout; the only transition out is
	// Clear, which returns the cart to Open with no items.
	Completed
)

// ErrCompleted is returned when mutating a completed cart.
var ErrCompleted = errors.New("cart: session already completed")

// ErrEmpty is returned when completing a cart with no items.
var ErrEmpty = errors.New("cart: no items")

// Item is one cart line. Quantity is always >= 1; a decrement to zero
// removes the line instead.
type Item struct {
	Product  products.Product
	Quantity int
}

// Cart is a single checkout session. Not safe for concurrent use; one
// cart belongs to one session.
type Cart struct {
	state State
	items []Item
}

func New() *Cart {
	return &Cart{}
}

// State returns the session state.
func (c *Cart) State() State {
	return c.state
}

// Items returns the lines in insertion order.
func (c *Cart) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of lines.
func (c *Cart) Len() int {
	return len(c.items)
}

// Add puts one unit of the product in the cart, merging with an existing
// line for the same product.
func (c *Cart) Add(p products.Product) error {
	if c.state != Open {
		return ErrCompleted
	}
	for i := range c.items {
		if c.items[i].Product.ID == p.ID {
			c.items[i].Quantity++
			return nil
		}
	}
	c.items = append(c.items, Item{Product: p, Quantity: 1})
	return nil
}

// SetQuantity sets a line's quantity. Zero or less removes the line; a
// line with quantity below one never persists.
func (c *Cart) SetQuantity(productID int64, quantity int) error {
	if c.state != Open {
		return ErrCompleted
	}
	if quantity <= 0 {
		return c.Remove(productID)
	}
	for i := range c.items {
		if c.items[i].Product.ID == productID {
			c.items[i].Quantity = quantity
			return nil
		}
	}
	return nil
}

// Remove drops a line. Removing an unknown product is a no-op.
func (c *Cart) Remove(productID int64) error {
	if c.state != Open {
		return ErrCompleted
	}
	for i := range c.items {
		if c.items[i].Product.ID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			break
		}
	}
	return nil
}

// Total sums unit price in the selected currency times quantity over all
// lines.
func (c *Cart) Total(currency Currency) decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.items {
		price := item.Product.SalePrice(string(currency))
		total = total.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))
	}
	return total
}

// Complete marks the session finished. The cart's contents stay readable
// until Clear.
func (c *Cart) Complete() error {
	if c.state != Open {
		return ErrCompleted
	}
	if len(c.items) == 0 {
		return ErrEmpty
	}
	c.state = Completed
	return nil
}

// Clear returns the cart to Open with no items, whatever its state.
func (c *Cart) Clear() {
	c.state = Open
	c.items = nil
}
