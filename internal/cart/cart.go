// Package cart holds the shopper's line items between browsing and checkout.
// A Cart never talks to the network and is not safe for concurrent use.
package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the catalog snapshot taken when an item is added.
type Product struct {
	ID    uuid.UUID
	Name  string
	Price decimal.Decimal
	Image string
	Stock int
}

type Line struct {
	Product
	Quantity int
}

func (l Line) Total() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Cart struct {
	lines []Line
}

func New() *Cart {
	return &Cart{}
}

// Add appends product with quantity, or increases the quantity of an
// existing line. Quantities below one count as one. Stock is not checked
// here; SetQuantity is where the clamp applies.
func (c *Cart) Add(p Product, quantity int) {
	if quantity < 1 {
		quantity = 1
	}
	if i := c.index(p.ID); i >= 0 {
		c.lines[i].Quantity += quantity
		return
	}
	c.lines = append(c.lines, Line{Product: p, Quantity: quantity})
}

// SetQuantity removes the line when quantity <= 0 and otherwise stores
// min(quantity, stock). A sold-out line is removed. Unknown ids are ignored.
func (c *Cart) SetQuantity(id uuid.UUID, quantity int) {
	i := c.index(id)
	if i < 0 {
		return
	}
	quantity = min(quantity, c.lines[i].Stock)
	if quantity <= 0 {
		c.removeAt(i)
		return
	}
	c.lines[i].Quantity = quantity
}

func (c *Cart) Remove(id uuid.UUID) {
	if i := c.index(id); i >= 0 {
		c.removeAt(i)
	}
}

func (c *Cart) TotalItems() int {
	n := 0
	for _, l := range c.lines {
		n += l.Quantity
	}
	return n
}

func (c *Cart) TotalPrice() decimal.Decimal {
	total := decimal.Zero
	for _, l := range c.lines {
		total = total.Add(l.Total())
	}
	return total
}

func (c *Cart) Clear() {
	c.lines = nil
}

// Items returns a copy of the lines in insertion order.
func (c *Cart) Items() []Line {
	out := make([]Line, len(c.lines))
	copy(out, c.lines)
	return out
}

func (c *Cart) Len() int { return len(c.lines) }

func (c *Cart) IsEmpty() bool { return len(c.lines) == 0 }

func (c *Cart) index(id uuid.UUID) int {
	for i, l := range c.lines {
		if l.ID == id {
			return i
		}
	}
	return -1
}

func (c *Cart) removeAt(i int) {
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
}
