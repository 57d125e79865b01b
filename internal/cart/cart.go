package cart

import (
	"errors"

	"github.com/shopspring/decimal"
)

var ErrInvalidQty = errors.New("quantity must be at least 1")

// Item is the snapshot added to a cart: a menu entry whose unit price may
// have been overridden at the register.
type Item struct {
	SKU       string  `json:"sku"`
	Category  string  `json:"category"`
	Item      string  `json:"item"`
	UnitPrice float64 `json:"unit_price"`
}

type Line struct {
	SKU       string  `json:"sku"`
	Category  string  `json:"category"`
	Item      string  `json:"item"`
	UnitPrice float64 `json:"unit_price"`
	Qty       int     `json:"qty"`
	LineTotal float64 `json:"line_total"`
}

// Cart is an order-scoped sequence of lines, insertion order significant,
// unique by SKU. Not safe for concurrent use; ownership is per session.
type Cart struct {
	lines []Line
}

func New() *Cart { return &Cart{} }

// Add merges into an existing line when the SKU is already present: the
// quantity grows and the original unit price is kept, so a price override
// only takes effect on first insertion of that SKU.
func (c *Cart) Add(item Item, qty int) error {
	if qty <= 0 {
		return ErrInvalidQty
	}
	for i := range c.lines {
		if c.lines[i].SKU == item.SKU {
			c.lines[i].Qty += qty
			c.lines[i].LineTotal = lineTotal(c.lines[i].UnitPrice, c.lines[i].Qty)
			return nil
		}
	}
	c.lines = append(c.lines, Line{
		SKU:       item.SKU,
		Category:  item.Category,
		Item:      item.Item,
		UnitPrice: item.UnitPrice,
		Qty:       qty,
		LineTotal: lineTotal(item.UnitPrice, qty),
	})
	return nil
}

// Lines returns the cart in insertion order with line totals recomputed
// from unit price and quantity, rounded to 2 decimal places. An empty cart
// yields an empty (non-nil) slice.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	for i, l := range c.lines {
		l.LineTotal = lineTotal(l.UnitPrice, l.Qty)
		out[i] = l
	}
	return out
}

func (c *Cart) Len() int { return len(c.lines) }

func (c *Cart) Reset() { c.lines = nil }

func lineTotal(unitPrice float64, qty int) float64 {
	f, _ := decimal.NewFromFloat(unitPrice).
		Mul(decimal.NewFromInt(int64(qty))).
		Round(2).Float64()
	return f
}
