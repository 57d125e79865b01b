package dao

import "time"

// Order is the persisted header of a completed sale. Immutable after
// insert; only whole-order deletion is supported.
type Order struct {
	OrderID       string      `json:"order_id"`
	Timestamp     time.Time   `json:"timestamp"`
	Cashier       string      `json:"cashier"`
	PaymentMethod string      `json:"payment_method"` // Cash | Card | Online
	Subtotal      float64     `json:"subtotal"`
	Tax           float64     `json:"tax"`
	Service       float64     `json:"service"`
	Discount      float64     `json:"discount"`
	Total         float64     `json:"total"`
	Lines         []OrderLine `json:"lines,omitempty"`
}

// OrderLine mirrors one cart line at checkout time. LineNo is the 1-based
// cart insertion position. No database-level foreign key exists; lines are
// created and deleted only inside the same transaction as their header.
type OrderLine struct {
	OrderID   string  `json:"order_id"`
	LineNo    int     `json:"line_no"`
	SKU       string  `json:"sku"`
	Item      string  `json:"item"`
	UnitPrice float64 `json:"unit_price"`
	Qty       int     `json:"qty"`
	LineTotal float64 `json:"line_total"`
}
