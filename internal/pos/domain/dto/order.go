package dto

import "time"

type AddItemRequest struct {
	SKU       string   `json:"sku"`
	Qty       int      `json:"qty"`
	UnitPrice *float64 `json:"unit_price,omitempty"` // price override for this cart line
}

type CheckoutRequest struct {
	OrderID        string  `json:"order_id,omitempty"` // generated when empty
	Cashier        string  `json:"cashier"`
	PaymentMethod  string  `json:"payment_method"` // Cash | Card | Online
	TaxRate        float64 `json:"tax_rate"`
	Service        float64 `json:"service"`
	Discount       float64 `json:"discount"`
	AmountTendered float64 `json:"amount_tendered"` // cash only
}

type CheckoutResponse struct {
	OrderID         string    `json:"order_id"`
	Timestamp       time.Time `json:"timestamp"`
	Subtotal        float64   `json:"subtotal"`
	Tax             float64   `json:"tax"`
	Service         float64   `json:"service"`
	Discount        float64   `json:"discount"`
	Total           float64   `json:"total"`
	ChangeDue       float64   `json:"change_due"`
	KitchenNotified bool      `json:"kitchen_notified"`
	ReceiptHTML     string    `json:"receipt_html"`
	ReceiptPDF      string    `json:"receipt_pdf"`
}

// KitchenTicket is the message published for the kitchen display when an
// order is placed.
type KitchenTicket struct {
	OrderID   string       `json:"order_id"`
	Timestamp time.Time    `json:"timestamp"`
	Cashier   string       `json:"cashier"`
	Items     []TicketItem `json:"items"`
}

type TicketItem struct {
	Item string `json:"item"`
	Qty  int    `json:"qty"`
}
