// Package domain holds the error taxonomy shared by the POS service and
// its storage layer.
package domain

import "errors"

var (
	// ErrEmptyCart rejects a checkout with zero lines before any side effect.
	ErrEmptyCart = errors.New("cart is empty")

	// ErrDuplicateOrderID reports an insert whose order_id already exists.
	ErrDuplicateOrderID = errors.New("order id already exists")

	// ErrOrderNotFound reports a lookup for an absent order.
	ErrOrderNotFound = errors.New("order not found")

	// ErrInvalidPayment rejects a payment method outside Cash/Card/Online.
	ErrInvalidPayment = errors.New("invalid payment method")
)
