package service

import (
	"context"

	"pos-system/internal/pos/domain/dto"
)

type OrderServiceInterface interface {
	Checkout(ctx context.Context, sessionID string, req dto.CheckoutRequest) (dto.CheckoutResponse, error)
}

// KitchenPublisher pushes a ticket to the kitchen display queue. A nil
// publisher disables notifications (no broker configured).
type KitchenPublisher interface {
	PublishTicket(ctx context.Context, body []byte) error
}
