package events

import (
	"context"
	"errors"

	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"ticketing/internal/entities"
	"ticketing/internal/repository"
)

// PaymentCreatedHandler completes an order when the payments service
// confirms it. A missing order is retried via redelivery (the OrderCreated
// write may still be racing in another replica); a version conflict means a
// newer state already landed and is acked as done.
func (h *OrdersHandler) PaymentCreatedHandler() cqrs.EventHandler {
	return cqrs.NewEventHandler(
		"complete_order_handler",
		func(ctx context.Context, payload *entities.PaymentCreated) error {
			err := h.orders.CompleteOrder(ctx, payload.OrderID)
			if errors.Is(err, repository.ErrVersionConflict) {
				return nil
			}
			return err
		},
	)
}

// ExpirationCompleteHandler cancels an order whose reservation window
// elapsed. An order already Complete (or Cancelled) is a no-op inside the
// cancel transition, so the late fire after a minute-10 payment changes
// nothing.
func (h *OrdersHandler) ExpirationCompleteHandler() cqrs.EventHandler {
	return cqrs.NewEventHandler(
		"expire_order_handler",
		func(ctx context.Context, payload *entities.ExpirationComplete) error {
			_, err := h.orders.CancelOrder(ctx, payload.OrderID)
			if errors.Is(err, repository.ErrVersionConflict) {
				return nil
			}
			return err
		},
	)
}
