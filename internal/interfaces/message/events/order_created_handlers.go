package events

import (
	"context"
	"time"

	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	"ticketing/internal/entities"
)

// OrderCreatedHandler enqueues the expiration check for a fresh order. The
// delay comes from the event's own deadline, so a redelivered event
// reschedules to the same fire time instead of extending the window.
func (h *ExpirationHandler) OrderCreatedHandler() cqrs.EventHandler {
	return cqrs.NewEventHandler(
		"schedule_expiration_handler",
		func(ctx context.Context, payload *entities.OrderCreated) error {
			delay := time.Until(payload.ExpiresAt)
			if delay < 0 {
				delay = 0
			}

			return h.scheduler.Schedule(ctx, payload.ID, delay)
		},
	)
}
