package events

import (
	"context"
	"errors"
	"fmt"

	"github.com/ThreeDotsLabs/watermill/components/cqrs"
	tdomain "ticketing/internal/domain/tickets"
	"ticketing/internal/entities"
	"ticketing/internal/repository"
)

// TicketCreatedHandler seeds the local replica. The store ignores an insert
// for an existing ID, so redelivered events are harmless.
func (h *OrdersHandler) TicketCreatedHandler() cqrs.EventHandler {
	return cqrs.NewEventHandler(
		"store_ticket_handler",
		func(ctx context.Context, payload *entities.TicketCreated) error {
			return h.tickets.Create(ctx, tdomain.Ticket{
				ID:      payload.ID,
				Title:   payload.Title,
				Price:   payload.Price,
				Version: payload.Version,
			})
		},
	)
}

// TicketUpdatedHandler applies a catalog update to the replica. The event is
// applied only on top of the exact predecessor version, which is what keeps
// per-ticket ordering strict regardless of delivery order:
//
//   - replica at version-1: apply, version advances to the event's.
//   - replica already at or past the event's version: duplicate, ack no-op.
//   - replica behind version-1 (or absent): the predecessor has not arrived
//     yet; fail so the broker redelivers after it lands.
func (h *OrdersHandler) TicketUpdatedHandler() cqrs.EventHandler {
	return cqrs.NewEventHandler(
		"update_ticket_handler",
		func(ctx context.Context, payload *entities.TicketUpdated) error {
			ticket, err := h.tickets.GetByPriorVersion(ctx, payload.ID, payload.Version)
			if errors.Is(err, repository.ErrNotFound) {
				current, curErr := h.tickets.GetByID(ctx, payload.ID)
				if curErr == nil && current.Version >= payload.Version {
					return nil
				}
				return fmt.Errorf("ticket %s has no record at version %d: %w",
					payload.ID, payload.Version-1, repository.ErrNotFound)
			}
			if err != nil {
				return err
			}

			ticket.Title = payload.Title
			ticket.Price = payload.Price

			if _, err := h.tickets.Save(ctx, ticket); err != nil {
				// a sibling replica worker applied it between our read and write
				if errors.Is(err, repository.ErrVersionConflict) {
					return nil
				}
				return err
			}

			return nil
		},
	)
}
