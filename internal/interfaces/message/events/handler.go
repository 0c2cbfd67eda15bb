package events

import (
	"context"
	"time"

	odomain "ticketing/internal/domain/orders"
	tdomain "ticketing/internal/domain/tickets"
)

// TicketsReplica is the orders-side ticket store fed by catalog events.
type TicketsReplica interface {
	Create(ctx context.Context, t tdomain.Ticket) error
	GetByID(ctx context.Context, id string) (tdomain.Ticket, error)
	GetByPriorVersion(ctx context.Context, id string, version int) (tdomain.Ticket, error)
	Save(ctx context.Context, t tdomain.Ticket) (int, error)
}

type OrderLifecycle interface {
	CancelOrder(ctx context.Context, orderID string) (odomain.Order, error)
	CompleteOrder(ctx context.Context, orderID string) error
}

type ExpirationScheduler interface {
	Schedule(ctx context.Context, orderID string, delay time.Duration) error
}

// OrdersHandler bundles the orders service's listeners.
type OrdersHandler struct {
	tickets TicketsReplica
	orders  OrderLifecycle
}

func NewOrdersHandler(tickets TicketsReplica, orders OrderLifecycle) *OrdersHandler {
	return &OrdersHandler{
		tickets: tickets,
		orders:  orders,
	}
}

// ExpirationHandler bundles the expiration service's listeners.
type ExpirationHandler struct {
	scheduler ExpirationScheduler
}

func NewExpirationHandler(scheduler ExpirationScheduler) *ExpirationHandler {
	return &ExpirationHandler{
		scheduler: scheduler,
	}
}
