package orders

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	domain "ticketing/internal/domain/orders"
	tdomain "ticketing/internal/domain/tickets"
	"ticketing/internal/entities"
)

// DefaultExpirationWindow is how long an unpaid order holds its ticket.
const DefaultExpirationWindow = 15 * time.Minute

type EventBus interface {
	Publish(ctx context.Context, event any) error
}

type OrdersRepository interface {
	Create(ctx context.Context, o domain.Order) error
	Get(ctx context.Context, id string) (domain.Order, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Order, error)
	Save(ctx context.Context, o domain.Order) (int, error)
	TicketReserved(ctx context.Context, ticketID string) (bool, error)
}

// TicketsRepository reads the local ticket replica, never the catalog.
type TicketsRepository interface {
	GetByID(ctx context.Context, id string) (tdomain.Ticket, error)
}

// Service drives the order lifecycle: Created -> Complete on payment, or
// Created -> Cancelled on user cancellation or expiration. Both end states
// are terminal; mutations against them are no-ops so redelivered triggers
// stay idempotent.
type Service struct {
	eb      EventBus
	orders  OrdersRepository
	tickets TicketsRepository
	window  time.Duration
}

func NewService(
	eb EventBus,
	ordersRepo OrdersRepository,
	ticketsRepo TicketsRepository,
	window time.Duration,
) *Service {
	if window <= 0 {
		window = DefaultExpirationWindow
	}

	return &Service{
		eb:      eb,
		orders:  ordersRepo,
		tickets: ticketsRepo,
		window:  window,
	}
}

// CreateOrder reserves a ticket for a user. The ticket must exist in the
// local replica and not be held by another live order. On success the order
// is persisted at version 0 and an OrderCreated event with the ticket price
// snapshot goes out; a publish failure is surfaced to the caller while the
// local write stays applied.
func (s *Service) CreateOrder(ctx context.Context, userID, ticketID string) (domain.Order, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("failed to load ticket %s: %w", ticketID, err)
	}

	reserved, err := s.orders.TicketReserved(ctx, ticketID)
	if err != nil {
		return domain.Order{}, err
	}
	if reserved {
		return domain.Order{}, domain.ErrTicketReserved
	}

	order := domain.NewOrder(
		uuid.NewString(),
		userID,
		ticket.ID,
		ticket.Price,
		time.Now().Add(s.window),
	)

	if err := s.orders.Create(ctx, order); err != nil {
		return domain.Order{}, err
	}

	err = s.eb.Publish(ctx, entities.OrderCreated{
		Header:    entities.NewEventHeader(),
		ID:        order.ID,
		Status:    string(order.Status),
		Version:   order.Version,
		UserID:    order.UserID,
		ExpiresAt: order.ExpiresAt,
		Ticket: entities.OrderTicket{
			ID:    ticket.ID,
			Price: ticket.Price,
		},
	})
	if err != nil {
		return domain.Order{}, fmt.Errorf("order %s created but event not published: %w", order.ID, err)
	}

	return order, nil
}

// CancelOrder cancels an order regardless of cause: explicit user request or
// expiration. A terminal order is returned unchanged with no event, which
// absorbs late expirations and duplicate deliveries.
func (s *Service) CancelOrder(ctx context.Context, orderID string) (domain.Order, error) {
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return domain.Order{}, err
	}

	if !order.Cancel() {
		return order, nil
	}

	newVersion, err := s.orders.Save(ctx, order)
	if err != nil {
		return domain.Order{}, err
	}
	order.Version = newVersion

	err = s.eb.Publish(ctx, entities.OrderCancelled{
		Header:  entities.NewEventHeader(),
		ID:      order.ID,
		Version: order.Version,
		Ticket: entities.OrderTicketID{
			ID: order.TicketID,
		},
	})
	if err != nil {
		return domain.Order{}, fmt.Errorf("order %s cancelled but event not published: %w", order.ID, err)
	}

	return order, nil
}

// CompleteOrder records payment confirmation. No follow-on event: the
// payment is the terminal signal.
func (s *Service) CompleteOrder(ctx context.Context, orderID string) error {
	order, err := s.orders.Get(ctx, orderID)
	if err != nil {
		return err
	}

	if !order.Complete() {
		return nil
	}

	_, err = s.orders.Save(ctx, order)
	return err
}

func (s *Service) GetOrder(ctx context.Context, orderID string) (domain.Order, error) {
	return s.orders.Get(ctx, orderID)
}

func (s *Service) ListOrders(ctx context.Context, userID string) ([]domain.Order, error) {
	return s.orders.ListByUser(ctx, userID)
}
