package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	domain "ticketing/internal/domain/tickets"
	"ticketing/internal/entities"
)

const (
	listingCacheKey = "tickets:all"
	listingCacheTTL = 60 * time.Second
)

type EventBus interface {
	Publish(ctx context.Context, event any) error
}

type TicketsRepository interface {
	Create(ctx context.Context, t domain.Ticket) error
	GetByID(ctx context.Context, id string) (domain.Ticket, error)
	Save(ctx context.Context, t domain.Ticket) (int, error)
	List(ctx context.Context) ([]domain.Ticket, error)
}

// Service owns the authoritative ticket records and announces every accepted
// mutation on the bus so other services can maintain their replicas.
type Service struct {
	eb      EventBus
	tickets TicketsRepository
	cache   *redis.Client
}

func NewService(eb EventBus, ticketsRepo TicketsRepository, cache *redis.Client) *Service {
	return &Service{
		eb:      eb,
		tickets: ticketsRepo,
		cache:   cache,
	}
}

func (s *Service) CreateTicket(ctx context.Context, title string, price float64) (domain.Ticket, error) {
	ticket, err := domain.NewTicket(uuid.NewString(), title, price)
	if err != nil {
		return domain.Ticket{}, err
	}

	if err := s.tickets.Create(ctx, ticket); err != nil {
		return domain.Ticket{}, err
	}

	err = s.eb.Publish(ctx, entities.TicketCreated{
		Header:  entities.NewEventHeader(),
		ID:      ticket.ID,
		Title:   ticket.Title,
		Price:   ticket.Price,
		Version: ticket.Version,
	})
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("ticket %s created but event not published: %w", ticket.ID, err)
	}

	return ticket, nil
}

// UpdateTicket mutates a ticket through the version guard and publishes the
// post-mutation state. A conflict means a concurrent update won; the caller
// retries with fresh state.
func (s *Service) UpdateTicket(ctx context.Context, id, title string, price float64) (domain.Ticket, error) {
	if price < 0 {
		return domain.Ticket{}, domain.ErrInvalidPrice
	}

	ticket, err := s.tickets.GetByID(ctx, id)
	if err != nil {
		return domain.Ticket{}, err
	}

	ticket.Title = title
	ticket.Price = price

	newVersion, err := s.tickets.Save(ctx, ticket)
	if err != nil {
		return domain.Ticket{}, err
	}
	ticket.Version = newVersion

	err = s.eb.Publish(ctx, entities.TicketUpdated{
		Header:  entities.NewEventHeader(),
		ID:      ticket.ID,
		Title:   ticket.Title,
		Price:   ticket.Price,
		Version: ticket.Version,
	})
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("ticket %s updated but event not published: %w", ticket.ID, err)
	}

	return ticket, nil
}

// ListTickets serves the listing from a short-lived cache; cache failures
// fall through to the store.
func (s *Service) ListTickets(ctx context.Context) ([]domain.Ticket, error) {
	cached, err := s.cache.Get(ctx, listingCacheKey).Result()
	if err == nil {
		var tickets []domain.Ticket
		if err := json.Unmarshal([]byte(cached), &tickets); err == nil {
			return tickets, nil
		}
	} else if err != redis.Nil {
		log.FromContext(ctx).
			WithField("error", err).
			Warn("Ticket listing cache read failed")
	}

	tickets, err := s.tickets.List(ctx)
	if err != nil {
		return nil, err
	}

	payload, err := json.Marshal(tickets)
	if err == nil {
		if err := s.cache.Set(ctx, listingCacheKey, payload, listingCacheTTL).Err(); err != nil {
			log.FromContext(ctx).
				WithField("error", err).
				Warn("Ticket listing cache write failed")
		}
	}

	return tickets, nil
}
