package memory

import (
	"context"
	"sort"
	"sync"

	domain "ticketing/internal/domain/orders"
	"ticketing/internal/repository"
)

type OrdersRepo struct {
	mu     sync.RWMutex
	orders map[string]domain.Order
}

func NewOrdersRepo() *OrdersRepo {
	return &OrdersRepo{orders: make(map[string]domain.Order)}
}

// Create stores a new order, rejecting it when another non-cancelled order
// already holds the ticket (the postgres variant enforces this with a
// partial unique index).
func (r *OrdersRepo) Create(_ context.Context, o domain.Order) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.orders {
		if existing.TicketID == o.TicketID && existing.Reserves() {
			return domain.ErrTicketReserved
		}
	}

	r.orders[o.ID] = o
	return nil
}

func (r *OrdersRepo) Get(_ context.Context, id string) (domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return domain.Order{}, repository.ErrNotFound
	}
	return o, nil
}

func (r *OrdersRepo) ListByUser(_ context.Context, userID string) ([]domain.Order, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var orders []domain.Order
	for _, o := range r.orders {
		if o.UserID == userID {
			orders = append(orders, o)
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		return orders[i].ExpiresAt.Before(orders[j].ExpiresAt)
	})
	return orders, nil
}

func (r *OrdersRepo) Save(_ context.Context, o domain.Order) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.orders[o.ID]
	if !ok || current.Version != o.Version {
		return 0, repository.ErrVersionConflict
	}

	o.Version++
	r.orders[o.ID] = o
	return o.Version, nil
}

func (r *OrdersRepo) TicketReserved(_ context.Context, ticketID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, o := range r.orders {
		if o.TicketID == ticketID && o.Reserves() {
			return true, nil
		}
	}
	return false, nil
}
