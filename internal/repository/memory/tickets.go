// Package memory provides in-memory stores with the same contracts as the
// postgres repositories, useful for local development and tests.
package memory

import (
	"context"
	"sort"
	"sync"

	domain "ticketing/internal/domain/tickets"
	"ticketing/internal/repository"
)

type TicketsRepo struct {
	mu      sync.RWMutex
	tickets map[string]domain.Ticket
}

func NewTicketsRepo() *TicketsRepo {
	return &TicketsRepo{tickets: make(map[string]domain.Ticket)}
}

// Create stores a ticket at its carried version. Re-creating an existing
// ticket changes nothing, matching the postgres ON CONFLICT DO NOTHING.
func (r *TicketsRepo) Create(_ context.Context, t domain.Ticket) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.tickets[t.ID]; ok {
		return nil
	}
	r.tickets[t.ID] = t
	return nil
}

func (r *TicketsRepo) GetByID(_ context.Context, id string) (domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tickets[id]
	if !ok {
		return domain.Ticket{}, repository.ErrNotFound
	}
	return t, nil
}

func (r *TicketsRepo) GetByPriorVersion(_ context.Context, id string, version int) (domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tickets[id]
	if !ok || t.Version != version-1 {
		return domain.Ticket{}, repository.ErrNotFound
	}
	return t, nil
}

func (r *TicketsRepo) Save(_ context.Context, t domain.Ticket) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.tickets[t.ID]
	if !ok || current.Version != t.Version {
		return 0, repository.ErrVersionConflict
	}

	t.Version++
	r.tickets[t.ID] = t
	return t.Version, nil
}

func (r *TicketsRepo) List(_ context.Context) ([]domain.Ticket, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	tickets := make([]domain.Ticket, 0, len(r.tickets))
	for _, t := range r.tickets {
		tickets = append(tickets, t)
	}
	sort.Slice(tickets, func(i, j int) bool {
		return tickets[i].ID < tickets[j].ID
	})
	return tickets, nil
}
