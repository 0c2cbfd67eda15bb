package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	domain "ticketing/internal/domain/tickets"
)

// Ticket is the database model for the ticket entity.
type Ticket struct {
	ID      string  `db:"ticket_id"`
	Title   string  `db:"title"`
	Price   float64 `db:"price"`
	Version int     `db:"version"`
}

type TicketsRepo struct {
	db *sqlx.DB
}

func NewTicketsRepo(db *sqlx.DB) *TicketsRepo {
	return &TicketsRepo{db: db}
}

// Create inserts a ticket at its event-carried version. Replayed
// TicketCreated deliveries hit the conflict clause and change nothing.
func (r *TicketsRepo) Create(ctx context.Context, t domain.Ticket) error {
	query := `
        INSERT INTO tickets (
            ticket_id, title, price, version
        ) VALUES (
            $1, $2, $3, $4
        ) ON CONFLICT DO NOTHING`

	_, err := r.db.ExecContext(ctx, query, t.ID, t.Title, t.Price, t.Version)
	if err != nil {
		return fmt.Errorf("failed to create ticket: %w", err)
	}
	return nil
}

func (r *TicketsRepo) GetByID(ctx context.Context, id string) (domain.Ticket, error) {
	var model Ticket

	query := `
        SELECT ticket_id, title, price, version
        FROM tickets
        WHERE ticket_id = $1`

	err := r.db.GetContext(ctx, &model, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Ticket{}, ErrNotFound
	}
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("failed to get ticket: %w", err)
	}

	return modelToTicket(model), nil
}

// GetByPriorVersion locates the record an incoming event was computed from:
// the ticket at exactly version-1. ErrNotFound means the predecessor is not
// there, either because the event is a replay or because it arrived ahead of
// its predecessor.
func (r *TicketsRepo) GetByPriorVersion(ctx context.Context, id string, version int) (domain.Ticket, error) {
	var model Ticket

	query := `
        SELECT ticket_id, title, price, version
        FROM tickets
        WHERE ticket_id = $1 AND version = $2`

	err := r.db.GetContext(ctx, &model, query, id, version-1)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Ticket{}, ErrNotFound
	}
	if err != nil {
		return domain.Ticket{}, fmt.Errorf("failed to get ticket by prior version: %w", err)
	}

	return modelToTicket(model), nil
}

// Save applies a mutation expecting t.Version to still be current, and
// advances the version by one. The version check and the write are a single
// statement, so racing writers cannot both succeed.
func (r *TicketsRepo) Save(ctx context.Context, t domain.Ticket) (int, error) {
	query := `
        UPDATE tickets
        SET title = $3, price = $4, version = version + 1
        WHERE ticket_id = $1 AND version = $2`

	res, err := r.db.ExecContext(ctx, query, t.ID, t.Version, t.Title, t.Price)
	if err != nil {
		return 0, fmt.Errorf("failed to save ticket: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if affected == 0 {
		return 0, ErrVersionConflict
	}

	return t.Version + 1, nil
}

func (r *TicketsRepo) List(ctx context.Context) ([]domain.Ticket, error) {
	var models []Ticket

	query := `
        SELECT ticket_id, title, price, version
        FROM tickets
        ORDER BY ticket_id`

	err := r.db.SelectContext(ctx, &models, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list tickets: %w", err)
	}

	tickets := make([]domain.Ticket, 0, len(models))
	for _, model := range models {
		tickets = append(tickets, modelToTicket(model))
	}
	return tickets, nil
}

func modelToTicket(model Ticket) domain.Ticket {
	return domain.Ticket{
		ID:      model.ID,
		Title:   model.Title,
		Price:   model.Price,
		Version: model.Version,
	}
}
