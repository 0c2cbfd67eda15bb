package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	domain "ticketing/internal/domain/orders"
)

// Order is the database model for the order entity.
type Order struct {
	ID          string    `db:"order_id"`
	UserID      string    `db:"user_id"`
	Status      string    `db:"status"`
	ExpiresAt   time.Time `db:"expires_at"`
	TicketID    string    `db:"ticket_id"`
	TicketPrice float64   `db:"ticket_price"`
	Version     int       `db:"version"`
}

type OrdersRepo struct {
	db *sqlx.DB
}

func NewOrdersRepo(db *sqlx.DB) *OrdersRepo {
	return &OrdersRepo{db: db}
}

// Create inserts a new order at version 0. The reservation index rejects a
// second non-cancelled order for the same ticket; that surfaces as
// domain.ErrTicketReserved so racing checkouts lose cleanly.
func (r *OrdersRepo) Create(ctx context.Context, o domain.Order) error {
	query := `
        INSERT INTO orders (
            order_id, user_id, status, expires_at, ticket_id, ticket_price, version
        ) VALUES (
            $1, $2, $3, $4, $5, $6, $7
        )`

	_, err := r.db.ExecContext(ctx, query,
		o.ID,
		o.UserID,
		string(o.Status),
		o.ExpiresAt,
		o.TicketID,
		o.TicketPrice,
		o.Version,
	)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return domain.ErrTicketReserved
	}
	if err != nil {
		return fmt.Errorf("failed to create order: %w", err)
	}
	return nil
}

func (r *OrdersRepo) Get(ctx context.Context, id string) (domain.Order, error) {
	var model Order

	query := `
        SELECT order_id, user_id, status, expires_at, ticket_id, ticket_price, version
        FROM orders
        WHERE order_id = $1`

	err := r.db.GetContext(ctx, &model, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, ErrNotFound
	}
	if err != nil {
		return domain.Order{}, fmt.Errorf("failed to get order: %w", err)
	}

	return modelToOrder(model), nil
}

func (r *OrdersRepo) ListByUser(ctx context.Context, userID string) ([]domain.Order, error) {
	var models []Order

	query := `
        SELECT order_id, user_id, status, expires_at, ticket_id, ticket_price, version
        FROM orders
        WHERE user_id = $1
        ORDER BY expires_at`

	err := r.db.SelectContext(ctx, &models, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	orders := make([]domain.Order, 0, len(models))
	for _, model := range models {
		orders = append(orders, modelToOrder(model))
	}
	return orders, nil
}

// Save applies a mutation expecting o.Version to still be current, and
// advances the version by one. Zero rows affected means someone else got
// there first.
func (r *OrdersRepo) Save(ctx context.Context, o domain.Order) (int, error) {
	query := `
        UPDATE orders
        SET status = $3, expires_at = $4, version = version + 1
        WHERE order_id = $1 AND version = $2`

	res, err := r.db.ExecContext(ctx, query, o.ID, o.Version, string(o.Status), o.ExpiresAt)
	if err != nil {
		return 0, fmt.Errorf("failed to save order: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if affected == 0 {
		return 0, ErrVersionConflict
	}

	return o.Version + 1, nil
}

// TicketReserved reports whether a non-cancelled order currently holds the
// ticket.
func (r *OrdersRepo) TicketReserved(ctx context.Context, ticketID string) (bool, error) {
	var reserved bool

	query := `
        SELECT EXISTS (
            SELECT 1 FROM orders
            WHERE ticket_id = $1 AND status <> $2
        )`

	err := r.db.GetContext(ctx, &reserved, query, ticketID, string(domain.StatusCancelled))
	if err != nil {
		return false, fmt.Errorf("failed to check reservation: %w", err)
	}
	return reserved, nil
}

func modelToOrder(model Order) domain.Order {
	return domain.Order{
		ID:          model.ID,
		UserID:      model.UserID,
		Status:      domain.Status(model.Status),
		ExpiresAt:   model.ExpiresAt,
		TicketID:    model.TicketID,
		TicketPrice: model.TicketPrice,
		Version:     model.Version,
	}
}
