package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// InitializeTicketsSchema creates the tickets table. The catalog service
// owns the authoritative copy; the orders service keeps a replica of the
// same shape, fed by catalog events.
func InitializeTicketsSchema(db *sqlx.DB) error {
	_, err := db.ExecContext(context.Background(), `
CREATE TABLE IF NOT EXISTS tickets (
	ticket_id UUID PRIMARY KEY,
	title VARCHAR(255) NOT NULL,
	price NUMERIC(10, 2) NOT NULL,
	version INTEGER NOT NULL
);`)
	if err != nil {
		return fmt.Errorf("failed to create tickets table: %w", err)
	}
	return nil
}

// InitializeOrdersSchema creates the orders table. The partial unique index
// enforces the reservation invariant at the storage level: at most one
// non-cancelled order per ticket.
func InitializeOrdersSchema(db *sqlx.DB) error {
	_, err := db.ExecContext(context.Background(), `
CREATE TABLE IF NOT EXISTS orders (
	order_id UUID PRIMARY KEY,
	user_id TEXT NOT NULL,
	status VARCHAR(32) NOT NULL,
	expires_at TIMESTAMP WITH TIME ZONE NOT NULL,
	ticket_id UUID NOT NULL,
	ticket_price NUMERIC(10, 2) NOT NULL,
	version INTEGER NOT NULL
);`)
	if err != nil {
		return fmt.Errorf("failed to create orders table: %w", err)
	}

	_, err = db.ExecContext(context.Background(), `
CREATE UNIQUE INDEX IF NOT EXISTS orders_active_ticket_idx
	ON orders (ticket_id) WHERE status <> 'cancelled';`)
	if err != nil {
		return fmt.Errorf("failed to create reservation index: %w", err)
	}
	return nil
}
