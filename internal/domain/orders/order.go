package domain

import (
	"errors"
	"time"
)

var ErrTicketReserved = errors.New("ticket is already reserved")

type Status string

const (
	StatusCreated         Status = "created"
	StatusAwaitingPayment Status = "awaiting_payment"
	StatusComplete        Status = "complete"
	StatusCancelled       Status = "cancelled"
)

// Order reserves a single ticket for a user. TicketPrice is a snapshot taken
// at creation time. ExpiresAt is meaningful only while the order is not
// terminal; Complete and Cancelled are terminal and immutable.
type Order struct {
	ID          string    `json:"id"`
	UserID      string    `json:"userId"`
	Status      Status    `json:"status"`
	ExpiresAt   time.Time `json:"expiresAt"`
	TicketID    string    `json:"ticketId"`
	TicketPrice float64   `json:"ticketPrice"`
	Version     int       `json:"version"`
}

func NewOrder(id, userID, ticketID string, ticketPrice float64, expiresAt time.Time) Order {
	return Order{
		ID:          id,
		UserID:      userID,
		Status:      StatusCreated,
		ExpiresAt:   expiresAt,
		TicketID:    ticketID,
		TicketPrice: ticketPrice,
		Version:     0,
	}
}

func (o Order) IsTerminal() bool {
	return o.Status == StatusComplete || o.Status == StatusCancelled
}

// Reserves reports whether an order in this status blocks new orders for its
// ticket. Cancelled orders release the reservation.
func (o Order) Reserves() bool {
	return o.Status != StatusCancelled
}

// Cancel moves the order to Cancelled. Cancelling a terminal order is a
// no-op reporting false, so redelivered cancellation triggers stay
// idempotent.
func (o *Order) Cancel() bool {
	if o.IsTerminal() {
		return false
	}

	o.Status = StatusCancelled
	return true
}

// Complete marks the order paid. Like Cancel, terminal states no-op.
func (o *Order) Complete() bool {
	if o.IsTerminal() {
		return false
	}

	o.Status = StatusComplete
	return true
}
