package domain

import "errors"

var ErrInvalidPrice = errors.New("ticket price must not be negative")

// Ticket is the sellable item. The catalog service owns it; the orders
// service keeps a replica updated from TicketCreated/TicketUpdated events.
// Version starts at 0 and increments by exactly one per accepted mutation.
type Ticket struct {
	ID      string  `json:"id"`
	Title   string  `json:"title"`
	Price   float64 `json:"price"`
	Version int     `json:"version"`
}

func NewTicket(id, title string, price float64) (Ticket, error) {
	if price < 0 {
		return Ticket{}, ErrInvalidPrice
	}

	return Ticket{
		ID:      id,
		Title:   title,
		Price:   price,
		Version: 0,
	}, nil
}
