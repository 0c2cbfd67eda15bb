package entities

import "time"

// Struct names are the bus subjects: the JSON marshaler derives topic names
// from them, so renaming a struct is a wire-format change.

type TicketCreated struct {
	Header EventHeader `json:"header"`

	ID      string  `json:"id"`
	Title   string  `json:"title"`
	Price   float64 `json:"price"`
	Version int     `json:"version"`
}

type TicketUpdated struct {
	Header EventHeader `json:"header"`

	ID      string  `json:"id"`
	Title   string  `json:"title"`
	Price   float64 `json:"price"`
	Version int     `json:"version"`
}

type OrderCreated struct {
	Header EventHeader `json:"header"`

	ID        string      `json:"id"`
	Status    string      `json:"status"`
	Version   int         `json:"version"`
	UserID    string      `json:"userId"`
	ExpiresAt time.Time   `json:"expiresAt"`
	Ticket    OrderTicket `json:"ticket"`
}

type OrderCancelled struct {
	Header EventHeader `json:"header"`

	ID      string        `json:"id"`
	Version int           `json:"version"`
	Ticket  OrderTicketID `json:"ticket"`
}

// PaymentCreated is published by the payments service; this system only
// consumes it.
type PaymentCreated struct {
	Header EventHeader `json:"header"`

	ID      string `json:"id"`
	OrderID string `json:"orderId"`
}

type ExpirationComplete struct {
	Header EventHeader `json:"header"`

	OrderID string `json:"orderId"`
}

// OrderTicket is the ticket snapshot carried on OrderCreated. The price is
// denormalized at reservation time so downstream services never re-read the
// catalog.
type OrderTicket struct {
	ID    string  `json:"id"`
	Price float64 `json:"price"`
}

type OrderTicketID struct {
	ID string `json:"id"`
}
