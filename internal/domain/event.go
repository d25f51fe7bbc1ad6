package domain

import "time"

// Event is the versioned inventory record for a ticketed event.
// TotalTickets is the number of tickets currently available for sale, not the
// original capacity: bookings decrement it and cancellations restore it.
// Version increases by exactly one on every committed mutation and is the
// optimistic-lock token for all inventory changes.
type Event struct {
	ID               int64     `json:"id"`
	Name             string    `json:"name"`
	Description      string    `json:"description"`
	StartTime        time.Time `json:"start_time"`
	EndTime          time.Time `json:"end_time"`
	TotalTickets     int       `json:"total_tickets"`
	TicketPriceCents int64     `json:"ticket_price_cents"`
	Version          int64     `json:"version"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}
