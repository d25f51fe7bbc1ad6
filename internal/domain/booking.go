package domain

import "time"

// Booking reserves a quantity of tickets against an event. UnitPriceCents is
// the event's price at booking time; quantity updates recompute the total
// from this snapshot, never from the event's current price.
type Booking struct {
	ID              int64     `json:"id"`
	UserID          int64     `json:"user_id"`
	EventID         int64     `json:"event_id"`
	TicketsBooked   int       `json:"tickets_booked"`
	UnitPriceCents  int64     `json:"unit_price_cents"`
	TotalPriceCents int64     `json:"total_price_cents"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// BookingView joins the owning event's display fields for read endpoints.
type BookingView struct {
	Booking
	EventName        string `json:"event_name"`
	EventDescription string `json:"event_description"`
}
