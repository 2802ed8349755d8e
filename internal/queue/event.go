// Package queue defines message payloads exchanged over the message broker.
package queue

// BookingConfirmedEvent is published when a booking is paid and confirmed.
// It carries enough information for downstream consumers to log, notify,
// or feed analytics without querying the primary database.
type BookingConfirmedEvent struct {
	BookingID     uint64   `json:"booking_id"`
	Reference     string   `json:"reference"`
	UserID        uint64   `json:"user_id"`
	ShowID        uint64   `json:"show_id"`
	FilmTitle     string   `json:"film_title"`
	Theatre       string   `json:"theatre"`
	Room          string   `json:"room"`
	StartsAt      string   `json:"starts_at"`
	SeatIDs       []string `json:"seats"`
	Subtotal      uint32   `json:"subtotal"`
	ServiceFee    uint32   `json:"service_fee"`
	Total         uint32   `json:"total"`
	PaymentMethod string   `json:"payment_method"`
	ConfirmedAt   string   `json:"confirmed_at"`
}
