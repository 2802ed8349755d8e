package model

import "time"

// Show lifecycle states.
const (
	ShowStatusScheduled = "SCHEDULED"
	ShowStatusCancelled = "CANCELLED"
	ShowStatusFinished  = "FINISHED"
)

// Seat availability states.
const (
	SeatStatusFree     = "FREE"
	SeatStatusHeld     = "HELD"
	SeatStatusReserved = "RESERVED"
)

// Show represents a scheduled screening of a film in a theatre room.
// Category price tiers are stored per show because the same room can
// price rows differently across screenings.
//
// Fields:
//  ID           – primary key identifier.
//  FilmID       – film being screened.
//  Theatre      – cinema name (e.g. "CGV Paris Van Java").
//  Room         – auditorium name within the theatre.
//  StartsAt     – when the show begins.
//  PriceRegular – regular tier price in rupiah.
//  PricePremium – premium tier price in rupiah.
//  PriceVIP     – vip tier price in rupiah.
//  Status       – current state (SCHEDULED, CANCELLED, FINISHED).
//  CreatedAt    – creation timestamp.
//  UpdatedAt    – last update timestamp.
type Show struct {
	ID           uint64    // shows.id
	FilmID       uint64    // shows.film_id
	Theatre      string    // shows.theatre
	Room         string    // shows.room
	StartsAt     time.Time // shows.starts_at
	PriceRegular uint32    // shows.price_regular
	PricePremium uint32    // shows.price_premium
	PriceVIP     uint32    // shows.price_vip
	Status       string    // shows.status
	CreatedAt    time.Time // shows.created_at
	UpdatedAt    time.Time // shows.updated_at
}

// ShowSeat links a generated seat to a show and tracks its live
// availability.  One row exists for every seat in the room's layout,
// written in bulk when the show's chart is generated.
//
// Fields:
//  ID        – primary key identifier.
//  ShowID    – the show to which this seat belongs.
//  SeatID    – seat label within the chart (e.g. "A-3").
//  RowLabel  – row letter, denormalized for grouping queries.
//  SeatNum   – seat number within the row.
//  Category  – pricing tier (regular, premium, vip).
//  Price     – price in rupiah for this seat.
//  Status    – availability (FREE, HELD, RESERVED).
//  CreatedAt – creation timestamp.
//  UpdatedAt – last update timestamp.
type ShowSeat struct {
	ID        uint64    // show_seats.id
	ShowID    uint64    // show_seats.show_id
	SeatID    string    // show_seats.seat_id
	RowLabel  string    // show_seats.row_label
	SeatNum   uint32    // show_seats.seat_num
	Category  string    // show_seats.category
	Price     uint32    // show_seats.price
	Status    string    // show_seats.status
	CreatedAt time.Time // show_seats.created_at
	UpdatedAt time.Time // show_seats.updated_at
}
