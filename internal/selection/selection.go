// Package selection tracks the seats a single customer has tentatively
// chosen for one show.  A Selection is an ordered set: insertion order
// is preserved for display and for the booking payload, no seat appears
// twice, and the set never grows past its configured maximum.  Each
// member snapshots the seat's category and unit price at the moment it
// was added so later price changes cannot skew an in-progress checkout.
package selection

import (
	"sync"

	"github.com/rakhadn/tiketku/internal/catalog"
)

// PickedSeat is one member of a selection.
type PickedSeat struct {
	SeatID   string           `json:"seat_id"`
	Category catalog.Category `json:"category"`
	Price    uint32           `json:"price"` // unit price in rupiah
}

// ToggleResult says what a Toggle call did.  Rejections are explicit
// values rather than silent no-ops so callers can surface them to the
// user (limit reached, seat already sold).
type ToggleResult int

const (
	ToggleAdded ToggleResult = iota
	ToggleRemoved
	ToggleRejectedLimit
	ToggleRejectedOccupied
)

// String returns the wire name of the result.
func (r ToggleResult) String() string {
	switch r {
	case ToggleAdded:
		return "added"
	case ToggleRemoved:
		return "removed"
	case ToggleRejectedLimit:
		return "limit_reached"
	case ToggleRejectedOccupied:
		return "seat_unavailable"
	}
	return "unknown"
}

// Selection holds the picked seats for one customer on one show.
// It is not safe for concurrent use; the Store serializes access.
type Selection struct {
	maxSeats int
	seats    []PickedSeat
}

// New returns an empty selection capped at maxSeats members.
func New(maxSeats int) *Selection {
	return &Selection{maxSeats: maxSeats}
}

// Toggle flips the membership of one seat.  A seat that is already in
// the selection is removed regardless of any other state.  Adding fails
// when the seat is occupied or when the selection is full; both
// rejections leave the selection untouched.
func (s *Selection) Toggle(seat catalog.Seat, price uint32) ToggleResult {
	for i, p := range s.seats {
		if p.SeatID == seat.ID {
			s.seats = append(s.seats[:i], s.seats[i+1:]...)
			return ToggleRemoved
		}
	}
	if seat.Occupied {
		return ToggleRejectedOccupied
	}
	if len(s.seats) >= s.maxSeats {
		return ToggleRejectedLimit
	}
	s.seats = append(s.seats, PickedSeat{
		SeatID:   seat.ID,
		Category: seat.Category,
		Price:    price,
	})
	return ToggleAdded
}

// Seats returns the picked seats in insertion order.  The returned
// slice is a copy; mutating it does not affect the selection.
func (s *Selection) Seats() []PickedSeat {
	out := make([]PickedSeat, len(s.seats))
	copy(out, s.seats)
	return out
}

// SeatIDs returns just the identifiers, in insertion order.
func (s *Selection) SeatIDs() []string {
	ids := make([]string, len(s.seats))
	for i, p := range s.seats {
		ids[i] = p.SeatID
	}
	return ids
}

// Len reports the number of picked seats.
func (s *Selection) Len() int { return len(s.seats) }

// Contains reports whether the seat id is currently selected.
func (s *Selection) Contains(seatID string) bool {
	for _, p := range s.seats {
		if p.SeatID == seatID {
			return true
		}
	}
	return false
}

// Clear drops every picked seat.
func (s *Selection) Clear() { s.seats = s.seats[:0] }

// Store keeps the live selections of this process keyed by user and
// show.  Selections are session state: they exist only while the
// customer is choosing seats and are discarded once a booking is
// submitted or the session ends, so they are held in memory rather
// than in the database.
type Store struct {
	mu       sync.Mutex
	maxSeats int
	byKey    map[storeKey]*Selection
}

type storeKey struct {
	userID uint64
	showID uint64
}

// NewStore returns an empty store whose selections are capped at
// maxSeats members each.
func NewStore(maxSeats int) *Store {
	return &Store{maxSeats: maxSeats, byKey: make(map[storeKey]*Selection)}
}

// With runs fn with the selection for the user and show, creating an
// empty one on first use.  The selection must not escape fn; the store
// lock is held for the duration of the call.
func (st *Store) With(userID, showID uint64, fn func(sel *Selection)) {
	st.mu.Lock()
	defer st.mu.Unlock()
	key := storeKey{userID: userID, showID: showID}
	sel, ok := st.byKey[key]
	if !ok {
		sel = New(st.maxSeats)
		st.byKey[key] = sel
	}
	fn(sel)
}

// Drop removes the selection for the user and show, if any.
func (st *Store) Drop(userID, showID uint64) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.byKey, storeKey{userID: userID, showID: showID})
}
