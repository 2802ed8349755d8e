package selection

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/rakhadn/tiketku/internal/catalog"
)

func freeSeat(id string) catalog.Seat {
	return catalog.Seat{ID: id, Row: "F", Category: catalog.CategoryRegular}
}

func TestSelection_Toggle(t *testing.T) {
	t.Parallel()

	t.Run("adds then removes the same seat", func(t *testing.T) {
		sel := New(6)
		if got := sel.Toggle(freeSeat("F-1"), 50000); got != ToggleAdded {
			t.Fatalf("expected added, got %s", got)
		}
		if !sel.Contains("F-1") {
			t.Fatalf("expected F-1 to be selected")
		}
		if got := sel.Toggle(freeSeat("F-1"), 50000); got != ToggleRemoved {
			t.Fatalf("expected removed, got %s", got)
		}
		if sel.Len() != 0 {
			t.Fatalf("expected empty selection, got %d seats", sel.Len())
		}
	})

	t.Run("rejects occupied seats without changing the selection", func(t *testing.T) {
		sel := New(6)
		sel.Toggle(freeSeat("F-1"), 50000)
		occupied := freeSeat("F-2")
		occupied.Occupied = true
		if got := sel.Toggle(occupied, 50000); got != ToggleRejectedOccupied {
			t.Fatalf("expected seat_unavailable, got %s", got)
		}
		if sel.Len() != 1 || sel.Contains("F-2") {
			t.Fatalf("rejection must leave the selection untouched: %v", sel.SeatIDs())
		}
	})

	t.Run("rejects the seat past the cap", func(t *testing.T) {
		sel := New(6)
		for n := 1; n <= 6; n++ {
			if got := sel.Toggle(freeSeat(catalog.SeatID("F", uint32(n))), 50000); got != ToggleAdded {
				t.Fatalf("seat %d: expected added, got %s", n, got)
			}
		}
		if got := sel.Toggle(freeSeat("F-7"), 50000); got != ToggleRejectedLimit {
			t.Fatalf("expected limit_reached, got %s", got)
		}
		if sel.Len() != 6 {
			t.Fatalf("expected 6 seats after rejection, got %d", sel.Len())
		}
		// Removal still works at the cap, and frees a slot.
		if got := sel.Toggle(freeSeat("F-3"), 50000); got != ToggleRemoved {
			t.Fatalf("expected removed at cap, got %s", got)
		}
		if got := sel.Toggle(freeSeat("F-7"), 50000); got != ToggleAdded {
			t.Fatalf("expected added after freeing a slot, got %s", got)
		}
	})

	t.Run("snapshots category and price at add time", func(t *testing.T) {
		sel := New(6)
		seat := catalog.Seat{ID: "A-1", Row: "A", Category: catalog.CategoryVIP}
		sel.Toggle(seat, 125000)
		seats := sel.Seats()
		if len(seats) != 1 {
			t.Fatalf("expected 1 seat, got %d", len(seats))
		}
		if seats[0].Category != catalog.CategoryVIP || seats[0].Price != 125000 {
			t.Fatalf("unexpected snapshot: %+v", seats[0])
		}
	})

	t.Run("preserves insertion order", func(t *testing.T) {
		sel := New(6)
		for _, id := range []string{"F-3", "F-1", "F-2"} {
			sel.Toggle(freeSeat(id), 50000)
		}
		ids := sel.SeatIDs()
		want := []string{"F-3", "F-1", "F-2"}
		for i := range want {
			if ids[i] != want[i] {
				t.Fatalf("expected order %v, got %v", want, ids)
			}
		}
	})

	t.Run("never exceeds the cap under arbitrary toggles", func(t *testing.T) {
		sel := New(6)
		rng := rand.New(rand.NewSource(9))
		for i := 0; i < 1000; i++ {
			seat := freeSeat(fmt.Sprintf("F-%d", rng.Intn(14)+1))
			seat.Occupied = rng.Intn(5) == 0
			sel.Toggle(seat, 50000)
			if sel.Len() > 6 {
				t.Fatalf("selection grew past the cap: %d", sel.Len())
			}
		}
	})
}

func TestStore(t *testing.T) {
	t.Parallel()

	st := NewStore(6)

	st.With(1, 10, func(sel *Selection) {
		sel.Toggle(freeSeat("F-1"), 50000)
	})
	st.With(1, 10, func(sel *Selection) {
		if sel.Len() != 1 {
			t.Fatalf("expected the same selection back, got %d seats", sel.Len())
		}
	})

	// Other users and shows get their own selections.
	st.With(2, 10, func(sel *Selection) {
		if sel.Len() != 0 {
			t.Fatalf("expected a fresh selection for another user")
		}
	})
	st.With(1, 11, func(sel *Selection) {
		if sel.Len() != 0 {
			t.Fatalf("expected a fresh selection for another show")
		}
	})

	st.Drop(1, 10)
	st.With(1, 10, func(sel *Selection) {
		if sel.Len() != 0 {
			t.Fatalf("expected selection dropped")
		}
	})
}
