package catalog

import (
	"fmt"
	"math/rand"
	"testing"
)

func TestGenerate(t *testing.T) {
	t.Parallel()

	layout := DefaultLayout()

	t.Run("produces every seat in row-major order", func(t *testing.T) {
		seats := Generate(layout, rand.New(rand.NewSource(1)))
		if want := len(layout.Rows) * int(layout.SeatsPerRow); len(seats) != want {
			t.Fatalf("expected %d seats, got %d", want, len(seats))
		}
		if seats[0].ID != "A-1" {
			t.Fatalf("expected first seat A-1, got %s", seats[0].ID)
		}
		last := seats[len(seats)-1]
		if last.ID != "J-14" {
			t.Fatalf("expected last seat J-14, got %s", last.ID)
		}
		for i, s := range seats {
			row := layout.Rows[i/int(layout.SeatsPerRow)]
			num := uint32(i%int(layout.SeatsPerRow)) + 1
			if s.Row != row || s.Number != num {
				t.Fatalf("seat %d: expected %s-%d, got %s-%d", i, row, num, s.Row, s.Number)
			}
		}
	})

	t.Run("same seed yields the same chart", func(t *testing.T) {
		a := Generate(layout, rand.New(rand.NewSource(42)))
		b := Generate(layout, rand.New(rand.NewSource(42)))
		for i := range a {
			if a[i] != b[i] {
				t.Fatalf("seat %d differs between runs: %+v vs %+v", i, a[i], b[i])
			}
		}
	})

	t.Run("different seeds yield different occupancy", func(t *testing.T) {
		a := Generate(layout, rand.New(rand.NewSource(1)))
		b := Generate(layout, rand.New(rand.NewSource(2)))
		same := true
		for i := range a {
			if a[i].Occupied != b[i].Occupied {
				same = false
				break
			}
		}
		if same {
			t.Fatalf("expected occupancy to differ across seeds")
		}
	})

	t.Run("category bands follow the row", func(t *testing.T) {
		seats := Generate(layout, rand.New(rand.NewSource(7)))
		for _, s := range seats {
			var want Category
			switch s.Row {
			case "A", "B":
				want = CategoryVIP
			case "C", "D", "E":
				want = CategoryPremium
			default:
				want = CategoryRegular
			}
			if s.Category != want {
				t.Fatalf("seat %s: expected category %s, got %s", s.ID, want, s.Category)
			}
		}
	})

	t.Run("occupancy tracks the configured rate", func(t *testing.T) {
		layout := DefaultLayout()
		layout.Rows = make([]string, 100)
		for i := range layout.Rows {
			layout.Rows[i] = fmt.Sprintf("R%02d", i)
		}
		seats := Generate(layout, rand.New(rand.NewSource(3)))
		occupied := 0
		for _, s := range seats {
			if s.Occupied {
				occupied++
			}
		}
		rate := float64(occupied) / float64(len(seats))
		if rate < 0.15 || rate > 0.25 {
			t.Fatalf("expected occupancy near %.2f, got %.3f", layout.OccupiedRate, rate)
		}
	})

	t.Run("zero rate leaves every seat free", func(t *testing.T) {
		layout := DefaultLayout()
		layout.OccupiedRate = 0
		for _, s := range Generate(layout, rand.New(rand.NewSource(5))) {
			if s.Occupied {
				t.Fatalf("seat %s unexpectedly occupied", s.ID)
			}
		}
	})
}

func TestSeatID(t *testing.T) {
	t.Parallel()
	if got := SeatID("A", 3); got != "A-3" {
		t.Fatalf("expected A-3, got %s", got)
	}
	if got := SeatID("J", 14); got != "J-14" {
		t.Fatalf("expected J-14, got %s", got)
	}
}
