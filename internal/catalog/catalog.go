// Package catalog generates the seating chart for a show.  A chart is a
// deterministic function of its layout configuration and the injected
// random source: the layout fixes rows, seat counts, the aisle position
// and the category bands, while the random source decides which seats
// start out occupied.  Callers that need reproducible charts (tests,
// fixtures) pass a seeded *rand.Rand.
package catalog

import (
	"fmt"
	"math/rand"
)

// Category is the pricing tier of a seat.
type Category string

const (
	CategoryRegular Category = "regular"
	CategoryPremium Category = "premium"
	CategoryVIP     Category = "vip"
)

// Valid reports whether c is one of the known categories.
func (c Category) Valid() bool {
	switch c {
	case CategoryRegular, CategoryPremium, CategoryVIP:
		return true
	}
	return false
}

// Seat is a single seat in a generated chart.  The ID combines the row
// label and the seat number within the row, e.g. "A-3".  Occupied seats
// were sold before the chart was generated and can never be selected.
type Seat struct {
	ID       string   // row label + "-" + seat number, e.g. "A-3"
	Row      string   // row label, e.g. "A"
	Number   uint32   // 1-based seat number within the row
	Category Category // pricing tier derived from the row band
	Occupied bool     // true when the seat was already sold
}

// Layout describes the shape of a hall for one show.  CategoryByRow maps
// row labels to tiers; rows without an entry are regular.  OccupiedRate
// is the independent probability that a generated seat starts occupied.
type Layout struct {
	Rows          []string
	SeatsPerRow   uint32
	AisleAfter    uint32 // seat number after which the walkway sits; 0 for none
	CategoryByRow map[string]Category
	OccupiedRate  float64
}

// DefaultLayout returns the standard auditorium: rows A through J with
// 14 seats each, an aisle after seat 7, VIP in the first two rows,
// premium in the next three, and roughly one seat in five pre-sold.
func DefaultLayout() Layout {
	return Layout{
		Rows:        []string{"A", "B", "C", "D", "E", "F", "G", "H", "I", "J"},
		SeatsPerRow: 14,
		AisleAfter:  7,
		CategoryByRow: map[string]Category{
			"A": CategoryVIP,
			"B": CategoryVIP,
			"C": CategoryPremium,
			"D": CategoryPremium,
			"E": CategoryPremium,
		},
		OccupiedRate: 0.2,
	}
}

// Generate produces the full seat chart for the layout in row-major
// order.  Generation never fails: malformed layouts simply yield fewer
// seats (no rows, zero seats per row).  The caller owns the returned
// slice.
func Generate(l Layout, rng *rand.Rand) []Seat {
	seats := make([]Seat, 0, len(l.Rows)*int(l.SeatsPerRow))
	for _, row := range l.Rows {
		cat := l.CategoryByRow[row]
		if !cat.Valid() {
			cat = CategoryRegular
		}
		for n := uint32(1); n <= l.SeatsPerRow; n++ {
			seats = append(seats, Seat{
				ID:       SeatID(row, n),
				Row:      row,
				Number:   n,
				Category: cat,
				Occupied: rng.Float64() < l.OccupiedRate,
			})
		}
	}
	return seats
}

// SeatID renders the canonical seat identifier for a row and number.
func SeatID(row string, number uint32) string {
	return fmt.Sprintf("%s-%d", row, number)
}
