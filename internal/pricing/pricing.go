// Package pricing derives the price breakdown for a seat selection and
// renders rupiah amounts for display.  A breakdown is never stored: it
// is recomputed from the selection whenever the selection changes, so
// the invariant total = subtotal + fee*seats holds by construction.
package pricing

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"

	"github.com/rakhadn/tiketku/internal/selection"
)

// Breakdown is the derived pricing view of one selection.  Amounts are
// whole rupiah.
type Breakdown struct {
	SeatCount  int    `json:"seat_count"`
	FeePerSeat uint32 `json:"fee_per_seat"`
	Subtotal   uint32 `json:"subtotal"`
	ServiceFee uint32 `json:"service_fee"`
	Total      uint32 `json:"total"`
}

// Compute builds the breakdown for the picked seats with the given flat
// per-seat service fee.  An empty selection yields an all-zero
// breakdown.
func Compute(seats []selection.PickedSeat, feePerSeat uint32) Breakdown {
	b := Breakdown{SeatCount: len(seats), FeePerSeat: feePerSeat}
	for _, s := range seats {
		b.Subtotal += s.Price
	}
	b.ServiceFee = feePerSeat * uint32(len(seats))
	b.Total = b.Subtotal + b.ServiceFee
	return b
}

// idPrinter formats numbers with Indonesian digit grouping, so 50000
// renders as "50.000".
var idPrinter = message.NewPrinter(language.Indonesian)

// FormatIDR renders a rupiah amount as a localized currency string with
// no fractional digits, e.g. 50000 -> "Rp50.000".
func FormatIDR(amount uint32) string {
	return idPrinter.Sprintf("Rp%v", number.Decimal(amount))
}
