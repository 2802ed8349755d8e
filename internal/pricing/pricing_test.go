package pricing

import (
	"testing"

	"github.com/rakhadn/tiketku/internal/catalog"
	"github.com/rakhadn/tiketku/internal/selection"
)

func TestCompute(t *testing.T) {
	t.Parallel()

	t.Run("empty selection yields zero breakdown", func(t *testing.T) {
		b := Compute(nil, 5000)
		if b.SeatCount != 0 || b.Subtotal != 0 || b.ServiceFee != 0 || b.Total != 0 {
			t.Fatalf("expected all-zero breakdown, got %+v", b)
		}
	})

	t.Run("one vip and one premium seat", func(t *testing.T) {
		seats := []selection.PickedSeat{
			{SeatID: "A-1", Category: catalog.CategoryVIP, Price: 125000},
			{SeatID: "C-4", Category: catalog.CategoryPremium, Price: 75000},
		}
		b := Compute(seats, 5000)
		if b.Subtotal != 200000 {
			t.Fatalf("expected subtotal 200000, got %d", b.Subtotal)
		}
		if b.ServiceFee != 10000 {
			t.Fatalf("expected service fee 10000, got %d", b.ServiceFee)
		}
		if b.Total != 210000 {
			t.Fatalf("expected total 210000, got %d", b.Total)
		}
	})

	t.Run("total always equals subtotal plus per-seat fee", func(t *testing.T) {
		seats := []selection.PickedSeat{
			{SeatID: "F-1", Price: 50000},
			{SeatID: "F-2", Price: 50000},
			{SeatID: "C-1", Price: 75000},
		}
		b := Compute(seats, 5000)
		if b.Total != b.Subtotal+b.FeePerSeat*uint32(b.SeatCount) {
			t.Fatalf("breakdown inconsistent: %+v", b)
		}
	})
}

func TestFormatIDR(t *testing.T) {
	t.Parallel()

	cases := []struct {
		amount uint32
		want   string
	}{
		{0, "Rp0"},
		{500, "Rp500"},
		{50000, "Rp50.000"},
		{75000, "Rp75.000"},
		{210000, "Rp210.000"},
		{1250000, "Rp1.250.000"},
	}
	for _, tc := range cases {
		if got := FormatIDR(tc.amount); got != tc.want {
			t.Fatalf("FormatIDR(%d): expected %q, got %q", tc.amount, tc.want, got)
		}
	}
}
