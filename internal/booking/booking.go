// Package booking implements the submission half of the checkout flow:
// turning a seat selection into a time-boxed hold.  A submission moves
// through Idle -> Submitting -> HoldCreated or SubmissionFailed; on
// failure the caller's selection is left intact so the customer can
// correct it and retry.  All availability checks run server-side inside
// a transaction, because the seat map a client rendered may be stale by
// the time it submits.
package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rakhadn/tiketku/internal/selection"
)

// Status is the lifecycle state of a hold.
type Status string

const (
	// StatusPending means the hold exists and payment has not finished.
	StatusPending Status = "PENDING"
	// StatusConfirmed is terminal: payment succeeded, seats are sold.
	StatusConfirmed Status = "CONFIRMED"
	// StatusExpired is terminal: the countdown ran out before payment.
	StatusExpired Status = "EXPIRED"
	// StatusCancelled is terminal: the customer abandoned the hold.
	StatusCancelled Status = "CANCELLED"
)

// Hold is a temporary reservation of seats pending payment.  It keeps
// its own snapshot of the selected seats and the computed total, so the
// live selection can change (or be discarded) without affecting an
// outstanding hold.
type Hold struct {
	ID         uint64
	Reference  string // opaque reference returned to the client
	UserID     uint64
	ShowID     uint64
	Seats      []selection.PickedSeat // snapshot, insertion order preserved
	Subtotal   uint32                 // rupiah
	ServiceFee uint32                 // rupiah
	Total      uint32                 // rupiah, = Subtotal + ServiceFee
	Status     Status
	PaymentRef string // processor reference once confirmed
	ExpiresAt  time.Time
	CreatedAt  time.Time
}

// ExpiredBy reports whether a pending hold's countdown has run out at
// the given instant.  The expiry bound is inclusive: a hold expires
// exactly at ExpiresAt.
func (h *Hold) ExpiredBy(now time.Time) bool {
	return h.Status == StatusPending && !now.Before(h.ExpiresAt)
}

// SeatIDs returns the held seat identifiers in selection order.
func (h *Hold) SeatIDs() []string {
	ids := make([]string, len(h.Seats))
	for i, s := range h.Seats {
		ids[i] = s.SeatID
	}
	return ids
}

// SeatsUnavailableError reports seats that were no longer available at
// submit time.  The selection that produced them is preserved by the
// caller so the customer can drop the listed seats and resubmit.
type SeatsUnavailableError struct {
	SeatIDs []string
}

func (e *SeatsUnavailableError) Error() string {
	return fmt.Sprintf("seats unavailable: %s", strings.Join(e.SeatIDs, ", "))
}

// SeatInfo is the server-side truth about one seat of a show, used to
// rebuild the hold snapshot from the database rather than trusting
// client-supplied prices.
type SeatInfo struct {
	Category string
	Price    uint32
}

// Repository is the persistence collaborator of the booking and payment
// services.  Implementations must make every method transactional when
// called inside WithTx.
type Repository interface {
	// WithTx runs fn inside a transaction; fn's context carries the tx.
	WithTx(ctx context.Context, fn func(ctx context.Context) error) error
	// ReleaseExpired sweeps pending holds of the show whose expiry has
	// passed, marks them EXPIRED and frees their seats.  It returns the
	// freed seat IDs.
	ReleaseExpired(ctx context.Context, showID uint64, now time.Time) ([]string, error)
	// ActiveHoldByUserAndShow returns the user's pending hold on the
	// show, or nil when there is none.
	ActiveHoldByUserAndShow(ctx context.Context, userID, showID uint64) (*Hold, error)
	// AvailableSeats resolves the requested seat IDs against the show's
	// seat map.  Seats missing from the result are occupied, held or
	// unknown.
	AvailableSeats(ctx context.Context, showID uint64, seatIDs []string) (map[string]SeatInfo, error)
	// CreateHold persists the hold, its seat snapshot, and flips the
	// underlying seats to HELD.  It fills in h.ID.
	CreateHold(ctx context.Context, h *Hold) error
	// HoldByID loads a hold with its seat snapshot.
	HoldByID(ctx context.Context, id uint64) (*Hold, error)
	// ConfirmHold marks the hold CONFIRMED with the processor reference
	// and flips its seats to RESERVED.
	ConfirmHold(ctx context.Context, id uint64, paymentRef string) error
	// ExpireHold marks the hold EXPIRED and frees its seats.
	ExpireHold(ctx context.Context, id uint64) error
	// CancelHold marks the hold CANCELLED and frees its seats.
	CancelHold(ctx context.Context, id uint64) error
	// HoldsByUser lists the user's holds, newest first.
	HoldsByUser(ctx context.Context, userID uint64) ([]Hold, error)
}
