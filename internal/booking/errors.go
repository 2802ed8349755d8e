package booking

import "errors"

var (
	// ErrEmptySelection rejects a submit with no seats before any
	// collaborator is contacted.
	ErrEmptySelection = errors.New("selection is empty")
	// ErrTooManySeats rejects a submit whose seat count exceeds the
	// per-booking maximum.
	ErrTooManySeats = errors.New("too many seats")
	// ErrTotalMismatch rejects a submit whose client-computed total
	// disagrees with the server-side breakdown.
	ErrTotalMismatch = errors.New("total price mismatch")
	// ErrHoldNotFound means no hold exists with the given id.
	ErrHoldNotFound = errors.New("hold not found")
	// ErrForbidden means the hold belongs to a different user.
	ErrForbidden = errors.New("hold owned by another user")
	// ErrHoldExpired means the countdown ran out before payment.
	ErrHoldExpired = errors.New("hold expired")
	// ErrHoldNotPending means the hold already reached a terminal state.
	ErrHoldNotPending = errors.New("hold is not pending")
)
