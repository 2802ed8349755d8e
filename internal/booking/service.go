package booking

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rakhadn/tiketku/internal/catalog"
	"github.com/rakhadn/tiketku/internal/clock"
	"github.com/rakhadn/tiketku/internal/pricing"
	"github.com/rakhadn/tiketku/internal/selection"
)

const (
	defaultHoldTTL    = 15 * time.Minute
	defaultMaxSeats   = 6
	defaultFeePerSeat = 5000 // rupiah, flat per seat
)

// Service creates and manages booking holds.
type Service struct {
	repo       Repository
	clock      clock.Clock
	holdTTL    time.Duration
	maxSeats   int
	feePerSeat uint32
}

// Option adjusts a Service at construction time.
type Option func(*Service)

// WithHoldTTL overrides the default 15 minute hold countdown.
func WithHoldTTL(d time.Duration) Option {
	return func(s *Service) {
		if d > 0 {
			s.holdTTL = d
		}
	}
}

// WithMaxSeats overrides the per-booking seat cap.
func WithMaxSeats(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.maxSeats = n
		}
	}
}

// WithServiceFee overrides the flat per-seat service fee.
func WithServiceFee(fee uint32) Option {
	return func(s *Service) { s.feePerSeat = fee }
}

// NewService wires a booking service to its persistence collaborator
// and clock.
func NewService(repo Repository, clk clock.Clock, opts ...Option) *Service {
	s := &Service{
		repo:       repo,
		clock:      clk,
		holdTTL:    defaultHoldTTL,
		maxSeats:   defaultMaxSeats,
		feePerSeat: defaultFeePerSeat,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// MaxSeats returns the per-booking seat cap the service enforces.
func (s *Service) MaxSeats() int { return s.maxSeats }

// FeePerSeat returns the flat per-seat service fee in rupiah.
func (s *Service) FeePerSeat() uint32 { return s.feePerSeat }

// SubmitInput is one booking submission.  SeatIDs keeps the customer's
// selection order.  ClaimedTotal is the total the client displayed; it
// must match the server-side breakdown or the submit is rejected.
type SubmitInput struct {
	UserID       uint64
	ShowID       uint64
	SeatIDs      []string
	ClaimedTotal uint32
}

// Submit turns a selection into a pending hold with an expiry countdown
// of the configured TTL.  The guard conditions (non-empty selection,
// seat cap) fail before any collaborator is touched.  Inside the
// transaction it first sweeps expired holds of the show, then checks
// whether the user already has a pending hold on the show; if so, that
// hold is returned unchanged, making resubmission idempotent, and the
// returned flag reports whether a new hold was created.  Otherwise
// availability is re-checked against the database and the snapshot is
// rebuilt from server-side prices.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (Hold, bool, error) {
	if len(in.SeatIDs) == 0 {
		return Hold{}, false, ErrEmptySelection
	}
	if len(in.SeatIDs) > s.maxSeats {
		return Hold{}, false, ErrTooManySeats
	}

	now := s.clock.Now()
	var result Hold
	created := false

	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		if _, err := s.repo.ReleaseExpired(txCtx, in.ShowID, now); err != nil {
			return err
		}

		if existing, err := s.repo.ActiveHoldByUserAndShow(txCtx, in.UserID, in.ShowID); err != nil {
			return err
		} else if existing != nil {
			result = *existing
			return nil
		}

		avail, err := s.repo.AvailableSeats(txCtx, in.ShowID, in.SeatIDs)
		if err != nil {
			return err
		}
		var unavailable []string
		for _, id := range in.SeatIDs {
			if _, ok := avail[id]; !ok {
				unavailable = append(unavailable, id)
			}
		}
		if len(unavailable) > 0 {
			return &SeatsUnavailableError{SeatIDs: unavailable}
		}

		// Rebuild the snapshot from database truth, preserving the
		// customer's selection order.
		seats := make([]selection.PickedSeat, 0, len(in.SeatIDs))
		for _, id := range in.SeatIDs {
			info := avail[id]
			seats = append(seats, selection.PickedSeat{
				SeatID:   id,
				Category: catalog.Category(info.Category),
				Price:    info.Price,
			})
		}
		breakdown := pricing.Compute(seats, s.feePerSeat)
		if in.ClaimedTotal != 0 && in.ClaimedTotal != breakdown.Total {
			return ErrTotalMismatch
		}

		hold := Hold{
			Reference:  uuid.NewString(),
			UserID:     in.UserID,
			ShowID:     in.ShowID,
			Seats:      seats,
			Subtotal:   breakdown.Subtotal,
			ServiceFee: breakdown.ServiceFee,
			Total:      breakdown.Total,
			Status:     StatusPending,
			ExpiresAt:  now.Add(s.holdTTL),
			CreatedAt:  now,
		}
		if err := s.repo.CreateHold(txCtx, &hold); err != nil {
			return err
		}
		result = hold
		created = true
		return nil
	})
	if err != nil {
		return Hold{}, false, err
	}
	return result, created, nil
}

// Cancel abandons a pending hold and frees its seats.  Terminal holds
// cannot be cancelled; an expired countdown is settled as EXPIRED
// rather than CANCELLED.
func (s *Service) Cancel(ctx context.Context, userID, holdID uint64) error {
	now := s.clock.Now()
	return s.repo.WithTx(ctx, func(txCtx context.Context) error {
		hold, err := s.repo.HoldByID(txCtx, holdID)
		if err != nil {
			return err
		}
		if hold.UserID != userID {
			return ErrForbidden
		}
		if hold.ExpiredBy(now) {
			if err := s.repo.ExpireHold(txCtx, hold.ID); err != nil {
				return err
			}
			return ErrHoldExpired
		}
		if hold.Status != StatusPending {
			return ErrHoldNotPending
		}
		return s.repo.CancelHold(txCtx, hold.ID)
	})
}

// Get loads a hold for its owner.  A pending hold whose countdown has
// run out is settled to EXPIRED on the way through, so callers always
// see the effective state.
func (s *Service) Get(ctx context.Context, userID, holdID uint64) (Hold, error) {
	now := s.clock.Now()
	var result Hold
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		hold, err := s.repo.HoldByID(txCtx, holdID)
		if err != nil {
			return err
		}
		if hold.UserID != userID {
			return ErrForbidden
		}
		if hold.ExpiredBy(now) {
			if err := s.repo.ExpireHold(txCtx, hold.ID); err != nil {
				return err
			}
			hold.Status = StatusExpired
		}
		result = *hold
		return nil
	})
	return result, err
}

// ListByUser returns the user's holds, newest first.
func (s *Service) ListByUser(ctx context.Context, userID uint64) ([]Hold, error) {
	return s.repo.HoldsByUser(ctx, userID)
}
