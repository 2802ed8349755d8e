// Package payment finalises a booking hold.  The flow is
// AwaitingMethod -> MethodChosen -> {Confirmed | Expired | Cancelled}:
// the customer picks exactly one method from a fixed set, the processor
// charges it, and on success the hold becomes terminal CONFIRMED with
// its seats permanently sold.  A processor failure returns the flow to
// AwaitingMethod with the hold still pending; there is no automatic
// retry.
package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/rakhadn/tiketku/internal/booking"
	"github.com/rakhadn/tiketku/internal/clock"
)

// Method is one of the fixed payment methods offered at checkout.
type Method string

const (
	MethodCreditCard Method = "credit_card"
	MethodEWallet    Method = "e_wallet"
)

// Methods lists every offered payment method, in display order.
func Methods() []Method {
	return []Method{MethodCreditCard, MethodEWallet}
}

// ParseMethod validates a client-supplied method identifier.
func ParseMethod(s string) (Method, error) {
	switch Method(s) {
	case MethodCreditCard, MethodEWallet:
		return Method(s), nil
	}
	return "", ErrUnknownMethod
}

var (
	// ErrUnknownMethod rejects a method outside the fixed set.
	ErrUnknownMethod = errors.New("unknown payment method")
	// ErrProcessorDeclined wraps a processor-side failure; the hold
	// stays pending and the customer may retry with any method.
	ErrProcessorDeclined = errors.New("payment declined")
)

// ChargeRequest is handed to the processor once a method is chosen.
type ChargeRequest struct {
	HoldReference string // booking reference, doubles as idempotency key
	Amount        uint32 // rupiah
	Method        Method
}

// ChargeResult is the processor's acknowledgement of a successful
// charge.
type ChargeResult struct {
	ProviderRef string
}

// Processor is the external payment collaborator.
type Processor interface {
	Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error)
}

// Service drives the payment flow over a hold.
type Service struct {
	repo  booking.Repository
	clock clock.Clock
	proc  Processor
}

// NewService wires the payment service to the hold store, clock and
// processor.
func NewService(repo booking.Repository, clk clock.Clock, proc Processor) *Service {
	return &Service{repo: repo, clock: clk, proc: proc}
}

// Pay charges the chosen method for the hold and confirms it.
//
// Validation happens in a first transaction: the hold must exist,
// belong to the caller, still be pending, and its countdown must not
// have run out.  A hold found expired is settled to EXPIRED (its seats
// go back to available) and the payment is rejected with
// booking.ErrHoldExpired.  The charge itself runs outside any
// transaction; confirmation re-checks the hold state in a second
// transaction so a countdown that lapsed mid-charge still loses.
func (s *Service) Pay(ctx context.Context, userID, holdID uint64, method Method) (booking.Hold, error) {
	if _, err := ParseMethod(string(method)); err != nil {
		return booking.Hold{}, err
	}

	now := s.clock.Now()
	var hold booking.Hold
	err := s.repo.WithTx(ctx, func(txCtx context.Context) error {
		h, err := s.repo.HoldByID(txCtx, holdID)
		if err != nil {
			return err
		}
		if h.UserID != userID {
			return booking.ErrForbidden
		}
		if h.ExpiredBy(now) {
			if err := s.repo.ExpireHold(txCtx, h.ID); err != nil {
				return err
			}
			return booking.ErrHoldExpired
		}
		if h.Status != booking.StatusPending {
			return booking.ErrHoldNotPending
		}
		hold = *h
		return nil
	})
	if err != nil {
		return booking.Hold{}, err
	}

	res, err := s.proc.Charge(ctx, ChargeRequest{
		HoldReference: hold.Reference,
		Amount:        hold.Total,
		Method:        method,
	})
	if err != nil {
		return booking.Hold{}, fmt.Errorf("%w: %v", ErrProcessorDeclined, err)
	}

	err = s.repo.WithTx(ctx, func(txCtx context.Context) error {
		h, err := s.repo.HoldByID(txCtx, holdID)
		if err != nil {
			return err
		}
		if h.ExpiredBy(s.clock.Now()) {
			if err := s.repo.ExpireHold(txCtx, h.ID); err != nil {
				return err
			}
			return booking.ErrHoldExpired
		}
		if h.Status != booking.StatusPending {
			return booking.ErrHoldNotPending
		}
		if err := s.repo.ConfirmHold(txCtx, h.ID, res.ProviderRef); err != nil {
			return err
		}
		hold = *h
		hold.Status = booking.StatusConfirmed
		hold.PaymentRef = res.ProviderRef
		return nil
	})
	if err != nil {
		return booking.Hold{}, err
	}
	return hold, nil
}
