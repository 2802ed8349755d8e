package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rakhadn/tiketku/internal/booking"
	"github.com/rakhadn/tiketku/internal/pricing"
	"github.com/rakhadn/tiketku/internal/selection"
	"github.com/rakhadn/tiketku/internal/session"
)

// BookingHandler exposes hold submission and lifecycle endpoints.
type BookingHandler struct {
	Svc   *booking.Service
	Store *selection.Store // cleared after a successful submit
}

type submitReq struct {
	SeatIDs []string `json:"seat_ids"`
	Total   uint32   `json:"total"` // optional client-side total for verification
}

// holdResp is the wire shape of a hold in all booking responses.
type holdResp struct {
	ID             uint64                 `json:"id"`
	Reference      string                 `json:"reference"`
	ShowID         uint64                 `json:"show_id"`
	Status         string                 `json:"status"`
	Seats          []selection.PickedSeat `json:"seats"`
	Subtotal       uint32                 `json:"subtotal"`
	ServiceFee     uint32                 `json:"service_fee"`
	Total          uint32                 `json:"total"`
	TotalFormatted string                 `json:"total_formatted"`
	PaymentRef     string                 `json:"payment_ref,omitempty"`
	ExpiresAt      string                 `json:"expires_at"`
	CreatedAt      string                 `json:"created_at"`
}

func toHoldResp(h booking.Hold) holdResp {
	return holdResp{
		ID:             h.ID,
		Reference:      h.Reference,
		ShowID:         h.ShowID,
		Status:         string(h.Status),
		Seats:          h.Seats,
		Subtotal:       h.Subtotal,
		ServiceFee:     h.ServiceFee,
		Total:          h.Total,
		TotalFormatted: pricing.FormatIDR(h.Total),
		PaymentRef:     h.PaymentRef,
		ExpiresAt:      h.ExpiresAt.UTC().Format(time.RFC3339),
		CreatedAt:      h.CreatedAt.UTC().Format(time.RFC3339),
	}
}

// Submit converts the user's selection into a pending hold. Seats may be
// given in the body; when absent the in-memory selection is used. Resubmits
// while a pending hold exists return the existing hold (200 instead of 201).
func (h *BookingHandler) Submit(c echo.Context) error {
	s, err := session.FromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	showID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req submitReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}

	seatIDs := req.SeatIDs
	if len(seatIDs) == 0 {
		h.Store.With(s.UserID, showID, func(sel *selection.Selection) {
			seatIDs = sel.SeatIDs()
		})
	}

	hold, created, err := h.Svc.Submit(c.Request().Context(), booking.SubmitInput{
		UserID:       s.UserID,
		ShowID:       showID,
		SeatIDs:      seatIDs,
		ClaimedTotal: req.Total,
	})
	if err != nil {
		var unavailable *booking.SeatsUnavailableError
		switch {
		case errors.Is(err, booking.ErrEmptySelection):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "empty_selection"})
		case errors.Is(err, booking.ErrTooManySeats):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "too_many_seats", "max_seats": h.Svc.MaxSeats()})
		case errors.As(err, &unavailable):
			return c.JSON(http.StatusConflict, echo.Map{"error": "seats_unavailable", "seats": unavailable.SeatIDs})
		case errors.Is(err, booking.ErrTotalMismatch):
			return c.JSON(http.StatusConflict, echo.Map{"error": "total_mismatch"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "submit failed"})
	}

	h.Store.Drop(s.UserID, showID)

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	return c.JSON(status, toHoldResp(hold))
}

// Get returns one of the user's holds, settling its expiry on read.
func (h *BookingHandler) Get(c echo.Context) error {
	s, err := session.FromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	hold, err := h.Svc.Get(c.Request().Context(), s.UserID, id)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrHoldNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		case errors.Is(err, booking.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toHoldResp(hold))
}

// Cancel voids a pending hold and frees its seats.
func (h *BookingHandler) Cancel(c echo.Context) error {
	s, err := session.FromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	if err := h.Svc.Cancel(c.Request().Context(), s.UserID, id); err != nil {
		switch {
		case errors.Is(err, booking.ErrHoldNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		case errors.Is(err, booking.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		case errors.Is(err, booking.ErrHoldExpired):
			return c.JSON(http.StatusConflict, echo.Map{"error": "hold_expired"})
		case errors.Is(err, booking.ErrHoldNotPending):
			return c.JSON(http.StatusConflict, echo.Map{"error": "not_pending"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "cancel failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

// ListMine returns the user's bookings, newest first.
func (h *BookingHandler) ListMine(c echo.Context) error {
	s, err := session.FromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	holds, err := h.Svc.ListByUser(c.Request().Context(), s.UserID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]holdResp, 0, len(holds))
	for i := range holds {
		out = append(out, toHoldResp(holds[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}
