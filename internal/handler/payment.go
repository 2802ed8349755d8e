package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rakhadn/tiketku/internal/booking"
	"github.com/rakhadn/tiketku/internal/payment"
	"github.com/rakhadn/tiketku/internal/queue"
	"github.com/rakhadn/tiketku/internal/repository"
	queue_publisher "github.com/rakhadn/tiketku/internal/service"
	"github.com/rakhadn/tiketku/internal/session"
)

// PaymentHandler confirms pending holds through a payment processor.
type PaymentHandler struct {
	Svc   *payment.Service
	Shows *repository.ShowRepo
	Films *repository.FilmRepo
}

type payReq struct {
	Method string `json:"method"`
}

// Methods lists the payment methods offered at checkout.
func (h *PaymentHandler) Methods(c echo.Context) error {
	methods := payment.Methods()
	out := make([]string, 0, len(methods))
	for _, m := range methods {
		out = append(out, string(m))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// Pay charges the chosen method for the hold. On success the hold is
// CONFIRMED and a booking.confirmed event is published asynchronously; a
// publish failure never fails the payment.
func (h *PaymentHandler) Pay(c echo.Context) error {
	s, err := session.FromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req payReq
	if err := c.Bind(&req); err != nil || req.Method == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "method required"})
	}

	hold, err := h.Svc.Pay(c.Request().Context(), s.UserID, id, payment.Method(req.Method))
	if err != nil {
		switch {
		case errors.Is(err, payment.ErrUnknownMethod):
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "unknown_method"})
		case errors.Is(err, booking.ErrHoldNotFound):
			return c.JSON(http.StatusNotFound, echo.Map{"error": "booking not found"})
		case errors.Is(err, booking.ErrForbidden):
			return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
		case errors.Is(err, booking.ErrHoldExpired):
			return c.JSON(http.StatusConflict, echo.Map{"error": "hold_expired"})
		case errors.Is(err, booking.ErrHoldNotPending):
			return c.JSON(http.StatusConflict, echo.Map{"error": "not_pending"})
		case errors.Is(err, payment.ErrProcessorDeclined):
			return c.JSON(http.StatusPaymentRequired, echo.Map{"error": "payment_declined"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "payment failed"})
	}

	go h.publishConfirmed(hold, req.Method)

	return c.JSON(http.StatusOK, toHoldResp(hold))
}

// publishConfirmed enriches the confirmed hold with show and film names
// and publishes it to the broker. Runs in its own goroutine with a
// fresh context because the request may already be done.
func (h *PaymentHandler) publishConfirmed(hold booking.Hold, method string) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	ev := queue.BookingConfirmedEvent{
		BookingID:     hold.ID,
		Reference:     hold.Reference,
		UserID:        hold.UserID,
		ShowID:        hold.ShowID,
		SeatIDs:       hold.SeatIDs(),
		Subtotal:      hold.Subtotal,
		ServiceFee:    hold.ServiceFee,
		Total:         hold.Total,
		PaymentMethod: method,
		ConfirmedAt:   time.Now().UTC().Format(time.RFC3339),
	}
	if show, err := h.Shows.GetByID(ctx, hold.ShowID); err == nil {
		ev.Theatre = show.Theatre
		ev.Room = show.Room
		ev.StartsAt = show.StartsAt.UTC().Format(time.RFC3339)
		if film, err := h.Films.GetByID(ctx, show.FilmID); err == nil {
			ev.FilmTitle = film.Title
		}
	}
	_ = queue_publisher.PublishBookingConfirmed(ctx, ev)
}
