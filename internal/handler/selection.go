package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/rakhadn/tiketku/internal/booking"
	"github.com/rakhadn/tiketku/internal/catalog"
	"github.com/rakhadn/tiketku/internal/clock"
	"github.com/rakhadn/tiketku/internal/model"
	"github.com/rakhadn/tiketku/internal/pricing"
	"github.com/rakhadn/tiketku/internal/repository"
	"github.com/rakhadn/tiketku/internal/selection"
	"github.com/rakhadn/tiketku/internal/session"
)

// SelectionHandler manages the per-user working selection for a show.  The
// selection itself lives in process memory; the database is only consulted
// for seat availability, so toggles stay cheap and the selection never locks
// a seat for anyone else.
type SelectionHandler struct {
	Shows      *repository.ShowRepo
	Bookings   booking.Repository
	Clock      clock.Clock
	Store      *selection.Store
	FeePerSeat uint32
}

type toggleReq struct {
	SeatID string `json:"seat_id"`
}

// selectionResp is the common response body for all selection endpoints.
type selectionResp struct {
	ShowID         uint64                 `json:"show_id"`
	Result         string                 `json:"result,omitempty"`
	Seats          []selection.PickedSeat `json:"seats"`
	Breakdown      pricing.Breakdown      `json:"breakdown"`
	TotalFormatted string                 `json:"total_formatted"`
}

// Toggle flips one seat in or out of the user's selection. Occupied seats
// and selections beyond the seat cap are rejected with an explicit result
// value rather than an error status: the selection stays valid either way.
func (h *SelectionHandler) Toggle(c echo.Context) error {
	s, err := session.FromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	showID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	var req toggleReq
	if err := c.Bind(&req); err != nil || req.SeatID == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "seat_id required"})
	}

	ctx := c.Request().Context()
	if _, err := h.Shows.GetByID(ctx, showID); err != nil {
		if err == repository.ErrShowNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	// Settle expired holds first so their freed seats can be picked again.
	_ = h.Bookings.WithTx(ctx, func(txCtx context.Context) error {
		_, err := h.Bookings.ReleaseExpired(txCtx, showID, h.Clock.Now())
		return err
	})

	seatRow, ok, err := h.findSeat(ctx, showID, req.SeatID)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	if !ok {
		return c.JSON(http.StatusNotFound, echo.Map{"error": "seat not found"})
	}

	seat := catalog.Seat{
		ID:       seatRow.SeatID,
		Row:      seatRow.RowLabel,
		Number:   seatRow.SeatNum,
		Category: catalog.Category(seatRow.Category),
		Occupied: seatRow.Status != model.SeatStatusFree,
	}

	var result selection.ToggleResult
	var resp selectionResp
	h.Store.With(s.UserID, showID, func(sel *selection.Selection) {
		result = sel.Toggle(seat, seatRow.Price)
		resp = h.buildResp(showID, sel)
	})
	resp.Result = result.String()
	return c.JSON(http.StatusOK, resp)
}

// Get returns the current selection and its price breakdown.
func (h *SelectionHandler) Get(c echo.Context) error {
	s, err := session.FromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	showID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}

	var resp selectionResp
	h.Store.With(s.UserID, showID, func(sel *selection.Selection) {
		resp = h.buildResp(showID, sel)
	})
	return c.JSON(http.StatusOK, resp)
}

// Clear drops the selection entirely.
func (h *SelectionHandler) Clear(c echo.Context) error {
	s, err := session.FromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized"})
	}
	showID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	h.Store.Drop(s.UserID, showID)
	return c.NoContent(http.StatusNoContent)
}

func (h *SelectionHandler) buildResp(showID uint64, sel *selection.Selection) selectionResp {
	seats := sel.Seats()
	bd := pricing.Compute(seats, h.FeePerSeat)
	return selectionResp{
		ShowID:         showID,
		Seats:          seats,
		Breakdown:      bd,
		TotalFormatted: pricing.FormatIDR(bd.Total),
	}
}

func (h *SelectionHandler) findSeat(ctx context.Context, showID uint64, seatID string) (model.ShowSeat, bool, error) {
	seats, err := h.Shows.SeatsByShow(ctx, showID)
	if err != nil {
		return model.ShowSeat{}, false, err
	}
	for _, seat := range seats {
		if seat.SeatID == seatID {
			return seat, true, nil
		}
	}
	return model.ShowSeat{}, false, nil
}
