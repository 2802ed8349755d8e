// Package handler exposes HTTP handlers for both authenticated and public
// endpoints. This file defines the public browsing API: films currently
// showing, show details and the per-show seat map. These routes require no
// authentication and return only presentation-safe fields.
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
)

// BrowseHandler aggregates repositories needed for unauthenticated browsing.
type BrowseHandler struct {
	Films    *repository.FilmRepo
	Shows    *repository.ShowRepo
	Bookings booking.Repository // used to settle expired holds before reading the seat map
	Clock    clock.Clock
}

// PublicFilm is a film in list and detail responses.
type PublicFilm struct {
	ID          uint64  `json:"id"`
	Title       string  `json:"title"`
	Rating      string  `json:"rating"`
	DurationMin uint32  `json:"duration_min"`
	PosterURL   *string `json:"poster_url,omitempty"`
}

// PublicShow is a showtime in list and detail responses.
type PublicShow struct {
	ID           uint64 `json:"id"`
	FilmID       uint64 `json:"film_id"`
	Theatre      string `json:"theatre"`
	Room         string `json:"room"`
	StartsAt     string `json:"starts_at"`
	PriceRegular string `json:"price_regular"`
	PricePremium string `json:"price_premium"`
	PriceVIP     string `json:"price_vip"`
}

// seatMapSeat is one seat cell in the seat map response.
type seatMapSeat struct {
	ID     string `json:"id"`
	Number uint32 `json:"number"`
	Status string `json:"status"`
}

// seatMapRow groups the seats of one physical row. Category and price are
// uniform within a row.
type seatMapRow struct {
	Row            string        `json:"row"`
	Category       string        `json:"category"`
	Price          uint32        `json:"price"`
	PriceFormatted string        `json:"price_formatted"`
	Seats          []seatMapSeat `json:"seats"`
}

// ListFilms returns films currently showing.
func (h *BrowseHandler) ListFilms(c echo.Context) error {
	ctx := c.Request().Context()
	films, err := h.Films.ListShowing(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	out := make([]PublicFilm, 0, len(films))
	for _, f := range films {
		out = append(out, publicFilm(f))
	}
	return c.JSON(http.StatusOK, echo.Map{"items": out})
}

// GetFilm returns one film with its scheduled shows.
func (h *BrowseHandler) GetFilm(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	f, err := h.Films.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrFilmNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "film not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	shows, err := h.Shows.ListByFilm(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	showsOut := make([]PublicShow, 0, len(shows))
	for _, s := range shows {
		showsOut = append(showsOut, publicShow(s))
	}
	return c.JSON(http.StatusOK, echo.Map{"film": publicFilm(f), "shows": showsOut})
}

// GetShow returns one show with its film.
func (h *BrowseHandler) GetShow(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	s, err := h.Shows.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrShowNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}
	resp := echo.Map{"show": publicShow(s)}
	if f, err := h.Films.GetByID(ctx, s.FilmID); err == nil {
		pf := publicFilm(f)
		resp["film"] = pf
	}
	return c.JSON(http.StatusOK, resp)
}

// GetSeatMap returns the seat map of a show, grouped by row in screen order.
// Expired holds are settled first so released seats show up as free.
func (h *BrowseHandler) GetSeatMap(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid id"})
	}
	if _, err := h.Shows.GetByID(ctx, id); err != nil {
		if err == repository.ErrShowNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "show not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	// Best effort: a failed sweep only leaves stale HELD seats on display.
	_ = h.Bookings.WithTx(ctx, func(txCtx context.Context) error {
		_, err := h.Bookings.ReleaseExpired(txCtx, id, h.Clock.Now())
		return err
	})

	seats, err := h.Shows.SeatsByShow(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	rows := make([]seatMapRow, 0, 10)
	for _, seat := range seats {
		if len(rows) == 0 || rows[len(rows)-1].Row != seat.RowLabel {
			rows = append(rows, seatMapRow{
				Row:            seat.RowLabel,
				Category:       seat.Category,
				Price:          seat.Price,
				PriceFormatted: pricing.FormatIDR(seat.Price),
				Seats:          make([]seatMapSeat, 0, catalog.DefaultLayout().SeatsPerRow),
			})
		}
		r := &rows[len(rows)-1]
		r.Seats = append(r.Seats, seatMapSeat{ID: seat.SeatID, Number: seat.SeatNum, Status: seat.Status})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"show_id":          id,
		"aisle_after_seat": catalog.DefaultLayout().AisleAfter,
		"rows":             rows,
	})
}

func publicFilm(f model.Film) PublicFilm {
	return PublicFilm{ID: f.ID, Title: f.Title, Rating: f.Rating, DurationMin: f.DurationMin, PosterURL: f.PosterURL}
}

func publicShow(s model.Show) PublicShow {
	return PublicShow{
		ID:           s.ID,
		FilmID:       s.FilmID,
		Theatre:      s.Theatre,
		Room:         s.Room,
		StartsAt:     s.StartsAt.Format("2006-01-02 15:04"),
		PriceRegular: pricing.FormatIDR(s.PriceRegular),
		PricePremium: pricing.FormatIDR(s.PricePremium),
		PriceVIP:     pricing.FormatIDR(s.PriceVIP),
	}
}
