package handler

import (
	"math/rand"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/rakhadn/tiketku/internal/catalog"
	"github.com/rakhadn/tiketku/internal/model"
	"github.com/rakhadn/tiketku/internal/repository"
)

// AdminHandler exposes the management endpoints used to seed the
// programme: creating films and scheduling shows. Scheduling a show also
// generates its full seat chart.
type AdminHandler struct {
	Films *repository.FilmRepo
	Shows *repository.ShowRepo
	// Seed fixes the chart RNG when non-zero, for reproducible
	// fixtures. Zero means a fresh source per show.
	Seed int64
}

type createFilmReq struct {
	Title       string  `json:"title"`
	Rating      string  `json:"rating"`
	DurationMin uint32  `json:"duration_min"`
	PosterURL   *string `json:"poster_url"`
}

type createShowReq struct {
	FilmID       uint64 `json:"film_id"`
	Theatre      string `json:"theatre"`
	Room         string `json:"room"`
	StartsAt     string `json:"starts_at"` // RFC3339
	PriceRegular uint32 `json:"price_regular"`
	PricePremium uint32 `json:"price_premium"`
	PriceVIP     uint32 `json:"price_vip"`
}

// CreateFilm adds a film to the programme, marked as showing.
func (h *AdminHandler) CreateFilm(c echo.Context) error {
	var req createFilmReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Title == "" || req.DurationMin == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "title/duration_min required"})
	}

	f := model.Film{
		Title:       req.Title,
		Rating:      req.Rating,
		DurationMin: req.DurationMin,
		PosterURL:   req.PosterURL,
		IsShowing:   true,
	}
	if err := h.Films.Create(c.Request().Context(), &f); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create film failed"})
	}
	return c.JSON(http.StatusCreated, publicFilm(f))
}

// CreateShow schedules a screening and generates its seat chart. Seats
// flagged occupied by the generator are written as RESERVED so they can
// never be selected; the rest start FREE.
func (h *AdminHandler) CreateShow(c echo.Context) error {
	var req createShowReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	startsAt, err := time.Parse(time.RFC3339, req.StartsAt)
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "starts_at must be RFC3339"})
	}
	if req.Theatre == "" || req.Room == "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "theatre/room required"})
	}
	ctx := c.Request().Context()

	if _, err := h.Films.GetByID(ctx, req.FilmID); err != nil {
		if err == repository.ErrFilmNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "film not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "database error"})
	}

	show := model.Show{
		FilmID:       req.FilmID,
		Theatre:      req.Theatre,
		Room:         req.Room,
		StartsAt:     startsAt,
		PriceRegular: req.PriceRegular,
		PricePremium: req.PricePremium,
		PriceVIP:     req.PriceVIP,
		Status:       model.ShowStatusScheduled,
	}
	if err := h.Shows.Create(ctx, &show); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create show failed"})
	}

	layout := catalog.DefaultLayout()
	chart := catalog.Generate(layout, h.chartRNG(show.ID))

	seats := make([]model.ShowSeat, 0, len(chart))
	for _, seat := range chart {
		status := model.SeatStatusFree
		if seat.Occupied {
			status = model.SeatStatusReserved
		}
		seats = append(seats, model.ShowSeat{
			ShowID:   show.ID,
			SeatID:   seat.ID,
			RowLabel: seat.Row,
			SeatNum:  seat.Number,
			Category: string(seat.Category),
			Price:    tierPrice(show, seat.Category),
			Status:   status,
		})
	}
	if err := h.Shows.CreateSeatsBulk(ctx, seats); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create seats failed"})
	}

	return c.JSON(http.StatusCreated, echo.Map{"show": publicShow(show), "seat_count": len(seats)})
}

// chartRNG derives the chart random source. The show ID is mixed into a
// fixed seed so fixture runs stay reproducible while each show still
// gets a distinct chart.
func (h *AdminHandler) chartRNG(showID uint64) *rand.Rand {
	if h.Seed != 0 {
		return rand.New(rand.NewSource(h.Seed + int64(showID)))
	}
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

func tierPrice(s model.Show, cat catalog.Category) uint32 {
	switch cat {
	case catalog.CategoryVIP:
		return s.PriceVIP
	case catalog.CategoryPremium:
		return s.PricePremium
	}
	return s.PriceRegular
}
