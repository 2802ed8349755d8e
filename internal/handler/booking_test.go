package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rakhadn/tiketku/internal/booking"
	"github.com/rakhadn/tiketku/internal/catalog"
	"github.com/rakhadn/tiketku/internal/clock"
	"github.com/rakhadn/tiketku/internal/selection"
	"github.com/rakhadn/tiketku/internal/session"
)

func seatFixture(id string) catalog.Seat {
	return catalog.Seat{ID: id, Row: strings.Split(id, "-")[0], Category: catalog.CategoryVIP}
}

// memRepo is an in-memory booking.Repository for handler tests.
type memRepo struct {
	seats  map[string]booking.SeatInfo
	taken  map[string]bool
	holds  []*booking.Hold
	nextID uint64
}

func newMemRepo() *memRepo {
	return &memRepo{
		seats: map[string]booking.SeatInfo{
			"A-1": {Category: "vip", Price: 125000},
			"C-4": {Category: "premium", Price: 75000},
			"F-1": {Category: "regular", Price: 50000},
		},
		taken: map[string]bool{},
	}
}

func (r *memRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (r *memRepo) ReleaseExpired(ctx context.Context, showID uint64, now time.Time) ([]string, error) {
	return nil, nil
}

func (r *memRepo) ActiveHoldByUserAndShow(ctx context.Context, userID, showID uint64) (*booking.Hold, error) {
	for _, h := range r.holds {
		if h.UserID == userID && h.ShowID == showID && h.Status == booking.StatusPending {
			cp := *h
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memRepo) AvailableSeats(ctx context.Context, showID uint64, seatIDs []string) (map[string]booking.SeatInfo, error) {
	out := map[string]booking.SeatInfo{}
	for _, id := range seatIDs {
		if info, ok := r.seats[id]; ok && !r.taken[id] {
			out[id] = info
		}
	}
	return out, nil
}

func (r *memRepo) CreateHold(ctx context.Context, h *booking.Hold) error {
	r.nextID++
	h.ID = r.nextID
	cp := *h
	r.holds = append(r.holds, &cp)
	for _, id := range h.SeatIDs() {
		r.taken[id] = true
	}
	return nil
}

func (r *memRepo) HoldByID(ctx context.Context, id uint64) (*booking.Hold, error) {
	for _, h := range r.holds {
		if h.ID == id {
			cp := *h
			return &cp, nil
		}
	}
	return nil, booking.ErrHoldNotFound
}

func (r *memRepo) ConfirmHold(ctx context.Context, id uint64, paymentRef string) error {
	return r.setStatus(id, booking.StatusConfirmed)
}

func (r *memRepo) ExpireHold(ctx context.Context, id uint64) error {
	return r.setStatus(id, booking.StatusExpired)
}

func (r *memRepo) CancelHold(ctx context.Context, id uint64) error {
	return r.setStatus(id, booking.StatusCancelled)
}

func (r *memRepo) HoldsByUser(ctx context.Context, userID uint64) ([]booking.Hold, error) {
	var out []booking.Hold
	for i := len(r.holds) - 1; i >= 0; i-- {
		if r.holds[i].UserID == userID {
			out = append(out, *r.holds[i])
		}
	}
	return out, nil
}

func (r *memRepo) setStatus(id uint64, st booking.Status) error {
	for _, h := range r.holds {
		if h.ID == id {
			h.Status = st
			for _, sid := range h.SeatIDs() {
				delete(r.taken, sid)
			}
			return nil
		}
	}
	return booking.ErrHoldNotFound
}

var testNow = time.Date(2025, 6, 1, 19, 0, 0, 0, time.UTC)

func newBookingHandler() (*BookingHandler, *memRepo) {
	repo := newMemRepo()
	svc := booking.NewService(repo, clock.NewFixed(testNow))
	return &BookingHandler{Svc: svc, Store: selection.NewStore(6)}, repo
}

// doJSON runs one request through a bare echo instance with a customer
// session installed, the way the JWT middleware would.
func doJSON(t *testing.T, method, path, body string, fn echo.HandlerFunc, pathParam string) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	session.Store(c, session.Session{UserID: 1, Role: session.RoleCustomer})
	if pathParam != "" {
		c.SetParamNames("id")
		c.SetParamValues(pathParam)
	}
	require.NoError(t, fn(c))
	return rec
}

func TestBookingHandler_Submit(t *testing.T) {
	t.Run("creates a hold from explicit seats", func(t *testing.T) {
		h, _ := newBookingHandler()
		rec := doJSON(t, http.MethodPost, "/v1/shows/10/bookings",
			`{"seat_ids":["A-1","C-4"],"total":210000}`, h.Submit, "10")

		require.Equal(t, http.StatusCreated, rec.Code)
		var resp map[string]interface{}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "PENDING", resp["status"])
		assert.Equal(t, float64(210000), resp["total"])
		assert.Equal(t, "Rp210.000", resp["total_formatted"])
		assert.Equal(t, testNow.Add(15*time.Minute).Format(time.RFC3339), resp["expires_at"])
		assert.NotEmpty(t, resp["reference"])
	})

	t.Run("empty selection is a bad request", func(t *testing.T) {
		h, _ := newBookingHandler()
		rec := doJSON(t, http.MethodPost, "/v1/shows/10/bookings", `{}`, h.Submit, "10")

		require.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "empty_selection")
	})

	t.Run("unavailable seats report a conflict", func(t *testing.T) {
		h, repo := newBookingHandler()
		repo.taken["A-1"] = true
		rec := doJSON(t, http.MethodPost, "/v1/shows/10/bookings",
			`{"seat_ids":["A-1"]}`, h.Submit, "10")

		require.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "seats_unavailable")
		assert.Contains(t, rec.Body.String(), "A-1")
	})

	t.Run("stale client total reports a conflict", func(t *testing.T) {
		h, _ := newBookingHandler()
		rec := doJSON(t, http.MethodPost, "/v1/shows/10/bookings",
			`{"seat_ids":["A-1"],"total":125000}`, h.Submit, "10")

		require.Equal(t, http.StatusConflict, rec.Code)
		assert.Contains(t, rec.Body.String(), "total_mismatch")
	})

	t.Run("resubmit returns the existing hold with 200", func(t *testing.T) {
		h, _ := newBookingHandler()
		first := doJSON(t, http.MethodPost, "/v1/shows/10/bookings",
			`{"seat_ids":["F-1"]}`, h.Submit, "10")
		require.Equal(t, http.StatusCreated, first.Code)

		second := doJSON(t, http.MethodPost, "/v1/shows/10/bookings",
			`{"seat_ids":["F-1"]}`, h.Submit, "10")
		require.Equal(t, http.StatusOK, second.Code)

		var a, b map[string]interface{}
		require.NoError(t, json.Unmarshal(first.Body.Bytes(), &a))
		require.NoError(t, json.Unmarshal(second.Body.Bytes(), &b))
		assert.Equal(t, a["reference"], b["reference"])
	})

	t.Run("falls back to the stored selection", func(t *testing.T) {
		h, _ := newBookingHandler()
		h.Store.With(1, 10, func(sel *selection.Selection) {
			sel.Toggle(seatFixture("A-1"), 125000)
		})
		rec := doJSON(t, http.MethodPost, "/v1/shows/10/bookings", `{}`, h.Submit, "10")

		require.Equal(t, http.StatusCreated, rec.Code)
		assert.Contains(t, rec.Body.String(), "A-1")

		// The selection is consumed by the submit.
		h.Store.With(1, 10, func(sel *selection.Selection) {
			assert.Zero(t, sel.Len())
		})
	})
}

func TestBookingHandler_Cancel(t *testing.T) {
	h, repo := newBookingHandler()
	rec := doJSON(t, http.MethodPost, "/v1/shows/10/bookings",
		`{"seat_ids":["F-1"]}`, h.Submit, "10")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, http.MethodDelete, "/v1/bookings/1", "", h.Cancel, "1")
	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, booking.StatusCancelled, repo.holds[0].Status)

	rec = doJSON(t, http.MethodDelete, "/v1/bookings/99", "", h.Cancel, "99")
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBookingHandler_ListMine(t *testing.T) {
	h, _ := newBookingHandler()
	rec := doJSON(t, http.MethodPost, "/v1/shows/10/bookings",
		`{"seat_ids":["A-1"]}`, h.Submit, "10")
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doJSON(t, http.MethodGet, "/v1/my-bookings", "", h.ListMine, "")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Items []map[string]interface{} `json:"items"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, "PENDING", resp.Items[0]["status"])
}
