package booking

import (
	"context"
	"testing"
	"time"

	"github.com/rakhadn/tiketku/internal/clock"
	"github.com/rakhadn/tiketku/internal/selection"
)

// fakeRepo is an in-memory Repository for service tests. Seats listed in
// seats are the show's chart; ids in taken are HELD or RESERVED.
type fakeRepo struct {
	seats  map[string]SeatInfo
	taken  map[string]bool
	holds  []*Hold
	nextID uint64
}

func newFakeRepo(seats map[string]SeatInfo) *fakeRepo {
	return &fakeRepo{seats: seats, taken: map[string]bool{}}
}

func (r *fakeRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func (r *fakeRepo) ReleaseExpired(ctx context.Context, showID uint64, now time.Time) ([]string, error) {
	var freed []string
	for _, h := range r.holds {
		if h.ShowID == showID && h.ExpiredBy(now) {
			h.Status = StatusExpired
			for _, id := range h.SeatIDs() {
				delete(r.taken, id)
				freed = append(freed, id)
			}
		}
	}
	return freed, nil
}

func (r *fakeRepo) ActiveHoldByUserAndShow(ctx context.Context, userID, showID uint64) (*Hold, error) {
	for _, h := range r.holds {
		if h.UserID == userID && h.ShowID == showID && h.Status == StatusPending {
			cp := *h
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeRepo) AvailableSeats(ctx context.Context, showID uint64, seatIDs []string) (map[string]SeatInfo, error) {
	out := make(map[string]SeatInfo)
	for _, id := range seatIDs {
		if info, ok := r.seats[id]; ok && !r.taken[id] {
			out[id] = info
		}
	}
	return out, nil
}

func (r *fakeRepo) CreateHold(ctx context.Context, h *Hold) error {
	r.nextID++
	h.ID = r.nextID
	cp := *h
	r.holds = append(r.holds, &cp)
	for _, id := range h.SeatIDs() {
		r.taken[id] = true
	}
	return nil
}

func (r *fakeRepo) HoldByID(ctx context.Context, id uint64) (*Hold, error) {
	for _, h := range r.holds {
		if h.ID == id {
			cp := *h
			return &cp, nil
		}
	}
	return nil, ErrHoldNotFound
}

func (r *fakeRepo) ConfirmHold(ctx context.Context, id uint64, paymentRef string) error {
	h, err := r.find(id)
	if err != nil {
		return err
	}
	h.Status = StatusConfirmed
	h.PaymentRef = paymentRef
	return nil
}

func (r *fakeRepo) ExpireHold(ctx context.Context, id uint64) error {
	return r.release(id, StatusExpired)
}

func (r *fakeRepo) CancelHold(ctx context.Context, id uint64) error {
	return r.release(id, StatusCancelled)
}

func (r *fakeRepo) HoldsByUser(ctx context.Context, userID uint64) ([]Hold, error) {
	var out []Hold
	for i := len(r.holds) - 1; i >= 0; i-- {
		if r.holds[i].UserID == userID {
			out = append(out, *r.holds[i])
		}
	}
	return out, nil
}

func (r *fakeRepo) find(id uint64) (*Hold, error) {
	for _, h := range r.holds {
		if h.ID == id {
			return h, nil
		}
	}
	return nil, ErrHoldNotFound
}

func (r *fakeRepo) release(id uint64, st Status) error {
	h, err := r.find(id)
	if err != nil {
		return err
	}
	h.Status = st
	for _, sid := range h.SeatIDs() {
		delete(r.taken, sid)
	}
	return nil
}

func chartSeats() map[string]SeatInfo {
	return map[string]SeatInfo{
		"A-1": {Category: "vip", Price: 125000},
		"A-2": {Category: "vip", Price: 125000},
		"C-4": {Category: "premium", Price: 75000},
		"F-1": {Category: "regular", Price: 50000},
		"F-2": {Category: "regular", Price: 50000},
		"F-3": {Category: "regular", Price: 50000},
		"F-4": {Category: "regular", Price: 50000},
		"F-5": {Category: "regular", Price: 50000},
	}
}

func TestService_Submit(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 19, 0, 0, 0, time.UTC)

	makeSvc := func() (*Service, *fakeRepo) {
		repo := newFakeRepo(chartSeats())
		return NewService(repo, clock.NewFixed(now)), repo
	}

	t.Run("rejects an empty selection before touching the repo", func(t *testing.T) {
		svc, repo := makeSvc()
		_, _, err := svc.Submit(context.Background(), SubmitInput{UserID: 1, ShowID: 10})
		if err != ErrEmptySelection {
			t.Fatalf("expected ErrEmptySelection, got %v", err)
		}
		if len(repo.holds) != 0 {
			t.Fatalf("expected no holds created")
		}
	})

	t.Run("rejects more seats than the cap", func(t *testing.T) {
		svc, _ := makeSvc()
		_, _, err := svc.Submit(context.Background(), SubmitInput{
			UserID:  1,
			ShowID:  10,
			SeatIDs: []string{"A-1", "A-2", "C-4", "F-1", "F-2", "F-3", "F-4"},
		})
		if err != ErrTooManySeats {
			t.Fatalf("expected ErrTooManySeats, got %v", err)
		}
	})

	t.Run("creates a pending hold with a fifteen minute countdown", func(t *testing.T) {
		svc, repo := makeSvc()
		hold, created, err := svc.Submit(context.Background(), SubmitInput{
			UserID:  1,
			ShowID:  10,
			SeatIDs: []string{"A-1", "C-4"},
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !created {
			t.Fatalf("expected a fresh hold")
		}
		if hold.Status != StatusPending {
			t.Fatalf("expected PENDING, got %s", hold.Status)
		}
		if hold.Reference == "" {
			t.Fatalf("expected a reference to be assigned")
		}
		if hold.ExpiresAt != now.Add(15*time.Minute) {
			t.Fatalf("expected expiry %v, got %v", now.Add(15*time.Minute), hold.ExpiresAt)
		}
		if hold.Subtotal != 200000 || hold.ServiceFee != 10000 || hold.Total != 210000 {
			t.Fatalf("unexpected amounts: %+v", hold)
		}
		if !repo.taken["A-1"] || !repo.taken["C-4"] {
			t.Fatalf("expected held seats to be marked taken")
		}
	})

	t.Run("resubmit returns the existing pending hold", func(t *testing.T) {
		svc, repo := makeSvc()
		first, _, err := svc.Submit(context.Background(), SubmitInput{
			UserID: 1, ShowID: 10, SeatIDs: []string{"F-1", "F-2"},
		})
		if err != nil {
			t.Fatalf("first submit: %v", err)
		}
		second, created, err := svc.Submit(context.Background(), SubmitInput{
			UserID: 1, ShowID: 10, SeatIDs: []string{"F-3"},
		})
		if err != nil {
			t.Fatalf("second submit: %v", err)
		}
		if created {
			t.Fatalf("expected idempotent resubmit, got a new hold")
		}
		if second.ID != first.ID || second.Reference != first.Reference {
			t.Fatalf("expected the existing hold back, got %+v", second)
		}
		if len(repo.holds) != 1 {
			t.Fatalf("expected a single hold, got %d", len(repo.holds))
		}
	})

	t.Run("reports the seats that are no longer available", func(t *testing.T) {
		svc, repo := makeSvc()
		repo.taken["F-1"] = true
		_, _, err := svc.Submit(context.Background(), SubmitInput{
			UserID: 1, ShowID: 10, SeatIDs: []string{"F-1", "F-2", "Z-9"},
		})
		unavailable, ok := err.(*SeatsUnavailableError)
		if !ok {
			t.Fatalf("expected SeatsUnavailableError, got %v", err)
		}
		if len(unavailable.SeatIDs) != 2 {
			t.Fatalf("expected F-1 and Z-9 reported, got %v", unavailable.SeatIDs)
		}
	})

	t.Run("rejects a stale client total", func(t *testing.T) {
		svc, _ := makeSvc()
		_, _, err := svc.Submit(context.Background(), SubmitInput{
			UserID: 1, ShowID: 10, SeatIDs: []string{"A-1", "C-4"}, ClaimedTotal: 200000,
		})
		if err != ErrTotalMismatch {
			t.Fatalf("expected ErrTotalMismatch, got %v", err)
		}
	})

	t.Run("sweeps expired holds so their seats can be rebooked", func(t *testing.T) {
		repo := newFakeRepo(chartSeats())
		stale := &Hold{
			ID: 99, Reference: "stale", UserID: 2, ShowID: 10,
			Seats:     []selection.PickedSeat{{SeatID: "F-1", Category: "regular", Price: 50000}},
			Status:    StatusPending,
			ExpiresAt: now.Add(-time.Minute),
		}
		repo.holds = append(repo.holds, stale)
		repo.taken["F-1"] = true
		repo.nextID = 99

		svc := NewService(repo, clock.NewFixed(now))
		hold, created, err := svc.Submit(context.Background(), SubmitInput{
			UserID: 1, ShowID: 10, SeatIDs: []string{"F-1"},
		})
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !created {
			t.Fatalf("expected a new hold")
		}
		if hold.SeatIDs()[0] != "F-1" {
			t.Fatalf("expected F-1 rebooked, got %v", hold.SeatIDs())
		}
		if stale.Status != StatusExpired {
			t.Fatalf("expected stale hold settled to EXPIRED, got %s", stale.Status)
		}
	})
}

func TestService_Cancel(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 19, 0, 0, 0, time.UTC)

	submit := func(t *testing.T) (*Service, *fakeRepo, Hold) {
		t.Helper()
		repo := newFakeRepo(chartSeats())
		svc := NewService(repo, clock.NewFixed(now))
		hold, _, err := svc.Submit(context.Background(), SubmitInput{
			UserID: 1, ShowID: 10, SeatIDs: []string{"F-1", "F-2"},
		})
		if err != nil {
			t.Fatalf("submit: %v", err)
		}
		return svc, repo, hold
	}

	t.Run("cancels a pending hold and frees its seats", func(t *testing.T) {
		svc, repo, hold := submit(t)
		if err := svc.Cancel(context.Background(), 1, hold.ID); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if repo.holds[0].Status != StatusCancelled {
			t.Fatalf("expected CANCELLED, got %s", repo.holds[0].Status)
		}
		if repo.taken["F-1"] || repo.taken["F-2"] {
			t.Fatalf("expected seats freed")
		}
	})

	t.Run("rejects another user's hold", func(t *testing.T) {
		svc, _, hold := submit(t)
		if err := svc.Cancel(context.Background(), 2, hold.ID); err != ErrForbidden {
			t.Fatalf("expected ErrForbidden, got %v", err)
		}
	})

	t.Run("settles an expired hold instead of cancelling", func(t *testing.T) {
		repo := newFakeRepo(chartSeats())
		svc := NewService(repo, clock.NewFixed(now))
		hold, _, err := svc.Submit(context.Background(), SubmitInput{
			UserID: 1, ShowID: 10, SeatIDs: []string{"F-1"},
		})
		if err != nil {
			t.Fatalf("submit: %v", err)
		}

		late := NewService(repo, clock.NewFixed(now.Add(15*time.Minute)))
		if err := late.Cancel(context.Background(), 1, hold.ID); err != ErrHoldExpired {
			t.Fatalf("expected ErrHoldExpired, got %v", err)
		}
		if repo.holds[0].Status != StatusExpired {
			t.Fatalf("expected EXPIRED, got %s", repo.holds[0].Status)
		}
	})

	t.Run("rejects a hold that is already terminal", func(t *testing.T) {
		svc, repo, hold := submit(t)
		repo.holds[0].Status = StatusConfirmed
		if err := svc.Cancel(context.Background(), 1, hold.ID); err != ErrHoldNotPending {
			t.Fatalf("expected ErrHoldNotPending, got %v", err)
		}
	})

	t.Run("unknown hold", func(t *testing.T) {
		svc, _, _ := submit(t)
		if err := svc.Cancel(context.Background(), 1, 777); err != ErrHoldNotFound {
			t.Fatalf("expected ErrHoldNotFound, got %v", err)
		}
	})
}

func TestService_Get(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 19, 0, 0, 0, time.UTC)
	repo := newFakeRepo(chartSeats())
	svc := NewService(repo, clock.NewFixed(now))
	hold, _, err := svc.Submit(context.Background(), SubmitInput{
		UserID: 1, ShowID: 10, SeatIDs: []string{"F-1"},
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}

	got, err := svc.Get(context.Background(), 1, hold.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.Status != StatusPending {
		t.Fatalf("expected PENDING before expiry, got %s", got.Status)
	}

	// The countdown lapsing is observed on the next read.
	late := NewService(repo, clock.NewFixed(now.Add(16*time.Minute)))
	got, err = late.Get(context.Background(), 1, hold.ID)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if got.Status != StatusExpired {
		t.Fatalf("expected EXPIRED after the countdown, got %s", got.Status)
	}
	if repo.taken["F-1"] {
		t.Fatalf("expected the seat freed by the settle")
	}
}
