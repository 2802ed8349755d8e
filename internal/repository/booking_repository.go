package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/rakhadn/tiketku/internal/booking"
	"github.com/rakhadn/tiketku/internal/catalog"
	"github.com/rakhadn/tiketku/internal/selection"
)

// BookingRepo persists booking holds and their seat snapshots.  It
// implements booking.Repository: service-level methods run inside
// WithTx, which stashes the transaction in the context so every query
// in the callback shares it.
type BookingRepo struct{ DB *sql.DB }

func NewBookingRepo(db *sql.DB) *BookingRepo { return &BookingRepo{DB: db} }

type txKey struct{}

func txFromContext(ctx context.Context) *sql.Tx {
	tx, _ := ctx.Value(txKey{}).(*sql.Tx)
	return tx
}

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

func (r *BookingRepo) q(ctx context.Context) querier {
	if tx := txFromContext(ctx); tx != nil {
		return tx
	}
	return r.DB
}

// WithTx runs fn inside a transaction.  Nested calls reuse the
// transaction already carried by the context.
func (r *BookingRepo) WithTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if txFromContext(ctx) != nil {
		return fn(ctx)
	}
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	txCtx := context.WithValue(ctx, txKey{}, tx)
	if err := fn(txCtx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}

// placeholders returns "?,?,...,?" with n markers.
func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

const bookingColumns = "id, reference, user_id, show_id, status, subtotal, service_fee, total, payment_ref, expires_at, created_at"

func scanHold(row interface{ Scan(...interface{}) error }) (*booking.Hold, error) {
	var h booking.Hold
	var paymentRef sql.NullString
	err := row.Scan(&h.ID, &h.Reference, &h.UserID, &h.ShowID, &h.Status,
		&h.Subtotal, &h.ServiceFee, &h.Total, &paymentRef, &h.ExpiresAt, &h.CreatedAt)
	if err != nil {
		return nil, err
	}
	if paymentRef.Valid {
		h.PaymentRef = paymentRef.String
	}
	return &h, nil
}

func (r *BookingRepo) seatsForHold(ctx context.Context, bookingID uint64) ([]selection.PickedSeat, error) {
	rows, err := r.q(ctx).QueryContext(ctx,
		"SELECT seat_id, category, price FROM booking_seats WHERE booking_id=? ORDER BY position", bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var seats []selection.PickedSeat
	for rows.Next() {
		var s selection.PickedSeat
		var cat string
		if err := rows.Scan(&s.SeatID, &cat, &s.Price); err != nil {
			return nil, err
		}
		s.Category = catalog.Category(cat)
		seats = append(seats, s)
	}
	return seats, rows.Err()
}

// ReleaseExpired settles every pending booking of the show whose
// countdown has run out: the bookings flip to EXPIRED and their held
// seats return to FREE.  It returns the freed seat IDs.
func (r *BookingRepo) ReleaseExpired(ctx context.Context, showID uint64, now time.Time) ([]string, error) {
	q := r.q(ctx)
	rows, err := q.QueryContext(ctx,
		`SELECT bs.seat_id FROM bookings b
		 JOIN booking_seats bs ON bs.booking_id = b.id
		 WHERE b.show_id=? AND b.status=? AND b.expires_at<=?`,
		showID, booking.StatusPending, now.UTC())
	if err != nil {
		return nil, err
	}
	var freed []string
	for rows.Next() {
		var sid string
		if scanErr := rows.Scan(&sid); scanErr != nil {
			rows.Close()
			return nil, scanErr
		}
		freed = append(freed, sid)
	}
	if err := rows.Close(); err != nil {
		return nil, err
	}
	if len(freed) == 0 {
		return []string{}, nil
	}
	if _, err := q.ExecContext(ctx,
		"UPDATE bookings SET status=? WHERE show_id=? AND status=? AND expires_at<=?",
		booking.StatusExpired, showID, booking.StatusPending, now.UTC()); err != nil {
		return nil, err
	}
	args := make([]interface{}, 0, len(freed)+2)
	args = append(args, showID)
	for _, sid := range freed {
		args = append(args, sid)
	}
	args = append(args, "HELD")
	if _, err := q.ExecContext(ctx,
		"UPDATE show_seats SET status='FREE' WHERE show_id=? AND seat_id IN ("+placeholders(len(freed))+") AND status=?",
		args...); err != nil {
		return nil, err
	}
	return freed, nil
}

// ActiveHoldByUserAndShow returns the user's pending hold on the show
// with its seat snapshot, or nil when there is none.
func (r *BookingRepo) ActiveHoldByUserAndShow(ctx context.Context, userID, showID uint64) (*booking.Hold, error) {
	row := r.q(ctx).QueryRowContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE user_id=? AND show_id=? AND status=? LIMIT 1",
		userID, showID, booking.StatusPending)
	h, err := scanHold(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if h.Seats, err = r.seatsForHold(ctx, h.ID); err != nil {
		return nil, err
	}
	return h, nil
}

// AvailableSeats resolves the requested seat IDs against FREE seats of
// the show.  Seats missing from the result are held, reserved or
// unknown.
func (r *BookingRepo) AvailableSeats(ctx context.Context, showID uint64, seatIDs []string) (map[string]booking.SeatInfo, error) {
	if len(seatIDs) == 0 {
		return map[string]booking.SeatInfo{}, nil
	}
	args := make([]interface{}, 0, len(seatIDs)+1)
	args = append(args, showID)
	for _, sid := range seatIDs {
		args = append(args, sid)
	}
	rows, err := r.q(ctx).QueryContext(ctx,
		"SELECT seat_id, category, price FROM show_seats WHERE show_id=? AND status='FREE' AND seat_id IN ("+placeholders(len(seatIDs))+")",
		args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	avail := make(map[string]booking.SeatInfo, len(seatIDs))
	for rows.Next() {
		var sid string
		var info booking.SeatInfo
		if err := rows.Scan(&sid, &info.Category, &info.Price); err != nil {
			return nil, err
		}
		avail[sid] = info
	}
	return avail, rows.Err()
}

// CreateHold persists the hold and its seat snapshot and flips the
// underlying seats to HELD.  The seat update is guarded on the FREE
// status; if another transaction grabbed a seat first, the row count
// comes up short and the hold fails with ErrConflict.
func (r *BookingRepo) CreateHold(ctx context.Context, h *booking.Hold) error {
	q := r.q(ctx)
	res, err := q.ExecContext(ctx,
		`INSERT INTO bookings (reference, user_id, show_id, status, subtotal, service_fee, total, expires_at, created_at)
		 VALUES (?,?,?,?,?,?,?,?,?)`,
		h.Reference, h.UserID, h.ShowID, h.Status, h.Subtotal, h.ServiceFee, h.Total,
		h.ExpiresAt.UTC(), h.CreatedAt.UTC())
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	h.ID = uint64(id)

	if len(h.Seats) > 0 {
		query := "INSERT INTO booking_seats (booking_id, seat_id, category, price, position) VALUES "
		args := make([]interface{}, 0, len(h.Seats)*5)
		for i, s := range h.Seats {
			if i > 0 {
				query += ","
			}
			query += "(?, ?, ?, ?, ?)"
			args = append(args, h.ID, s.SeatID, string(s.Category), s.Price, i)
		}
		if _, err := q.ExecContext(ctx, query, args...); err != nil {
			return err
		}
	}

	args := make([]interface{}, 0, len(h.Seats)+1)
	args = append(args, h.ShowID)
	for _, s := range h.Seats {
		args = append(args, s.SeatID)
	}
	res, err = q.ExecContext(ctx,
		"UPDATE show_seats SET status='HELD' WHERE show_id=? AND seat_id IN ("+placeholders(len(h.Seats))+") AND status='FREE'",
		args...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n != int64(len(h.Seats)) {
		return ErrConflict
	}
	return nil
}

// HoldByID loads a hold with its seat snapshot.
func (r *BookingRepo) HoldByID(ctx context.Context, id uint64) (*booking.Hold, error) {
	row := r.q(ctx).QueryRowContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE id=? LIMIT 1", id)
	h, err := scanHold(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, booking.ErrHoldNotFound
	}
	if err != nil {
		return nil, err
	}
	if h.Seats, err = r.seatsForHold(ctx, h.ID); err != nil {
		return nil, err
	}
	return h, nil
}

func (r *BookingRepo) setStatus(ctx context.Context, id uint64, from, to booking.Status, seatStatusFrom, seatStatusTo string, paymentRef *string) error {
	q := r.q(ctx)
	h, err := r.HoldByID(ctx, id)
	if err != nil {
		return err
	}
	var res sql.Result
	if paymentRef != nil {
		res, err = q.ExecContext(ctx,
			"UPDATE bookings SET status=?, payment_ref=? WHERE id=? AND status=?", to, *paymentRef, id, from)
	} else {
		res, err = q.ExecContext(ctx,
			"UPDATE bookings SET status=? WHERE id=? AND status=?", to, id, from)
	}
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrConflict
	}
	if len(h.Seats) == 0 {
		return nil
	}
	args := make([]interface{}, 0, len(h.Seats)+1)
	args = append(args, h.ShowID)
	for _, s := range h.Seats {
		args = append(args, s.SeatID)
	}
	_, err = q.ExecContext(ctx,
		"UPDATE show_seats SET status='"+seatStatusTo+"' WHERE show_id=? AND seat_id IN ("+placeholders(len(h.Seats))+") AND status='"+seatStatusFrom+"'",
		args...)
	return err
}

// ConfirmHold marks the hold CONFIRMED with the processor reference and
// flips its seats to RESERVED.
func (r *BookingRepo) ConfirmHold(ctx context.Context, id uint64, paymentRef string) error {
	return r.setStatus(ctx, id, booking.StatusPending, booking.StatusConfirmed, "HELD", "RESERVED", &paymentRef)
}

// ExpireHold marks the hold EXPIRED and frees its seats.
func (r *BookingRepo) ExpireHold(ctx context.Context, id uint64) error {
	return r.setStatus(ctx, id, booking.StatusPending, booking.StatusExpired, "HELD", "FREE", nil)
}

// CancelHold marks the hold CANCELLED and frees its seats.
func (r *BookingRepo) CancelHold(ctx context.Context, id uint64) error {
	return r.setStatus(ctx, id, booking.StatusPending, booking.StatusCancelled, "HELD", "FREE", nil)
}

// HoldsByUser lists the user's holds, newest first, seats included.
func (r *BookingRepo) HoldsByUser(ctx context.Context, userID uint64) ([]booking.Hold, error) {
	rows, err := r.q(ctx).QueryContext(ctx,
		"SELECT "+bookingColumns+" FROM bookings WHERE user_id=? ORDER BY created_at DESC", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var holds []booking.Hold
	for rows.Next() {
		h, err := scanHold(rows)
		if err != nil {
			return nil, err
		}
		holds = append(holds, *h)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	for i := range holds {
		if holds[i].Seats, err = r.seatsForHold(ctx, holds[i].ID); err != nil {
			return nil, err
		}
	}
	return holds, rows.Err()
}
