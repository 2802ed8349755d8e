package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rakhadn/tiketku/internal/model"
)

// ShowRepo provides data access to the shows and show_seats tables.
type ShowRepo struct{ DB *sql.DB }

func NewShowRepo(db *sql.DB) *ShowRepo { return &ShowRepo{DB: db} }

const showColumns = "id, film_id, theatre, room, starts_at, price_regular, price_premium, price_vip, status, created_at, updated_at"

// Create inserts a show and fills in its ID.
func (r *ShowRepo) Create(ctx context.Context, s *model.Show) error {
	res, err := r.DB.ExecContext(ctx,
		`INSERT INTO shows (film_id, theatre, room, starts_at, price_regular, price_premium, price_vip, status)
		 VALUES (?,?,?,?,?,?,?,?)`,
		s.FilmID, s.Theatre, s.Room, s.StartsAt.UTC(), s.PriceRegular, s.PricePremium, s.PriceVIP, s.Status)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.ID = uint64(id)
	return nil
}

// GetByID fetches one show.  Returns ErrShowNotFound when missing.
func (r *ShowRepo) GetByID(ctx context.Context, id uint64) (model.Show, error) {
	var s model.Show
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+showColumns+" FROM shows WHERE id=? LIMIT 1", id).
		Scan(&s.ID, &s.FilmID, &s.Theatre, &s.Room, &s.StartsAt, &s.PriceRegular, &s.PricePremium, &s.PriceVIP, &s.Status, &s.CreatedAt, &s.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return s, ErrShowNotFound
	}
	return s, err
}

// ListByFilm returns upcoming shows for a film ordered by start time.
func (r *ShowRepo) ListByFilm(ctx context.Context, filmID uint64) ([]model.Show, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+showColumns+" FROM shows WHERE film_id=? AND status='SCHEDULED' ORDER BY starts_at", filmID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var shows []model.Show
	for rows.Next() {
		var s model.Show
		if err := rows.Scan(&s.ID, &s.FilmID, &s.Theatre, &s.Room, &s.StartsAt, &s.PriceRegular, &s.PricePremium, &s.PriceVIP, &s.Status, &s.CreatedAt, &s.UpdatedAt); err != nil {
			return nil, err
		}
		shows = append(shows, s)
	}
	return shows, rows.Err()
}

// CreateSeatsBulk inserts the show's full seat chart in one statement.
// Timestamps default in the DB.  Passing an empty slice has no effect.
func (r *ShowRepo) CreateSeatsBulk(ctx context.Context, seats []model.ShowSeat) error {
	if len(seats) == 0 {
		return nil
	}
	query := `INSERT INTO show_seats (show_id, seat_id, row_label, seat_num, category, price, status) VALUES `
	args := make([]interface{}, 0, len(seats)*7)
	for i, ss := range seats {
		if i > 0 {
			query += ","
		}
		query += "(?, ?, ?, ?, ?, ?, ?)"
		args = append(args, ss.ShowID, ss.SeatID, ss.RowLabel, ss.SeatNum, ss.Category, ss.Price, ss.Status)
	}
	_, err := r.DB.ExecContext(ctx, query, args...)
	return err
}

// SeatsByShow returns the show's seat chart ordered by row and number,
// for rendering the seat map.
func (r *ShowRepo) SeatsByShow(ctx context.Context, showID uint64) ([]model.ShowSeat, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT id, show_id, seat_id, row_label, seat_num, category, price, status, created_at, updated_at
		 FROM show_seats WHERE show_id=? ORDER BY row_label, seat_num`, showID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var seats []model.ShowSeat
	for rows.Next() {
		var ss model.ShowSeat
		if err := rows.Scan(&ss.ID, &ss.ShowID, &ss.SeatID, &ss.RowLabel, &ss.SeatNum, &ss.Category, &ss.Price, &ss.Status, &ss.CreatedAt, &ss.UpdatedAt); err != nil {
			return nil, err
		}
		seats = append(seats, ss)
	}
	return seats, rows.Err()
}
