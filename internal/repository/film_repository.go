package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/rakhadn/tiketku/internal/model"
)

// FilmRepo provides data access to the films table.
type FilmRepo struct{ DB *sql.DB }

func NewFilmRepo(db *sql.DB) *FilmRepo { return &FilmRepo{DB: db} }

const filmColumns = "id, title, rating, duration_min, poster_url, is_showing, created_at, updated_at"

// Create inserts a film and fills in its ID.
func (r *FilmRepo) Create(ctx context.Context, f *model.Film) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO films (title, rating, duration_min, poster_url, is_showing) VALUES (?,?,?,?,?)",
		f.Title, f.Rating, f.DurationMin, f.PosterURL, f.IsShowing)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	f.ID = uint64(id)
	return nil
}

// ListShowing returns all films flagged as currently showing.
func (r *FilmRepo) ListShowing(ctx context.Context) ([]model.Film, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+filmColumns+" FROM films WHERE is_showing=1 ORDER BY title")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var films []model.Film
	for rows.Next() {
		var f model.Film
		if err := rows.Scan(&f.ID, &f.Title, &f.Rating, &f.DurationMin, &f.PosterURL, &f.IsShowing, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, err
		}
		films = append(films, f)
	}
	return films, rows.Err()
}

// GetByID fetches one film.  Returns ErrFilmNotFound when missing.
func (r *FilmRepo) GetByID(ctx context.Context, id uint64) (model.Film, error) {
	var f model.Film
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+filmColumns+" FROM films WHERE id=? LIMIT 1", id).
		Scan(&f.ID, &f.Title, &f.Rating, &f.DurationMin, &f.PosterURL, &f.IsShowing, &f.CreatedAt, &f.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return f, ErrFilmNotFound
	}
	return f, err
}
