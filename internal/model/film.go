package model

import "time"

// Film represents a movie available for booking.  It corresponds to a
// row in the `films` table.
//
// Fields:
//  ID          – primary key identifier.
//  Title       – film title.
//  Rating      – age rating label (e.g. "PG-13").
//  DurationMin – running time in minutes.
//  PosterURL   – poster image location (nullable).
//  IsShowing   – whether the film currently has scheduled shows.
//  CreatedAt   – creation timestamp.
//  UpdatedAt   – last update timestamp.
type Film struct {
	ID          uint64    // films.id
	Title       string    // films.title
	Rating      string    // films.rating
	DurationMin uint32    // films.duration_min
	PosterURL   *string   // films.poster_url (nullable)
	IsShowing   bool      // films.is_showing
	CreatedAt   time.Time // films.created_at
	UpdatedAt   time.Time // films.updated_at
}
