// Package repository implements MySQL persistence for users, films,
// shows, seats and bookings.  This file defines sentinel errors reused
// across repositories so handlers can map failure scenarios to HTTP
// status codes with errors.Is.
package repository

import "errors"

// ErrConflict is returned when an operation cannot proceed because of
// conflicting state, such as booking a seat that is no longer free.
// Handlers translate this into a 409.
var ErrConflict = errors.New("conflict")

// ErrFilmNotFound is returned when a film id resolves to no row.
var ErrFilmNotFound = errors.New("film not found")

// ErrShowNotFound is returned when a show id resolves to no row.
var ErrShowNotFound = errors.New("show not found")

// ErrEmailExists is returned when registration hits the unique email
// constraint.
var ErrEmailExists = errors.New("email already exists")

// ErrUsernameExists is returned when registration hits the unique
// username constraint.
var ErrUsernameExists = errors.New("username already exists")
