// Package session defines the explicit session context passed to
// handlers.  A session is created when a login or refresh issues an
// access token and ends when the token expires or the refresh token is
// revoked at logout; while a request is in flight the session rides on
// the Echo context instead of any framework-global state.
package session

import (
	"errors"

	"github.com/labstack/echo/v4"
)

// Role names as stored in the users table and the JWT role claim.
const (
	RoleCustomer = "CUSTOMER"
	RoleAdmin    = "ADMIN"
)

// Session identifies the authenticated caller of a request.
type Session struct {
	UserID uint64
	Role   string
}

const contextKey = "session"

// ErrNoSession is returned when a handler runs without an
// authenticated session, which means the auth middleware was bypassed
// or misconfigured.
var ErrNoSession = errors.New("no session in context")

// Store attaches the session to the request context.  Called by the
// auth middleware after token validation.
func Store(c echo.Context, s Session) {
	c.Set(contextKey, s)
}

// FromContext extracts the session stored by the auth middleware.
func FromContext(c echo.Context) (Session, error) {
	s, ok := c.Get(contextKey).(Session)
	if !ok || s.UserID == 0 {
		return Session{}, ErrNoSession
	}
	return s, nil
}
