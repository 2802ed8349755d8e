package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/rakhadn/tiketku/internal/session"
)

// RequireRole returns a middleware that enforces that the
// authenticated session carries one of the given roles.  It assumes
// JWTAuth has already stored the session; requests without a session
// or with a role outside the allowed set get a 403.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			s, err := session.FromContext(c)
			if err != nil || !allowed[s.Role] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
