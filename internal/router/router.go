// Package router defines how HTTP routes are registered for the API.
package router

import (
	"github.com/labstack/echo/v4"

	"github.com/rakhadn/tiketku/internal/handler"
	"github.com/rakhadn/tiketku/internal/middleware"
	"github.com/rakhadn/tiketku/internal/session"
)

// RegisterRoutes registers routes that require no authentication at all.
// Currently that is only the health check used by load balancers.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
}

// RegisterAuth registers the authentication endpoints. Register, login and
// refresh live under /v1/auth without middleware; logout and /v1/me require
// a valid access token.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, jwtSecret string) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)

	auth := e.Group("/v1", middleware.JWTAuth(jwtSecret))
	auth.POST("/auth/logout", a.Logout)
	auth.GET("/me", a.Me)
}

// RegisterPublic registers the unauthenticated browse endpoints: the film
// programme, show details, the seat map and the payment method list.
// Extra middleware (typically the response cache) applies to all of them.
func RegisterPublic(e *echo.Echo, b *handler.BrowseHandler, p *handler.PaymentHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/v1", mw...)
	g.GET("/films", b.ListFilms)
	g.GET("/films/:id", b.GetFilm)
	g.GET("/shows/:id", b.GetShow)
	g.GET("/shows/:id/seats", b.GetSeatMap)
	g.GET("/payment-methods", p.Methods)
}

// RegisterCustomer registers the booking flow: selection toggling, hold
// submission, payment and the customer's booking history. All routes
// require a customer or admin access token.
func RegisterCustomer(e *echo.Echo, jwtSecret string, sel *handler.SelectionHandler, bk *handler.BookingHandler, pay *handler.PaymentHandler, mw ...echo.MiddlewareFunc) {
	g := e.Group("/v1", middleware.JWTAuth(jwtSecret), middleware.RequireRole(session.RoleCustomer, session.RoleAdmin))
	g.Use(mw...)

	g.POST("/shows/:id/selection/toggle", sel.Toggle)
	g.GET("/shows/:id/selection", sel.Get)
	g.DELETE("/shows/:id/selection", sel.Clear)

	g.POST("/shows/:id/bookings", bk.Submit)
	g.GET("/bookings/:id", bk.Get)
	g.DELETE("/bookings/:id", bk.Cancel)
	g.POST("/bookings/:id/payment", pay.Pay)
	g.GET("/my-bookings", bk.ListMine)
}

// RegisterAdmin registers the programme management endpoints, restricted
// to admin accounts.
func RegisterAdmin(e *echo.Echo, jwtSecret string, a *handler.AdminHandler) {
	g := e.Group("/v1/admin", middleware.JWTAuth(jwtSecret), middleware.RequireRole(session.RoleAdmin))
	g.POST("/films", a.CreateFilm)
	g.POST("/shows", a.CreateShow)
}
