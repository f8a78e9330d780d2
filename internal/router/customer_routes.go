package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-ticket-booking/internal/handler"
	"github.com/iliyamo/movie-ticket-booking/internal/middleware"
)

// RegisterCustomer registers the customer-scoped endpoints under /v1.
// Every route requires a valid JWT with the CUSTOMER role.  Customers
// reserve seats, read their own bookings and manage their profile.
func RegisterCustomer(e *echo.Echo, b *handler.BookingHandler, p *handler.ProfileHandler, jwtSecret string, extra ...echo.MiddlewareFunc) *echo.Group {
	mw := append([]echo.MiddlewareFunc{
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("CUSTOMER", "ADMIN"),
	}, extra...)
	g := e.Group("/v1", mw...)

	g.POST("/showings/:id/reserve", b.Reserve)
	g.GET("/my-bookings", b.ListBookings)
	g.GET("/bookings/:id", b.GetBooking)

	g.POST("/me/promotions/opt-in", p.OptInPromotions)
	g.DELETE("/me/promotions/opt-in", p.OptOutPromotions)
	g.GET("/me/cards", p.ListCards)
	g.POST("/me/cards", p.AddCard)
	g.DELETE("/me/cards/:id", p.DeleteCard)

	return g
}
