package router

import (
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-ticket-booking/internal/handler"
	"github.com/iliyamo/movie-ticket-booking/internal/middleware"
)

// RegisterAdmin registers the management endpoints under /v1/admin.
// Every route requires a valid JWT with the ADMIN role.
func RegisterAdmin(
	e *echo.Echo,
	movies *handler.AdminMovieHandler,
	showings *handler.AdminShowingHandler,
	promos *handler.AdminPromotionHandler,
	fees *handler.AdminFeeHandler,
	bookings *handler.BookingHandler,
	jwtSecret string,
) {
	g := e.Group(
		"/v1/admin",
		middleware.JWTAuth(jwtSecret),
		middleware.RequireRole("ADMIN"),
	)

	g.POST("/movies", movies.CreateMovie)
	g.PUT("/movies/:id", movies.UpdateMovie)
	g.DELETE("/movies/:id", movies.DeleteMovie)

	g.POST("/showings", showings.CreateShowing)
	g.PUT("/showings/:id", showings.UpdateShowing)
	g.DELETE("/showings/:id", showings.DeleteShowing)
	g.POST("/showings/:id/seats", showings.SeedSeats)
	g.GET("/showings/:id/bookings", bookings.ListShowingBookings)

	g.POST("/promotions", promos.CreatePromotion)
	g.GET("/promotions", promos.ListPromotions)
	g.DELETE("/promotions/:id", promos.DeletePromotion)

	g.GET("/booking-fees", fees.GetFee)
	g.POST("/booking-fees", fees.SetFee)
}
