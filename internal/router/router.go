// Package router wires handlers onto the Echo instance.  Public
// routes carry no middleware; customer and admin routes layer JWT
// authentication plus role checks on top.
package router

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/iliyamo/movie-ticket-booking/internal/handler"
)

// RegisterRoutes registers the operational endpoints: the health
// probe and the Prometheus metrics scrape target.
func RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", handler.Health)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	e.RouteNotFound("/*", notFound)
}

// RegisterAuth registers the session endpoints under /v1/auth plus
// the authenticated profile lookup at /v1/me.
func RegisterAuth(e *echo.Echo, a *handler.AuthHandler, authed *echo.Group) {
	g := e.Group("/v1/auth")
	g.POST("/register", a.Register)
	g.POST("/login", a.Login)
	g.POST("/refresh", a.Refresh)
	g.POST("/logout", a.Logout)

	authed.GET("/me", a.Me)
}

// RegisterPublic registers the unauthenticated browse endpoints so
// guests can inspect the catalogue and seat maps before registering.
func RegisterPublic(e *echo.Echo, cat *handler.CatalogHandler, browse ...echo.MiddlewareFunc) {
	g := e.Group("/v1", browse...)
	g.GET("/movies", cat.ListMovies)
	g.GET("/movies/:id", cat.GetMovie)
	g.GET("/movies/:id/showings", cat.ListShowingsByMovie)
	g.GET("/showings/:id", cat.GetShowing)
	g.GET("/showings/:id/seats", cat.ListSeats)
}

// notFound is a tiny guard so unknown /v1 paths answer JSON like the
// rest of the API instead of Echo's default HTML-ish message.
func notFound(c echo.Context) error {
	return c.JSON(http.StatusNotFound, echo.Map{"error": "not found"})
}
