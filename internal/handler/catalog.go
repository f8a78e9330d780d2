package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/repository"
)

// CatalogHandler serves the public browse endpoints: movies, their
// showings and per-showing seat availability.  No authentication is
// required so guests can browse before registering.
type CatalogHandler struct {
	Movies   *repository.MovieRepo
	Showings *repository.ShowingRepo
	Seats    *repository.SeatRepo
}

func NewCatalogHandler(m *repository.MovieRepo, s *repository.ShowingRepo, seats *repository.SeatRepo) *CatalogHandler {
	return &CatalogHandler{Movies: m, Showings: s, Seats: seats}
}

type movieResp struct {
	ID          uint64 `json:"id"`
	Title       string `json:"title"`
	Rating      string `json:"rating"`
	DurationMin uint32 `json:"duration_min"`
	Synopsis    string `json:"synopsis"`
}

type showingResp struct {
	ID         uint64    `json:"id"`
	MovieID    uint64    `json:"movie_id"`
	Auditorium string    `json:"auditorium"`
	StartsAt   time.Time `json:"starts_at"`
	EndsAt     time.Time `json:"ends_at"`
}

type seatResp struct {
	ID          uint64 `json:"id"`
	RowLabel    string `json:"row_label"`
	SeatNumber  uint32 `json:"seat_number"`
	IsAvailable bool   `json:"is_available"`
}

func toMovieResp(m *model.Movie) movieResp {
	return movieResp{ID: m.ID, Title: m.Title, Rating: m.Rating, DurationMin: m.DurationMin, Synopsis: m.Synopsis}
}

func toShowingResp(s *model.Showing) showingResp {
	return showingResp{ID: s.ID, MovieID: s.MovieID, Auditorium: s.Auditorium, StartsAt: s.StartsAt, EndsAt: s.EndsAt}
}

// ListMovies returns the full movie catalogue.
func (h *CatalogHandler) ListMovies(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	movies, err := h.Movies.ListAll(ctx)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]movieResp, 0, len(movies))
	for i := range movies {
		out = append(out, toMovieResp(&movies[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// GetMovie returns one movie by id.
func (h *CatalogHandler) GetMovie(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m, err := h.Movies.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrMovieNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toMovieResp(m))
}

// ListShowingsByMovie returns all showings scheduled for a movie.
func (h *CatalogHandler) ListShowingsByMovie(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Movies.GetByID(ctx, id); err != nil {
		if err == repository.ErrMovieNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	showings, err := h.Showings.ListByMovie(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]showingResp, 0, len(showings))
	for i := range showings {
		out = append(out, toShowingResp(&showings[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// GetShowing returns one showing by id.
func (h *CatalogHandler) GetShowing(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s, err := h.Showings.GetByID(ctx, id)
	if err != nil {
		if err == repository.ErrShowingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "showing not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, toShowingResp(s))
}

// ListSeats returns the seat map of a showing with availability so a
// client can render the picker.
func (h *CatalogHandler) ListSeats(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Showings.GetByID(ctx, id); err != nil {
		if err == repository.ErrShowingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "showing not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	seats, err := h.Seats.ListByShowing(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	out := make([]seatResp, 0, len(seats))
	for _, s := range seats {
		out = append(out, seatResp{ID: s.ID, RowLabel: s.RowLabel, SeatNumber: s.SeatNumber, IsAvailable: s.IsAvailable})
	}
	return c.JSON(http.StatusOK, out)
}
