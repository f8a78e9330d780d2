package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/repository"
)

// AdminShowingHandler schedules showings and seeds their seat grids.
type AdminShowingHandler struct {
	Movies   *repository.MovieRepo
	Showings *repository.ShowingRepo
	Seats    *repository.SeatRepo
}

func NewAdminShowingHandler(m *repository.MovieRepo, s *repository.ShowingRepo, seats *repository.SeatRepo) *AdminShowingHandler {
	return &AdminShowingHandler{Movies: m, Showings: s, Seats: seats}
}

type showingReq struct {
	MovieID    uint64    `json:"movie_id"`
	Auditorium string    `json:"auditorium"`
	StartsAt   time.Time `json:"starts_at"`
	EndsAt     time.Time `json:"ends_at"`
}

func (r *showingReq) validate() string {
	if r.MovieID == 0 {
		return "movie_id required"
	}
	if r.Auditorium == "" {
		return "auditorium required"
	}
	if r.StartsAt.IsZero() || r.EndsAt.IsZero() || !r.EndsAt.After(r.StartsAt) {
		return "ends_at must be after starts_at"
	}
	return ""
}

// CreateShowing schedules a screening of an existing movie.
func (h *AdminShowingHandler) CreateShowing(c echo.Context) error {
	var req showingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Movies.GetByID(ctx, req.MovieID); err != nil {
		if err == repository.ErrMovieNotFound {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	s := &model.Showing{MovieID: req.MovieID, Auditorium: req.Auditorium, StartsAt: req.StartsAt.UTC(), EndsAt: req.EndsAt.UTC()}
	if err := h.Showings.Create(ctx, s); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create showing failed"})
	}
	return c.JSON(http.StatusCreated, toShowingResp(s))
}

// UpdateShowing reschedules a showing.
func (h *AdminShowingHandler) UpdateShowing(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var req showingReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	s := &model.Showing{ID: id, MovieID: req.MovieID, Auditorium: req.Auditorium, StartsAt: req.StartsAt.UTC(), EndsAt: req.EndsAt.UTC()}
	if err := h.Showings.Update(ctx, s); err != nil {
		if err == repository.ErrShowingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "showing not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update showing failed"})
	}
	return c.JSON(http.StatusOK, toShowingResp(s))
}

// DeleteShowing removes a showing; showings with bookings or seats
// already sold cannot be removed.
func (h *AdminShowingHandler) DeleteShowing(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Showings.Delete(ctx, id); err != nil {
		switch err {
		case repository.ErrShowingNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "showing not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "showing has bookings"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete showing failed"})
	}
	return c.NoContent(http.StatusNoContent)
}

type seedSeatsReq struct {
	Rows        uint32 `json:"rows"`
	SeatsPerRow uint32 `json:"seats_per_row"`
}

// SeedSeats creates the seat grid for a showing: rows labelled A, B,
// C ... each holding seats_per_row numbered seats, all available.
// Seeding is one-shot; a showing that already has seats returns 409.
func (h *AdminShowingHandler) SeedSeats(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var req seedSeatsReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if req.Rows == 0 || req.SeatsPerRow == 0 {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "rows and seats_per_row must be positive"})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 10*time.Second)
	defer cancel()

	if _, err := h.Showings.GetByID(ctx, id); err != nil {
		if err == repository.ErrShowingNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "showing not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}

	n, err := h.Seats.CountByShowing(ctx, id)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "query failed"})
	}
	if n > 0 {
		return c.JSON(http.StatusConflict, echo.Map{"error": "seats already seeded"})
	}

	if err := h.Seats.SeedForShowing(ctx, id, req.Rows, req.SeatsPerRow); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "seed seats failed"})
	}
	return c.JSON(http.StatusCreated, echo.Map{"seats_created": req.Rows * req.SeatsPerRow})
}
