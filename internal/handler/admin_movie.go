package handler

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-ticket-booking/internal/model"
	"github.com/iliyamo/movie-ticket-booking/internal/repository"
)

// AdminMovieHandler manages the movie catalogue.  All routes require
// the ADMIN role.
type AdminMovieHandler struct {
	Movies *repository.MovieRepo
}

func NewAdminMovieHandler(m *repository.MovieRepo) *AdminMovieHandler {
	return &AdminMovieHandler{Movies: m}
}

type movieReq struct {
	Title       string `json:"title"`
	Rating      string `json:"rating"`
	DurationMin uint32 `json:"duration_min"`
	Synopsis    string `json:"synopsis"`
}

func (r *movieReq) validate() string {
	r.Title = strings.TrimSpace(r.Title)
	r.Rating = strings.ToUpper(strings.TrimSpace(r.Rating))
	if r.Title == "" {
		return "title required"
	}
	if r.DurationMin == 0 {
		return "duration_min must be positive"
	}
	return ""
}

// CreateMovie adds a movie to the catalogue.
func (h *AdminMovieHandler) CreateMovie(c echo.Context) error {
	var req movieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m := &model.Movie{Title: req.Title, Rating: req.Rating, DurationMin: req.DurationMin, Synopsis: req.Synopsis}
	if err := h.Movies.Create(ctx, m); err != nil {
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "create movie failed"})
	}
	return c.JSON(http.StatusCreated, toMovieResp(m))
}

// UpdateMovie replaces a movie's descriptive fields.
func (h *AdminMovieHandler) UpdateMovie(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}
	var req movieReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "invalid body"})
	}
	if msg := req.validate(); msg != "" {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": msg})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	m := &model.Movie{ID: id, Title: req.Title, Rating: req.Rating, DurationMin: req.DurationMin, Synopsis: req.Synopsis}
	if err := h.Movies.Update(ctx, m); err != nil {
		if err == repository.ErrMovieNotFound {
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "update movie failed"})
	}
	return c.JSON(http.StatusOK, toMovieResp(m))
}

// DeleteMovie removes a movie; movies with scheduled showings cannot
// be deleted.
func (h *AdminMovieHandler) DeleteMovie(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Movies.Delete(ctx, id); err != nil {
		switch err {
		case repository.ErrMovieNotFound:
			return c.JSON(http.StatusNotFound, echo.Map{"error": "movie not found"})
		case repository.ErrConflict:
			return c.JSON(http.StatusConflict, echo.Map{"error": "movie has showings"})
		}
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "delete movie failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
