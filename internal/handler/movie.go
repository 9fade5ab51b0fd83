package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/movie-rental/internal/model"
	"github.com/iliyamo/movie-rental/internal/service"
)

// MovieHandler serves /v1/movies. Writes arrive as a view model with a
// genre id which is resolved through GenreService first.
type MovieHandler struct {
	Movies *service.MovieService
	Genres *service.GenreService
}

// NewMovieHandler wires the movie routes to movies, resolving genre ids
// through genres. Both are required.
func NewMovieHandler(movies *service.MovieService, genres *service.GenreService) *MovieHandler {
	if movies == nil || genres == nil {
		panic("nil service passed to NewMovieHandler")
	}
	return &MovieHandler{Movies: movies, Genres: genres}
}

// movieReq is the movie view model. Range rules are applied by the
// service; the tags only require the fields to be present.
type movieReq struct {
	Title     string           `json:"title" validate:"required"`
	GenreID   string           `json:"genre_id" validate:"required,uuid"`
	Quantity  *int64           `json:"quantity" validate:"required"`
	DailyRate *decimal.Decimal `json:"daily_rate" validate:"required"`
}

// toMovie resolves the genre and builds the entity.
func (h *MovieHandler) toMovie(c echo.Context, id uuid.UUID, req movieReq) (*model.Movie, error) {
	genre, err := h.Genres.GetByID(c.Request().Context(), uuid.MustParse(req.GenreID))
	if err != nil {
		return nil, err
	}
	return &model.Movie{
		ID:        id,
		Title:     req.Title,
		Genre:     genre,
		Quantity:  *req.Quantity,
		DailyRate: *req.DailyRate,
	}, nil
}

// List handles GET /v1/movies.
func (h *MovieHandler) List(c echo.Context) error {
	items, err := h.Movies.ListAll(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

// Get handles GET /v1/movies/:id.
func (h *MovieHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	m, err := h.Movies.GetByID(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, m)
}

// ListByGenre handles GET /v1/movies/genres/:id.
func (h *MovieHandler) ListByGenre(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	items, err := h.Movies.ListByGenre(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

// ListByGenreName handles GET /v1/movies/genres/name/:name.
func (h *MovieHandler) ListByGenreName(c echo.Context) error {
	items, err := h.Movies.ListByGenreName(c.Request().Context(), c.Param("name"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

// Create handles POST /v1/movies.
func (h *MovieHandler) Create(c echo.Context) error {
	var req movieReq
	if handled, err := bindBody(c, &req); handled {
		return err
	}
	m, err := h.toMovie(c, uuid.Nil, req)
	if err != nil {
		return writeError(c, err)
	}
	saved, err := h.Movies.Create(c.Request().Context(), m)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, saved)
}

// Update handles PUT /v1/movies/:id.
func (h *MovieHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req movieReq
	if handled, err := bindBody(c, &req); handled {
		return err
	}
	m, err := h.toMovie(c, id, req)
	if err != nil {
		return writeError(c, err)
	}
	saved, err := h.Movies.Update(c.Request().Context(), m)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, saved)
}

// Delete handles DELETE /v1/movies/:id and echoes the deleted id.
func (h *MovieHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.Movies.DeleteByID(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, id)
}
