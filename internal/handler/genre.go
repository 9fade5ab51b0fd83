package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-rental/internal/model"
	"github.com/iliyamo/movie-rental/internal/service"
)

// GenreHandler serves /v1/genres.
type GenreHandler struct {
	Genres *service.GenreService
}

// NewGenreHandler panics on a nil service.
func NewGenreHandler(genres *service.GenreService) *GenreHandler {
	if genres == nil {
		panic("nil service passed to NewGenreHandler")
	}
	return &GenreHandler{Genres: genres}
}

type genreReq struct {
	Name string `json:"name" validate:"required"`
}

// List handles GET /v1/genres.
func (h *GenreHandler) List(c echo.Context) error {
	items, err := h.Genres.ListAll(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

// Get handles GET /v1/genres/:id.
func (h *GenreHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	g, err := h.Genres.GetByID(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, g)
}

// GetByName handles GET /v1/genres/name/:name.
func (h *GenreHandler) GetByName(c echo.Context) error {
	g, err := h.Genres.GetByName(c.Request().Context(), c.Param("name"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, g)
}

// Create handles POST /v1/genres.
func (h *GenreHandler) Create(c echo.Context) error {
	var req genreReq
	if handled, err := bindBody(c, &req); handled {
		return err
	}
	g, err := h.Genres.Create(c.Request().Context(), &model.Genre{Name: req.Name})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, g)
}

// Update handles PUT /v1/genres/:id. The path id wins over any id in the
// body, and a name held by another genre is refused before editing.
func (h *GenreHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req genreReq
	if handled, err := bindBody(c, &req); handled {
		return err
	}
	ctx := c.Request().Context()
	if err := h.Genres.CheckNameAvailable(ctx, req.Name, id); err != nil {
		return writeError(c, err)
	}
	g, err := h.Genres.Edit(ctx, &model.Genre{ID: id, Name: req.Name})
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, g)
}

// Delete handles DELETE /v1/genres/:id and echoes the deleted id.
func (h *GenreHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.Genres.DeleteByID(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, id)
}
