package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"

	"github.com/iliyamo/movie-rental/internal/model"
	"github.com/iliyamo/movie-rental/internal/service"
)

// RentalRecorder observes created rentals, e.g. for metrics.
type RentalRecorder interface {
	RentalCreated(fee decimal.Decimal)
}

// RentalHandler serves /v1/rentals.
type RentalHandler struct {
	Rentals   *service.RentalService
	Movies    *service.MovieService
	Customers *service.CustomerService
	Recorder  RentalRecorder // optional
}

// NewRentalHandler wires the rental routes. rec may be nil.
func NewRentalHandler(rentals *service.RentalService, movies *service.MovieService, customers *service.CustomerService, rec RentalRecorder) *RentalHandler {
	if rentals == nil || movies == nil || customers == nil {
		panic("nil service passed to NewRentalHandler")
	}
	return &RentalHandler{Rentals: rentals, Movies: movies, Customers: customers, Recorder: rec}
}

// List handles GET /v1/rentals (staff only).
func (h *RentalHandler) List(c echo.Context) error {
	items, err := h.Rentals.ListAll(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

// ListByCustomer handles GET /v1/rentals/customers/:id (staff only).
func (h *RentalHandler) ListByCustomer(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	items, err := h.Rentals.ListByCustomer(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

// ListMine handles GET /v1/rentals/mine.
func (h *RentalHandler) ListMine(c echo.Context) error {
	caller, err := principalID(c)
	if err != nil {
		return err
	}
	items, err := h.Rentals.ListByOwner(c.Request().Context(), caller, caller)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

// Get handles GET /v1/rentals/:id; only the owner may read a rental.
func (h *RentalHandler) Get(c echo.Context) error {
	caller, err := principalID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	r, err := h.Rentals.GetByID(c.Request().Context(), id, caller)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, r)
}

// Create handles POST /v1/rentals/:movieId. The rental belongs to the
// caller; dates and fee are set by the service.
func (h *RentalHandler) Create(c echo.Context) error {
	caller, err := principalID(c)
	if err != nil {
		return err
	}
	movieID, err := pathID(c, "movieId")
	if err != nil {
		return writeError(c, err)
	}
	ctx := c.Request().Context()
	movie, err := h.Movies.GetByID(ctx, movieID)
	if err != nil {
		return writeError(c, err)
	}
	cust, err := h.Customers.GetByID(ctx, caller)
	if err != nil {
		return writeError(c, err)
	}
	saved, err := h.Rentals.Create(ctx, &model.Rental{Movie: movie, Customer: cust})
	if err != nil {
		return writeError(c, err)
	}
	if h.Recorder != nil {
		h.Recorder.RentalCreated(saved.Fee)
	}
	return c.JSON(http.StatusCreated, saved)
}
