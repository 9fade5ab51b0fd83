package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-rental/internal/access"
	"github.com/iliyamo/movie-rental/internal/model"
	"github.com/iliyamo/movie-rental/internal/service"
)

// CustomerHandler serves /v1/customers.
type CustomerHandler struct {
	Customers *service.CustomerService
}

// NewCustomerHandler panics on a nil service.
func NewCustomerHandler(customers *service.CustomerService) *CustomerHandler {
	if customers == nil {
		panic("nil service passed to NewCustomerHandler")
	}
	return &CustomerHandler{Customers: customers}
}

type customerReq struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone" validate:"required"`
	Gold  bool   `json:"gold"`
}

type roleReq struct {
	Role string `json:"role" validate:"required"`
}

// List handles GET /v1/customers (staff only).
func (h *CustomerHandler) List(c echo.Context) error {
	items, err := h.Customers.ListAll(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, items)
}

// GetByName handles GET /v1/customers/name/:name (staff only).
func (h *CustomerHandler) GetByName(c echo.Context) error {
	cust, err := h.Customers.GetByName(c.Request().Context(), c.Param("name"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, cust)
}

// Get handles GET /v1/customers/:id. Customers may only read themselves;
// staff may read anyone.
func (h *CustomerHandler) Get(c echo.Context) error {
	caller, err := principalID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if !isStaff(c) {
		if err := access.Authorize(id, caller); err != nil {
			return writeError(c, err)
		}
	}
	cust, err := h.Customers.GetByID(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, cust)
}

// Update handles PUT /v1/customers/:id for the caller's own profile.
func (h *CustomerHandler) Update(c echo.Context) error {
	caller, err := principalID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req customerReq
	if handled, err := bindBody(c, &req); handled {
		return err
	}
	cust := &model.Customer{ID: id, Name: req.Name, Phone: req.Phone, Gold: req.Gold}
	saved, err := h.Customers.UpdateByID(c.Request().Context(), cust, caller)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, saved)
}

// Delete handles DELETE /v1/customers/:id for the caller's own account.
func (h *CustomerHandler) Delete(c echo.Context) error {
	caller, err := principalID(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.Customers.DeleteByID(c.Request().Context(), id, caller); err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, id)
}

// ChangeRole handles PUT /v1/customers/:id/role (admin only).
func (h *CustomerHandler) ChangeRole(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return writeError(c, err)
	}
	var req roleReq
	if handled, err := bindBody(c, &req); handled {
		return err
	}
	cust, err := h.Customers.ChangeRole(c.Request().Context(), id, req.Role)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, cust)
}
