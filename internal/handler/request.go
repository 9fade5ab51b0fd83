package handler

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-rental/internal/apperr"
	"github.com/iliyamo/movie-rental/internal/middleware"
	"github.com/iliyamo/movie-rental/internal/model"
)

// RequestValidator plugs go-playground/validator into echo. It checks the
// transport shape of request bodies only; domain rules live in
// internal/validation.
type RequestValidator struct {
	v *validator.Validate
}

// NewRequestValidator enables required checks on nested structs.
func NewRequestValidator() *RequestValidator {
	return &RequestValidator{v: validator.New(validator.WithRequiredStructEnabled())}
}

func (rv *RequestValidator) Validate(i any) error {
	return rv.v.Struct(i)
}

// bindBody binds and validates a JSON body into dst. On failure the 400
// response has already been written and handled is true.
func bindBody(c echo.Context, dst any) (handled bool, err error) {
	if err := c.Bind(dst); err != nil {
		return true, badRequest(c, "invalid body")
	}
	if err := c.Validate(dst); err != nil {
		return true, badRequest(c, validationMessage(err))
	}
	return false, nil
}

func validationMessage(err error) string {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return err.Error()
	}
	fe := verrs[0]
	return fe.Field() + " failed " + fe.Tag() + " check"
}

// pathID parses the named path parameter as a uuid. A malformed id is
// reported like an unknown one.
func pathID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperr.InvalidID("Invalid Id")
	}
	return id, nil
}

// principalID returns the authenticated caller's customer id. Routes using
// it sit behind JWTAuth, so a miss is a wiring bug reported as 401.
func principalID(c echo.Context) (uuid.UUID, error) {
	id, ok := middleware.CustomerID(c)
	if !ok {
		return uuid.Nil, echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return id, nil
}

// isStaff reports whether the caller is an employee or an administrator.
func isStaff(c echo.Context) bool {
	switch middleware.Role(c) {
	case model.RoleEmployee, model.RoleAdmin:
		return true
	}
	return false
}
