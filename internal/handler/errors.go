package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-rental/internal/apperr"
	"github.com/iliyamo/movie-rental/internal/repository"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// statusFor maps a service error to its HTTP status and body.
func statusFor(err error) (int, errorBody) {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		body := errorBody{Error: ae.Kind.String(), Message: ae.Error()}
		switch ae.Kind {
		case apperr.KindNoItems, apperr.KindInvalidID:
			return http.StatusNotFound, body
		case apperr.KindInvalidName:
			if apperr.IsNameInUse(ae) {
				return http.StatusConflict, body
			}
			return http.StatusNotFound, body
		case apperr.KindInvalidEntity:
			return http.StatusBadRequest, body
		case apperr.KindAccessDenied:
			return http.StatusForbidden, body
		}
	}
	if errors.Is(err, repository.ErrConflict) {
		return http.StatusConflict, errorBody{Error: "conflict", Message: "resource is still referenced"}
	}
	return http.StatusInternalServerError, errorBody{Error: "internal", Message: "internal server error"}
}

// writeError renders err. Unexpected errors are logged with the request
// and never leak their text to the client.
func writeError(c echo.Context, err error) error {
	status, body := statusFor(err)
	if status == http.StatusInternalServerError {
		c.Logger().Errorf("%s %s: %v", c.Request().Method, c.Path(), err)
	}
	return c.JSON(status, body)
}

func badRequest(c echo.Context, msg string) error {
	return c.JSON(http.StatusBadRequest, errorBody{Error: apperr.KindInvalidEntity.String(), Message: msg})
}
