package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/movie-rental/internal/utils"
)

// JWTAuth validates a Bearer access token and stores the customer id and
// role on the context (see CustomerID and Role). The secret must match the
// one used when issuing tokens.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, ok := bearer(c)
			if !ok {
				return unauthorized(c, "missing bearer token")
			}
			claims, err := utils.ParseAccessToken(secret, raw)
			if err != nil {
				return unauthorized(c, "invalid token")
			}
			id, _ := claims.CustomerID() // validated by ParseAccessToken
			SetPrincipal(c, id, claims.Role)
			return next(c)
		}
	}
}

// RequireRole admits principals holding one of roles. It runs after
// JWTAuth; a request without a principal is 401, a wrong role 403.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if _, ok := CustomerID(c); !ok {
				return unauthorized(c, "missing principal")
			}
			if !allowed[Role(c)] {
				return c.JSON(http.StatusForbidden, echo.Map{"error": "access_denied", "message": "Access Denied"})
			}
			return next(c)
		}
	}
}

func bearer(c echo.Context) (string, bool) {
	auth := c.Request().Header.Get(echo.HeaderAuthorization)
	raw, ok := strings.CutPrefix(auth, "Bearer ")
	raw = strings.TrimSpace(raw)
	return raw, ok && raw != ""
}

func unauthorized(c echo.Context, msg string) error {
	return c.JSON(http.StatusUnauthorized, echo.Map{"error": "unauthorized", "message": msg})
}
