package middleware

import (
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// Context keys set by JWTAuth.
const (
	ctxCustomerID = "customer_id"
	ctxRole       = "role"
)

// CustomerID returns the authenticated principal's id. ok is false on
// routes that did not pass through JWTAuth.
func CustomerID(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(ctxCustomerID).(uuid.UUID)
	return id, ok && id != uuid.Nil
}

// Role returns the authenticated principal's role or "".
func Role(c echo.Context) string {
	r, _ := c.Get(ctxRole).(string)
	return r
}

// SetPrincipal stores the principal on the context, as JWTAuth does.
func SetPrincipal(c echo.Context, id uuid.UUID, role string) {
	c.Set(ctxCustomerID, id)
	c.Set(ctxRole, role)
}
