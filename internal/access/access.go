// Package access performs ownership checks for resources scoped to a
// single customer.
package access

import (
	"github.com/google/uuid"

	"github.com/iliyamo/movie-rental/internal/apperr"
)

// Authorize passes when the resource owner and the caller are the same
// principal and returns apperr.KindAccessDenied otherwise. There is no
// role override here; employee views call unscoped operations instead.
func Authorize(ownerID, callerID uuid.UUID) error {
	if ownerID != callerID {
		return apperr.AccessDenied("Access Denied")
	}
	return nil
}
