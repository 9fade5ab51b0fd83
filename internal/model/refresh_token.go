package model

import (
	"time"

	"github.com/google/uuid"
)

// RefreshToken models an entry in the `refresh_tokens` table. Only the
// SHA‑256 hash of the token handed to the client is stored.
//
// Fields:
//
//	ID         – primary key identifier.
//	CustomerID – owner of the token.
//	TokenHash  – SHA‑256 hex digest of the token value.
//	ExpiresAt  – expiration timestamp of the token.
//	RevokedAt  – when the token was revoked (nil if still active).
//	CreatedAt  – timestamp of creation.
type RefreshToken struct {
	ID         uint64     // refresh_tokens.id
	CustomerID uuid.UUID  // refresh_tokens.customer_id
	TokenHash  string     // refresh_tokens.token_hash
	ExpiresAt  time.Time  // refresh_tokens.expires_at
	RevokedAt  *time.Time // refresh_tokens.revoked_at (nullable)
	CreatedAt  time.Time  // refresh_tokens.created_at
}

// Active reports whether the token is neither revoked nor expired at now.
func (t *RefreshToken) Active(now time.Time) bool {
	return t.RevokedAt == nil && now.Before(t.ExpiresAt)
}
