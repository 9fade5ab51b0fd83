package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/iliyamo/movie-rental/internal/model"
)

// TokenRepo persists and validates refresh tokens. Only the SHA-256 hash
// of a token is ever stored.
type TokenRepo struct{ DB *sql.DB }

// NewTokenRepo returns a TokenRepo over db.
func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// StoreRefresh inserts a refresh token hash row.
func (r *TokenRepo) StoreRefresh(ctx context.Context, customerID uuid.UUID, tokenHash string, exp time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO refresh_tokens (customer_id, token_hash, expires_at) VALUES (?,?,?)",
		customerID, tokenHash, exp)
	return err
}

// FindByHash loads a token row by hash or returns ErrNotFound.
func (r *TokenRepo) FindByHash(ctx context.Context, tokenHash string) (*model.RefreshToken, error) {
	var (
		t         model.RefreshToken
		revokedAt sql.NullTime
	)
	err := r.DB.QueryRowContext(ctx,
		"SELECT id, customer_id, token_hash, expires_at, revoked_at, created_at FROM refresh_tokens WHERE token_hash=? LIMIT 1",
		tokenHash).Scan(&t.ID, &t.CustomerID, &t.TokenHash, &t.ExpiresAt, &revokedAt, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if revokedAt.Valid {
		t.RevokedAt = &revokedAt.Time
	}
	return &t, nil
}

// ValidateRefresh returns the owning customer id if a non-revoked,
// non-expired token exists, ErrNotFound otherwise.
func (r *TokenRepo) ValidateRefresh(ctx context.Context, tokenHash string) (uuid.UUID, error) {
	t, err := r.FindByHash(ctx, tokenHash)
	if err != nil {
		return uuid.Nil, err
	}
	if !t.Active(time.Now().UTC()) {
		return uuid.Nil, ErrNotFound
	}
	return t.CustomerID, nil
}

// RevokeByHash marks a token as revoked.
func (r *TokenRepo) RevokeByHash(ctx context.Context, tokenHash string) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=NOW() WHERE token_hash=? AND revoked_at IS NULL",
		tokenHash)
	return err
}

// RevokeAllForCustomer revokes all of a customer's active tokens.
func (r *TokenRepo) RevokeAllForCustomer(ctx context.Context, customerID uuid.UUID) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE refresh_tokens SET revoked_at=NOW() WHERE customer_id=? AND revoked_at IS NULL",
		customerID)
	return err
}
