package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/tahmid/qpaper/internal/app/models"
)

// TokenRepository persists refresh tokens so they can be revoked.
type TokenRepository struct {
	db Querier
}

// NewTokenRepository creates a new token repository.
func NewTokenRepository(db Querier) *TokenRepository {
	return &TokenRepository{db: db}
}

// Store saves a refresh token for the user.
func (r *TokenRepository) Store(ctx context.Context, userID, token string, expiresAt time.Time) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO refresh_tokens (user_id, token, expires_at)
		VALUES ($1, $2, $3)`,
		userID, token, expiresAt)
	if err != nil {
		return fmt.Errorf("error storing refresh token: %w", err)
	}
	return nil
}

// Get returns an unrevoked, unexpired token row, or (nil, nil).
func (r *TokenRepository) Get(ctx context.Context, token string) (*models.RefreshToken, error) {
	var t models.RefreshToken
	err := r.db.QueryRow(ctx, `
		SELECT id, user_id, token, expires_at, revoked, created_at
		FROM refresh_tokens
		WHERE token = $1 AND NOT revoked AND expires_at > $2`,
		token, time.Now(),
	).Scan(&t.ID, &t.UserID, &t.Token, &t.ExpiresAt, &t.Revoked, &t.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("error querying refresh token: %w", err)
	}

	return &t, nil
}

// Revoke marks a token unusable. Reports whether a live token matched.
func (r *TokenRepository) Revoke(ctx context.Context, token string) (bool, error) {
	cmdTag, err := r.db.Exec(ctx,
		`UPDATE refresh_tokens SET revoked = TRUE WHERE token = $1 AND NOT revoked`, token)
	if err != nil {
		return false, fmt.Errorf("error revoking refresh token: %w", err)
	}
	return cmdTag.RowsAffected() > 0, nil
}

// RevokeAllForUser invalidates every live token of a user, e.g. on
// password change.
func (r *TokenRepository) RevokeAllForUser(ctx context.Context, userID string) error {
	_, err := r.db.Exec(ctx,
		`UPDATE refresh_tokens SET revoked = TRUE WHERE user_id = $1 AND NOT revoked`, userID)
	if err != nil {
		return fmt.Errorf("error revoking user refresh tokens: %w", err)
	}
	return nil
}

// DeleteExpired prunes rows that can never be used again.
func (r *TokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	cmdTag, err := r.db.Exec(ctx,
		`DELETE FROM refresh_tokens WHERE expires_at <= $1 OR revoked`, time.Now())
	if err != nil {
		return 0, fmt.Errorf("error pruning refresh tokens: %w", err)
	}
	return cmdTag.RowsAffected(), nil
}
