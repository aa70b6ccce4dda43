package models

import "time"

// RefreshToken is a persisted, revocable refresh token.
type RefreshToken struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"userId"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	Revoked   bool      `json:"revoked"`
	CreatedAt time.Time `json:"createdAt"`
}
