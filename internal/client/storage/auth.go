package storage

import (
	"context"
)

// AuthStorage defines interface for storing the client session
type AuthStorage interface {
	// SaveAuth stores the current session, replacing any previous one
	SaveAuth(ctx context.Context, auth *AuthData) error

	// GetAuth retrieves the stored session
	// Returns ErrAuthNotFound if no session exists
	GetAuth(ctx context.Context) (*AuthData, error)

	// DeleteAuth removes the stored session (logout)
	// Returns ErrAuthNotFound if no session exists
	DeleteAuth(ctx context.Context) error

	// IsAuthenticated checks if a session exists and its token has not expired
	IsAuthenticated(ctx context.Context) (bool, error)
}

// AuthData represents the cached bearer token and who it belongs to
type AuthData struct {
	Email       string `json:"email"`
	UserID      string `json:"user_id"`
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresAt   int64  `json:"expires_at"` // unix seconds
}
