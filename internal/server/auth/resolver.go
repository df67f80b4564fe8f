package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/g0c0de0rd1e/audiomagister/internal/models"
	"github.com/g0c0de0rd1e/audiomagister/internal/server/storage"
)

// Resolver maps a presented bearer token to the user it was issued for
type Resolver struct {
	verifier *TokenVerifier
	users    storage.UserStorage
}

// NewResolver creates a new identity resolver
func NewResolver(verifier *TokenVerifier, users storage.UserStorage) *Resolver {
	return &Resolver{
		verifier: verifier,
		users:    users,
	}
}

// Resolve returns the active user owning token.
// Storage failures other than a missing user are returned as is, not as ErrAuthFailure.
func (r *Resolver) Resolve(ctx context.Context, token string) (*models.User, error) {
	email, err := r.verifier.Verify(token)
	if err != nil {
		return nil, ErrAuthFailure
	}

	user, err := r.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, storage.ErrUserNotFound) {
			return nil, ErrAuthFailure
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	if !user.IsActive {
		return nil, ErrAuthFailure
	}

	return user, nil
}
