package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/g0c0de0rd1e/audiomagister/internal/client/storage"
)

// fallbackTokenTTL is assumed when the server omits expires_in
const fallbackTokenTTL = 30 * time.Minute

func (c *Cli) runLogin(ctx context.Context) error {
	c.io.Println("=== Login ===")
	c.io.Println()

	email, err := c.io.ReadInput("Email: ")
	if err != nil {
		return fmt.Errorf("failed to read email: %w", err)
	}

	password, _, err := c.getPassword("Password: ")
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("Authenticating...")

	issuedAt := c.now()
	token, err := c.api.Token(ctx, email, password)
	if err != nil {
		return err
	}

	user, err := c.api.Me(ctx, token.AccessToken)
	if err != nil {
		return fmt.Errorf("failed to load profile: %w", err)
	}

	ttl := time.Duration(token.ExpiresIn) * time.Second
	if ttl <= 0 {
		ttl = fallbackTokenTTL
	}

	authData := &storage.AuthData{
		Email:       user.Email,
		UserID:      user.ID,
		AccessToken: token.AccessToken,
		TokenType:   token.TokenType,
		ExpiresAt:   issuedAt.Add(ttl).Unix(),
	}
	if err := c.store.SaveAuth(ctx, authData); err != nil {
		return fmt.Errorf("failed to save auth data: %w", err)
	}

	c.io.Println()
	c.io.Println("✓ Login successful!")
	c.io.Printf("Email: %s\n", user.Email)
	c.io.Printf("Access token expires in: %s\n", ttl)

	return nil
}
