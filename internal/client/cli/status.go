package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/g0c0de0rd1e/audiomagister/internal/client/storage"
)

func (c *Cli) runStatus(ctx context.Context) error {
	c.io.Println("=== Authentication Status ===")
	c.io.Println()

	authData, err := c.store.GetAuth(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrAuthNotFound) {
			c.io.Println("Status: Not authenticated")
			c.io.Println()
			c.io.Println("Run 'audiomagister login' to authenticate.")
			return nil
		}
		return fmt.Errorf("failed to get auth data: %w", err)
	}

	expiresAt := time.Unix(authData.ExpiresAt, 0).UTC()
	remaining := expiresAt.Sub(c.now())

	c.io.Printf("Email: %s\n", authData.Email)
	c.io.Printf("Token expires: %s\n", expiresAt.Format(time.RFC3339))

	if remaining > 0 {
		c.io.Println("Status: Authenticated")
		c.io.Printf("Time remaining: %s\n", remaining.Round(time.Second))
	} else {
		c.io.Println("Status: Expired")
		c.io.Println("⚠️  Token has expired. Please login again.")
	}

	return nil
}
