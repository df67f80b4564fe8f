package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/g0c0de0rd1e/audiomagister/internal/client/storage"
)

// Токены не отзываются на сервере, logout только забывает локальную сессию
func (c *Cli) runLogout(ctx context.Context) error {
	c.io.Println("=== Logout ===")

	if err := c.store.DeleteAuth(ctx); err != nil {
		if errors.Is(err, storage.ErrAuthNotFound) {
			c.io.Println("Not logged in.")
			return nil
		}
		return fmt.Errorf("logout failed: %w", err)
	}

	c.io.Println("✓ Logout successful!")
	c.io.Println("Your local session has been deleted.")

	return nil
}
