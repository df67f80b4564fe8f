package cli

import (
	"context"
	"fmt"

	"github.com/g0c0de0rd1e/audiomagister/internal/validation"
	"github.com/g0c0de0rd1e/audiomagister/pkg/api"
)

func (c *Cli) runRegister(ctx context.Context) error {
	c.io.Println("=== Registration ===")
	c.io.Println()

	email, err := c.io.ReadInput("Email: ")
	if err != nil {
		return fmt.Errorf("failed to read email: %w", err)
	}
	if err := validation.ValidateEmail(email); err != nil {
		return fmt.Errorf("invalid email: %w", err)
	}

	password, interactive, err := c.getPassword(fmt.Sprintf("Password (%d-%d chars): ",
		validation.MinPasswordLen, validation.MaxPasswordLen))
	if err != nil {
		return err
	}

	if interactive {
		confirm, err := c.io.ReadPassword("Confirm password: ")
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		if password != confirm {
			return fmt.Errorf("passwords do not match")
		}
	}

	if err := validation.ValidatePassword(password); err != nil {
		return fmt.Errorf("invalid password: %w", err)
	}

	c.io.Println()
	c.io.Println("Registering user...")

	user, err := c.api.Register(ctx, api.RegisterRequest{Email: email, Password: password})
	if err != nil {
		return err
	}

	c.io.Println()
	c.io.Println("✓ Registration successful!")
	c.io.Printf("User ID: %s\n", user.ID)
	c.io.Printf("Email: %s\n", user.Email)
	c.io.Println()
	c.io.Println("Please run 'audiomagister login' to start using the service.")

	return nil
}
