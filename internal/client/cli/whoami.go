package cli

import (
	"context"
)

func (c *Cli) runWhoami(ctx context.Context) error {
	authData, err := c.session(ctx)
	if err != nil {
		return err
	}

	user, err := c.api.Me(ctx, authData.AccessToken)
	if err != nil {
		return serverRejected(err)
	}

	c.io.Printf("ID: %s\n", user.ID)
	c.io.Printf("Email: %s\n", user.Email)
	c.io.Printf("Active: %t\n", user.IsActive)
	return nil
}
