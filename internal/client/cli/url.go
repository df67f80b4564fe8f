package cli

import (
	"context"
	"fmt"
)

func (c *Cli) runURL(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("missing file name. Usage: audiomagister url <name>")
	}

	resp, err := c.api.FileURL(ctx, args[0])
	if err != nil {
		return err
	}

	c.io.Println(resp.FileURL)
	return nil
}
