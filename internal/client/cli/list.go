package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"
)

func (c *Cli) runList(ctx context.Context) error {
	authData, err := c.session(ctx)
	if err != nil {
		return err
	}

	resp, err := c.api.ListFiles(ctx, authData.AccessToken)
	if err != nil {
		return serverRejected(err)
	}

	c.io.Println("=== Uploaded Files ===")
	c.io.Println()

	if len(resp.Files) == 0 {
		c.io.Println("No files uploaded yet.")
		return nil
	}

	tw := tabwriter.NewWriter(c.io, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "NAME\tSIZE\tUPLOADED\tID")
	for _, f := range resp.Files {
		_, _ = fmt.Fprintf(tw, "%s\t%d\t%s\t%s\n", f.Filename, f.Size, f.CreatedAt.UTC().Format(time.DateTime), f.ID)
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to print files: %w", err)
	}

	c.io.Println()
	c.io.Printf("Total: %d file(s)\n", len(resp.Files))
	return nil
}
