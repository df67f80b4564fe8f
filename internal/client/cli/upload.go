package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

func (c *Cli) runUpload(ctx context.Context, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("missing file path. Usage: audiomagister upload <path>")
	}

	authData, err := c.session(ctx)
	if err != nil {
		return err
	}

	f, err := os.Open(args[0])
	if err != nil {
		return fmt.Errorf("failed to open file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	name := filepath.Base(args[0])
	c.io.Printf("Uploading %s...\n", name)

	file, err := c.api.Upload(ctx, authData.AccessToken, name, f)
	if err != nil {
		return serverRejected(err)
	}

	c.io.Println("✓ Upload complete!")
	c.io.Printf("ID: %s\n", file.ID)
	c.io.Printf("Name: %s\n", file.Filename)
	c.io.Printf("Size: %d bytes\n", file.Size)

	return nil
}
