package cli

import (
	"context"
	"fmt"
)

// Run выполняет команду с аргументами (без имени команды)
func (c *Cli) Run(ctx context.Context, command string, args []string) error {
	switch command {
	case "register":
		return c.runRegister(ctx)
	case "login":
		return c.runLogin(ctx)
	case "logout":
		return c.runLogout(ctx)
	case "status":
		return c.runStatus(ctx)
	case "whoami":
		return c.runWhoami(ctx)
	case "upload":
		return c.runUpload(ctx, args)
	case "list":
		return c.runList(ctx)
	case "url":
		return c.runURL(ctx, args)
	default:
		return fmt.Errorf("unknown command: %s", command)
	}
}
