package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"

	"github.com/g0c0de0rd1e/audiomagister/internal/client/api"
	"github.com/g0c0de0rd1e/audiomagister/internal/client/cli"
	"github.com/g0c0de0rd1e/audiomagister/internal/client/iocli"
	"github.com/g0c0de0rd1e/audiomagister/internal/client/storage/boltdb"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	os.Exit(run())
}

func run() int {
	// Глобальные флаги
	showVersion := flag.Bool("version", false, "Show version information")
	serverURL := flag.String("server", "http://localhost:8000", "Server URL")
	dbPath := flag.String("db", "audiomagister-client.db", "Path to local session database")
	password := flag.String("password", "", "Account password (not recommended)")
	passwordFile := flag.String("password-file", "", "Path to file containing the account password")
	flag.Usage = func() { cli.PrintUsage(os.Stderr) }

	flag.Parse()

	if *showVersion {
		printVersion()
		return 0
	}

	args := flag.Args()
	if len(args) == 0 {
		cli.PrintUsage(os.Stderr)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	boltStorage, err := boltdb.New(ctx, *dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		return 1
	}
	defer func() {
		if err := boltStorage.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "failed to close database: %v\n", err)
		}
	}()

	c := cli.New(iocli.NewStdio(), api.NewClient(*serverURL), boltStorage, cli.Passwords{
		FromFile: *passwordFile,
		FromArgs: *password,
	})

	if err := c.Run(ctx, args[0], args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 1
	}

	return 0
}

func printVersion() {
	fmt.Printf("Audiomagister Client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
