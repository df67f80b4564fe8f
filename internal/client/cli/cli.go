// Package cli implements the audiomagister client commands.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	clientapi "github.com/g0c0de0rd1e/audiomagister/internal/client/api"
	"github.com/g0c0de0rd1e/audiomagister/internal/client/iocli"
	"github.com/g0c0de0rd1e/audiomagister/internal/client/storage"
	"github.com/g0c0de0rd1e/audiomagister/pkg/api"
)

// PasswordEnv overrides every other password source
const PasswordEnv = "AUDIOMAGISTER_PASSWORD"

var errNotAuthenticated = errors.New("not authenticated. Please run 'audiomagister login' first")

// APIClient is the subset of the server API the commands use
type APIClient interface {
	Register(ctx context.Context, req api.RegisterRequest) (*api.UserResponse, error)
	Token(ctx context.Context, email, password string) (*api.TokenResponse, error)
	Me(ctx context.Context, token string) (*api.UserResponse, error)
	Upload(ctx context.Context, token, filename string, content io.Reader) (*api.AudioFileResponse, error)
	ListFiles(ctx context.Context, token string) (*api.AudioFileListResponse, error)
	FileURL(ctx context.Context, name string) (*api.FileURLResponse, error)
}

var _ APIClient = (*clientapi.Client)(nil)

// Passwords lists non-interactive password sources
type Passwords struct {
	FromFile string
	FromArgs string
}

type Cli struct {
	io        iocli.IO
	api       APIClient
	store     storage.AuthStorage
	getenv    func(string) string
	now       func() time.Time
	passwords Passwords
}

func New(stdio iocli.IO, apiClient APIClient, store storage.AuthStorage, passwords Passwords) *Cli {
	return &Cli{
		io:        stdio,
		api:       apiClient,
		store:     store,
		getenv:    os.Getenv,
		now:       time.Now,
		passwords: passwords,
	}
}

// getPassword retrieves the account password from various sources with priority:
// 1. Environment variable AUDIOMAGISTER_PASSWORD
// 2. File from --password-file
// 3. Command-line parameter --password
// 4. Interactive prompt (fallback)
//
// interactive reports whether the value was typed by the user.
func (c *Cli) getPassword(prompt string) (password string, interactive bool, err error) {
	if envPassword := c.getenv(PasswordEnv); envPassword != "" {
		return envPassword, false, nil
	}

	if c.passwords.FromFile != "" {
		content, err := os.ReadFile(c.passwords.FromFile)
		if err != nil {
			return "", false, fmt.Errorf("failed to read password file: %w", err)
		}
		password := strings.TrimSpace(string(content))
		if password == "" {
			return "", false, fmt.Errorf("password file is empty")
		}
		return password, false, nil
	}

	if c.passwords.FromArgs != "" {
		return c.passwords.FromArgs, false, nil
	}

	password, err = c.io.ReadPassword(prompt)
	if err != nil {
		return "", true, fmt.Errorf("failed to read password: %w", err)
	}
	if password == "" {
		return "", true, fmt.Errorf("password cannot be empty")
	}

	return password, true, nil
}

// session returns the cached login, or errNotAuthenticated when it is missing or expired
func (c *Cli) session(ctx context.Context) (*storage.AuthData, error) {
	authData, err := c.store.GetAuth(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrAuthNotFound) {
			return nil, errNotAuthenticated
		}
		return nil, fmt.Errorf("failed to get auth data: %w", err)
	}

	if c.now().Unix() >= authData.ExpiresAt {
		return nil, fmt.Errorf("session expired: %w", errNotAuthenticated)
	}

	return authData, nil
}

// serverRejected converts a 401 on a protected route into a login hint
func serverRejected(err error) error {
	if errors.Is(err, clientapi.ErrUnauthorized) {
		return fmt.Errorf("server rejected the session: %w", errNotAuthenticated)
	}
	return err
}

func PrintUsage(w io.Writer) {
	_, _ = fmt.Fprint(w, `Audiomagister Client

Usage:
  audiomagister [OPTIONS] COMMAND [ARGS]

Options:
  --version               Show version information
  --server URL            Server URL (default: http://localhost:8000)
  --db PATH               Path to local session database (default: audiomagister-client.db)
  --password PASSWORD     Account password (not recommended, use env var or file)
  --password-file PATH    Path to file containing the account password

Password Priority (highest to lowest):
  1. AUDIOMAGISTER_PASSWORD environment variable
  2. --password-file (file path)
  3. --password (command line)
  4. Interactive prompt (fallback)

Commands:
  register                Register new user
  login                   Login and cache an access token
  logout                  Forget the cached access token
  status                  Show local session status
  whoami                  Ask the server who the cached token belongs to
  upload <path>           Upload an audio file
  list                    List your uploaded files
  url <name>              Show the public URL of an uploaded file

Examples:
  audiomagister register
  audiomagister login
  audiomagister upload ./song.mp3
  audiomagister url song.mp3
  audiomagister --server https://example.com list
`)
}
