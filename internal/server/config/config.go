// Package config handles configuration for the server: defaults, an optional
// JSON file, a .env file, environment variables and command-line flags,
// applied in that order.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Storage drivers
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Blob backends
const (
	BlobLocal = "local"
	BlobS3    = "s3"
)

// ErrMissingSecret is returned when no signing secret was configured
var ErrMissingSecret = errors.New("SECRET_KEY is required")

// S3Config holds object storage settings used when BlobBackend is "s3"
type S3Config struct {
	Region       string `json:"region"`
	Endpoint     string `json:"endpoint"`
	AccessKey    string `json:"access_key"`
	SecretKey    string `json:"secret_key"`
	Bucket       string `json:"bucket"`
	Prefix       string `json:"prefix"`
	UsePathStyle bool   `json:"use_path_style"`
}

// Config holds runtime settings for the server
type Config struct {
	S3                S3Config
	Address           string
	PublicBaseURL     string
	StorageDriver     string // sqlite | postgres; empty means derived from DatabaseDSN
	DatabaseDSN       string
	SecretKey         string
	PasswordAlgorithm string // bcrypt | argon2id
	BlobBackend       string // local | s3
	UploadDir         string
	LogLevel          string
	EnvFile           string
	CORSOrigins       []string
	TokenTTL          time.Duration
	LoginTokenTTL     time.Duration
	RateLimitWindow   time.Duration
	ShutdownTimeout   time.Duration
	MaxUploadBytes    int64
	BcryptCost        int
	RateLimit         int
}

// Default returns development defaults. SecretKey is intentionally empty.
func Default() *Config {
	return &Config{
		Address:           ":8000",
		PublicBaseURL:     "http://localhost:8000",
		DatabaseDSN:       "audiomagister.db",
		PasswordAlgorithm: "bcrypt",
		BlobBackend:       BlobLocal,
		UploadDir:         "uploads",
		LogLevel:          "info",
		EnvFile:           ".env",
		CORSOrigins:       []string{"http://localhost:3000"},
		TokenTTL:          15 * time.Minute,
		LoginTokenTTL:     30 * time.Minute,
		RateLimitWindow:   time.Minute,
		ShutdownTimeout:   10 * time.Second,
		MaxUploadBytes:    50 << 20,
		RateLimit:         20,
		S3: S3Config{
			Region: "us-east-1",
			Prefix: "uploads",
		},
	}
}

// Driver returns StorageDriver, or derives it from the DSN scheme
func (c *Config) Driver() string {
	if c.StorageDriver != "" {
		return strings.ToLower(c.StorageDriver)
	}
	dsn := strings.ToLower(c.DatabaseDSN)
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		return DriverPostgres
	}
	return DriverSQLite
}

// Validate checks that the configuration can start a server
func (c *Config) Validate() error {
	if c.SecretKey == "" {
		return ErrMissingSecret
	}

	switch c.Driver() {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}

	switch c.BlobBackend {
	case BlobLocal:
		if c.UploadDir == "" {
			return errors.New("upload dir is required for local blob storage")
		}
	case BlobS3:
		if c.S3.Bucket == "" {
			return errors.New("S3 bucket is required for s3 blob storage")
		}
	default:
		return fmt.Errorf("unknown blob backend %q", c.BlobBackend)
	}

	if c.MaxUploadBytes <= 0 {
		return errors.New("max upload bytes must be positive")
	}
	if c.LoginTokenTTL <= 0 || c.TokenTTL <= 0 {
		return errors.New("token lifetimes must be positive")
	}
	if c.RateLimit > 0 && c.RateLimitWindow <= 0 {
		return errors.New("rate limit window must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("shutdown timeout must be positive")
	}

	return nil
}
