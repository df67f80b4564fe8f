package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// lookupFunc returns the value of an environment variable, "" if unset
type lookupFunc func(key string) string

// newLookup merges the process environment with the .env file at path.
// Process variables win over .env entries. A missing file is not an error.
func newLookup(getenv lookupFunc, path string) (lookupFunc, error) {
	dotenv := map[string]string{}
	if path != "" {
		values, err := godotenv.Read(path)
		switch {
		case err == nil:
			dotenv = values
		case errors.Is(err, fs.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to read env file %s: %w", path, err)
		}
	}

	return func(key string) string {
		if v := getenv(key); v != "" {
			return v
		}
		return dotenv[key]
	}, nil
}

// applyEnv overlays environment variables on cfg
func applyEnv(cfg *Config, env lookupFunc) error {
	var errs []error

	str := func(key string, dst *string) {
		if v := env(key); v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		if v := env(key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("invalid %s: %w", key, err))
				return
			}
			*dst = n
		}
	}
	dur := func(key string, dst *time.Duration) {
		if v := env(key); v != "" {
			d, err := time.ParseDuration(v)
			if err != nil {
				errs = append(errs, fmt.Errorf("invalid %s: %w", key, err))
				return
			}
			*dst = d
		}
	}

	str("SERVER_ADDRESS", &cfg.Address)
	str("PUBLIC_BASE_URL", &cfg.PublicBaseURL)
	str("STORAGE_DRIVER", &cfg.StorageDriver)
	str("DATABASE_URL", &cfg.DatabaseDSN)
	str("SECRET_KEY", &cfg.SecretKey)
	str("PASSWORD_ALGORITHM", &cfg.PasswordAlgorithm)
	str("BLOB_BACKEND", &cfg.BlobBackend)
	str("UPLOAD_DIR", &cfg.UploadDir)
	str("LOG_LEVEL", &cfg.LogLevel)

	str("S3_REGION", &cfg.S3.Region)
	str("S3_ENDPOINT", &cfg.S3.Endpoint)
	str("S3_ACCESS_KEY", &cfg.S3.AccessKey)
	str("S3_SECRET_KEY", &cfg.S3.SecretKey)
	str("S3_BUCKET", &cfg.S3.Bucket)
	str("S3_PREFIX", &cfg.S3.Prefix)
	if v := env("S3_USE_PATH_STYLE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid S3_USE_PATH_STYLE: %w", err))
		} else {
			cfg.S3.UsePathStyle = b
		}
	}

	// значение в минутах
	if v := env("ACCESS_TOKEN_EXPIRE_MINUTES"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid ACCESS_TOKEN_EXPIRE_MINUTES: %w", err))
		} else {
			cfg.LoginTokenTTL = time.Duration(n) * time.Minute
		}
	}
	dur("TOKEN_TTL", &cfg.TokenTTL)
	dur("RATE_LIMIT_WINDOW", &cfg.RateLimitWindow)
	dur("SHUTDOWN_TIMEOUT", &cfg.ShutdownTimeout)

	num("BCRYPT_COST", &cfg.BcryptCost)
	num("RATE_LIMIT", &cfg.RateLimit)

	if v := env("MAX_UPLOAD_BYTES"); v != "" {
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			errs = append(errs, fmt.Errorf("invalid MAX_UPLOAD_BYTES: %w", err))
		} else {
			cfg.MaxUploadBytes = n
		}
	}

	if v := env("CORS_ORIGINS"); v != "" {
		cfg.CORSOrigins = splitList(v)
	}

	return errors.Join(errs...)
}

func splitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
