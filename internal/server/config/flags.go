package config

import (
	"flag"
	"strings"
)

// configPathFromArgs scans args for -c/-config without parsing the rest
func configPathFromArgs(args []string) string {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		name, value, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if !strings.HasPrefix(arg, "-") || (name != "c" && name != "config") {
			continue
		}
		if hasValue {
			return value
		}
		if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			return args[i+1]
		}
	}
	return ""
}

// applyFlags overlays command-line flags on cfg. Current values act as flag defaults.
func applyFlags(cfg *Config, name string, args []string) error {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)

	var configPath string
	fs.StringVar(&configPath, "c", "", "path to JSON config file")
	fs.StringVar(&configPath, "config", "", "path to JSON config file")

	fs.StringVar(&cfg.Address, "a", cfg.Address, "HTTP listen address")
	fs.StringVar(&cfg.PublicBaseURL, "base-url", cfg.PublicBaseURL, "public base URL used in file links")
	fs.StringVar(&cfg.StorageDriver, "storage", cfg.StorageDriver, "storage driver: sqlite or postgres")
	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "database DSN or sqlite file path")
	fs.StringVar(&cfg.SecretKey, "k", cfg.SecretKey, "token signing secret")
	fs.StringVar(&cfg.PasswordAlgorithm, "hash", cfg.PasswordAlgorithm, "password hash algorithm: bcrypt or argon2id")
	fs.StringVar(&cfg.BlobBackend, "blob", cfg.BlobBackend, "blob backend: local or s3")
	fs.StringVar(&cfg.UploadDir, "upload-dir", cfg.UploadDir, "directory for uploaded files")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	fs.StringVar(&cfg.S3.Bucket, "s3-bucket", cfg.S3.Bucket, "S3 bucket")
	fs.StringVar(&cfg.S3.Endpoint, "s3-endpoint", cfg.S3.Endpoint, "S3 endpoint")
	fs.DurationVar(&cfg.LoginTokenTTL, "login-ttl", cfg.LoginTokenTTL, "lifetime of tokens issued at login")
	fs.DurationVar(&cfg.TokenTTL, "token-ttl", cfg.TokenTTL, "default token lifetime")
	fs.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", cfg.ShutdownTimeout, "graceful shutdown timeout")
	fs.Int64Var(&cfg.MaxUploadBytes, "max-upload", cfg.MaxUploadBytes, "max upload size in bytes")
	fs.IntVar(&cfg.RateLimit, "rate-limit", cfg.RateLimit, "auth requests per window per client")

	cors := strings.Join(cfg.CORSOrigins, ",")
	fs.StringVar(&cors, "cors", cors, "comma separated allowed CORS origins")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg.CORSOrigins = splitList(cors)
	return nil
}
