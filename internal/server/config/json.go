package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// fileConfig mirrors Config for JSON decoding. Pointer fields distinguish
// "absent" from zero values so a file only overrides what it sets.
type fileConfig struct {
	S3                json.RawMessage `json:"s3"`
	Address           *string         `json:"address"`
	PublicBaseURL     *string         `json:"public_base_url"`
	StorageDriver     *string         `json:"storage_driver"`
	DatabaseDSN       *string         `json:"database_url"`
	SecretKey         *string         `json:"secret_key"`
	PasswordAlgorithm *string         `json:"password_algorithm"`
	BlobBackend       *string         `json:"blob_backend"`
	UploadDir         *string         `json:"upload_dir"`
	LogLevel          *string         `json:"log_level"`
	EnvFile           *string         `json:"env_file"`
	TokenTTL          *Duration       `json:"token_ttl"`
	LoginTokenTTL     *Duration       `json:"login_token_ttl"`
	RateLimitWindow   *Duration       `json:"rate_limit_window"`
	ShutdownTimeout   *Duration       `json:"shutdown_timeout"`
	MaxUploadBytes    *int64          `json:"max_upload_bytes"`
	BcryptCost        *int            `json:"bcrypt_cost"`
	RateLimit         *int            `json:"rate_limit"`
	CORSOrigins       []string        `json:"cors_origins"`
}

// applyJSONFile overlays values from the JSON file at path
func applyJSONFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var fc fileConfig
	if err := json.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	setString(&cfg.Address, fc.Address)
	setString(&cfg.PublicBaseURL, fc.PublicBaseURL)
	setString(&cfg.StorageDriver, fc.StorageDriver)
	setString(&cfg.DatabaseDSN, fc.DatabaseDSN)
	setString(&cfg.SecretKey, fc.SecretKey)
	setString(&cfg.PasswordAlgorithm, fc.PasswordAlgorithm)
	setString(&cfg.BlobBackend, fc.BlobBackend)
	setString(&cfg.UploadDir, fc.UploadDir)
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.EnvFile, fc.EnvFile)

	setDuration(&cfg.TokenTTL, fc.TokenTTL)
	setDuration(&cfg.LoginTokenTTL, fc.LoginTokenTTL)
	setDuration(&cfg.RateLimitWindow, fc.RateLimitWindow)
	setDuration(&cfg.ShutdownTimeout, fc.ShutdownTimeout)

	if fc.MaxUploadBytes != nil {
		cfg.MaxUploadBytes = *fc.MaxUploadBytes
	}
	if fc.BcryptCost != nil {
		cfg.BcryptCost = *fc.BcryptCost
	}
	if fc.RateLimit != nil {
		cfg.RateLimit = *fc.RateLimit
	}
	if fc.CORSOrigins != nil {
		cfg.CORSOrigins = fc.CORSOrigins
	}
	if len(fc.S3) > 0 {
		// поля s3, которых нет в файле, сохраняют прежние значения
		if err := json.Unmarshal(fc.S3, &cfg.S3); err != nil {
			return fmt.Errorf("failed to parse s3 section of %s: %w", path, err)
		}
	}

	return nil
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *Duration) {
	if v != nil {
		*dst = v.Duration
	}
}
