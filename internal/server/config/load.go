package config

import (
	"fmt"
	"os"
)

// Load builds the configuration from defaults, JSON file, .env, environment
// and flags. args excludes the program name.
func Load(args []string, getenv func(string) string) (*Config, error) {
	if getenv == nil {
		getenv = os.Getenv
	}

	cfg := Default()

	path := configPathFromArgs(args)
	if path == "" {
		path = getenv("CONFIG")
	}
	if path != "" {
		if err := applyJSONFile(cfg, path); err != nil {
			return nil, err
		}
	}

	if v := getenv("ENV_FILE"); v != "" {
		cfg.EnvFile = v
	}
	env, err := newLookup(getenv, cfg.EnvFile)
	if err != nil {
		return nil, err
	}
	if err := applyEnv(cfg, env); err != nil {
		return nil, err
	}

	if err := applyFlags(cfg, "server", args); err != nil {
		return nil, fmt.Errorf("failed to parse flags: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}
