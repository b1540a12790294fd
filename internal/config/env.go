package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/openkcm/common-sdk/pkg/commoncfg"
)

const embeddedSource = "embedded"

// identityEnv holds the public identity settings that may be provided
// through the environment instead of the config file.
type identityEnv struct {
	Endpoint string `env:"AUTH_SESSION_IDENTITY_ENDPOINT"`
	Project  string `env:"AUTH_SESSION_IDENTITY_PROJECT"`
	Platform string `env:"AUTH_SESSION_IDENTITY_PLATFORM"`
	Provider string `env:"AUTH_SESSION_OAUTH_PROVIDER"`
}

// ApplyEnv overlays the environment on top of the loaded configuration.
// Unset variables leave the file values untouched.
func ApplyEnv(cfg *Config) error {
	var raw identityEnv
	if err := env.Parse(&raw); err != nil {
		return fmt.Errorf("parsing environment: %w", err)
	}

	if raw.Endpoint != "" {
		cfg.Identity.Endpoint = commoncfg.SourceRef{Source: embeddedSource, Value: raw.Endpoint}
	}
	if raw.Project != "" {
		cfg.Identity.Project = commoncfg.SourceRef{Source: embeddedSource, Value: raw.Project}
	}
	if raw.Platform != "" {
		cfg.Identity.Platform = raw.Platform
	}
	if raw.Provider != "" {
		cfg.OAuth.Provider = raw.Provider
	}

	return nil
}
