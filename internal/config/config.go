// Package config declares the counterhub process configuration, loaded
// once at startup via core/config.Load (see Load and MustLoad).
package config

import (
	"fmt"

	"github.com/counterhub/counterhub/core/config"
	"github.com/counterhub/counterhub/internal/keys"
)

// Config is the full set of environment-driven settings for one process.
type Config struct {
	Env      string `env:"APP_ENV" envDefault:"development"`
	Port     string `env:"PORT" envDefault:"8080"`
	Domain   string `env:"DOMAIN" envDefault:""`
	LogFormat string `env:"LOG_FORMAT" envDefault:""`

	AdminToken string `env:"ADMIN_TOKEN" envDefault:""`

	SaveIntervalSeconds int   `env:"SAVE_INTERVAL" envDefault:"30"`
	MaxBodySizeBytes    int64 `env:"MAX_BODY_SIZE" envDefault:"104857600"`

	DBPath string `env:"DB_PATH" envDefault:"data.db"`

	KeyPolicy string `env:"KEY_POLICY" envDefault:"plaintext"`
	PathStyle string `env:"PATH_STYLE" envDefault:"path"`
}

// Load reads and validates the process configuration from the environment
// (and .env, if present). SAVE_INTERVAL=0 is invalid and is coerced back to
// the default rather than rejected, matching spec.md §8's documented
// behavior for a zero interval.
func Load() (*Config, error) {
	var c Config
	if err := config.Load(&c); err != nil {
		return nil, err
	}

	if c.SaveIntervalSeconds <= 0 {
		c.SaveIntervalSeconds = 30
	}
	if c.MaxBodySizeBytes <= 0 {
		c.MaxBodySizeBytes = 100 << 20
	}

	if err := validatePolicies(c.KeyPolicy, c.PathStyle); err != nil {
		return nil, err
	}

	return &c, nil
}

// validatePolicies rejects KEY_POLICY/PATH_STYLE values that aren't one of
// the keys package's known constants.
func validatePolicies(keyPolicy, pathStyle string) error {
	switch keys.Policy(keyPolicy) {
	case keys.PolicyPlaintext, keys.PolicyHashed:
	default:
		return fmt.Errorf("config: invalid KEY_POLICY %q", keyPolicy)
	}
	switch keys.PathStyle(pathStyle) {
	case keys.PathStylePath, keys.PathStyleHostPath:
	default:
		return fmt.Errorf("config: invalid PATH_STYLE %q", pathStyle)
	}
	return nil
}

// MustLoad is Load, panicking on error, for use at process startup.
func MustLoad() *Config {
	c, err := Load()
	if err != nil {
		panic(err)
	}
	return c
}

// IsProduction reports whether Env names a production deployment.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// IsDevAuth reports whether admin auth is unconfigured (dev mode).
func (c *Config) IsDevAuth() bool {
	return c.AdminToken == ""
}

// KeyDeriverPolicy returns the typed keys.Policy for this config.
func (c *Config) KeyDeriverPolicy() keys.Policy {
	return keys.Policy(c.KeyPolicy)
}

// KeyDeriverPathStyle returns the typed keys.PathStyle for this config.
func (c *Config) KeyDeriverPathStyle() keys.PathStyle {
	return keys.PathStyle(c.PathStyle)
}
