// Package config loads process configuration from the environment.
package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds everything the process needs to wire the store, the
// pagination engine, and the identity verifier.
type Config struct {
	// Table is the DynamoDB table holding every entity kind.
	Table string `env:"ENTITY_TABLE" env-default:"cellar_entities"`

	// BaseURL prefixes every self locator and pagination next-link.
	BaseURL string `env:"API_URL" env-default:"http://localhost:8080"`

	// PageSize is the fixed page size for every kind.
	PageSize int `env:"PAGE_SIZE" env-default:"5"`

	// AWSRegion selects the DynamoDB region.
	AWSRegion string `env:"AWS_REGION" env-default:"us-west-2"`

	// JWTSecret is the HS256 signing secret shared with the identity
	// provider. Required.
	JWTSecret string `env:"JWT_SECRET"`

	// JWTIssuer, when set, is enforced on every decoded token.
	JWTIssuer string `env:"JWT_ISSUER"`
}

// Load reads configuration from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("read environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required")
	}
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 characters")
	}
	if c.PageSize <= 0 {
		return fmt.Errorf("PAGE_SIZE must be positive, got %d", c.PageSize)
	}
	return nil
}
