// Copyright (c) 2026 Unimart. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values. A local '.env' file is
loaded first through 'joho/godotenv' when present; real environment variables
always win over it.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis) via constructors.
  - Zero Hidden State: No global variables are used to store config.

This ensures the application is Twelve-Factor compliant by storing config in the env.
*/
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/taibuivan/unimart/internal/platform/constants"
)

// # Configuration Schema

// Config holds all runtime configuration for the Unimart API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`

	// Key-Value Cache (Redis). Empty disables the listing search cache.
	RedisURL string `env:"REDIS_URL"`

	// SearchCacheTTL bounds how long a cached search page may be served.
	SearchCacheTTL time.Duration `env:"SEARCH_CACHE_TTL" envDefault:"30s"`

	// Token signing. JWTSecret selects HS256; both key paths select RS256 instead.
	JWTSecret      string        `env:"JWT_SECRET,unset"`
	JWTPrivKeyPath string        `env:"JWT_PRIVATE_KEY_PATH"`
	JWTPubKeyPath  string        `env:"JWT_PUBLIC_KEY_PATH"`
	JWTTTL         time.Duration `env:"JWT_TTL"    envDefault:"24h"`
	JWTIssuer      string        `env:"JWT_ISSUER" envDefault:"unimart.app"`

	// PublicPaths are extra policy patterns admitted without authentication.
	PublicPaths []string `env:"PUBLIC_PATHS" envSeparator:","`

	// UploadDir is the root directory served under /uploads.
	UploadDir string `env:"UPLOAD_DIR" envDefault:"./data/uploads"`

	// Cross-Origin Resource Sharing
	ExtraOrigins []string `env:"EXTRA_ORIGINS" envSeparator:","`
}

// # Configuration Loading

// Load reads an optional .env file and parses environment variables into a [Config].
func Load(dotenvFiles ...string) (*Config, error) {

	// 1. Seed the process environment from .env files without overriding real vars
	if len(dotenvFiles) == 0 {
		dotenvFiles = []string{".env"}
	}
	for _, file := range dotenvFiles {
		if err := godotenv.Load(file); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: failed to read %s: %w", file, err)
		}
	}

	// 2. Map environment variables onto the struct.
	// This will fail if any field marked with 'required' is missing.
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	// 3. Cross-field rules the tags cannot express
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if len(c.JWTSecret) < constants.MinSecretLength && !c.UsesRSA() {
		return fmt.Errorf("config: JWT_SECRET must be at least %d bytes", constants.MinSecretLength)
	}
	if (c.JWTPrivKeyPath == "") != (c.JWTPubKeyPath == "") {
		return errors.New("config: JWT_PRIVATE_KEY_PATH and JWT_PUBLIC_KEY_PATH must be set together")
	}
	if c.JWTTTL < time.Minute {
		return fmt.Errorf("config: JWT_TTL must be at least 1m, got %s", c.JWTTTL)
	}
	for _, pattern := range c.PublicPaths {
		if pattern = strings.TrimSpace(pattern); pattern != "" && !strings.HasPrefix(pattern, "/") {
			return fmt.Errorf("config: PUBLIC_PATHS entry %q must start with '/'", pattern)
		}
	}
	return nil
}

// UsesRSA reports whether tokens are signed with an RSA key pair instead of the shared secret.
func (c *Config) UsesRSA() bool {
	return c.JWTPrivKeyPath != "" && c.JWTPubKeyPath != ""
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// AllowedOrigins returns the extra CORS origins beyond the product domain.
func (c *Config) AllowedOrigins() []string {
	return c.ExtraOrigins
}

// Port returns the TCP port the HTTP server listens on.
func (c *Config) Port() string {
	return c.ServerPort
}
