// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package config handles application-wide settings and environment parsing.

It leverages 'caarlos0/env' to map OS environment variables into a strongly-typed
Go struct, providing early validation and default values.

Usage:

	cfg, err := config.Load()
	if err != nil {
	    log.Fatal(err)
	}

Architecture:

  - Immutability: Once loaded, configuration is read-only.
  - DI-Friendly: Passed to core components (DB, Redis, services) via constructors.
  - Zero Hidden State: No global variables are used to store config.
*/
package config

import (
	"errors"
	"fmt"
	"net/netip"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// ErrWriteTokenMissing is returned when neither TOKEN nor TOKEN_HASH is set.
var ErrWriteTokenMissing = errors.New("config: one of TOKEN or TOKEN_HASH must be set")

// # Configuration Schema

// Config holds all runtime configuration for the Shici API server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"8080"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required,notEmpty"`

	// MigrationPath is the filesystem path to the SQL migrations directory.
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`
	AutoMigrate   bool   `env:"AUTO_MIGRATE"   envDefault:"true"`

	// Key-Value store (Redis). Optional: enables the write token attempt guard.
	RedisURL string `env:"REDIS_URL"`

	// Message broker (NATS). Optional: enables tag change events.
	NATSURL           string `env:"NATS_URL"`
	NATSSubjectPrefix string `env:"NATS_SUBJECT_PREFIX" envDefault:"shici.tag"`

	// Write authorization. WriteToken is the shared secret; WriteTokenHash
	// is its bcrypt hash and takes precedence when both are set.
	WriteToken     string `env:"TOKEN"`
	WriteTokenHash string `env:"TOKEN_HASH"`

	// Bad token lockout per client IP.
	TokenMaxFailures   int           `env:"TOKEN_MAX_FAILURES"   envDefault:"10"`
	TokenFailureWindow time.Duration `env:"TOKEN_FAILURE_WINDOW" envDefault:"15m"`

	// Cross-Origin Resource Sharing
	CORSOrigins []string `env:"CORS_ORIGINS" envSeparator:","`

	// TrustedProxies lists the CIDR prefixes whose X-Real-IP and
	// X-Forwarded-For headers are believed. Empty means the TCP peer is
	// always the client.
	TrustedProxies []netip.Prefix `env:"TRUSTED_PROXIES" envSeparator:","`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {
	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// MigrationConfig is the subset of settings the shicictl migrate commands need.
type MigrationConfig struct {
	DatabaseURL   string `env:"DATABASE_URL,required,notEmpty"`
	MigrationPath string `env:"MIGRATION_PATH" envDefault:"./data/migrations"`
}

// LoadMigration parses only the database settings, so schema commands run
// without a write token configured.
func LoadMigration() (*MigrationConfig, error) {
	cfg := &MigrationConfig{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}
	return cfg, nil
}

// validate checks cross-field rules that struct tags cannot express.
func (c *Config) validate() error {
	if strings.TrimSpace(c.WriteToken) == "" && strings.TrimSpace(c.WriteTokenHash) == "" {
		return ErrWriteTokenMissing
	}
	if c.TokenMaxFailures < 1 {
		return fmt.Errorf("config: TOKEN_MAX_FAILURES must be positive, got %d", c.TokenMaxFailures)
	}
	return nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
