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
  - DI-Friendly: Passed to core components (DB, Redis, directory) via constructors.
  - Zero Hidden State: No global variables are used to store config.

Role membership lives here too. The defaults reproduce the panel's historical
allow-lists; deployments override them with the ROLE_* variables or a YAML
file named by ROLES_FILE.
*/
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/ascinsa/pms/internal/platform/sec"
)

// # Configuration Schema

// Config holds all runtime configuration for the panel server.
type Config struct {

	// Server settings
	ServerPort  string `env:"SERVER_PORT"  envDefault:"3000"`
	Environment string `env:"ENVIRONMENT"  envDefault:"development"`
	Debug       bool   `env:"DEBUG"        envDefault:"false"`

	// Relational Database (PostgreSQL)
	DatabaseURL string `env:"DATABASE_URL,required"`

	// MigrationPath overrides the embedded migrations with a directory on disk.
	MigrationPath string `env:"MIGRATION_PATH"`

	// Session store (Redis)
	RedisURL      string        `env:"REDIS_URL,required"`
	SessionSecret string        `env:"SESSION_SECRET,required"`
	SessionTTL    time.Duration `env:"SESSION_TTL" envDefault:"8h"`

	// Identity token signing
	JWTSecret string `env:"JWT_SECRET,required"`

	// External HR directory
	DirectoryURL     string        `env:"DIRECTORY_API_URL,required"`
	DirectoryKey     string        `env:"DIRECTORY_API_KEY,required"`
	DirectoryTimeout time.Duration `env:"DIRECTORY_TIMEOUT" envDefault:"10s"`

	// Role membership
	AdminCodes      []string `env:"ROLE_ADMIN_CODES"       envDefault:"HHC001,VJA001,EJQ001" envSeparator:","`
	AreaWorkerCodes []string `env:"ROLE_AREA_WORKER_CODES" envDefault:"JRB001,KVA001,MSA001,ERA001,LJP001,WAC001,LQM001,WOC001,GCC003" envSeparator:","`
	ReadOnlyCodes   []string `env:"ROLE_READ_ONLY_CODES"   envDefault:"MFD001" envSeparator:","`
	RolesFile       string   `env:"ROLES_FILE"`

	// Coarse area restriction
	SuperAdminCode   string   `env:"ROLE_SUPER_ADMIN_CODE"    envDefault:"EJQ001"`
	SystemsArea      string   `env:"ROLE_SYSTEMS_AREA"        envDefault:"004"`
	RestrictedPrefix []string `env:"RESTRICTED_PATH_PREFIXES" envDefault:"/projects,/hour,/docs,/changelog" envSeparator:","`

	// Proxies whose X-Real-IP / X-Forwarded-For are honoured (CIDR or address).
	// Empty means the socket address is always the client address.
	TrustedProxies []string `env:"TRUSTED_PROXIES" envSeparator:","`

	// Static assets (css, js, img, vendor) served from disk
	StaticDir string `env:"STATIC_DIR" envDefault:"./public"`
}

// # Configuration Loading

// Load parses environment variables into a [Config] struct.
func Load() (*Config, error) {

	// Initialize an empty config struct
	cfg := &Config{}

	// This will fail if any field marked with 'required' is missing.
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("config: failed to parse environment variables: %w", err)
	}

	return cfg, nil
}

// IsDevelopment reports whether the server is running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction reports whether the server is running in production mode.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// RoleTable builds the role table, preferring ROLES_FILE when it is set.
func (c *Config) RoleTable() (*sec.RoleTable, error) {
	if c.RolesFile != "" {
		return sec.LoadRoleTable(c.RolesFile)
	}
	return sec.NewRoleTable(c.AdminCodes, c.AreaWorkerCodes, c.ReadOnlyCodes)
}

// AreaPolicy returns the coarse path restriction applied during authentication.
func (c *Config) AreaPolicy() sec.AreaPolicy {
	return sec.AreaPolicy{
		SuperAdminCode: c.SuperAdminCode,
		SystemsArea:    c.SystemsArea,
		Prefixes:       c.RestrictedPrefix,
	}
}
