// Package config handles runtime configuration: defaults, an optional YAML
// file overlay, environment variables, and command-line flags, applied in
// that order.
package config

import (
	"flag"
	"fmt"
	"os"
	"time"
)

// Config holds the runtime settings for the server.
//
// JWTSecret is the process-wide signing secret: loaded once here, read-only
// afterwards, and never logged or returned by any interface.
type Config struct {
	HTTPAddr    string
	DatabaseDSN string
	JWTSecret   string
	JWTIssuer   string
	TokenTTL    time.Duration
	LogLevel    string
}

// LoadDefaults populates Config with development defaults.
// NOTE: the secret is insecure and must be overridden in production.
func (c *Config) LoadDefaults() {
	c.HTTPAddr = "localhost:3000"
	c.DatabaseDSN = ""
	c.JWTSecret = "secretKey"
	c.JWTIssuer = "hng11-stage-two"
	c.TokenTTL = 30 * 24 * time.Hour
	c.LogLevel = "info"
}

// Load builds a Config from defaults, an optional YAML config file,
// environment variables and command-line flags. args is os.Args[1:].
func Load(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	fs := flag.NewFlagSet("server", flag.ContinueOnError)
	configFile := fs.String("config", "", "Path to YAML config file")
	httpAddr := fs.String("http", cfg.HTTPAddr, "Address to listen on (e.g., localhost:3000, :3000)")
	databaseDSN := fs.String("database-dsn", cfg.DatabaseDSN, "PostgreSQL DSN; when empty an in-memory store is used")
	jwtSecret := fs.String("jwt-secret", cfg.JWTSecret, "HMAC secret for signing tokens")
	jwtIssuer := fs.String("jwt-issuer", cfg.JWTIssuer, "Issuer claim stamped on and required of every token")
	tokenTTL := fs.Duration("token-ttl", cfg.TokenTTL, "Bearer token lifetime")
	logLevel := fs.String("log-level", cfg.LogLevel, "Log level (debug, info, warn, error)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("unknown arguments: %v", fs.Args())
	}

	path := *configFile
	if path == "" {
		path = os.Getenv("CONFIG_FILE")
	}
	if path != "" {
		if err := parseYAML(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := parseEnv(cfg); err != nil {
		return nil, err
	}

	// Explicitly-set flags win over the file and the environment.
	set := make(map[string]bool)
	fs.Visit(func(f *flag.Flag) {
		set[f.Name] = true
	})
	if set["http"] {
		cfg.HTTPAddr = *httpAddr
	}
	if set["database-dsn"] {
		cfg.DatabaseDSN = *databaseDSN
	}
	if set["jwt-secret"] {
		cfg.JWTSecret = *jwtSecret
	}
	if set["jwt-issuer"] {
		cfg.JWTIssuer = *jwtIssuer
	}
	if set["token-ttl"] {
		cfg.TokenTTL = *tokenTTL
	}
	if set["log-level"] {
		cfg.LogLevel = *logLevel
	}

	return cfg, nil
}

// parseEnv overlays configuration from environment variables.
func parseEnv(cfg *Config) error {
	if v := os.Getenv("HTTP_ADDR"); v != "" {
		cfg.HTTPAddr = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		cfg.DatabaseDSN = v
	}
	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWTSecret = v
	}
	if v := os.Getenv("JWT_ISSUER"); v != "" {
		cfg.JWTIssuer = v
	}
	if v := os.Getenv("TOKEN_TTL"); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("invalid TOKEN_TTL: %w", err)
		}
		cfg.TokenTTL = ttl
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	return nil
}
