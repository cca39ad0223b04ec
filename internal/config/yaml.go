package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// yamlConfig is the intermediate shape for YAML unmarshalling. TokenTTL is
// a duration string such as "720h".
type yamlConfig struct {
	HTTPAddr    string `yaml:"http_addr"`
	DatabaseDSN string `yaml:"database_dsn"`
	JWTSecret   string `yaml:"jwt_secret"`
	JWTIssuer   string `yaml:"jwt_issuer"`
	TokenTTL    string `yaml:"token_ttl"`
	LogLevel    string `yaml:"log_level"`
}

// parseYAML overlays configuration from a YAML file. Absent fields keep
// their current values.
func parseYAML(cfg *Config, path string) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	c := &yamlConfig{}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	if c.HTTPAddr != "" {
		cfg.HTTPAddr = c.HTTPAddr
	}
	if c.DatabaseDSN != "" {
		cfg.DatabaseDSN = c.DatabaseDSN
	}
	if c.JWTSecret != "" {
		cfg.JWTSecret = c.JWTSecret
	}
	if c.JWTIssuer != "" {
		cfg.JWTIssuer = c.JWTIssuer
	}
	if c.TokenTTL != "" {
		ttl, err := time.ParseDuration(c.TokenTTL)
		if err != nil {
			return fmt.Errorf("invalid token_ttl: %w", err)
		}
		cfg.TokenTTL = ttl
	}
	if c.LogLevel != "" {
		cfg.LogLevel = c.LogLevel
	}
	return nil
}
