// Package config loads the pokestrat.yml configuration file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// DefaultPath is where commands look for the configuration file.
const DefaultPath = "pokestrat.yml"

// Config represents the top-level pokestrat.yml configuration
type Config struct {
	// Namespace isolates this deployment's keys and channels on the shared
	// Redis server. Defaults to "default".
	Namespace string `yaml:"namespace,omitempty"`

	Redis   RedisConfig    `yaml:"redis"`
	Catalog *CatalogConfig `yaml:"catalog,omitempty"`
}

// RedisConfig locates the Redis server backing the registry
type RedisConfig struct {
	URL string `yaml:"url"`
}

// CatalogConfig configures the external card pricing API
type CatalogConfig struct {
	BaseURL string `yaml:"base_url,omitempty"` // Defaults to the production endpoint
	APIKey  string `yaml:"api_key,omitempty"`
}

// Load reads and validates configuration from the specified path. The file
// is optional: REDIS_URL, POKESTRAT_NAMESPACE and POKEMON_TCG_API_KEY
// override its values and can stand in for it entirely.
func Load(path string) (*Config, error) {
	config := &Config{}

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case os.IsNotExist(err):
		// Environment variables carry the settings instead
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	applyEnvOverrides(config)

	if config.Namespace == "" {
		config.Namespace = "default"
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

func applyEnvOverrides(config *Config) {
	if v := os.Getenv("REDIS_URL"); v != "" {
		config.Redis.URL = v
	}
	if v := os.Getenv("POKESTRAT_NAMESPACE"); v != "" {
		config.Namespace = v
	}
	if v := os.Getenv("POKEMON_TCG_API_KEY"); v != "" {
		if config.Catalog == nil {
			config.Catalog = &CatalogConfig{}
		}
		config.Catalog.APIKey = v
	}
}

// Validate performs strict validation on the configuration
func (c *Config) Validate() error {
	if c.Redis.URL == "" {
		return fmt.Errorf("redis.url is required (or set REDIS_URL)")
	}
	return nil
}
