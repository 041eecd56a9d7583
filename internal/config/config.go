// Package config provides configuration management for the application.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/amaumene/gostremiord/internal/constants"
)

const (
	defaultConfigFile   = "config.json"
	defaultDatabasePath = "./gostremiord.db"
)

// Config holds the application configuration.
// Values come from environment variables first, then an optional JSON file.
type Config struct {
	// API credentials
	RDToken    string `json:"RD_TOKEN"`
	TMDBAPIKey string `json:"TMDB_API_KEY"`

	// Server settings
	Port string `json:"PORT"`

	// Storage settings
	DatabasePath string `json:"DATABASE_PATH"`

	// Cache and sync settings
	CacheSize    int           `json:"CACHE_SIZE"`
	CacheTTL     time.Duration `json:"-"`
	SyncInterval time.Duration `json:"-"`
}

// Load reads configuration from environment variables and an optional JSON
// file. Environment variables take precedence over file values. Returns an
// error when required settings are missing.
func Load() (*Config, error) {
	cfg := &Config{
		Port:         constants.DefaultPort,
		DatabasePath: defaultDatabasePath,
		CacheSize:    constants.DefaultCacheSize,
		CacheTTL:     time.Duration(constants.DefaultCacheTTL) * time.Hour,
		SyncInterval: constants.SyncInterval,
	}

	configFile := getEnvOrDefault("CONFIG_FILE", defaultConfigFile)
	if err := cfg.loadFromFile(configFile); err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to load config file: %w", err)
		}
	}

	cfg.loadFromEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func (c *Config) loadFromEnv() {
	if token := os.Getenv("RD_TOKEN"); token != "" {
		c.RDToken = token
	}
	if key := os.Getenv("TMDB_API_KEY"); key != "" {
		c.TMDBAPIKey = key
	}
	if port := os.Getenv("PORT"); port != "" {
		c.Port = port
	}
	if path := os.Getenv("DATABASE_PATH"); path != "" {
		c.DatabasePath = path
	}
}

func (c *Config) loadFromFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return err
	}
	return json.Unmarshal(data, c)
}

// Validate checks required settings and fills defaults for optional ones.
// TMDB_API_KEY is optional: without it metadata resolution falls back to
// Cinemeta only.
func (c *Config) Validate() error {
	if c.RDToken == "" {
		return fmt.Errorf("RD_TOKEN is not set")
	}
	if c.Port == "" {
		c.Port = constants.DefaultPort
	}
	if c.CacheSize <= 0 {
		c.CacheSize = constants.DefaultCacheSize
	}
	return nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
