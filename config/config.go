package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server ServerConfig
	Store  StoreConfig
	Search SearchConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// StoreConfig holds state store configuration
type StoreConfig struct {
	Type     string `mapstructure:"type"` // "redis" or "memory"
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// SearchConfig holds search orchestration configuration
type SearchConfig struct {
	Deadline  time.Duration `mapstructure:"deadline"`
	StatusTTL time.Duration `mapstructure:"status_ttl"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/waffar/")

	// Environment variable settings: WAFFAR_STORE_TYPE overrides store.type
	v.SetEnvPrefix("WAFFAR")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Store defaults
	v.SetDefault("store.type", "redis")
	v.SetDefault("store.address", "localhost:6379")
	v.SetDefault("store.db", 0)

	// Search defaults: 2.8s budget leaves headroom under a 3s response SLA
	v.SetDefault("search.deadline", "2800ms")
	v.SetDefault("search.status_ttl", "5m")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Store.Type != "redis" && config.Store.Type != "memory" {
		return fmt.Errorf("store type must be 'redis' or 'memory', got: %s", config.Store.Type)
	}

	if config.Store.Type == "redis" && config.Store.Address == "" {
		return fmt.Errorf("store address is required when store type is 'redis'")
	}

	if config.Search.Deadline <= 0 {
		return fmt.Errorf("search deadline must be positive, got: %s", config.Search.Deadline)
	}

	return nil
}
