// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
)

// Config holds application configuration values loaded from file or
// environment variables. BackendURL and BackendAnonKey point at the
// hosted backend service; the key must be the public (anon) key, never
// a service key.
type Config struct {
	BackendURL     string `mapstructure:"BACKEND_URL"`
	BackendAnonKey string `mapstructure:"BACKEND_ANON_KEY"`
	Port           string `mapstructure:"PORT"`
	BaseURL        string `mapstructure:"BASE_URL"`
	RedisURL       string `mapstructure:"REDIS_URL"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`
	Env            string `mapstructure:"APP_ENV"`
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	viper.AddConfigPath(".")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			log.Println("Config file not found; using environment variables and defaults")
		} else {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	// AutomaticEnv only resolves keys viper already knows about. The
	// required keys carry no default, so bind them explicitly or an
	// env-only setup never reaches Unmarshal.
	_ = viper.BindEnv("BACKEND_URL")
	_ = viper.BindEnv("BACKEND_ANON_KEY")

	// Set default values
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("BASE_URL", "http://localhost:8080")
	viper.SetDefault("REDIS_URL", "localhost:6379")
	viper.SetDefault("ALLOWED_ORIGINS", "*")
	viper.SetDefault("APP_ENV", "development")

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate ensures required values are present and that the configured
// backend key is safe to embed in a client-facing process.
func (c *Config) Validate() error {
	if c.BackendURL == "" {
		return errors.New("BACKEND_URL is required")
	}
	if c.BackendAnonKey == "" {
		return errors.New("BACKEND_ANON_KEY is required")
	}
	if !strings.HasPrefix(c.BackendURL, "http://") && !strings.HasPrefix(c.BackendURL, "https://") {
		return errors.New("BACKEND_URL must be an http(s) URL")
	}

	// The backend issues its API keys as JWTs whose role claim tells
	// anon and service keys apart. A service key in a client-exposed
	// process is a configuration error, not a warning.
	if role := keyRole(c.BackendAnonKey); role == "service_role" {
		return errors.New("BACKEND_ANON_KEY is a service key; use the public anon key")
	}

	if c.IsProduction() && !strings.HasPrefix(c.BaseURL, "https://") {
		log.Println("WARNING: BASE_URL is not https in production; OAuth callbacks may be rejected.")
	}
	return nil
}

// IsProduction reports whether the app runs with the production profile.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// keyRole extracts the role claim from an API key without verifying the
// signature (the signing secret lives with the provider, not here).
// Non-JWT keys yield an empty role.
func keyRole(key string) string {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(key, claims); err != nil {
		return ""
	}
	role, _ := claims["role"].(string)
	return role
}
