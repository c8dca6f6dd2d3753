// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
type Config struct {
	LogLevel        string        `mapstructure:"LOG_LEVEL"`
	GithubAPIURL    string        `mapstructure:"GITHUB_API_URL"`
	HTTPAddr        string        `mapstructure:"HTTP_ADDR"`
	HTTPTimeout     time.Duration `mapstructure:"HTTP_TIMEOUT"`
	ShutdownTimeout time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`
}

// LoadConfig reads configuration from file and/or environment variables.
func LoadConfig() (*Config, error) {
	return load(viper.New())
}

func load(v *viper.Viper) (*Config, error) {
	// Set default values
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("GITHUB_API_URL", "https://api.github.com/")
	v.SetDefault("HTTP_ADDR", "127.0.0.1:8080")
	v.SetDefault("HTTP_TIMEOUT", "30s")
	v.SetDefault("SHUTDOWN_TIMEOUT", "5s")

	// Load from .env file if it exists
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	_ = v.ReadInConfig() // Ignore error if file not found

	// Bind environment variables
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks that all fields hold usable values.
func (c *Config) Validate() error {
	u, err := url.Parse(c.GithubAPIURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("GITHUB_API_URL must be an absolute URL, got %q", c.GithubAPIURL)
	}
	if c.HTTPAddr == "" {
		return errors.New("HTTP_ADDR is a required configuration field")
	}
	if c.HTTPTimeout <= 0 {
		return errors.New("HTTP_TIMEOUT must be a positive duration")
	}
	if c.ShutdownTimeout <= 0 {
		return errors.New("SHUTDOWN_TIMEOUT must be a positive duration")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("LOG_LEVEL must be one of debug, info, warn, error, got %q", c.LogLevel)
	}
	return nil
}
