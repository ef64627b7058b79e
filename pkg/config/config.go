// Package config loads and validates the waitlist API server configuration.
package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"

	"github.com/chainsafe/waitlist-api/pkg/auth"
)

// Config represents the waitlist API server configuration
type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Admin      AdminConfig      `mapstructure:"admin"`
	Email      EmailConfig      `mapstructure:"email"`
	RateLimit  RateLimitConfig  `mapstructure:"rate_limit"`
	Monitoring MonitoringConfig `mapstructure:"monitoring"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Shutdown   ShutdownConfig   `mapstructure:"shutdown"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig contains database connection settings
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Database string `mapstructure:"database"`
	SSLMode  string `mapstructure:"ssl_mode"`
}

// AdminConfig contains the statically configured administrator identity.
// The admin proves control of this address with an EIP-191 signature on
// every privileged request; no session is issued.
type AdminConfig struct {
	WalletAddress string `mapstructure:"wallet_address"`
}

// EmailConfig contains transactional email settings
type EmailConfig struct {
	SendgridAPIKey string `mapstructure:"sendgrid_api_key"`
	FromEmail      string `mapstructure:"from_email"`
	FromName       string `mapstructure:"from_name"`
	// BaseURL is the public origin used to build verification links,
	// e.g. https://waitlist.example.com
	BaseURL string `mapstructure:"base_url"`
}

// RateLimitConfig contains boundary rate limiting settings
type RateLimitConfig struct {
	// MaxInflight caps concurrent requests through the public routes.
	MaxInflight int `mapstructure:"max_inflight"`
}

// MonitoringConfig contains monitoring and metrics settings
type MonitoringConfig struct {
	Enabled     bool `mapstructure:"enabled"`
	MetricsPort int  `mapstructure:"metrics_port"`
}

// LoggingConfig contains logging settings
type LoggingConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// ShutdownConfig contains graceful shutdown settings
type ShutdownConfig struct {
	Timeout time.Duration `mapstructure:"timeout"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", "30s")
	viper.SetDefault("server.write_timeout", "30s")
	viper.SetDefault("server.idle_timeout", "60s")
	viper.SetDefault("server.shutdown_timeout", "30s")

	// Database defaults
	viper.SetDefault("database.host", "localhost")
	viper.SetDefault("database.port", 5432)
	viper.SetDefault("database.ssl_mode", "disable")
	viper.SetDefault("database.database", "waitlist")

	// Email defaults
	viper.SetDefault("email.from_name", "Waitlist")

	// Rate limit defaults
	viper.SetDefault("rate_limit.max_inflight", 100)

	// Monitoring defaults
	viper.SetDefault("monitoring.enabled", false)
	viper.SetDefault("monitoring.metrics_port", 9090)

	// Logging defaults
	viper.SetDefault("logging.level", "info")
	viper.SetDefault("logging.format", "json")
	viper.SetDefault("logging.output_path", "stdout")

	// Shutdown defaults
	viper.SetDefault("shutdown.timeout", "30s")
}

func validate(config *Config) error {
	if config.Database.Host == "" {
		return fmt.Errorf("database.host is required")
	}
	if config.Admin.WalletAddress == "" {
		return fmt.Errorf("admin.wallet_address is required")
	}
	if !auth.ValidateEVMAddress(config.Admin.WalletAddress) {
		return fmt.Errorf("admin.wallet_address is not a valid EVM address: %s", config.Admin.WalletAddress)
	}
	if config.Email.SendgridAPIKey == "" {
		return fmt.Errorf("email.sendgrid_api_key is required")
	}
	if config.Email.FromEmail == "" {
		return fmt.Errorf("email.from_email is required")
	}
	if config.Email.BaseURL == "" {
		return fmt.Errorf("email.base_url is required")
	}
	return nil
}
