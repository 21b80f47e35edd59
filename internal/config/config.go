// Package config loads service configuration from environment variables.
package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	// General
	Environment string `envconfig:"ENVIRONMENT" default:"development"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`
	ListenAddr  string `envconfig:"LISTEN_ADDR" default:":8080"`

	// Session
	JWTSecret  string        `envconfig:"JWT_SECRET"`
	SessionTTL time.Duration `envconfig:"SESSION_TTL" default:"12h"`
	LoginPath  string        `envconfig:"LOGIN_PATH" default:"/login"`

	// Dashboard credentials (single-operator deployment; a directory
	// integration replaces this eventually)
	DashboardEmail    string `envconfig:"DASHBOARD_EMAIL" default:"agent@policydesk.local"`
	DashboardPassword string `envconfig:"DASHBOARD_PASSWORD"`
	DashboardUserName string `envconfig:"DASHBOARD_USER_NAME" default:"Agency Operator"`

	// HTTP
	RateLimitRPS   int    `envconfig:"RATE_LIMIT_RPS" default:"100"`
	RateLimitBurst int    `envconfig:"RATE_LIMIT_BURST" default:"200"`
	CORSOrigins    string `envconfig:"CORS_ORIGINS"`

	// Renewal digest (optional — service runs without Slack configured)
	SlackToken        string `envconfig:"SLACK_BOT_TOKEN"`
	SlackChannel      string `envconfig:"SLACK_RENEWALS_CHANNEL"`
	RenewalWindowDays int    `envconfig:"RENEWAL_WINDOW_DAYS" default:"30"`

	// Timeline cache
	TimelineCacheSize int `envconfig:"TIMELINE_CACHE_SIZE" default:"256"`
}

// Load reads configuration from the environment and validates it.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("processing env config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints that envconfig tags cannot express.
func (c *Config) Validate() error {
	if c.JWTSecret == "" && c.Environment != "development" {
		return fmt.Errorf("JWT_SECRET is required outside development")
	}
	if c.SessionTTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive, got %s", c.SessionTTL)
	}
	if c.TimelineCacheSize < 1 {
		return fmt.Errorf("TIMELINE_CACHE_SIZE must be >= 1, got %d", c.TimelineCacheSize)
	}
	if c.SlackEnabled() && c.SlackChannel == "" {
		return fmt.Errorf("SLACK_RENEWALS_CHANNEL is required when SLACK_BOT_TOKEN is set")
	}
	return nil
}

// SlackEnabled reports whether the renewal digest notifier is configured.
func (c *Config) SlackEnabled() bool {
	return c.SlackToken != ""
}

// Development reports whether the service runs in development mode.
func (c *Config) Development() bool {
	return c.Environment == "development"
}
