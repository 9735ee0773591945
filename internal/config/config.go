package config

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Session store backends
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
)

// Config holds all configuration for the application
type Config struct {
	// Server configuration
	Port            string        `json:"port" validate:"required,numeric"`
	Env             string        `json:"env" validate:"required,oneof=development production test"`
	ShutdownTimeout time.Duration `json:"shutdown_timeout" validate:"gte=0"`
	HTTPTimeout     time.Duration `json:"http_timeout" validate:"gte=0"`

	// Upstream sources
	ArticlesBaseURL string        `json:"articles_base_url" validate:"required,url"`
	ContentBaseURL  string        `json:"content_base_url" validate:"required,url"`
	UpstreamTimeout time.Duration `json:"upstream_timeout" validate:"gte=0"`
	UserAgent       string        `json:"user_agent"`
	DisplayTimezone string        `json:"display_timezone" validate:"required,timezone"`

	// Session state
	SessionBackend string        `json:"session_backend" validate:"oneof=memory redis"`
	RedisURL       string        `json:"redis_url" validate:"required_if=SessionBackend redis"`
	RedisPrefix    string        `json:"redis_prefix"`
	SessionTTL     time.Duration `json:"session_ttl" validate:"gt=0"`

	// Logging
	LogLevel string `json:"log_level" validate:"oneof=debug info warn error disabled"`
	LogFile  string `json:"log_file"`
}

// Load loads configuration from environment variables and validates it
func Load() *Config {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: Error loading .env file: %v", err)
	}

	cfg := FromEnv()
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	return cfg
}

// FromEnv reads the configuration from the process environment without validating it.
func FromEnv() *Config {
	return &Config{
		Port:            getEnv("PORT", "8080"),
		Env:             getEnv("APP_ENV", "development"),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
		HTTPTimeout:     getEnvAsDuration("HTTP_TIMEOUT", 30*time.Second),

		ArticlesBaseURL: getEnv("ARTICLES_BASE_URL", "https://api.spaceflightnewsapi.net/v4"),
		ContentBaseURL:  getEnv("CONTENT_BASE_URL", "https://content-api-seven.vercel.app"),
		UpstreamTimeout: getEnvAsDuration("UPSTREAM_TIMEOUT", 0),
		UserAgent:       getEnv("USER_AGENT", "spacecards/1.0"),
		DisplayTimezone: getEnv("DISPLAY_TIMEZONE", "UTC"),

		SessionBackend: getEnv("SESSION_BACKEND", BackendMemory),
		RedisURL:       getEnv("REDIS_URL", ""),
		RedisPrefix:    getEnv("REDIS_PREFIX", "spacecards:"),
		SessionTTL:     getEnvAsDuration("SESSION_TTL", 30*time.Minute),

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", "stdout"),
	}
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}
	return nil
}

// IsDevelopment reports whether the app runs in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Location returns the time zone used for display timestamps.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.DisplayTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Helper functions for environment variable handling
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(name string, defaultVal time.Duration) time.Duration {
	valueStr := getEnv(name, "")
	if valueStr == "" {
		return defaultVal
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		log.Printf("Invalid %s value: %v, using default: %v", name, err, defaultVal)
		return defaultVal
	}
	return value
}
