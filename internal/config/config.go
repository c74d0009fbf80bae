package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Environment
	GoEnv string `env:"GO_ENV" default:"development"`

	// HTTP server
	HTTPHost string `env:"HTTP_HOST" default:"0.0.0.0"`
	HTTPPort int    `env:"HTTP_PORT" default:"4000"`

	// Database
	DatabaseURL string `env:"DATABASE_URL" required:"true"`

	// Authentication
	JWTSecret string        `env:"JWT_SECRET" required:"true"`
	JWTExpiry time.Duration `env:"JWT_EXPIRY" default:"168h"`

	// Auth endpoints rate limiting (per client IP)
	AuthRateLimit float64 `env:"AUTH_RATE_LIMIT" default:"1"`
	AuthRateBurst int     `env:"AUTH_RATE_BURST" default:"10"`

	// Redis (article view counters)
	RedisURL          string        `env:"REDIS_URL" default:"redis://localhost:6379/0"`
	RedisPassword     string        `env:"REDIS_PASSWORD"`
	ViewsSyncInterval time.Duration `env:"VIEWS_SYNC_INTERVAL" default:"1m"`

	// Development
	LogLevel    string   `env:"LOG_LEVEL" default:"debug"`
	LogFormat   string   `env:"LOG_FORMAT" default:"text"`
	CORSOrigins []string `env:"CORS_ORIGINS" default:"http://localhost:3000,http://localhost:5500"`

	// File Storage
	UploadDir       string `env:"UPLOAD_DIR" default:"./uploads"`
	UploadURLPrefix string `env:"UPLOAD_URL_PREFIX" default:"/uploads"`
	UploadMaxBytes  int64  `env:"UPLOAD_MAX_BYTES" default:"31457280"` // 30MB

	// Public URL used in citations and notification deep links
	PublicBaseURL string `env:"PUBLIC_BASE_URL" default:"http://localhost:4000"`
}

// LoadConfig loads configuration from environment variables
func LoadConfig() (*Config, error) {
	// .env is optional, system env vars still apply
	if err := godotenv.Load(".env"); err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read .env file: %w", err)
	}

	config := &Config{}

	if err := loadEnvString(&config.GoEnv, "GO_ENV", "development"); err != nil {
		return nil, err
	}

	// HTTP
	if err := loadEnvString(&config.HTTPHost, "HTTP_HOST", "0.0.0.0"); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.HTTPPort, "HTTP_PORT", 4000); err != nil {
		return nil, err
	}

	// Database
	if err := loadEnvStringRequired(&config.DatabaseURL, "DATABASE_URL"); err != nil {
		return nil, err
	}

	// Authentication
	if err := loadEnvStringRequired(&config.JWTSecret, "JWT_SECRET"); err != nil {
		return nil, err
	}
	if err := loadEnvDuration(&config.JWTExpiry, "JWT_EXPIRY", 7*24*time.Hour); err != nil {
		return nil, err
	}
	if err := loadEnvFloat(&config.AuthRateLimit, "AUTH_RATE_LIMIT", 1); err != nil {
		return nil, err
	}
	if err := loadEnvInt(&config.AuthRateBurst, "AUTH_RATE_BURST", 10); err != nil {
		return nil, err
	}

	// Redis
	if err := loadEnvString(&config.RedisURL, "REDIS_URL", "redis://localhost:6379/0"); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.RedisPassword, "REDIS_PASSWORD", ""); err != nil {
		return nil, err
	}
	if err := loadEnvDuration(&config.ViewsSyncInterval, "VIEWS_SYNC_INTERVAL", time.Minute); err != nil {
		return nil, err
	}

	// Development
	if err := loadEnvString(&config.LogLevel, "LOG_LEVEL", "debug"); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.LogFormat, "LOG_FORMAT", "text"); err != nil {
		return nil, err
	}
	if err := loadEnvStringSlice(&config.CORSOrigins, "CORS_ORIGINS", []string{"http://localhost:3000", "http://localhost:5500"}); err != nil {
		return nil, err
	}

	// File Storage
	if err := loadEnvString(&config.UploadDir, "UPLOAD_DIR", "./uploads"); err != nil {
		return nil, err
	}
	if err := loadEnvString(&config.UploadURLPrefix, "UPLOAD_URL_PREFIX", "/uploads"); err != nil {
		return nil, err
	}
	if err := loadEnvInt64(&config.UploadMaxBytes, "UPLOAD_MAX_BYTES", 30<<20); err != nil {
		return nil, err
	}

	if err := loadEnvString(&config.PublicBaseURL, "PUBLIC_BASE_URL", "http://localhost:4000"); err != nil {
		return nil, err
	}
	config.PublicBaseURL = strings.TrimRight(config.PublicBaseURL, "/")

	return config, nil
}

// Helper functions for type conversion and validation
func loadEnvString(target *string, key, defaultValue string) error {
	if value := os.Getenv(key); value != "" {
		*target = value
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvStringRequired(target *string, key string) error {
	value := os.Getenv(key)
	if value == "" {
		return fmt.Errorf("required environment variable %s is not set", key)
	}
	*target = value
	return nil
}

func loadEnvInt(target *int, key string, defaultValue int) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid integer value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvInt64(target *int64, key string, defaultValue int64) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid integer value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvFloat(target *float64, key string, defaultValue float64) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid float value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvDuration(target *time.Duration, key string, defaultValue time.Duration) error {
	if value := os.Getenv(key); value != "" {
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("invalid duration value for %s: %v", key, err)
		}
		*target = parsed
	} else {
		*target = defaultValue
	}
	return nil
}

func loadEnvStringSlice(target *[]string, key string, defaultValue []string) error {
	if value := os.Getenv(key); value != "" {
		*target = strings.Split(value, ",")
		// Trim whitespace from each element
		for i, v := range *target {
			(*target)[i] = strings.TrimSpace(v)
		}
	} else {
		*target = defaultValue
	}
	return nil
}

// Validate performs validation on the loaded configuration
func (c *Config) Validate() error {
	var errors []string

	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		errors = append(errors, "HTTP_PORT must be between 1 and 65535")
	}

	validLogLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLogLevels, c.LogLevel) {
		errors = append(errors, fmt.Sprintf("LOG_LEVEL must be one of: %s", strings.Join(validLogLevels, ", ")))
	}

	validLogFormats := []string{"text", "json"}
	if !contains(validLogFormats, c.LogFormat) {
		errors = append(errors, fmt.Sprintf("LOG_FORMAT must be one of: %s", strings.Join(validLogFormats, ", ")))
	}

	// HS256 secrets shorter than 32 bytes are brute-forceable
	if len(c.JWTSecret) < 32 {
		errors = append(errors, "JWT_SECRET should be at least 32 characters long")
	}

	if c.JWTExpiry <= 0 {
		errors = append(errors, "JWT_EXPIRY must be positive")
	}

	if c.UploadMaxBytes <= 0 {
		errors = append(errors, "UPLOAD_MAX_BYTES must be positive")
	}

	if c.ViewsSyncInterval < time.Second {
		errors = append(errors, "VIEWS_SYNC_INTERVAL must be at least 1s")
	}

	if c.AuthRateLimit <= 0 || c.AuthRateBurst < 1 {
		errors = append(errors, "AUTH_RATE_LIMIT must be positive and AUTH_RATE_BURST at least 1")
	}

	if len(errors) > 0 {
		return fmt.Errorf("configuration validation failed: %s", strings.Join(errors, "; "))
	}

	return nil
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// HTTPAddr returns the listen address of the API server
func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.HTTPHost, c.HTTPPort)
}

// Helper function to check if slice contains a string
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if s == item {
			return true
		}
	}
	return false
}
