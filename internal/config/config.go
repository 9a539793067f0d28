package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Auth       AuthConfig
	Payments   PaymentsConfig
	Cache      CacheConfig
	Storage    StorageConfig
	Migrations MigrationsConfig
}

// ServerConfig holds HTTP server settings
type ServerConfig struct {
	Port            string        `env:"PORT" envDefault:"3000"`
	AllowedOrigins  []string      `env:"ALLOWED_ORIGINS" envSeparator:","`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Driver     string `env:"DB_DRIVER" envDefault:"postgres"`
	URL        string `env:"DATABASE_URL"`
	Host       string `env:"DB_HOST" envDefault:"localhost"`
	Port       string `env:"DB_PORT" envDefault:"5432"`
	User       string `env:"DB_USER" envDefault:"postgres"`
	Password   string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME" envDefault:"contesto"`
	SSLMode    string `env:"DB_SSLMODE" envDefault:"disable"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"contesto.db"`
}

// AuthConfig holds identity-token verification settings
type AuthConfig struct {
	FirebaseProjectID       string `env:"FIREBASE_PROJECT_ID"`
	FirebaseCredentialsFile string `env:"FIREBASE_CREDENTIALS_FILE"`
	DevSecret               string `env:"AUTH_DEV_SECRET"`
}

// PaymentsConfig holds hosted checkout settings
type PaymentsConfig struct {
	StripeSecretKey string `env:"STRIPE_SECRET_KEY"`
	SiteDomain      string `env:"SITE_DOMAIN"`
	Currency        string `env:"PAYMENT_CURRENCY" envDefault:"usd"`
}

// CacheConfig holds Redis settings for the popular-contest cache
type CacheConfig struct {
	RedisAddr       string        `env:"REDIS_ADDR"`
	RedisPassword   string        `env:"REDIS_PASSWORD"`
	RedisDB         int           `env:"REDIS_DB" envDefault:"0"`
	PopularTTL      time.Duration `env:"POPULAR_CACHE_TTL" envDefault:"10m"`
	RefreshInterval time.Duration `env:"POPULAR_REFRESH_INTERVAL" envDefault:"5m"`
}

// StorageConfig holds S3-compatible object storage settings
type StorageConfig struct {
	Bucket          string `env:"S3_BUCKET"`
	Region          string `env:"S3_REGION" envDefault:"auto"`
	Endpoint        string `env:"S3_ENDPOINT"`
	AccessKeyID     string `env:"S3_ACCESS_KEY_ID"`
	SecretAccessKey string `env:"S3_SECRET_ACCESS_KEY"`
	CDNBaseURL      string `env:"CDN_BASE_URL"`
}

// MigrationsConfig holds the SQL migration runner settings
type MigrationsConfig struct {
	Dir string `env:"MIGRATIONS_DIR" envDefault:"migrations"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// Try to load .env file (ignore error if it doesn't exist)
	_ = godotenv.Load()

	config := &Config{}
	if err := env.Parse(config); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadDatabase loads only the database and migration settings, for tools
// that do not serve HTTP
func LoadDatabase() (*Config, error) {
	_ = godotenv.Load()

	config := &Config{}
	if err := env.Parse(&config.Database); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := env.Parse(&config.Migrations); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return config, nil
}

// Validate checks required fields
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		return fmt.Errorf("DB_DRIVER must be postgres or sqlite, got %q", c.Database.Driver)
	}

	if c.Auth.FirebaseProjectID == "" && c.Auth.DevSecret == "" {
		return fmt.Errorf("FIREBASE_PROJECT_ID or AUTH_DEV_SECRET is required")
	}

	if c.Payments.StripeSecretKey == "" {
		return fmt.Errorf("STRIPE_SECRET_KEY is required")
	}

	if c.Payments.SiteDomain == "" {
		return fmt.Errorf("SITE_DOMAIN is required")
	}
	if _, err := url.ParseRequestURI(c.Payments.SiteDomain); err != nil {
		return fmt.Errorf("SITE_DOMAIN must be an absolute URL: %w", err)
	}
	c.Payments.SiteDomain = strings.TrimRight(c.Payments.SiteDomain, "/")

	return nil
}

// GetDSN returns the connection string for the configured driver
func (c *Config) GetDSN() string {
	if c.Database.Driver == "sqlite" {
		return c.Database.SQLitePath
	}
	if c.Database.URL != "" {
		return c.Database.URL
	}
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
		c.Database.SSLMode,
	)
}

// CacheEnabled reports whether a Redis address is configured
func (c *Config) CacheEnabled() bool {
	return c.Cache.RedisAddr != ""
}

// StorageEnabled reports whether an object storage bucket is configured
func (c *Config) StorageEnabled() bool {
	return c.Storage.Bucket != ""
}
