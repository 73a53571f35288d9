package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Config holds the whole application configuration, populated from
// environment variables
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Adyen    AdyenConfig
	Checkout CheckoutConfig
	Jobs     JobConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
	MinConns int
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
	// Disabled falls back to the in-process cache (single instance only)
	Disabled bool
}

type JWTConfig struct {
	Secret string
}

// =====================================================
// ADYEN CONFIGURATION
// =====================================================

type AdyenConfig struct {
	APIKey          string
	MerchantAccount string
	Environment     string // test, live
	LivePrefix      string // live endpoint prefix from the Customer Area
	CheckoutURL     string // overrides the derived endpoint (e.g. a local stub)
	APIVersion      string
	Timeout         time.Duration
}

// UseMock is true when no credentials are configured (local development)
func (a AdyenConfig) UseMock() bool {
	return a.APIKey == ""
}

type CheckoutConfig struct {
	DefaultCountry  string
	DefaultCurrency string
	SessionTTL      time.Duration
	// PaymentMethodsCacheTTL of 0 disables the /paymentMethods cache
	PaymentMethodsCacheTTL time.Duration
	CookieDomain           string
	CookieSecure           bool
	AllowedOrigins         []string
}

type JobConfig struct {
	ImportPaymentMethodsCron string // empty disables the scheduled import
	Concurrency              int
}

// Load reads config from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Adyen Checkout API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "checkout"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 25),
			MinConns: getEnvInt("DB_MIN_CONNS", 5),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			Disabled: getEnvBool("REDIS_DISABLED", false),
		},
		JWT: JWTConfig{
			Secret: getEnv("JWT_SECRET", defaultJWTSecret),
		},
		Adyen: AdyenConfig{
			APIKey:          getEnv("ADYEN_API_KEY", ""),
			MerchantAccount: getEnv("ADYEN_MERCHANT_ACCOUNT", ""),
			Environment:     getEnv("ADYEN_ENVIRONMENT", "test"),
			LivePrefix:      getEnv("ADYEN_LIVE_PREFIX", ""),
			CheckoutURL:     getEnv("ADYEN_CHECKOUT_URL", ""),
			APIVersion:      getEnv("ADYEN_API_VERSION", "v71"),
			Timeout:         getEnvDuration("ADYEN_TIMEOUT", 30*time.Second),
		},
		Checkout: CheckoutConfig{
			DefaultCountry:         strings.ToUpper(getEnv("CHECKOUT_DEFAULT_COUNTRY", "NL")),
			DefaultCurrency:        strings.ToUpper(getEnv("CHECKOUT_DEFAULT_CURRENCY", "EUR")),
			SessionTTL:             getEnvDuration("CHECKOUT_SESSION_TTL", 24*time.Hour),
			PaymentMethodsCacheTTL: getEnvDuration("CHECKOUT_PAYMENT_METHODS_CACHE_TTL", 5*time.Minute),
			CookieDomain:           getEnv("COOKIE_DOMAIN", ""),
			CookieSecure:           getEnvBool("COOKIE_SECURE", false),
			AllowedOrigins:         getEnvList("CORS_ALLOWED_ORIGINS"),
		},
		Jobs: JobConfig{
			ImportPaymentMethodsCron: getEnv("JOB_IMPORT_PAYMENT_METHODS_CRON", "0 3 * * *"),
			Concurrency:              getEnvInt("WORKER_CONCURRENCY", 10),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

// IsProduction reports APP_ENV=production
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Validate checks the configuration is usable
func (c *Config) Validate() error {
	if len(c.Checkout.DefaultCountry) != 2 {
		return fmt.Errorf("CHECKOUT_DEFAULT_COUNTRY must be an ISO 3166 alpha-2 code, got %q", c.Checkout.DefaultCountry)
	}
	if len(c.Checkout.DefaultCurrency) != 3 {
		return fmt.Errorf("CHECKOUT_DEFAULT_CURRENCY must be an ISO 4217 code, got %q", c.Checkout.DefaultCurrency)
	}
	if c.Adyen.Environment != "test" && c.Adyen.Environment != "live" {
		return fmt.Errorf("ADYEN_ENVIRONMENT must be test or live, got %q", c.Adyen.Environment)
	}
	if c.Adyen.APIKey != "" && c.Adyen.MerchantAccount == "" {
		return errors.New("ADYEN_MERCHANT_ACCOUNT must be set when ADYEN_API_KEY is")
	}

	// Production environment must have real secrets
	if c.IsProduction() {
		if c.JWT.Secret == defaultJWTSecret {
			return errors.New("JWT_SECRET must be set in production")
		}
		if c.Database.Password == "" {
			return errors.New("DB_PASSWORD must be set in production")
		}
		if c.Adyen.UseMock() {
			return errors.New("ADYEN_API_KEY must be set in production")
		}
		if c.Redis.Disabled {
			return errors.New("REDIS_DISABLED is not allowed in production")
		}
	}

	return nil
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvList splits a comma-separated variable, dropping empty entries
func getEnvList(key string) []string {
	var values []string
	for _, value := range strings.Split(os.Getenv(key), ",") {
		if value = strings.TrimSpace(value); value != "" {
			values = append(values, value)
		}
	}
	return values
}
