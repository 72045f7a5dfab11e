package config

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// DefaultPricePerLb is the per-pound rate used when company settings carry no usable default.
const DefaultPricePerLb = 3.50

// Config holds all application configuration
type Config struct {
	DatabaseURL           string
	Port                  string
	GoEnv                 string
	JWTSecret             string
	SessionCookie         string
	SessionTTL            time.Duration
	DefaultPricePerLb     float64
	RedisURL              string
	CacheTTL              time.Duration
	CORSOrigins           []string
	TrustedProxies        []string
	LoginRatePerMinute    int
	TrackingRatePerMinute int
	AWSRegion             string
	AWSS3Bucket           string
	AWSAccessKeyID        string
	AWSSecretAccessKey    string
	LogLevel              string
	LogFormat             string
}

var appConfig *Config

// Load loads the configuration from environment variables
// It automatically determines which .env file to load based on GO_ENV
func Load() (*Config, error) {
	env := os.Getenv("GO_ENV")
	if env == "" {
		env = "development"
	}

	envFile := fmt.Sprintf(".env.%s", env)
	if err := godotenv.Load(envFile); err != nil {
		if err := godotenv.Load(); err != nil {
			// Containers and PaaS set variables directly
			log.Printf("No .env file found, using system environment variables")
		}
	} else {
		log.Printf("Loaded configuration from %s", envFile)
	}

	config := &Config{
		DatabaseURL:           getEnv("DATABASE_URL", ""),
		Port:                  getEnv("PORT", "8080"),
		GoEnv:                 getEnv("GO_ENV", "development"),
		JWTSecret:             getEnv("JWT_SECRET", ""),
		SessionCookie:         getEnv("SESSION_COOKIE", "americanbox_session"),
		SessionTTL:            time.Duration(getEnvAsInt("SESSION_TTL_MINUTES", 720)) * time.Minute,
		DefaultPricePerLb:     getEnvAsFloat("DEFAULT_PRICE_PER_LB", DefaultPricePerLb),
		RedisURL:              getEnv("REDIS_URL", ""),
		CacheTTL:              time.Duration(getEnvAsInt("CACHE_TTL_SECONDS", 300)) * time.Second,
		CORSOrigins:           splitList(getEnv("CORS_ORIGINS", "http://localhost:5173")),
		TrustedProxies:        splitList(getEnv("TRUSTED_PROXIES", "")),
		LoginRatePerMinute:    getEnvAsInt("LOGIN_RATE_PER_MINUTE", 10),
		TrackingRatePerMinute: getEnvAsInt("TRACKING_RATE_PER_MINUTE", 60),
		AWSRegion:             getEnv("AWS_REGION", "us-east-1"),
		AWSS3Bucket:           getEnv("AWS_S3_BUCKET", ""),
		AWSAccessKeyID:        getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:    getEnv("AWS_SECRET_ACCESS_KEY", ""),
		LogLevel:              getEnv("LOG_LEVEL", "info"),
		LogFormat:             getEnv("LOG_FORMAT", ""),
	}

	if config.JWTSecret == "" && config.IsTest() {
		secret, err := randomSecret()
		if err != nil {
			return nil, err
		}
		config.JWTSecret = secret
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	appConfig = config
	return config, nil
}

// Validate checks that all required configuration values are set
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.JWTSecret == "" && !c.IsTest() {
		return fmt.Errorf("JWT_SECRET is required outside the test environment")
	}
	for _, proxy := range c.TrustedProxies {
		if net.ParseIP(proxy) == nil {
			if _, _, err := net.ParseCIDR(proxy); err != nil {
				return fmt.Errorf("TRUSTED_PROXIES entry %q is not an IP or CIDR", proxy)
			}
		}
	}
	if c.DefaultPricePerLb <= 0 {
		return fmt.Errorf("DEFAULT_PRICE_PER_LB must be positive")
	}
	return nil
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

// IsTest returns true if the application is running in test mode
func (c *Config) IsTest() bool {
	return c.GoEnv == "test"
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.GoEnv == "development"
}

// S3Enabled reports whether receipt uploads can reach a bucket
func (c *Config) S3Enabled() bool {
	return c.AWSS3Bucket != ""
}

// randomSecret returns a per-process signing secret for test runs.
func randomSecret() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session secret: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// GetConfig returns the loaded configuration
func GetConfig() *Config {
	return appConfig
}

// SetConfig replaces the loaded configuration (primarily for testing)
func SetConfig(cfg *Config) {
	appConfig = cfg
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if f, err := strconv.ParseFloat(value, 64); err == nil {
			return f
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
