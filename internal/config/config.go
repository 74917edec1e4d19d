package config

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

type Config struct {
	Port      string
	Env       string
	LogLevel  string
	LogFormat string

	// Optional; the in-memory rate limit store is used when empty
	RedisURL string

	RateLimitMax    int
	RateLimitWindow time.Duration
	TrustProxy      bool

	// Empty means CORS stays disabled
	CORSAllowedOrigins []string

	FetchTimeout         time.Duration
	FetchMaxRedirects    int
	FetchMaxBodyBytes    int64
	BlockPrivateNetworks bool
}

// Load reads an optional .env file, then the environment, then command line flags
func Load() (*Config, error) {
	// A missing .env file is normal outside local development
	_ = godotenv.Load()

	return LoadFromArgs(os.Args[1:])
}

// LoadFromArgs builds a Config from the environment with args as flag overrides
func LoadFromArgs(args []string) (*Config, error) {
	config := &Config{
		Port:               getEnvWithDefault("PORT", "3000"),
		Env:                getEnvWithDefault("APP_ENV", EnvProduction),
		LogLevel:           getEnvWithDefault("LOG_LEVEL", "info"),
		LogFormat:          getEnvWithDefault("LOG_FORMAT", "json"),
		RedisURL:           getEnvWithDefault("REDIS_URL", ""),
		CORSAllowedOrigins: splitList(getEnvWithDefault("CORS_ALLOWED_ORIGINS", "")),
	}

	var err error
	if config.RateLimitMax, err = getEnvInt("RATE_LIMIT_MAX", 100); err != nil {
		return nil, err
	}
	if config.RateLimitWindow, err = getEnvDuration("RATE_LIMIT_WINDOW", 15*time.Minute); err != nil {
		return nil, err
	}
	if config.TrustProxy, err = getEnvBool("TRUST_PROXY", false); err != nil {
		return nil, err
	}
	if config.FetchTimeout, err = getEnvDuration("FETCH_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}
	if config.FetchMaxRedirects, err = getEnvInt("FETCH_MAX_REDIRECTS", 5); err != nil {
		return nil, err
	}
	maxBody, err := getEnvInt("FETCH_MAX_BODY_BYTES", 2*1024*1024)
	if err != nil {
		return nil, err
	}
	config.FetchMaxBodyBytes = int64(maxBody)
	if config.BlockPrivateNetworks, err = getEnvBool("BLOCK_PRIVATE_NETWORKS", true); err != nil {
		return nil, err
	}

	// Command line flags override environment
	fs := flag.NewFlagSet("linkpreview", flag.ContinueOnError)
	fs.StringVar(&config.Port, "port", config.Port, "Server port")
	fs.StringVar(&config.LogLevel, "log-level", config.LogLevel, "Log level")
	fs.StringVar(&config.Env, "env", config.Env, "Runtime mode (development or production)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	return config, nil
}

// IsDevelopment reports whether internal error details may be echoed to clients
func (c *Config) IsDevelopment() bool {
	return c.Env == EnvDevelopment
}

// Validate ensures all values are usable by the API service
func (c *Config) Validate() error {
	var errs []error

	if port, err := strconv.Atoi(c.Port); err != nil || port <= 0 || port > 65535 {
		errs = append(errs, fmt.Errorf("invalid port %q", c.Port))
	}
	if c.RateLimitMax <= 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_MAX must be positive, got %d", c.RateLimitMax))
	}
	if c.RateLimitWindow <= 0 {
		errs = append(errs, fmt.Errorf("RATE_LIMIT_WINDOW must be positive, got %s", c.RateLimitWindow))
	}
	if c.FetchTimeout <= 0 {
		errs = append(errs, fmt.Errorf("FETCH_TIMEOUT must be positive, got %s", c.FetchTimeout))
	}
	if c.FetchMaxRedirects < 0 {
		errs = append(errs, fmt.Errorf("FETCH_MAX_REDIRECTS must not be negative, got %d", c.FetchMaxRedirects))
	}
	if c.FetchMaxBodyBytes <= 0 {
		errs = append(errs, fmt.Errorf("FETCH_MAX_BODY_BYTES must be positive, got %d", c.FetchMaxBodyBytes))
	}

	return errors.Join(errs...)
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return n, nil
}

func getEnvBool(key string, defaultValue bool) (bool, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid %s: %w", key, err)
	}
	return b, nil
}

func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
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
