package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config is the full application configuration, read once at startup.
type Config struct {
	Server    ServerConfig
	Database  DatabaseConfig
	JWT       JWTConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           string
	Env            string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	AllowedOrigins []string
}

// DatabaseConfig holds SurrealDB connection settings.
type DatabaseConfig struct {
	Host      string
	Port      string
	Namespace string
	Database  string
	User      string
	Password  string
}

// JWTConfig holds token signing settings. RefreshDays bounds the
// refresh-token lifetime; access tokens live ExpirationMins.
type JWTConfig struct {
	PrivateKeyPath string
	PublicKeyPath  string
	ExpirationMins int
	Issuer         string
	RefreshDays    int
}

// RateLimitConfig holds request throttling settings.
type RateLimitConfig struct {
	Rate   int
	Burst  int
	Window time.Duration
}

// Load reads the environment into a Config. Every knob has a
// development-friendly default; Load itself never fails, Validate does.
func Load() (*Config, error) {
	return &Config{
		Server: ServerConfig{
			Port:           envStr("SERVER_PORT", "8080"),
			Env:            envStr("SERVER_ENV", "development"),
			ReadTimeout:    envDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:   envDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			AllowedOrigins: envList("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
		},
		Database: DatabaseConfig{
			Host:      envStr("DB_HOST", "localhost"),
			Port:      envStr("DB_PORT", "8000"),
			Namespace: envStr("DB_NAMESPACE", "poketrainer"),
			Database:  envStr("DB_DATABASE", "main"),
			User:      envStr("DB_USER", "root"),
			Password:  envStr("DB_PASSWORD", "root"),
		},
		JWT: JWTConfig{
			PrivateKeyPath: envStr("JWT_PRIVATE_KEY_PATH", "./keys/private.pem"),
			PublicKeyPath:  envStr("JWT_PUBLIC_KEY_PATH", "./keys/public.pem"),
			ExpirationMins: envInt("JWT_EXPIRATION_MINS", 15),
			Issuer:         envStr("JWT_ISSUER", "api.poketrainer.dev"),
			RefreshDays:    envInt("JWT_REFRESH_DAYS", 30),
		},
		RateLimit: RateLimitConfig{
			Rate:   envInt("RATE_LIMIT_RATE", 100),
			Burst:  envInt("RATE_LIMIT_BURST", 20),
			Window: envDuration("RATE_LIMIT_WINDOW", time.Minute),
		},
	}, nil
}

// IsDevelopment reports whether SERVER_ENV is development.
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development"
}

// IsProduction reports whether SERVER_ENV is production.
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Validate checks the loaded values and reports every problem at once
// via errors.Join, so a misconfigured deployment shows all its mistakes
// in one pass.
func (c *Config) Validate() error {
	var errs []error
	fail := func(format string, args ...interface{}) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	if c.Server.Port == "" {
		fail("SERVER_PORT is required")
	}
	switch c.Server.Env {
	case "development", "production", "test":
	default:
		fail("SERVER_ENV must be 'development', 'production', or 'test', got '%s'", c.Server.Env)
	}
	if len(c.Server.AllowedOrigins) == 0 {
		fail("CORS_ALLOWED_ORIGINS must have at least one origin")
	}

	if c.Database.Host == "" {
		fail("DB_HOST is required")
	}
	if c.Database.Port == "" {
		fail("DB_PORT is required")
	}
	if c.Database.Namespace == "" {
		fail("DB_NAMESPACE is required")
	}
	if c.Database.Database == "" {
		fail("DB_DATABASE is required")
	}

	// Development generates keys on the fly; production must bring its own.
	if c.IsProduction() {
		if c.JWT.PrivateKeyPath == "" {
			fail("JWT_PRIVATE_KEY_PATH is required in production")
		}
		if c.JWT.PublicKeyPath == "" {
			fail("JWT_PUBLIC_KEY_PATH is required in production")
		}
	}
	if c.JWT.ExpirationMins <= 0 {
		fail("JWT_EXPIRATION_MINS must be positive")
	}
	if c.JWT.RefreshDays <= 0 {
		fail("JWT_REFRESH_DAYS must be positive")
	}

	if c.RateLimit.Rate <= 0 {
		fail("RATE_LIMIT_RATE must be positive")
	}
	if c.RateLimit.Window <= 0 {
		fail("RATE_LIMIT_WINDOW must be positive")
	}

	return errors.Join(errs...)
}

func envStr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		return strings.Split(v, ",")
	}
	return fallback
}
