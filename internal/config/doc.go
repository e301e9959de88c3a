// Package config manages application configuration for the trainer API.
//
// The config package loads and validates configuration from environment
// variables. All configuration is centralized here to provide a single
// source of truth.
//
// # Configuration Loading
//
//	cfg, err := config.Load()
//	if err := cfg.Validate(); err != nil { ... }
//
// # Configuration Groups
//
// Configuration is organized into logical groups:
//
//   - ServerConfig: HTTP server settings (port, timeouts, CORS origins)
//   - DatabaseConfig: SurrealDB connection settings
//   - JWTConfig: JWT signing and refresh token settings
//   - RateLimitConfig: request throttling settings
//
// # Environment Variables
//
// Key environment variables:
//
//	SERVER_PORT           - HTTP server port (default: 8080)
//	SERVER_ENV            - development | production | test
//	DB_HOST / DB_PORT     - SurrealDB endpoint
//	DB_NAMESPACE / DB_DATABASE
//	DB_USER / DB_PASSWORD
//	JWT_PRIVATE_KEY_PATH  - RS256 private key (PEM)
//	JWT_PUBLIC_KEY_PATH   - RS256 public key (PEM)
//	JWT_EXPIRATION_MINS   - access token lifetime
//	JWT_REFRESH_DAYS      - refresh token lifetime
//	RATE_LIMIT_RATE       - requests per window
//
// Sensible defaults are provided for development; Validate reports every
// missing or invalid value at once via errors.Join.
package config
