// Package middleware provides HTTP middleware for the trainer API.
//
// The middleware package contains reusable middleware components for
// authentication, authorization, rate limiting, and request processing.
//
// # Available Middleware
//
// Core middleware components:
//
//   - Auth: JWT token validation and trainer extraction
//   - AdminAuth: ADMIN role enforcement (runs after Auth)
//   - RateLimit: Request rate limiting per trainer/IP
//   - Idempotency: Idempotent request handling for mutating methods
//
// # Authentication
//
// The auth middleware validates JWT tokens and extracts trainer information:
//
//	handler = middleware.Chain(handler, middleware.Auth(authService))
//
// After authentication, handlers can access trainer info:
//
//	trainerID := middleware.GetTrainerID(r.Context())
//	claims := middleware.GetClaims(r.Context())
//
// Requests without an Authorization header get a 403 response; requests
// with an invalid or expired token get a 401.
//
// # Rate Limiting
//
// Rate limiting protects against abuse:
//
//	handler = middleware.Chain(handler, middleware.RateLimit(limiter))
//
// # Context Values
//
// Middleware sets context values accessible via helper functions:
//
//   - GetTrainerID(ctx): Returns authenticated trainer ID
//   - GetClaims(ctx): Returns validated token claims
//   - GetRequestID(ctx): Returns unique request identifier
package middleware
