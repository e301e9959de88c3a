package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/poketrainer/api/internal/model"
	"github.com/poketrainer/api/pkg/jwt"
)

// AuthService defines the interface for token validation
type AuthService interface {
	ValidateAccessToken(token string) (*model.TokenClaims, error)
}

// ClaimsKey is the context key for validated token claims
const ClaimsKey contextKey = "claims"

// TrainerEmailKey is the context key for trainer email
const TrainerEmailKey contextKey = "trainerEmail"

// Auth returns a middleware that validates JWT tokens.
// Requests without an Authorization header are rejected with 403;
// requests with a bad or expired token get 401.
func Auth(authService AuthService) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				model.NewForbiddenError("missing authorization header").WriteJSON(w)
				return
			}

			// Check Bearer prefix
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				model.NewUnauthorizedError("invalid authorization header format").WriteJSON(w)
				return
			}

			token := parts[1]

			claims, err := authService.ValidateAccessToken(token)
			if err != nil {
				switch {
				case errors.Is(err, jwt.ErrTokenExpired):
					model.NewUnauthorizedError("token expired").WriteJSON(w)
				case errors.Is(err, jwt.ErrInvalidSignature):
					model.NewUnauthorizedError("invalid token signature").WriteJSON(w)
				default:
					model.NewUnauthorizedError("invalid token").WriteJSON(w)
				}
				return
			}

			ctx := context.WithValue(r.Context(), TrainerIDKey, claims.TrainerID)
			ctx = context.WithValue(ctx, TrainerEmailKey, claims.Email)
			ctx = context.WithValue(ctx, ClaimsKey, claims)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminAuth returns a middleware that requires the authenticated trainer
// to hold the ADMIN role. It must run after Auth in the chain.
func AdminAuth() Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := GetClaims(r.Context())
			if claims == nil {
				model.NewForbiddenError("authentication required").WriteJSON(w)
				return
			}
			if claims.Role != string(model.TrainerRoleAdmin) {
				model.NewForbiddenError("admin role required").WriteJSON(w)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GetTrainerID extracts the trainer ID from context
func GetTrainerID(ctx context.Context) string {
	if id, ok := ctx.Value(TrainerIDKey).(string); ok {
		return id
	}
	return ""
}

// GetTrainerEmail extracts the trainer email from context
func GetTrainerEmail(ctx context.Context) string {
	if email, ok := ctx.Value(TrainerEmailKey).(string); ok {
		return email
	}
	return ""
}

// GetClaims extracts the token claims from context
func GetClaims(ctx context.Context) *model.TokenClaims {
	if claims, ok := ctx.Value(ClaimsKey).(*model.TokenClaims); ok {
		return claims
	}
	return nil
}

// OptionalAuth is like Auth but doesn't require authentication.
// It will set trainer info in context if a valid token is present.
func OptionalAuth(authService AuthService) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				next.ServeHTTP(w, r)
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				next.ServeHTTP(w, r)
				return
			}

			token := parts[1]
			claims, err := authService.ValidateAccessToken(token)
			if err != nil {
				// Invalid token, but optional so continue without auth
				next.ServeHTTP(w, r)
				return
			}

			ctx := context.WithValue(r.Context(), TrainerIDKey, claims.TrainerID)
			ctx = context.WithValue(ctx, TrainerEmailKey, claims.Email)
			ctx = context.WithValue(ctx, ClaimsKey, claims)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
