package service

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"github.com/poketrainer/api/internal/model"
	"github.com/poketrainer/api/pkg/jwt"
)

// RefreshToken is a stored refresh token. Only the SHA-256 hash of the
// opaque token lands in the database.
type RefreshToken struct {
	ID        string    `json:"id"`
	TrainerID string    `json:"trainer_id"`
	TokenHash string    `json:"token_hash"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
	Revoked   bool      `json:"revoked"`
}

// TokenRepository defines the interface for refresh token storage
type TokenRepository interface {
	CreateRefreshToken(ctx context.Context, token *RefreshToken) error
	GetRefreshTokenByHash(ctx context.Context, hash string) (*RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, hash string) error
	RevokeAllTrainerTokens(ctx context.Context, trainerID string) error
	DeleteExpiredTokens(ctx context.Context) error
}

// TokenService pairs short-lived JWT access tokens with single-use
// refresh tokens.
type TokenService struct {
	jwtService      *jwt.Service
	tokenRepo       TokenRepository
	refreshDuration time.Duration
}

// TokenServiceConfig holds the token service dependencies.
// RefreshDuration defaults to 30 days.
type TokenServiceConfig struct {
	JWTService      *jwt.Service
	TokenRepo       TokenRepository
	RefreshDuration time.Duration
}

// NewTokenService creates a new token service.
func NewTokenService(cfg TokenServiceConfig) *TokenService {
	if cfg.RefreshDuration == 0 {
		cfg.RefreshDuration = 30 * 24 * time.Hour
	}

	return &TokenService{
		jwtService:      cfg.JWTService,
		tokenRepo:       cfg.TokenRepo,
		refreshDuration: cfg.RefreshDuration,
	}
}

// TokenPair represents an access token and refresh token pair
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"` // seconds
}

// GenerateTokenPair issues a fresh access/refresh pair for a trainer.
func (s *TokenService) GenerateTokenPair(ctx context.Context, trainer *model.Trainer) (*TokenPair, error) {
	accessToken, err := s.jwtService.Sign(jwt.Claims{
		Subject:   trainer.ID,
		TrainerID: trainer.ID,
		Email:     trainer.Email,
		Role:      string(trainer.Role),
	})
	if err != nil {
		return nil, err
	}

	refreshToken, err := newOpaqueToken()
	if err != nil {
		return nil, err
	}

	stored := &RefreshToken{
		TrainerID: trainer.ID,
		TokenHash: hashToken(refreshToken),
		ExpiresAt: time.Now().Add(s.refreshDuration),
		CreatedAt: time.Now(),
	}
	if err := s.tokenRepo.CreateRefreshToken(ctx, stored); err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(s.jwtService.GetExpiration().Seconds()),
	}, nil
}

// RefreshTokens validates a refresh token and issues new tokens.
// Implements single-use rotation: old token is revoked, new token is issued.
func (s *TokenService) RefreshTokens(ctx context.Context, refreshToken string, trainer *model.Trainer) (*TokenPair, error) {
	tokenHash := hashToken(refreshToken)

	storedToken, err := s.tokenRepo.GetRefreshTokenByHash(ctx, tokenHash)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}
	if storedToken == nil {
		return nil, ErrInvalidRefreshToken
	}

	// Token reuse after rotation means the token leaked somewhere;
	// revoke everything for this trainer.
	if storedToken.Revoked {
		_ = s.tokenRepo.RevokeAllTrainerTokens(ctx, storedToken.TrainerID)
		return nil, ErrRefreshTokenRevoked
	}

	if time.Now().After(storedToken.ExpiresAt) {
		return nil, ErrRefreshTokenExpired
	}

	// Single-use: the presented token dies here, the new pair replaces it
	if err := s.tokenRepo.RevokeRefreshToken(ctx, tokenHash); err != nil {
		return nil, err
	}

	return s.GenerateTokenPair(ctx, trainer)
}

// ValidateAccessToken validates an access token and returns the claims
func (s *TokenService) ValidateAccessToken(token string) (*jwt.Claims, error) {
	return s.jwtService.Validate(token)
}

// RevokeAllTrainerTokens revokes all refresh tokens for a trainer
// (logout from all devices)
func (s *TokenService) RevokeAllTrainerTokens(ctx context.Context, trainerID string) error {
	return s.tokenRepo.RevokeAllTrainerTokens(ctx, trainerID)
}

// newOpaqueToken draws 32 random bytes, hex encoded.
func newOpaqueToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// hashToken is the storage form of a refresh token.
func hashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
