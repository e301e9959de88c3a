package service

import (
	"context"
	"strings"

	"github.com/poketrainer/api/internal/model"
	"golang.org/x/crypto/bcrypt"
)

const (
	bcryptCost = 12

	minPasswordLength = 8
	maxPasswordLength = 128
)

// AuthService owns account credentials: registration, login, password
// changes and the session lifecycle around them.
type AuthService struct {
	trainerRepo  TrainerRepository
	tokenService *TokenService
}

// AuthServiceConfig holds the auth service dependencies.
type AuthServiceConfig struct {
	TrainerRepo  TrainerRepository
	TokenService *TokenService
}

// NewAuthService creates a new auth service.
func NewAuthService(cfg AuthServiceConfig) *AuthService {
	return &AuthService{
		trainerRepo:  cfg.TrainerRepo,
		tokenService: cfg.TokenService,
	}
}

// normalizeEmail lowercases and trims so lookups and the unique index
// agree on one canonical form.
func normalizeEmail(email string) string {
	return strings.TrimSpace(strings.ToLower(email))
}

// RegisterRequest represents a registration request
type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResult represents a successful registration
type RegisterResult struct {
	Trainer   *model.Trainer
	TokenPair *TokenPair
}

// Register creates a new trainer account with email/password
func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*RegisterResult, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrTrainerNameRequired
	}

	email := normalizeEmail(req.Email)
	if !isValidEmail(email) {
		return nil, ErrInvalidEmail
	}

	if err := validatePassword(req.Password); err != nil {
		return nil, err
	}

	existing, err := s.trainerRepo.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyExists
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return nil, err
	}

	trainer := &model.Trainer{
		Name:  name,
		Email: email,
		Hash:  &hash,
		Role:  model.TrainerRoleTrainer,
	}

	if err := s.trainerRepo.Create(ctx, trainer); err != nil {
		return nil, err
	}

	tokenPair, err := s.tokenService.GenerateTokenPair(ctx, trainer)
	if err != nil {
		return nil, err
	}

	return &RegisterResult{
		Trainer:   trainer,
		TokenPair: tokenPair,
	}, nil
}

// LoginRequest represents a login request
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResult represents a successful login
type LoginResult struct {
	Trainer   *model.Trainer
	TokenPair *TokenPair
}

// Login authenticates a trainer with email and password. Every failure
// mode reports the same invalid-credentials error so responses don't
// reveal which emails have accounts.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResult, error) {
	trainer, err := s.trainerRepo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		return nil, err
	}
	if trainer == nil || trainer.Hash == nil || *trainer.Hash == "" {
		return nil, ErrInvalidCredentials
	}
	if !checkPassword(req.Password, *trainer.Hash) {
		return nil, ErrInvalidCredentials
	}

	tokenPair, err := s.tokenService.GenerateTokenPair(ctx, trainer)
	if err != nil {
		return nil, err
	}

	return &LoginResult{
		Trainer:   trainer,
		TokenPair: tokenPair,
	}, nil
}

// GetTrainerByID retrieves a trainer by ID
func (s *AuthService) GetTrainerByID(ctx context.Context, trainerID string) (*model.Trainer, error) {
	trainer, err := s.trainerRepo.GetByID(ctx, trainerID)
	if err != nil {
		return nil, err
	}
	if trainer == nil {
		return nil, ErrTrainerNotFound
	}
	return trainer, nil
}

// RefreshTokens validates a refresh token and issues new tokens
func (s *AuthService) RefreshTokens(ctx context.Context, refreshToken string) (*TokenPair, error) {
	// Look up the stored token to find the trainer
	tokenHash := hashToken(refreshToken)
	storedToken, err := s.tokenService.tokenRepo.GetRefreshTokenByHash(ctx, tokenHash)
	if err != nil {
		return nil, ErrInvalidRefreshToken
	}
	if storedToken == nil {
		return nil, ErrInvalidRefreshToken
	}

	trainer, err := s.trainerRepo.GetByID(ctx, storedToken.TrainerID)
	if err != nil {
		return nil, err
	}
	if trainer == nil {
		return nil, ErrTrainerNotFound
	}

	// TokenService handles validation and rotation
	return s.tokenService.RefreshTokens(ctx, refreshToken, trainer)
}

// Logout revokes the trainer's refresh tokens
func (s *AuthService) Logout(ctx context.Context, trainerID string) error {
	return s.tokenService.RevokeAllTrainerTokens(ctx, trainerID)
}

// ValidateAccessToken validates an access token and returns the claims
func (s *AuthService) ValidateAccessToken(token string) (*model.TokenClaims, error) {
	claims, err := s.tokenService.ValidateAccessToken(token)
	if err != nil {
		return nil, err
	}

	return &model.TokenClaims{
		TrainerID: claims.TrainerID,
		Email:     claims.Email,
		Role:      claims.Role,
	}, nil
}

// ChangePassword changes a trainer's password and revokes all sessions
func (s *AuthService) ChangePassword(ctx context.Context, trainerID, oldPassword, newPassword string) error {
	trainer, err := s.trainerRepo.GetByID(ctx, trainerID)
	if err != nil {
		return err
	}
	if trainer == nil {
		return ErrTrainerNotFound
	}

	if trainer.Hash != nil && *trainer.Hash != "" {
		if !checkPassword(oldPassword, *trainer.Hash) {
			return ErrInvalidCredentials
		}
	}

	if err := validatePassword(newPassword); err != nil {
		return err
	}

	hash, err := hashPassword(newPassword)
	if err != nil {
		return err
	}

	if _, err := s.trainerRepo.Update(ctx, trainerID, map[string]interface{}{"hash": hash}); err != nil {
		return err
	}

	// Force re-login everywhere
	return s.tokenService.RevokeAllTrainerTokens(ctx, trainerID)
}

func hashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

func checkPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func validatePassword(password string) error {
	switch {
	case password == "":
		return ErrPasswordRequired
	case len(password) < minPasswordLength:
		return ErrPasswordTooShort
	case len(password) > maxPasswordLength:
		return ErrPasswordTooLong
	}
	return nil
}

// isValidEmail wants a local part, an @ and a dotted domain. Anything
// fancier is the mail server's problem.
func isValidEmail(email string) bool {
	if email == "" || len(email) > 254 {
		return false
	}
	local, domain, found := strings.Cut(email, "@")
	if !found || local == "" {
		return false
	}
	dot := strings.LastIndex(domain, ".")
	return dot >= 1 && dot < len(domain)-1
}
