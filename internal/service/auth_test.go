package service

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"testing"
	"time"

	"github.com/poketrainer/api/internal/model"
	"github.com/poketrainer/api/pkg/jwt"
)

func newAuthService(t *testing.T, trainerRepo *mockTrainerRepo, tokenRepo *mockTokenRepo) *AuthService {
	t.Helper()
	if trainerRepo == nil {
		trainerRepo = &mockTrainerRepo{}
	}
	if tokenRepo == nil {
		tokenRepo = &mockTokenRepo{}
	}

	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("failed to generate RSA key: %v", err)
	}
	jwtService := jwt.NewTestService(privateKey, "test-issuer", 15*time.Minute)

	tokenService := NewTokenService(TokenServiceConfig{
		JWTService: jwtService,
		TokenRepo:  tokenRepo,
	})

	return NewAuthService(AuthServiceConfig{
		TrainerRepo:  trainerRepo,
		TokenService: tokenService,
	})
}

// ============================================================================
// Register Tests
// ============================================================================

func TestRegister_Success(t *testing.T) {
	t.Parallel()
	trainerRepo := &mockTrainerRepo{
		createFunc: func(ctx context.Context, trainer *model.Trainer) error {
			trainer.ID = "trainer:new"
			trainer.Level = 1
			return nil
		},
	}
	svc := newAuthService(t, trainerRepo, nil)

	result, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Ash",
		Email:    "Ash@Example.com",
		Password: "pikachu-thunder",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Trainer.Email != "ash@example.com" {
		t.Errorf("expected lowercased email, got %s", result.Trainer.Email)
	}
	if result.Trainer.Role != model.TrainerRoleTrainer {
		t.Errorf("expected default TRAINER role, got %s", result.Trainer.Role)
	}
	if result.TokenPair.AccessToken == "" || result.TokenPair.RefreshToken == "" {
		t.Error("expected token pair to be issued")
	}
}

func TestRegister_DuplicateEmail_Fails(t *testing.T) {
	t.Parallel()
	trainerRepo := &mockTrainerRepo{
		getByEmailFunc: func(ctx context.Context, email string) (*model.Trainer, error) {
			return &model.Trainer{ID: "trainer:existing", Email: email}, nil
		},
	}
	svc := newAuthService(t, trainerRepo, nil)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Ash",
		Email:    "ash@example.com",
		Password: "pikachu-thunder",
	})
	if err != ErrEmailAlreadyExists {
		t.Errorf("expected ErrEmailAlreadyExists, got %v", err)
	}
}

func TestRegister_ShortPassword_Fails(t *testing.T) {
	t.Parallel()
	svc := newAuthService(t, nil, nil)

	_, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Ash",
		Email:    "ash@example.com",
		Password: "short",
	})
	if err != ErrPasswordTooShort {
		t.Errorf("expected ErrPasswordTooShort, got %v", err)
	}
}

func TestRegister_InvalidEmail_Fails(t *testing.T) {
	t.Parallel()
	svc := newAuthService(t, nil, nil)

	for _, email := range []string{"", "no-at-sign", "@nothing.com", "a@b"} {
		_, err := svc.Register(context.Background(), RegisterRequest{
			Name:     "Ash",
			Email:    email,
			Password: "pikachu-thunder",
		})
		if err != ErrInvalidEmail {
			t.Errorf("expected ErrInvalidEmail for %q, got %v", email, err)
		}
	}
}

// ============================================================================
// Login Tests
// ============================================================================

func TestLogin_Success(t *testing.T) {
	t.Parallel()
	hash, err := hashPassword("pikachu-thunder")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	trainerRepo := &mockTrainerRepo{
		getByEmailFunc: func(ctx context.Context, email string) (*model.Trainer, error) {
			return &model.Trainer{
				ID:    "trainer:ash",
				Email: email,
				Hash:  &hash,
				Role:  model.TrainerRoleTrainer,
			}, nil
		},
	}
	svc := newAuthService(t, trainerRepo, nil)

	result, err := svc.Login(context.Background(), LoginRequest{
		Email:    "ash@example.com",
		Password: "pikachu-thunder",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.TokenPair.TokenType != "Bearer" {
		t.Errorf("expected Bearer token type, got %s", result.TokenPair.TokenType)
	}
}

func TestLogin_WrongPassword_Fails(t *testing.T) {
	t.Parallel()
	hash, err := hashPassword("pikachu-thunder")
	if err != nil {
		t.Fatalf("failed to hash password: %v", err)
	}
	trainerRepo := &mockTrainerRepo{
		getByEmailFunc: func(ctx context.Context, email string) (*model.Trainer, error) {
			return &model.Trainer{ID: "trainer:ash", Email: email, Hash: &hash}, nil
		},
	}
	svc := newAuthService(t, trainerRepo, nil)

	_, err = svc.Login(context.Background(), LoginRequest{
		Email:    "ash@example.com",
		Password: "wrong-password",
	})
	if err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLogin_UnknownEmail_Fails(t *testing.T) {
	t.Parallel()
	svc := newAuthService(t, nil, nil)

	_, err := svc.Login(context.Background(), LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever-password",
	})
	if err != ErrInvalidCredentials {
		t.Errorf("expected ErrInvalidCredentials, got %v", err)
	}
}

// ============================================================================
// Token Validation Tests
// ============================================================================

func TestValidateAccessToken_RoundTrip(t *testing.T) {
	t.Parallel()
	trainerRepo := &mockTrainerRepo{
		createFunc: func(ctx context.Context, trainer *model.Trainer) error {
			trainer.ID = "trainer:ash"
			return nil
		},
	}
	svc := newAuthService(t, trainerRepo, nil)

	result, err := svc.Register(context.Background(), RegisterRequest{
		Name:     "Ash",
		Email:    "ash@example.com",
		Password: "pikachu-thunder",
	})
	if err != nil {
		t.Fatalf("registration failed: %v", err)
	}

	claims, err := svc.ValidateAccessToken(result.TokenPair.AccessToken)
	if err != nil {
		t.Fatalf("validation failed: %v", err)
	}
	if claims.TrainerID != "trainer:ash" {
		t.Errorf("expected trainer:ash, got %s", claims.TrainerID)
	}
	if claims.Role != string(model.TrainerRoleTrainer) {
		t.Errorf("expected TRAINER role claim, got %s", claims.Role)
	}
}

// ============================================================================
// Refresh Token Rotation Tests
// ============================================================================

func TestRefreshTokens_RevokedToken_RevokesAllSessions(t *testing.T) {
	t.Parallel()
	revokedAll := false
	tokenRepo := &mockTokenRepo{
		getRefreshTokenByHashFunc: func(ctx context.Context, hash string) (*RefreshToken, error) {
			return &RefreshToken{
				ID:        "refresh_token:1",
				TrainerID: "trainer:ash",
				TokenHash: hash,
				ExpiresAt: time.Now().Add(time.Hour),
				Revoked:   true,
			}, nil
		},
		revokeAllTrainerTokensFunc: func(ctx context.Context, trainerID string) error {
			revokedAll = true
			return nil
		},
	}
	trainerRepo := &mockTrainerRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.Trainer, error) {
			return &model.Trainer{ID: id}, nil
		},
	}
	svc := newAuthService(t, trainerRepo, tokenRepo)

	_, err := svc.RefreshTokens(context.Background(), "reused-token")
	if err != ErrRefreshTokenRevoked {
		t.Errorf("expected ErrRefreshTokenRevoked, got %v", err)
	}
	if !revokedAll {
		t.Error("expected token reuse to revoke all trainer sessions")
	}
}

func TestRefreshTokens_ExpiredToken_Fails(t *testing.T) {
	t.Parallel()
	tokenRepo := &mockTokenRepo{
		getRefreshTokenByHashFunc: func(ctx context.Context, hash string) (*RefreshToken, error) {
			return &RefreshToken{
				ID:        "refresh_token:1",
				TrainerID: "trainer:ash",
				TokenHash: hash,
				ExpiresAt: time.Now().Add(-time.Hour),
			}, nil
		},
	}
	trainerRepo := &mockTrainerRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.Trainer, error) {
			return &model.Trainer{ID: id}, nil
		},
	}
	svc := newAuthService(t, trainerRepo, tokenRepo)

	_, err := svc.RefreshTokens(context.Background(), "old-token")
	if err != ErrRefreshTokenExpired {
		t.Errorf("expected ErrRefreshTokenExpired, got %v", err)
	}
}

func TestRefreshTokens_UnknownToken_Fails(t *testing.T) {
	t.Parallel()
	svc := newAuthService(t, nil, nil)

	_, err := svc.RefreshTokens(context.Background(), "never-issued")
	if err != ErrInvalidRefreshToken {
		t.Errorf("expected ErrInvalidRefreshToken, got %v", err)
	}
}

func TestRefreshTokens_ValidToken_RotatesSingleUse(t *testing.T) {
	t.Parallel()
	revokedHashes := []string{}
	tokenRepo := &mockTokenRepo{
		getRefreshTokenByHashFunc: func(ctx context.Context, hash string) (*RefreshToken, error) {
			return &RefreshToken{
				ID:        "refresh_token:1",
				TrainerID: "trainer:ash",
				TokenHash: hash,
				ExpiresAt: time.Now().Add(time.Hour),
			}, nil
		},
		revokeRefreshTokenFunc: func(ctx context.Context, hash string) error {
			revokedHashes = append(revokedHashes, hash)
			return nil
		},
	}
	trainerRepo := &mockTrainerRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.Trainer, error) {
			return &model.Trainer{ID: id, Email: "ash@example.com", Role: model.TrainerRoleTrainer}, nil
		},
	}
	svc := newAuthService(t, trainerRepo, tokenRepo)

	pair, err := svc.RefreshTokens(context.Background(), "current-token")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(revokedHashes) != 1 {
		t.Errorf("expected old token revoked exactly once, got %d", len(revokedHashes))
	}
	if pair.RefreshToken == "current-token" {
		t.Error("expected a new refresh token to be issued")
	}
}
