package handler

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/poketrainer/api/internal/middleware"
	"github.com/poketrainer/api/internal/model"
	"github.com/poketrainer/api/internal/service"
	"github.com/poketrainer/api/pkg/jwt"
)

// ============================================================================
// Mock Repositories
// ============================================================================

type mockTrainerRepo struct {
	createFunc     func(ctx context.Context, trainer *model.Trainer) error
	getByIDFunc    func(ctx context.Context, id string) (*model.Trainer, error)
	getByEmailFunc func(ctx context.Context, email string) (*model.Trainer, error)
}

func (m *mockTrainerRepo) Create(ctx context.Context, trainer *model.Trainer) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, trainer)
	}
	trainer.ID = "trainer:test"
	return nil
}

func (m *mockTrainerRepo) GetByID(ctx context.Context, id string) (*model.Trainer, error) {
	if m.getByIDFunc != nil {
		return m.getByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *mockTrainerRepo) GetByEmail(ctx context.Context, email string) (*model.Trainer, error) {
	if m.getByEmailFunc != nil {
		return m.getByEmailFunc(ctx, email)
	}
	return nil, nil
}

func (m *mockTrainerRepo) List(ctx context.Context, filter service.ListQuery) ([]*model.Trainer, int, error) {
	return nil, 0, nil
}

func (m *mockTrainerRepo) Update(ctx context.Context, id string, updates map[string]interface{}) (*model.Trainer, error) {
	return &model.Trainer{ID: id}, nil
}

func (m *mockTrainerRepo) AddExperience(ctx context.Context, id string, points int) (*model.Trainer, error) {
	return &model.Trainer{ID: id}, nil
}

func (m *mockTrainerRepo) Delete(ctx context.Context, id string) (bool, error) {
	return true, nil
}

type mockTokenRepo struct {
	getByHashFunc func(ctx context.Context, hash string) (*service.RefreshToken, error)
}

func (m *mockTokenRepo) CreateRefreshToken(ctx context.Context, token *service.RefreshToken) error {
	return nil
}

func (m *mockTokenRepo) GetRefreshTokenByHash(ctx context.Context, hash string) (*service.RefreshToken, error) {
	if m.getByHashFunc != nil {
		return m.getByHashFunc(ctx, hash)
	}
	return nil, nil
}

func (m *mockTokenRepo) RevokeRefreshToken(ctx context.Context, hash string) error { return nil }

func (m *mockTokenRepo) RevokeAllTrainerTokens(ctx context.Context, trainerID string) error {
	return nil
}

func (m *mockTokenRepo) DeleteExpiredTokens(ctx context.Context) error { return nil }

// ============================================================================
// Test Helpers
// ============================================================================

func newTestAuthHandler(t *testing.T, trainerRepo *mockTrainerRepo, tokenRepo *mockTokenRepo) *AuthHandler {
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

	tokenService := service.NewTokenService(service.TokenServiceConfig{
		JWTService: jwt.NewTestService(privateKey, "test-issuer", 15*time.Minute),
		TokenRepo:  tokenRepo,
	})
	authService := service.NewAuthService(service.AuthServiceConfig{
		TrainerRepo:  trainerRepo,
		TokenService: tokenService,
	})
	return NewAuthHandler(authService)
}

func makeJSONRequest(method, path string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

func withTrainerContext(req *http.Request, trainerID string) *http.Request {
	ctx := context.WithValue(req.Context(), middleware.TrainerIDKey, trainerID)
	return req.WithContext(ctx)
}

func parseErrorResponse(t *testing.T, body []byte) *model.ProblemDetails {
	t.Helper()
	var problem model.ProblemDetails
	if err := json.Unmarshal(body, &problem); err != nil {
		t.Fatalf("failed to parse error response: %v", err)
	}
	return &problem
}

// ============================================================================
// Register Tests
// ============================================================================

func TestRegisterHandler_Success(t *testing.T) {
	t.Parallel()
	h := newTestAuthHandler(t, nil, nil)

	req := makeJSONRequest(http.MethodPost, "/v1/auth/register", map[string]string{
		"name":     "Ash",
		"email":    "ash@example.com",
		"password": "pikachu-thunder",
	})
	rr := httptest.NewRecorder()

	h.Register(rr, req)

	if rr.Code != http.StatusCreated {
		t.Fatalf("expected status %d, got %d: %s", http.StatusCreated, rr.Code, rr.Body.String())
	}

	var resp struct {
		Data struct {
			Trainer model.Trainer     `json:"trainer"`
			Token   service.TokenPair `json:"token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Data.Trainer.Email != "ash@example.com" {
		t.Errorf("expected registered email, got %s", resp.Data.Trainer.Email)
	}
	if resp.Data.Token.AccessToken == "" {
		t.Error("expected an access token in the response")
	}
}

func TestRegisterHandler_InvalidBody_ReturnsBadRequest(t *testing.T) {
	t.Parallel()
	h := newTestAuthHandler(t, nil, nil)

	req := httptest.NewRequest(http.MethodPost, "/v1/auth/register", bytes.NewBufferString("{not json"))
	rr := httptest.NewRecorder()

	h.Register(rr, req)

	if rr.Code != http.StatusBadRequest {
		t.Errorf("expected status %d, got %d", http.StatusBadRequest, rr.Code)
	}
}

func TestRegisterHandler_DuplicateEmail_ReturnsConflict(t *testing.T) {
	t.Parallel()
	trainerRepo := &mockTrainerRepo{
		getByEmailFunc: func(ctx context.Context, email string) (*model.Trainer, error) {
			return &model.Trainer{ID: "trainer:existing", Email: email}, nil
		},
	}
	h := newTestAuthHandler(t, trainerRepo, nil)

	req := makeJSONRequest(http.MethodPost, "/v1/auth/register", map[string]string{
		"name":     "Ash",
		"email":    "ash@example.com",
		"password": "pikachu-thunder",
	})
	rr := httptest.NewRecorder()

	h.Register(rr, req)

	if rr.Code != http.StatusConflict {
		t.Errorf("expected status %d, got %d", http.StatusConflict, rr.Code)
	}
	problem := parseErrorResponse(t, rr.Body.Bytes())
	if problem.Title != "Conflict" {
		t.Errorf("expected Conflict problem, got %s", problem.Title)
	}
}

func TestRegisterHandler_ShortPassword_ReturnsValidationError(t *testing.T) {
	t.Parallel()
	h := newTestAuthHandler(t, nil, nil)

	req := makeJSONRequest(http.MethodPost, "/v1/auth/register", map[string]string{
		"name":     "Ash",
		"email":    "ash@example.com",
		"password": "short",
	})
	rr := httptest.NewRecorder()

	h.Register(rr, req)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected status %d, got %d", http.StatusUnprocessableEntity, rr.Code)
	}
}

// ============================================================================
// Login Tests
// ============================================================================

func TestLoginHandler_UnknownEmail_ReturnsUnauthorized(t *testing.T) {
	t.Parallel()
	h := newTestAuthHandler(t, nil, nil)

	req := makeJSONRequest(http.MethodPost, "/v1/auth/login", map[string]string{
		"email":    "nobody@example.com",
		"password": "whatever-password",
	})
	rr := httptest.NewRecorder()

	h.Login(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rr.Code)
	}
}

// ============================================================================
// Refresh Tests
// ============================================================================

func TestRefreshHandler_MissingToken_ReturnsValidationError(t *testing.T) {
	t.Parallel()
	h := newTestAuthHandler(t, nil, nil)

	req := makeJSONRequest(http.MethodPost, "/v1/auth/refresh", map[string]string{})
	rr := httptest.NewRecorder()

	h.Refresh(rr, req)

	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("expected status %d, got %d", http.StatusUnprocessableEntity, rr.Code)
	}
}

func TestRefreshHandler_UnknownToken_ReturnsUnauthorized(t *testing.T) {
	t.Parallel()
	h := newTestAuthHandler(t, nil, nil)

	req := makeJSONRequest(http.MethodPost, "/v1/auth/refresh", map[string]string{
		"refresh_token": "never-issued",
	})
	rr := httptest.NewRecorder()

	h.Refresh(rr, req)

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rr.Code)
	}
}

// ============================================================================
// Me / Logout Tests
// ============================================================================

func TestMeHandler_NoAuthContext_ReturnsUnauthorized(t *testing.T) {
	t.Parallel()
	h := newTestAuthHandler(t, nil, nil)

	rr := httptest.NewRecorder()
	h.Me(rr, httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil))

	if rr.Code != http.StatusUnauthorized {
		t.Errorf("expected status %d, got %d", http.StatusUnauthorized, rr.Code)
	}
}

func TestMeHandler_ReturnsTrainer(t *testing.T) {
	t.Parallel()
	trainerRepo := &mockTrainerRepo{
		getByIDFunc: func(ctx context.Context, id string) (*model.Trainer, error) {
			return &model.Trainer{ID: id, Name: "Ash", Email: "ash@example.com"}, nil
		},
	}
	h := newTestAuthHandler(t, trainerRepo, nil)

	req := withTrainerContext(httptest.NewRequest(http.MethodGet, "/v1/auth/me", nil), "trainer:ash")
	rr := httptest.NewRecorder()

	h.Me(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rr.Code)
	}
	var resp struct {
		Data model.Trainer `json:"data"`
	}
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("failed to parse response: %v", err)
	}
	if resp.Data.ID != "trainer:ash" {
		t.Errorf("expected trainer:ash, got %s", resp.Data.ID)
	}
}

func TestLogoutHandler_RevokesAndReturnsNoContent(t *testing.T) {
	t.Parallel()
	h := newTestAuthHandler(t, nil, nil)

	req := withTrainerContext(makeJSONRequest(http.MethodPost, "/v1/auth/logout", nil), "trainer:ash")
	rr := httptest.NewRecorder()

	h.Logout(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Errorf("expected status %d, got %d", http.StatusNoContent, rr.Code)
	}
}
