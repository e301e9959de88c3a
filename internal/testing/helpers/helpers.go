// Package helpers carries the shared test toolkit: token minting,
// request building, response and database assertions.
package helpers

import (
	"bytes"
	"context"
	"crypto/rand"
	"crypto/rsa"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/poketrainer/api/internal/database"
	"github.com/poketrainer/api/internal/model"
	"github.com/poketrainer/api/pkg/jwt"
)

const testIssuer = "poketrainer-test"

// ============================================================================
// JWT Helpers
// ============================================================================

// JWTHelper mints tokens for arbitrary trainers without touching the
// auth service, so handler and middleware tests can impersonate anyone.
type JWTHelper struct {
	svc *jwt.Service
}

// NewJWTHelper generates a throwaway RSA key for the test.
func NewJWTHelper(t *testing.T) *JWTHelper {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("helpers: failed to generate RSA key: %v", err)
	}
	return &JWTHelper{svc: jwt.NewTestService(key, testIssuer, time.Hour)}
}

// Service returns the jwt.Service that validates this helper's tokens.
func (h *JWTHelper) Service() *jwt.Service {
	return h.svc
}

// GenerateToken signs a valid token for the trainer.
func (h *JWTHelper) GenerateToken(trainer *model.Trainer) string {
	token, err := h.svc.Sign(jwt.Claims{
		Subject:   trainer.ID,
		TrainerID: trainer.ID,
		Email:     trainer.Email,
		Role:      string(trainer.Role),
	})
	if err != nil {
		panic("helpers: sign failed: " + err.Error())
	}
	return token
}

// GenerateExpiredToken signs a token that expired an hour ago.
func (h *JWTHelper) GenerateExpiredToken(trainer *model.Trainer) string {
	token, err := h.svc.Sign(jwt.Claims{
		Subject:   trainer.ID,
		TrainerID: trainer.ID,
		Email:     trainer.Email,
		Role:      string(trainer.Role),
		ExpiresAt: time.Now().Add(-time.Hour).Unix(),
	})
	if err != nil {
		panic("helpers: sign failed: " + err.Error())
	}
	return token
}

// NewTestJWTService returns a jwt.Service over a fresh in-memory key,
// for wiring services that need one but whose tests never mint tokens
// by hand.
func NewTestJWTService(t *testing.T) *jwt.Service {
	t.Helper()

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("helpers: failed to generate RSA key: %v", err)
	}
	return jwt.NewTestService(key, testIssuer, 15*time.Minute)
}

// ============================================================================
// HTTP Request Helpers
// ============================================================================

// RequestBuilder assembles httptest requests fluently.
type RequestBuilder struct {
	t       *testing.T
	method  string
	path    string
	body    interface{}
	headers map[string]string
	jwt     *JWTHelper
	trainer *model.Trainer
}

// NewRequest starts a builder for method and path.
func NewRequest(t *testing.T, method, path string) *RequestBuilder {
	t.Helper()
	return &RequestBuilder{
		t:       t,
		method:  method,
		path:    path,
		headers: make(map[string]string),
	}
}

// WithBody attaches a JSON-encoded body.
func (rb *RequestBuilder) WithBody(body interface{}) *RequestBuilder {
	rb.body = body
	return rb
}

// WithHeader sets a header.
func (rb *RequestBuilder) WithHeader(key, value string) *RequestBuilder {
	rb.headers[key] = value
	return rb
}

// WithAuth attaches a Bearer token for the trainer, signed by helper.
func (rb *RequestBuilder) WithAuth(helper *JWTHelper, trainer *model.Trainer) *RequestBuilder {
	rb.jwt = helper
	rb.trainer = trainer
	return rb
}

// Build produces the request.
func (rb *RequestBuilder) Build() *http.Request {
	rb.t.Helper()

	var bodyReader io.Reader
	if rb.body != nil {
		raw, err := json.Marshal(rb.body)
		if err != nil {
			rb.t.Fatalf("helpers: failed to marshal body: %v", err)
		}
		bodyReader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(rb.method, rb.path, bodyReader)
	if rb.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range rb.headers {
		req.Header.Set(k, v)
	}
	if rb.jwt != nil && rb.trainer != nil {
		req.Header.Set("Authorization", "Bearer "+rb.jwt.GenerateToken(rb.trainer))
	}
	return req
}

// ============================================================================
// Response Assertion Helpers
// ============================================================================

// AssertStatus fails unless the recorded status matches.
func AssertStatus(t *testing.T, resp *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if resp.Code != expected {
		t.Errorf("expected status %d, got %d. Body: %s", expected, resp.Code, resp.Body.String())
	}
}

// AssertProblemDetails checks the status and machine code of an RFC 9457
// problem response. Pass expectedCode 0 to skip the code check.
func AssertProblemDetails(t *testing.T, resp *httptest.ResponseRecorder, expectedStatus int, expectedCode model.ErrorCode) {
	t.Helper()

	AssertStatus(t, resp, expectedStatus)

	var problem model.ProblemDetails
	if err := json.Unmarshal(resp.Body.Bytes(), &problem); err != nil {
		t.Fatalf("failed to decode problem details: %v. Body: %s", err, resp.Body.String())
	}
	if problem.Status != expectedStatus {
		t.Errorf("expected problem.status %d, got %d", expectedStatus, problem.Status)
	}
	if expectedCode != 0 && problem.Code != expectedCode {
		t.Errorf("expected problem.code %d, got %d", expectedCode, problem.Code)
	}
}

// AssertValidationError expects a 422 whose field errors mention field.
func AssertValidationError(t *testing.T, resp *httptest.ResponseRecorder, field string) {
	t.Helper()

	AssertStatus(t, resp, http.StatusUnprocessableEntity)

	var problem model.ProblemDetails
	if err := json.Unmarshal(resp.Body.Bytes(), &problem); err != nil {
		t.Fatalf("failed to decode problem details: %v", err)
	}
	for _, fe := range problem.Errors {
		if fe.Field == field {
			return
		}
	}
	t.Errorf("expected validation error on field %q, but not found. Errors: %+v", field, problem.Errors)
}

// AssertJSONContains checks the body object for the given key/value
// pairs; values compare by their JSON encoding.
func AssertJSONContains(t *testing.T, resp *httptest.ResponseRecorder, expected map[string]interface{}) {
	t.Helper()

	var actual map[string]interface{}
	if err := json.Unmarshal(resp.Body.Bytes(), &actual); err != nil {
		t.Fatalf("failed to decode response: %v. Body: %s", err, resp.Body.String())
	}
	for key, want := range expected {
		got, ok := actual[key]
		if !ok {
			t.Errorf("expected key %q not found in response", key)
			continue
		}
		wantJSON, _ := json.Marshal(want)
		gotJSON, _ := json.Marshal(got)
		if !bytes.Equal(wantJSON, gotJSON) {
			t.Errorf("for key %q: expected %v, got %v", key, want, got)
		}
	}
}

// DecodeResponse unmarshals the body into v.
func DecodeResponse(t *testing.T, resp *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(resp.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to decode response: %v. Body: %s", err, resp.Body.String())
	}
}

// GetDataFromResponse returns the "data" envelope of a success response.
func GetDataFromResponse(t *testing.T, resp *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()

	var envelope struct {
		Data map[string]interface{} `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("failed to decode response: %v. Body: %s", err, resp.Body.String())
	}
	return envelope.Data
}

// ============================================================================
// Database Assertion Helpers
// ============================================================================

// recordExists looks a record up by table and id. The id may be a bare
// id or a full "table:id" reference.
func recordExists(t *testing.T, db database.Database, table, id string) bool {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, after, found := strings.Cut(id, ":"); found {
		id = after
	}

	results, err := db.Query(ctx, "SELECT * FROM type::record($table, $id)", map[string]interface{}{
		"table": table,
		"id":    id,
	})
	if err != nil {
		return false
	}
	if len(results) == 0 {
		return false
	}
	resp, ok := results[0].(map[string]interface{})
	if !ok {
		return false
	}
	switch v := resp["result"].(type) {
	case []interface{}:
		return len(v) > 0
	case nil:
		return false
	default:
		return true
	}
}

// AssertRecordExists fails unless table:id is in the database.
func AssertRecordExists(t *testing.T, db database.Database, table, id string) {
	t.Helper()
	if !recordExists(t, db, table, id) {
		t.Errorf("expected record %s:%s to exist, but it doesn't", table, id)
	}
}

// AssertRecordNotExists fails if table:id is still in the database.
func AssertRecordNotExists(t *testing.T, db database.Database, table, id string) {
	t.Helper()
	if recordExists(t, db, table, id) {
		t.Errorf("expected record %s:%s to not exist, but it does", table, id)
	}
}

// ============================================================================
// Pointer Helpers
// ============================================================================

func StringPtr(s string) *string    { return &s }
func IntPtr(i int) *int             { return &i }
func BoolPtr(b bool) *bool          { return &b }
func TimePtr(t time.Time) *time.Time { return &t }
