package model

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestProblemDetailsError(t *testing.T) {
	pd := NewNotFoundError("pokemon")
	if pd.Status != http.StatusNotFound {
		t.Errorf("expected status 404, got %d", pd.Status)
	}
	if !strings.Contains(pd.Error(), "pokemon not found") {
		t.Errorf("unexpected error string: %s", pd.Error())
	}
}

func TestLimitExceededError(t *testing.T) {
	pd := NewLimitExceededError("pokémon per team", 6, 6)
	if pd.Status != http.StatusUnprocessableEntity {
		t.Errorf("expected status 422, got %d", pd.Status)
	}
	if pd.Limit == nil || *pd.Limit != 6 {
		t.Errorf("expected limit 6, got %v", pd.Limit)
	}
	if pd.Current == nil || *pd.Current != 6 {
		t.Errorf("expected current 6, got %v", pd.Current)
	}
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	NewForbiddenError("not the owner of this pokémon").WriteJSON(rec)

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected status 403, got %d", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/problem+json" {
		t.Errorf("expected problem+json content type, got %s", ct)
	}

	var body ProblemDetails
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Code != ErrCodeForbidden {
		t.Errorf("expected code %d, got %d", ErrCodeForbidden, body.Code)
	}
}

func TestValidationErrorDetail(t *testing.T) {
	pd := NewValidationError([]FieldError{
		{Field: "placement", Message: "pokémon cannot be in a box and on a team at the same time"},
		{Field: "name", Message: "name is required"},
	})
	if !strings.Contains(pd.Detail, "placement") {
		t.Errorf("expected first field in detail, got %s", pd.Detail)
	}
	if !strings.Contains(pd.Detail, "1 more") {
		t.Errorf("expected error count in detail, got %s", pd.Detail)
	}
}
