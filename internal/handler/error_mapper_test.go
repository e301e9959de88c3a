package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/poketrainer/api/internal/service"
)

func TestMapServiceError_NilError_ReturnsNil(t *testing.T) {
	t.Parallel()
	if pd := MapServiceError(nil); pd != nil {
		t.Errorf("expected nil for nil error, got %+v", pd)
	}
}

func TestMapServiceError_StatusCodes(t *testing.T) {
	t.Parallel()
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"invalid credentials", service.ErrInvalidCredentials, http.StatusUnauthorized},
		{"revoked refresh token", service.ErrRefreshTokenRevoked, http.StatusUnauthorized},
		{"not owner", service.ErrNotOwner, http.StatusForbidden},
		{"not item owner", service.ErrNotItemOwner, http.StatusForbidden},
		{"trainer not found", service.ErrTrainerNotFound, http.StatusNotFound},
		{"pokemon not found", service.ErrPokemonNotFound, http.StatusNotFound},
		{"team not found", service.ErrTeamNotFound, http.StatusNotFound},
		{"box not found", service.ErrBoxNotFound, http.StatusNotFound},
		{"item not found", service.ErrItemNotFound, http.StatusNotFound},
		{"duplicate email", service.ErrEmailAlreadyExists, http.StatusConflict},
		{"not in team", service.ErrNotInTeam, http.StatusConflict},
		{"roster mismatch", service.ErrRosterMismatch, http.StatusConflict},
		{"short password", service.ErrPasswordTooShort, http.StatusUnprocessableEntity},
		{"missing pokemon name", service.ErrPokemonNameRequired, http.StatusUnprocessableEntity},
		{"missing item category", service.ErrItemCategoryRequired, http.StatusUnprocessableEntity},
		{"no evolution", service.ErrNoEvolution, http.StatusUnprocessableEntity},
		{"team full", service.ErrTeamFull, http.StatusUnprocessableEntity},
		{"item out of stock", service.ErrItemOutOfStock, http.StatusUnprocessableEntity},
		{"invalid destination", service.ErrInvalidDestination, http.StatusUnprocessableEntity},
		{"unknown error", errors.New("surprise"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			pd := MapServiceError(tc.err)
			if pd.Status != tc.want {
				t.Errorf("expected status %d, got %d", tc.want, pd.Status)
			}
		})
	}
}

func TestMapServiceError_TeamFull_IncludesLimit(t *testing.T) {
	t.Parallel()
	pd := MapServiceError(service.ErrTeamFull)
	if pd.Limit == nil || *pd.Limit != 6 {
		t.Errorf("expected team capacity limit 6 in problem details, got %+v", pd.Limit)
	}
}

func TestMapServiceError_RosterMismatch_KeepsOffenderInDetail(t *testing.T) {
	t.Parallel()
	wrapped := fmt.Errorf("%w: pokemon:intruder is not on this team", service.ErrRosterMismatch)
	pd := MapServiceError(wrapped)
	if pd.Status != http.StatusConflict {
		t.Fatalf("expected 409, got %d", pd.Status)
	}
	if !strings.Contains(pd.Detail, "pokemon:intruder") {
		t.Errorf("expected offending id in detail, got %q", pd.Detail)
	}
}

func TestMapServiceError_WrappedError_StillMatches(t *testing.T) {
	t.Parallel()
	wrapped := errors.Join(errors.New("context"), service.ErrPokemonNotFound)
	pd := MapServiceError(wrapped)
	if pd.Status != http.StatusNotFound {
		t.Errorf("expected wrapped sentinel to map to 404, got %d", pd.Status)
	}
}

func TestMapServiceErrorWithContext_AnnotatesInternal(t *testing.T) {
	t.Parallel()
	pd := MapServiceErrorWithContext(errors.New("boom"), "list trainers")
	if pd.Status != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", pd.Status)
	}
	if pd.Detail != "list trainers: an unexpected error occurred" {
		t.Errorf("expected operation context in detail, got %q", pd.Detail)
	}
}
