package handler

import (
	"errors"

	"github.com/poketrainer/api/internal/model"
	"github.com/poketrainer/api/internal/service"
)

// MapServiceError converts a service error to a ProblemDetails response.
// This centralizes error handling logic for all handlers, ensuring consistent
// HTTP status codes and error messages across the API.
func MapServiceError(err error) *model.ProblemDetails {
	if err == nil {
		return nil
	}

	// ===== Authentication Errors → 401 =====
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		return model.NewUnauthorizedError("invalid email or password")
	case errors.Is(err, service.ErrInvalidRefreshToken),
		errors.Is(err, service.ErrRefreshTokenExpired),
		errors.Is(err, service.ErrRefreshTokenRevoked):
		return model.NewUnauthorizedError("invalid or expired refresh token")

	// ===== Authorization Errors → 403 =====
	case errors.Is(err, service.ErrNotOwner):
		return model.NewForbiddenError("not authorized to act on this resource")
	case errors.Is(err, service.ErrNotItemOwner):
		return model.NewForbiddenError("item belongs to another trainer")

	// ===== Not Found Errors → 404 =====
	case errors.Is(err, service.ErrTrainerNotFound):
		return model.NewNotFoundError("trainer")
	case errors.Is(err, service.ErrPokemonNotFound):
		return model.NewNotFoundError("pokemon")
	case errors.Is(err, service.ErrTeamNotFound):
		return model.NewNotFoundError("team")
	case errors.Is(err, service.ErrBoxNotFound):
		return model.NewNotFoundError("box")
	case errors.Is(err, service.ErrItemNotFound):
		return model.NewNotFoundError("item")

	// ===== Conflict Errors → 409 =====
	case errors.Is(err, service.ErrEmailAlreadyExists):
		return model.NewConflictError("email already registered")

	// Consistency errors: the request names a placement the world
	// disagrees with. Distinct from validation, hence 409.
	case errors.Is(err, service.ErrNotInTeam),
		errors.Is(err, service.ErrRosterMismatch):
		return model.NewConflictError(err.Error())

	// ===== Validation Errors → 422 =====
	case errors.Is(err, service.ErrInvalidEmail),
		errors.Is(err, service.ErrPasswordRequired),
		errors.Is(err, service.ErrPasswordTooShort),
		errors.Is(err, service.ErrPasswordTooLong):
		return model.NewValidationError([]model.FieldError{{Field: "credentials", Message: err.Error()}})

	case errors.Is(err, service.ErrTrainerNameRequired):
		return model.NewValidationError([]model.FieldError{{Field: "name", Message: err.Error()}})
	case errors.Is(err, service.ErrInvalidRole):
		return model.NewValidationError([]model.FieldError{{Field: "role", Message: err.Error()}})

	case errors.Is(err, service.ErrPokemonNameRequired),
		errors.Is(err, service.ErrPokemonTypeRequired),
		errors.Is(err, service.ErrInvalidLevel),
		errors.Is(err, service.ErrInvalidStat):
		return model.NewValidationError([]model.FieldError{{Field: "pokemon", Message: err.Error()}})

	case errors.Is(err, service.ErrNoEvolution),
		errors.Is(err, service.ErrEvolutionLevelNotReached):
		return model.NewValidationError([]model.FieldError{{Field: "evolution", Message: err.Error()}})

	case errors.Is(err, service.ErrTeamNameRequired):
		return model.NewValidationError([]model.FieldError{{Field: "team", Message: err.Error()}})

	case errors.Is(err, service.ErrBoxNameRequired),
		errors.Is(err, service.ErrInvalidDestination):
		return model.NewValidationError([]model.FieldError{{Field: "box", Message: err.Error()}})

	case errors.Is(err, service.ErrItemNameRequired),
		errors.Is(err, service.ErrItemCategoryRequired),
		errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, service.ErrItemOutOfStock),
		errors.Is(err, service.ErrItemTargetMissing):
		return model.NewValidationError([]model.FieldError{{Field: "item", Message: err.Error()}})

	// Capacity → 422 with limit details
	case errors.Is(err, service.ErrTeamFull):
		return model.NewLimitExceededError("pokemon per team", model.TeamCapacity, model.TeamCapacity)

	// ===== Default → 500 =====
	default:
		return model.NewInternalError("")
	}
}

// MapServiceErrorWithContext converts a service error to a ProblemDetails
// response with additional context about the operation that failed.
func MapServiceErrorWithContext(err error, operation string) *model.ProblemDetails {
	pd := MapServiceError(err)
	if pd != nil && pd.Status == 500 {
		pd.Detail = operation + ": an unexpected error occurred"
	}
	return pd
}
