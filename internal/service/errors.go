package service

import "errors"

// Centralized service layer errors.
// All errors returned by service methods are defined here for consistency
// and to make error handling in handlers predictable.

// ===== Authentication Errors =====
var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailAlreadyExists = errors.New("email already registered")
	ErrPasswordRequired   = errors.New("password is required")
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters")
	ErrPasswordTooLong    = errors.New("password must be at most 128 characters")
	ErrInvalidEmail       = errors.New("invalid email format")
)

// ===== Token Errors =====
var (
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	ErrRefreshTokenExpired = errors.New("refresh token expired")
	ErrRefreshTokenRevoked = errors.New("refresh token revoked")
)

// ===== Ownership Errors =====
var (
	ErrNotOwner     = errors.New("not the owner of this resource")
	ErrNotItemOwner = errors.New("not the owner of this item")
)

// ===== Trainer Errors =====
var (
	ErrTrainerNotFound     = errors.New("trainer not found")
	ErrTrainerNameRequired = errors.New("trainer name is required")
	ErrInvalidRole         = errors.New("invalid trainer role")
)

// ===== Pokemon Errors =====
var (
	ErrPokemonNotFound          = errors.New("pokemon not found")
	ErrPokemonNameRequired      = errors.New("pokemon name is required")
	ErrPokemonTypeRequired      = errors.New("pokemon type is required")
	ErrInvalidLevel             = errors.New("level must be at least 1")
	ErrInvalidStat              = errors.New("stats must not be negative")
	ErrNoEvolution              = errors.New("pokemon has no evolution")
	ErrEvolutionLevelNotReached = errors.New("evolution level not reached")
)

// ===== Team Errors =====
var (
	ErrTeamNotFound     = errors.New("team not found")
	ErrTeamNameRequired = errors.New("team name is required")
	ErrTeamFull         = errors.New("team is full")
	ErrNotInTeam        = errors.New("pokemon is not in this team")
	ErrRosterMismatch   = errors.New("reorder must list every team member exactly once")
)

// ===== Box Errors =====
var (
	ErrBoxNotFound        = errors.New("box not found")
	ErrBoxNameRequired    = errors.New("box name is required")
	ErrInvalidDestination = errors.New("invalid transfer destination")
)

// ===== Item Errors =====
var (
	ErrItemNotFound         = errors.New("item not found")
	ErrItemNameRequired     = errors.New("item name is required")
	ErrItemCategoryRequired = errors.New("item category is required")
	ErrInvalidQuantity      = errors.New("quantity must be at least 1")
	ErrItemOutOfStock       = errors.New("item has no remaining uses")
	ErrItemTargetMissing    = errors.New("a target pokemon is required to use this item")
)
