// Package service implements the business logic layer for the trainer API.
//
// The service package contains all domain logic, validation rules, and
// orchestration of repository operations. Services are the primary
// abstraction between HTTP handlers and data access.
//
// # Service Pattern
//
// All services follow a consistent pattern:
//
//   - Constructor function (NewXxxService) accepts a config struct with repository dependencies
//   - Methods implement business operations with proper validation
//   - Errors are returned as sentinel errors or wrapped errors for context
//   - Context is passed through for cancellation and request-scoped values
//
// # Repository Interfaces
//
// Services define their own repository interfaces, allowing:
//
//   - Easy mocking for unit tests
//   - Decoupling from specific database implementations
//   - Clear contracts for data access requirements
//
// # Ownership
//
// Operations that act on owned resources (pokémon, teams, boxes, items)
// take the acting trainer's token claims and enforce the ownership gate:
// admins may act on anything, everyone else only on their own resources.
//
// # Example Usage
//
//	service := NewTeamService(TeamServiceConfig{
//	    TeamRepo:    teamRepository,
//	    PokemonRepo: pokemonRepository,
//	    TrainerRepo: trainerRepository,
//	})
//	team, err := service.CreateTeam(ctx, claims, CreateTeamRequest{Name: "Kanto Squad"})
package service
