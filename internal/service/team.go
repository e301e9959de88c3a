package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/poketrainer/api/internal/model"
)

// TeamRepository defines the interface for team storage
type TeamRepository interface {
	Create(ctx context.Context, team *model.Team) error
	GetByID(ctx context.Context, id string) (*model.Team, error)
	List(ctx context.Context, filter model.ListQuery) ([]*model.Team, int, error)
	ListByTrainer(ctx context.Context, trainerID string) ([]*model.Team, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) (*model.Team, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// TeamService handles team business logic
type TeamService struct {
	teamRepo    TeamRepository
	pokemonRepo PokemonRepository
	trainerRepo TrainerRepository
}

// TeamServiceConfig holds configuration for the team service
type TeamServiceConfig struct {
	TeamRepo    TeamRepository
	PokemonRepo PokemonRepository
	TrainerRepo TrainerRepository
}

// NewTeamService creates a new team service
func NewTeamService(cfg TeamServiceConfig) *TeamService {
	return &TeamService{
		teamRepo:    cfg.TeamRepo,
		pokemonRepo: cfg.PokemonRepo,
		trainerRepo: cfg.TrainerRepo,
	}
}

// CreateTeamRequest represents a team creation request
type CreateTeamRequest struct {
	Name      string `json:"name"`
	TrainerID string `json:"trainer_id,omitempty"` // Optional; defaults to the actor. Admin only otherwise.
}

// CreateTeam assembles a new empty team and rewards the trainer for it
func (s *TeamService) CreateTeam(ctx context.Context, actor *model.TokenClaims, req CreateTeamRequest) (*model.Team, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrTeamNameRequired
	}

	trainerID := req.TrainerID
	if trainerID == "" {
		trainerID = actor.TrainerID
	}
	if !actorCanAccess(actor, trainerID) {
		return nil, ErrNotOwner
	}

	trainer, err := s.trainerRepo.GetByID(ctx, trainerID)
	if err != nil {
		return nil, err
	}
	if trainer == nil {
		return nil, ErrTrainerNotFound
	}

	team := &model.Team{
		Name:      name,
		TrainerID: trainerID,
	}
	if err := s.teamRepo.Create(ctx, team); err != nil {
		return nil, err
	}

	if _, err := s.trainerRepo.AddExperience(ctx, trainerID, ExperienceTeamCreated); err != nil {
		return nil, err
	}

	return team, nil
}

// GetTeam retrieves a team by ID
func (s *TeamService) GetTeam(ctx context.Context, id string) (*model.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, ErrTeamNotFound
	}
	return team, nil
}

// GetTeamWithRoster retrieves a team together with its pokémon in
// position order
func (s *TeamService) GetTeamWithRoster(ctx context.Context, id string) (*model.TeamWithRoster, error) {
	team, err := s.GetTeam(ctx, id)
	if err != nil {
		return nil, err
	}

	roster, err := s.pokemonRepo.ListByTeam(ctx, id)
	if err != nil {
		return nil, err
	}

	return &model.TeamWithRoster{
		Team:   team,
		Roster: roster,
	}, nil
}

// ListTeams retrieves teams matching the query
func (s *TeamService) ListTeams(ctx context.Context, query ListQuery) ([]*model.Team, int, error) {
	return s.teamRepo.List(ctx, query)
}

// ListByTrainer retrieves all teams owned by a trainer
func (s *TeamService) ListByTrainer(ctx context.Context, trainerID string) ([]*model.Team, error) {
	return s.teamRepo.ListByTrainer(ctx, trainerID)
}

// UpdateTeamRequest represents a partial team update
type UpdateTeamRequest struct {
	Name *string `json:"name,omitempty"`
}

// UpdateTeam renames a team
func (s *TeamService) UpdateTeam(ctx context.Context, actor *model.TokenClaims, id string, req UpdateTeamRequest) (*model.Team, error) {
	team, err := s.getOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrTeamNameRequired
		}
		updates["name"] = name
	}

	if len(updates) == 0 {
		return team, nil
	}

	updated, err := s.teamRepo.Update(ctx, id, updates)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrTeamNotFound
	}
	return updated, nil
}

// DeleteTeam disbands a team. Its members return to being unplaced.
func (s *TeamService) DeleteTeam(ctx context.Context, actor *model.TokenClaims, id string) error {
	if _, err := s.getOwned(ctx, actor, id); err != nil {
		return err
	}

	deleted, err := s.teamRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrTeamNotFound
	}
	return nil
}

// AddPokemon places a pokémon on a team at the next free position. Moving
// a pokémon out of a box happens in the same step. The trainer earns
// experience for growing the roster.
func (s *TeamService) AddPokemon(ctx context.Context, actor *model.TokenClaims, teamID, pokemonID string) (*model.Pokemon, error) {
	team, err := s.getOwned(ctx, actor, teamID)
	if err != nil {
		return nil, err
	}

	pokemon, err := s.pokemonRepo.GetByID(ctx, pokemonID)
	if err != nil {
		return nil, err
	}
	if pokemon == nil {
		return nil, ErrPokemonNotFound
	}
	// Teams hold only the owner's pokémon
	if pokemon.TrainerID != team.TrainerID {
		return nil, ErrNotOwner
	}
	if pokemon.TeamID != nil && *pokemon.TeamID == teamID {
		return pokemon, nil
	}

	// The capacity check runs inside the assignment transaction
	assigned, err := s.pokemonRepo.AssignToTeam(ctx, pokemonID, teamID)
	if err != nil {
		return nil, mapCapacityError(err)
	}
	if assigned == nil {
		return nil, ErrPokemonNotFound
	}

	if _, err := s.trainerRepo.AddExperience(ctx, team.TrainerID, ExperienceTeamAddition); err != nil {
		return nil, err
	}

	return assigned, nil
}

// RemovePokemon takes a pokémon off a team and compacts the remaining
// positions so they stay contiguous.
func (s *TeamService) RemovePokemon(ctx context.Context, actor *model.TokenClaims, teamID, pokemonID string) error {
	if _, err := s.getOwned(ctx, actor, teamID); err != nil {
		return err
	}

	pokemon, err := s.pokemonRepo.GetByID(ctx, pokemonID)
	if err != nil {
		return err
	}
	if pokemon == nil {
		return ErrPokemonNotFound
	}
	if pokemon.TeamID == nil || *pokemon.TeamID != teamID {
		return ErrNotInTeam
	}

	if _, err := s.pokemonRepo.ClearTeam(ctx, pokemonID); err != nil {
		return err
	}

	// Close the gap left by the departure
	remaining, err := s.pokemonRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return err
	}
	if len(remaining) == 0 {
		return nil
	}
	ids := make([]string, 0, len(remaining))
	for _, p := range remaining {
		ids = append(ids, p.ID)
	}
	return s.pokemonRepo.ReorderTeam(ctx, teamID, ids)
}

// Reorder renumbers a team's positions to match the given order. The list
// must contain every member of the team exactly once; otherwise nothing
// changes.
func (s *TeamService) Reorder(ctx context.Context, actor *model.TokenClaims, teamID string, orderedIDs []string) ([]*model.Pokemon, error) {
	if _, err := s.getOwned(ctx, actor, teamID); err != nil {
		return nil, err
	}

	roster, err := s.pokemonRepo.ListByTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}

	if len(orderedIDs) != len(roster) {
		return nil, fmt.Errorf("%w: expected %d ids, got %d", ErrRosterMismatch, len(roster), len(orderedIDs))
	}
	members := make(map[string]bool, len(roster))
	for _, p := range roster {
		members[p.ID] = true
	}
	seen := make(map[string]bool, len(orderedIDs))
	for _, id := range orderedIDs {
		switch {
		case !members[id]:
			return nil, fmt.Errorf("%w: %s is not on this team", ErrRosterMismatch, id)
		case seen[id]:
			return nil, fmt.Errorf("%w: %s listed more than once", ErrRosterMismatch, id)
		}
		seen[id] = true
	}

	if err := s.pokemonRepo.ReorderTeam(ctx, teamID, orderedIDs); err != nil {
		return nil, err
	}

	return s.pokemonRepo.ListByTeam(ctx, teamID)
}

// getOwned fetches a team and enforces the ownership gate
func (s *TeamService) getOwned(ctx context.Context, actor *model.TokenClaims, id string) (*model.Team, error) {
	team, err := s.teamRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if team == nil {
		return nil, ErrTeamNotFound
	}
	if !actorCanAccess(actor, team.TrainerID) {
		return nil, ErrNotOwner
	}
	return team, nil
}
