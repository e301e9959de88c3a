package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/poketrainer/api/internal/database"
	"github.com/poketrainer/api/internal/model"
)

// ListQuery narrows and pages list operations
type ListQuery = model.ListQuery

// PokemonRepository defines the interface for pokémon storage
type PokemonRepository interface {
	Create(ctx context.Context, p *model.Pokemon) error
	GetByID(ctx context.Context, id string) (*model.Pokemon, error)
	List(ctx context.Context, filter model.ListQuery) ([]*model.Pokemon, int, error)
	ListByTrainer(ctx context.Context, trainerID string) ([]*model.Pokemon, error)
	ListByTeam(ctx context.Context, teamID string) ([]*model.Pokemon, error)
	ListByBox(ctx context.Context, boxID string) ([]*model.Pokemon, error)
	CountByTeam(ctx context.Context, teamID string) (int, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) (*model.Pokemon, error)
	AssignToTeam(ctx context.Context, pokemonID, teamID string) (*model.Pokemon, error)
	AssignToBox(ctx context.Context, pokemonID, boxID string) (*model.Pokemon, error)
	ClearTeam(ctx context.Context, pokemonID string) (*model.Pokemon, error)
	ReorderTeam(ctx context.Context, teamID string, orderedIDs []string) error
	Delete(ctx context.Context, id string) (bool, error)
}

// PokemonService handles pokémon business logic
type PokemonService struct {
	pokemonRepo PokemonRepository
	boxRepo     BoxRepository
	trainerRepo TrainerRepository
}

// PokemonServiceConfig holds configuration for the pokémon service
type PokemonServiceConfig struct {
	PokemonRepo PokemonRepository
	BoxRepo     BoxRepository
	TrainerRepo TrainerRepository
}

// NewPokemonService creates a new pokémon service
func NewPokemonService(cfg PokemonServiceConfig) *PokemonService {
	return &PokemonService{
		pokemonRepo: cfg.PokemonRepo,
		boxRepo:     cfg.BoxRepo,
		trainerRepo: cfg.TrainerRepo,
	}
}

// CreatePokemonRequest represents a pokémon creation request
type CreatePokemonRequest struct {
	Name           string  `json:"name"`
	Type           string  `json:"type"`
	Level          int     `json:"level"`
	HP             int     `json:"hp"`
	Attack         int     `json:"attack"`
	Defense        int     `json:"defense"`
	SpAtk          int     `json:"sp_atk"`
	SpDef          int     `json:"sp_def"`
	Speed          int     `json:"speed"`
	TrainerID      string  `json:"trainer_id,omitempty"` // Optional; defaults to the actor. Admin only otherwise.
	BoxID          *string `json:"box_id,omitempty"`
	EvolvesTo      *string `json:"evolves_to,omitempty"`
	EvolutionLevel *int    `json:"evolution_level,omitempty"`
}

// CreatePokemon registers a newly captured pokémon for a trainer
func (s *PokemonService) CreatePokemon(ctx context.Context, actor *model.TokenClaims, req CreatePokemonRequest) (*model.Pokemon, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrPokemonNameRequired
	}
	if strings.TrimSpace(req.Type) == "" {
		return nil, ErrPokemonTypeRequired
	}
	level := req.Level
	if level == 0 {
		// Omitted level; a freshly caught pokémon starts at 1
		level = 1
	}
	if level < 1 {
		return nil, ErrInvalidLevel
	}
	if req.HP < 0 || req.Attack < 0 || req.Defense < 0 || req.SpAtk < 0 || req.SpDef < 0 || req.Speed < 0 {
		return nil, ErrInvalidStat
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

	// A pokémon may be caught straight into a box
	if req.BoxID != nil {
		box, err := s.boxRepo.GetByID(ctx, *req.BoxID)
		if err != nil {
			return nil, err
		}
		if box == nil {
			return nil, ErrBoxNotFound
		}
		if box.TrainerID != trainerID {
			return nil, ErrNotOwner
		}
	}

	pokemon := &model.Pokemon{
		Name:           name,
		Type:           strings.TrimSpace(req.Type),
		Level:          level,
		HP:             req.HP,
		Attack:         req.Attack,
		Defense:        req.Defense,
		SpAtk:          req.SpAtk,
		SpDef:          req.SpDef,
		Speed:          req.Speed,
		TrainerID:      trainerID,
		BoxID:          req.BoxID,
		EvolvesTo:      req.EvolvesTo,
		EvolutionLevel: req.EvolutionLevel,
	}

	if err := s.pokemonRepo.Create(ctx, pokemon); err != nil {
		return nil, err
	}
	return pokemon, nil
}

// GetPokemon retrieves a pokémon by ID
func (s *PokemonService) GetPokemon(ctx context.Context, id string) (*model.Pokemon, error) {
	pokemon, err := s.pokemonRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pokemon == nil {
		return nil, ErrPokemonNotFound
	}
	return pokemon, nil
}

// ListPokemon retrieves pokémon matching the query
func (s *PokemonService) ListPokemon(ctx context.Context, query ListQuery) ([]*model.Pokemon, int, error) {
	return s.pokemonRepo.List(ctx, query)
}

// ListByTrainer retrieves all pokémon owned by a trainer
func (s *PokemonService) ListByTrainer(ctx context.Context, trainerID string) ([]*model.Pokemon, error) {
	return s.pokemonRepo.ListByTrainer(ctx, trainerID)
}

// UpdatePokemonRequest represents a partial pokémon update
type UpdatePokemonRequest struct {
	Name           *string `json:"name,omitempty"`
	Type           *string `json:"type,omitempty"`
	EvolvesTo      *string `json:"evolves_to,omitempty"`
	EvolutionLevel *int    `json:"evolution_level,omitempty"`
}

// UpdatePokemon updates a pokémon's editable attributes. Battle stats and
// level only change through level-up and evolution.
func (s *PokemonService) UpdatePokemon(ctx context.Context, actor *model.TokenClaims, id string, req UpdatePokemonRequest) (*model.Pokemon, error) {
	pokemon, err := s.getOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrPokemonNameRequired
		}
		updates["name"] = name
	}
	if req.Type != nil {
		typ := strings.TrimSpace(*req.Type)
		if typ == "" {
			return nil, ErrPokemonTypeRequired
		}
		updates["type"] = typ
	}
	if req.EvolvesTo != nil {
		updates["evolves_to"] = *req.EvolvesTo
	}
	if req.EvolutionLevel != nil {
		updates["evolution_level"] = *req.EvolutionLevel
	}

	if len(updates) == 0 {
		return pokemon, nil
	}

	updated, err := s.pokemonRepo.Update(ctx, id, updates)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrPokemonNotFound
	}
	return updated, nil
}

// DeletePokemon releases a pokémon back into the wild
func (s *PokemonService) DeletePokemon(ctx context.Context, actor *model.TokenClaims, id string) error {
	if _, err := s.getOwned(ctx, actor, id); err != nil {
		return err
	}

	deleted, err := s.pokemonRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrPokemonNotFound
	}
	return nil
}

// LevelUpResult carries the outcome of a level-up
type LevelUpResult struct {
	Pokemon   *model.Pokemon `json:"pokemon"`
	CanEvolve bool           `json:"can_evolve"`
}

// LevelUp raises a pokémon one level: +2 HP and +1 to every other stat.
// The owning trainer earns experience for the training effort.
func (s *PokemonService) LevelUp(ctx context.Context, actor *model.TokenClaims, id string) (*LevelUpResult, error) {
	pokemon, err := s.getOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	updated, err := s.pokemonRepo.Update(ctx, id, map[string]interface{}{
		"level":   pokemon.Level + 1,
		"hp":      pokemon.HP + 2,
		"attack":  pokemon.Attack + 1,
		"defense": pokemon.Defense + 1,
		"sp_atk":  pokemon.SpAtk + 1,
		"sp_def":  pokemon.SpDef + 1,
		"speed":   pokemon.Speed + 1,
	})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrPokemonNotFound
	}

	// The level-up already persisted; a failed XP award must not undo it
	if _, err := s.trainerRepo.AddExperience(ctx, pokemon.TrainerID, ExperienceLevelUp); err != nil {
		slog.Warn("level-up experience award failed",
			slog.String("trainer_id", pokemon.TrainerID),
			slog.String("error", err.Error()),
		)
	}

	return &LevelUpResult{
		Pokemon:   updated,
		CanEvolve: updated.CanEvolve(),
	}, nil
}

// Evolve transforms a pokémon into its next form: it takes the evolved
// name, gains +20 HP and +15 to every other stat, and loses its evolution
// data. Requires registered evolution data and the required level.
func (s *PokemonService) Evolve(ctx context.Context, actor *model.TokenClaims, id string) (*model.Pokemon, error) {
	pokemon, err := s.getOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	if pokemon.EvolvesTo == nil || pokemon.EvolutionLevel == nil {
		return nil, ErrNoEvolution
	}
	if pokemon.Level < *pokemon.EvolutionLevel {
		return nil, fmt.Errorf("%w: requires level %d", ErrEvolutionLevelNotReached, *pokemon.EvolutionLevel)
	}

	updated, err := s.pokemonRepo.Update(ctx, id, map[string]interface{}{
		"name":            *pokemon.EvolvesTo,
		"hp":              pokemon.HP + 20,
		"attack":          pokemon.Attack + 15,
		"defense":         pokemon.Defense + 15,
		"sp_atk":          pokemon.SpAtk + 15,
		"sp_def":          pokemon.SpDef + 15,
		"speed":           pokemon.Speed + 15,
		"evolves_to":      nil,
		"evolution_level": nil,
	})
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrPokemonNotFound
	}

	if _, err := s.trainerRepo.AddExperience(ctx, pokemon.TrainerID, ExperienceEvolution); err != nil {
		return nil, err
	}

	return updated, nil
}

// getOwned fetches a pokémon and enforces the ownership gate
func (s *PokemonService) getOwned(ctx context.Context, actor *model.TokenClaims, id string) (*model.Pokemon, error) {
	pokemon, err := s.pokemonRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if pokemon == nil {
		return nil, ErrPokemonNotFound
	}
	if !actorCanAccess(actor, pokemon.TrainerID) {
		return nil, ErrNotOwner
	}
	return pokemon, nil
}

// mapCapacityError translates data-layer capacity guards into the team
// capacity error.
func mapCapacityError(err error) error {
	if errors.Is(err, database.ErrLimitExceeded) {
		return ErrTeamFull
	}
	return err
}
