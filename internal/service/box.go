package service

import (
	"context"
	"strings"

	"github.com/poketrainer/api/internal/model"
)

// BoxRepository defines the interface for box storage
type BoxRepository interface {
	Create(ctx context.Context, box *model.Box) error
	GetByID(ctx context.Context, id string) (*model.Box, error)
	List(ctx context.Context, filter model.ListQuery) ([]*model.Box, int, error)
	ListByTrainer(ctx context.Context, trainerID string) ([]*model.Box, error)
	Update(ctx context.Context, id string, updates map[string]interface{}) (*model.Box, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// BoxService handles storage box business logic
type BoxService struct {
	boxRepo     BoxRepository
	teamRepo    TeamRepository
	pokemonRepo PokemonRepository
}

// BoxServiceConfig holds configuration for the box service
type BoxServiceConfig struct {
	BoxRepo     BoxRepository
	TeamRepo    TeamRepository
	PokemonRepo PokemonRepository
}

// NewBoxService creates a new box service
func NewBoxService(cfg BoxServiceConfig) *BoxService {
	return &BoxService{
		boxRepo:     cfg.BoxRepo,
		teamRepo:    cfg.TeamRepo,
		pokemonRepo: cfg.PokemonRepo,
	}
}

// CreateBoxRequest represents a box creation request
type CreateBoxRequest struct {
	Name      string `json:"name"`
	TrainerID string `json:"trainer_id,omitempty"` // Optional; defaults to the actor. Admin only otherwise.
}

// CreateBox creates a new storage box
func (s *BoxService) CreateBox(ctx context.Context, actor *model.TokenClaims, req CreateBoxRequest) (*model.Box, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, ErrBoxNameRequired
	}

	trainerID := req.TrainerID
	if trainerID == "" {
		trainerID = actor.TrainerID
	}
	if !actorCanAccess(actor, trainerID) {
		return nil, ErrNotOwner
	}

	box := &model.Box{
		Name:      name,
		TrainerID: trainerID,
	}
	if err := s.boxRepo.Create(ctx, box); err != nil {
		return nil, err
	}
	return box, nil
}

// GetBox retrieves a box by ID
func (s *BoxService) GetBox(ctx context.Context, id string) (*model.Box, error) {
	box, err := s.boxRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if box == nil {
		return nil, ErrBoxNotFound
	}
	return box, nil
}

// GetBoxContents retrieves the pokémon stored in a box
func (s *BoxService) GetBoxContents(ctx context.Context, id string) ([]*model.Pokemon, error) {
	if _, err := s.GetBox(ctx, id); err != nil {
		return nil, err
	}
	return s.pokemonRepo.ListByBox(ctx, id)
}

// ListBoxes retrieves boxes matching the query
func (s *BoxService) ListBoxes(ctx context.Context, query ListQuery) ([]*model.Box, int, error) {
	return s.boxRepo.List(ctx, query)
}

// ListByTrainer retrieves all boxes owned by a trainer
func (s *BoxService) ListByTrainer(ctx context.Context, trainerID string) ([]*model.Box, error) {
	return s.boxRepo.ListByTrainer(ctx, trainerID)
}

// UpdateBoxRequest represents a partial box update
type UpdateBoxRequest struct {
	Name *string `json:"name,omitempty"`
}

// UpdateBox renames a box
func (s *BoxService) UpdateBox(ctx context.Context, actor *model.TokenClaims, id string, req UpdateBoxRequest) (*model.Box, error) {
	box, err := s.getOwned(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	updates := make(map[string]interface{})
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, ErrBoxNameRequired
		}
		updates["name"] = name
	}

	if len(updates) == 0 {
		return box, nil
	}

	updated, err := s.boxRepo.Update(ctx, id, updates)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrBoxNotFound
	}
	return updated, nil
}

// DeleteBox removes a box. Its occupants become unplaced.
func (s *BoxService) DeleteBox(ctx context.Context, actor *model.TokenClaims, id string) error {
	if _, err := s.getOwned(ctx, actor, id); err != nil {
		return err
	}

	deleted, err := s.boxRepo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrBoxNotFound
	}
	return nil
}

// TransferRequest moves a pokémon between storage and active teams
type TransferRequest struct {
	PokemonID   string               `json:"pokemon_id"`
	Destination model.TransferTarget `json:"destination"`
	TargetID    string               `json:"target_id"`
}

// Transfer moves a pokémon into a box or onto a team. A pokémon is never
// in a box and on a team at the same time; the assignment clears the old
// placement as part of the same write.
func (s *BoxService) Transfer(ctx context.Context, actor *model.TokenClaims, req TransferRequest) (*model.Pokemon, error) {
	pokemon, err := s.pokemonRepo.GetByID(ctx, req.PokemonID)
	if err != nil {
		return nil, err
	}
	if pokemon == nil {
		return nil, ErrPokemonNotFound
	}
	if !actorCanAccess(actor, pokemon.TrainerID) {
		return nil, ErrNotOwner
	}

	switch req.Destination {
	case model.TransferTargetBox:
		box, err := s.boxRepo.GetByID(ctx, req.TargetID)
		if err != nil {
			return nil, err
		}
		if box == nil {
			return nil, ErrBoxNotFound
		}
		if box.TrainerID != pokemon.TrainerID {
			return nil, ErrNotOwner
		}

		moved, err := s.pokemonRepo.AssignToBox(ctx, req.PokemonID, req.TargetID)
		if err != nil {
			return nil, err
		}
		if moved == nil {
			return nil, ErrPokemonNotFound
		}
		return moved, nil

	case model.TransferTargetTeam:
		team, err := s.teamRepo.GetByID(ctx, req.TargetID)
		if err != nil {
			return nil, err
		}
		if team == nil {
			return nil, ErrTeamNotFound
		}
		if team.TrainerID != pokemon.TrainerID {
			return nil, ErrNotOwner
		}

		moved, err := s.pokemonRepo.AssignToTeam(ctx, req.PokemonID, req.TargetID)
		if err != nil {
			return nil, mapCapacityError(err)
		}
		if moved == nil {
			return nil, ErrPokemonNotFound
		}
		return moved, nil

	default:
		return nil, ErrInvalidDestination
	}
}

// getOwned fetches a box and enforces the ownership gate
func (s *BoxService) getOwned(ctx context.Context, actor *model.TokenClaims, id string) (*model.Box, error) {
	box, err := s.boxRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if box == nil {
		return nil, ErrBoxNotFound
	}
	if !actorCanAccess(actor, box.TrainerID) {
		return nil, ErrNotOwner
	}
	return box, nil
}
